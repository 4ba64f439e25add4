package cmd

import (
	"image"
	"testing"

	"github.com/kozaktomas/face-shell/internal/config"
	"github.com/kozaktomas/face-shell/internal/labels"
	"github.com/spf13/cobra"
)

func newFlagCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().String("database", "", "")
	c.Flags().String("template-size", "", "")
	c.Flags().Int("batch-size", 0, "")
	c.Flags().String("label-mode", "", "")
	c.Flags().Bool("no-progress", false, "")
	return c
}

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			Database:       "/env/db",
			TemplateWidth:  512,
			TemplateHeight: 512,
			BatchSize:      1000,
			LabelMode:      "filename",
			Progress:       true,
		},
	}
}

func TestSessionOptionsFromConfig(t *testing.T) {
	opts, err := sessionOptions(newFlagCommand(), testConfig())
	if err != nil {
		t.Fatalf("sessionOptions failed: %v", err)
	}

	if opts.Database != "/env/db" {
		t.Errorf("Database = %s", opts.Database)
	}
	if opts.TemplateSize != image.Pt(512, 512) {
		t.Errorf("TemplateSize = %v", opts.TemplateSize)
	}
	if opts.BatchSize != 1000 || opts.LabelMode != labels.FilenameMode || !opts.Progress {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestSessionOptionsFlagsOverride(t *testing.T) {
	c := newFlagCommand()
	for name, value := range map[string]string{
		"database":      "/flag/db",
		"template-size": "64x48",
		"batch-size":    "10",
		"label-mode":    "sequential",
		"no-progress":   "true",
	} {
		if err := c.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}

	opts, err := sessionOptions(c, testConfig())
	if err != nil {
		t.Fatalf("sessionOptions failed: %v", err)
	}

	if opts.Database != "/flag/db" {
		t.Errorf("Database = %s", opts.Database)
	}
	if opts.TemplateSize != image.Pt(64, 48) {
		t.Errorf("TemplateSize = %v", opts.TemplateSize)
	}
	if opts.BatchSize != 10 {
		t.Errorf("BatchSize = %d", opts.BatchSize)
	}
	if opts.LabelMode != labels.SequentialMode {
		t.Errorf("LabelMode = %v", opts.LabelMode)
	}
	if opts.Progress {
		t.Error("--no-progress should disable the progress bar")
	}
}

func TestSessionOptionsInvalid(t *testing.T) {
	c := newFlagCommand()
	if err := c.Flags().Set("template-size", "big"); err != nil {
		t.Fatal(err)
	}
	if _, err := sessionOptions(c, testConfig()); err == nil {
		t.Error("expected error for invalid template size")
	}

	cfg := testConfig()
	cfg.Session.LabelMode = "alphabetical"
	if _, err := sessionOptions(newFlagCommand(), cfg); err == nil {
		t.Error("expected error for invalid label mode")
	}
}
