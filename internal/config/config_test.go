package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"FACESHELL_DATABASE", "FACESHELL_TEMPLATE_WIDTH", "FACESHELL_TEMPLATE_HEIGHT",
		"FACESHELL_BATCH_SIZE", "FACESHELL_LABEL_MODE", "FACESHELL_PROGRESS",
		"FACESHELL_PROMPT", "FACESHELL_DEFAULT_ALGORITHM",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()

	if cfg.Session.Database != "" {
		t.Errorf("expected empty database, got '%s'", cfg.Session.Database)
	}
	if cfg.Session.TemplateWidth != 512 || cfg.Session.TemplateHeight != 512 {
		t.Errorf("expected 512x512 template, got %dx%d", cfg.Session.TemplateWidth, cfg.Session.TemplateHeight)
	}
	if cfg.Session.BatchSize != 1000 {
		t.Errorf("expected batch size 1000, got %d", cfg.Session.BatchSize)
	}
	if cfg.Session.LabelMode != "filename" {
		t.Errorf("expected filename label mode, got '%s'", cfg.Session.LabelMode)
	}
	if !cfg.Session.Progress {
		t.Error("expected progress to default to true")
	}
	if cfg.Shell.Prompt != "Enter command: " {
		t.Errorf("unexpected prompt '%s'", cfg.Shell.Prompt)
	}
	if cfg.Shell.DefaultAlgorithm != "" {
		t.Errorf("expected no default algorithm, got '%s'", cfg.Shell.DefaultAlgorithm)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FACESHELL_DATABASE", "/var/lib/faces")
	t.Setenv("FACESHELL_TEMPLATE_WIDTH", "128")
	t.Setenv("FACESHELL_TEMPLATE_HEIGHT", "96")
	t.Setenv("FACESHELL_BATCH_SIZE", "50")
	t.Setenv("FACESHELL_LABEL_MODE", "sequential")
	t.Setenv("FACESHELL_PROGRESS", "false")
	t.Setenv("FACESHELL_PROMPT", "faces> ")
	t.Setenv("FACESHELL_DEFAULT_ALGORITHM", "FISHER")

	cfg := Load()

	if cfg.Session.Database != "/var/lib/faces" {
		t.Errorf("unexpected database '%s'", cfg.Session.Database)
	}
	if cfg.Session.TemplateWidth != 128 || cfg.Session.TemplateHeight != 96 {
		t.Errorf("unexpected template %dx%d", cfg.Session.TemplateWidth, cfg.Session.TemplateHeight)
	}
	if cfg.Session.BatchSize != 50 {
		t.Errorf("unexpected batch size %d", cfg.Session.BatchSize)
	}
	if cfg.Session.LabelMode != "sequential" {
		t.Errorf("unexpected label mode '%s'", cfg.Session.LabelMode)
	}
	if cfg.Session.Progress {
		t.Error("expected progress to be disabled")
	}
	if cfg.Shell.Prompt != "faces> " {
		t.Errorf("unexpected prompt '%s'", cfg.Shell.Prompt)
	}
	if cfg.Shell.DefaultAlgorithm != "FISHER" {
		t.Errorf("unexpected default algorithm '%s'", cfg.Shell.DefaultAlgorithm)
	}
}

func TestEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"unset", "", 7},
		{"valid", "42", 42},
		{"zero falls back", "0", 7},
		{"negative falls back", "-3", 7},
		{"garbage falls back", "abc", 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("FACESHELL_TEST_INT", tc.value)
			if got := envInt("FACESHELL_TEST_INT", 7); got != tc.expected {
				t.Errorf("envInt = %d; want %d", got, tc.expected)
			}
		})
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"false", false},
		{"0", false},
		{"TRUE", true},
		{"maybe", true},
	}

	for _, tc := range tests {
		t.Setenv("FACESHELL_TEST_BOOL", tc.value)
		if got := envBool("FACESHELL_TEST_BOOL", true); got != tc.expected {
			t.Errorf("envBool(%q) = %v; want %v", tc.value, got, tc.expected)
		}
	}
}
