package cmd

import (
	"fmt"
	"image"
	"io"

	"github.com/kozaktomas/face-shell/internal/config"
	"github.com/kozaktomas/face-shell/internal/faceimg"
	"github.com/kozaktomas/face-shell/internal/labels"
	"github.com/kozaktomas/face-shell/internal/recognizer/opencv"
	"github.com/kozaktomas/face-shell/internal/session"
	"github.com/spf13/cobra"
)

// sessionOptions merges the environment configuration with the flags the
// operator set explicitly.
func sessionOptions(cmd *cobra.Command, cfg *config.Config) (session.Options, error) {
	opts := session.DefaultOptions()
	opts.Database = cfg.Session.Database
	opts.TemplateSize = image.Pt(cfg.Session.TemplateWidth, cfg.Session.TemplateHeight)
	opts.BatchSize = cfg.Session.BatchSize
	opts.Progress = cfg.Session.Progress

	mode, err := labels.ParseMode(cfg.Session.LabelMode)
	if err != nil {
		return opts, fmt.Errorf("FACESHELL_LABEL_MODE: %w", err)
	}
	opts.LabelMode = mode

	flags := cmd.Flags()
	if flags.Changed("database") {
		opts.Database = mustGetString(cmd, "database")
	}
	if flags.Changed("template-size") {
		size, err := faceimg.ParseSize(mustGetString(cmd, "template-size"))
		if err != nil {
			return opts, err
		}
		opts.TemplateSize = size
	}
	if flags.Changed("batch-size") {
		opts.BatchSize = mustGetInt(cmd, "batch-size")
	}
	if flags.Changed("label-mode") {
		mode, err := labels.ParseMode(mustGetString(cmd, "label-mode"))
		if err != nil {
			return opts, err
		}
		opts.LabelMode = mode
	}
	if mustGetBool(cmd, "no-progress") {
		opts.Progress = false
	}

	return opts, nil
}

// newSession builds a session backed by the OpenCV recognizers.
func newSession(cmd *cobra.Command, out io.Writer) (*session.Session, *config.Config, error) {
	cfg := config.Load()

	opts, err := sessionOptions(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}

	return session.New(opencv.NewFactory(), opts, out), cfg, nil
}
