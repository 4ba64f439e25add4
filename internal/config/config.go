package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Session SessionConfig
	Shell   ShellConfig
}

type SessionConfig struct {
	Database       string // root for resized templates (<database>/resized/), required by train
	TemplateWidth  int    // defaults to 512
	TemplateHeight int    // defaults to 512
	BatchSize      int    // defaults to 1000
	LabelMode      string // "filename" (default) or "sequential"
	Progress       bool   // defaults to true
}

type ShellConfig struct {
	Prompt           string // defaults to "Enter command: "
	DefaultAlgorithm string // recognizer created at startup, empty starts without one
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean.
// Returns the default value if the env var is unset or invalid.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
		return b
	}
	return defaultVal
}

// envString returns the variable or defaultVal when it is unset or empty.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Session: SessionConfig{
			Database:       os.Getenv("FACESHELL_DATABASE"),
			TemplateWidth:  envInt("FACESHELL_TEMPLATE_WIDTH", 512),
			TemplateHeight: envInt("FACESHELL_TEMPLATE_HEIGHT", 512),
			BatchSize:      envInt("FACESHELL_BATCH_SIZE", 1000),
			LabelMode:      envString("FACESHELL_LABEL_MODE", "filename"),
			Progress:       envBool("FACESHELL_PROGRESS", true),
		},
		Shell: ShellConfig{
			Prompt:           envString("FACESHELL_PROMPT", "Enter command: "),
			DefaultAlgorithm: os.Getenv("FACESHELL_DEFAULT_ALGORITHM"),
		},
	}
}
