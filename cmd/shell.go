package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kozaktomas/face-shell/internal/recognizer/opencv"
	"github.com/kozaktomas/face-shell/internal/shell"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Long: `Start the interactive shell. Commands:

  create <EIGEN|FISHER|LBPH> <outputDir>   create a recognizer
  train <directoryPath>                    train on every png/jpg under the directory
  load <modelPath>                         load a saved model into the current recognizer
  save [modelPath]                         save the model (reuses the last path if omitted)
  search <imagePath>                       print the closest label for an image
  exit, quit                               leave the shell

With --script the commands are read from a file, one per line.

Example:
  face-shell shell --database ./db
  face-shell shell --script train.txt`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().String("script", "", "Read commands from a file instead of the terminal")
}

func runShell(cmd *cobra.Command, args []string) error {
	s, cfg, err := newSession(cmd, os.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	if !opencv.Available {
		log.Printf("WARNING: %v", opencv.ErrUnavailable)
	}

	if cfg.Shell.DefaultAlgorithm != "" {
		if err := s.Create(cfg.Shell.DefaultAlgorithm, ""); err != nil {
			return fmt.Errorf("failed to create default recognizer: %w", err)
		}
	}

	var in io.Reader = os.Stdin
	prompt := cfg.Shell.Prompt
	if f := cmd.Flags().Lookup("script"); f != nil && f.Value.String() != "" {
		file, err := os.Open(f.Value.String())
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer file.Close()
		in = file
		prompt = ""
	}

	return shell.New(s, in, os.Stdout, prompt).Run()
}
