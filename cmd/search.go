package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <image>",
	Short: "Find the closest label for an image",
	Long: `Create a recognizer, load a saved model and print the closest match for the
image, without entering the interactive shell.

Example:
  face-shell search ./query.png --algorithm LBPH --model ./out/faces.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("algorithm", "a", "LBPH", "Recognizer the model was trained with: EIGEN, FISHER or LBPH")
	searchCmd.Flags().StringP("model", "m", "", "Path of the saved model")
	_ = searchCmd.MarkFlagRequired("model")
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, _, err := newSession(cmd, os.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Create(mustGetString(cmd, "algorithm"), ""); err != nil {
		return fmt.Errorf("failed to create recognizer: %w", err)
	}
	if err := s.Load(mustGetString(cmd, "model")); err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	if _, err := s.Search(args[0]); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return nil
}
