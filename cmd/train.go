package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train <directory>",
	Short: "Train a recognizer and save the model",
	Long: `Create a recognizer, train it on every png/jpg under the directory and save
the model, without entering the interactive shell.

Example:
  face-shell train ./faces --algorithm LBPH --model ./out/faces.yml --database ./db
  face-shell train ./faces -a EIGEN -m eigen.xml --label-mode sequential`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().StringP("algorithm", "a", "LBPH", "Recognizer: EIGEN, FISHER or LBPH")
	trainCmd.Flags().StringP("model", "m", "", "Path the trained model is saved to")
	trainCmd.Flags().StringP("output", "o", "", "Output directory to create before training")
	_ = trainCmd.MarkFlagRequired("model")
}

func runTrain(cmd *cobra.Command, args []string) error {
	dir := args[0]

	s, _, err := newSession(cmd, os.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Create(mustGetString(cmd, "algorithm"), mustGetString(cmd, "output")); err != nil {
		return fmt.Errorf("failed to create recognizer: %w", err)
	}

	result, err := s.Train(dir)
	if err != nil {
		return fmt.Errorf("failed to train: %w", err)
	}

	if err := s.Save(mustGetString(cmd, "model")); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}

	fmt.Printf("\nCompleted: %d images in %d batch(es), %d without label\n",
		result.Images, result.Batches, result.Unlabeled)
	return nil
}
