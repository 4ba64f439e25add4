package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-shell",
	Short: "An interactive shell for training and querying face recognizers",
	Long: `Face Shell drives the OpenCV face recognizers (Eigenfaces, Fisherfaces and
Local Binary Patterns Histograms). Create a recognizer, train it from a
directory of labeled images, save or load the learned model and search for
the closest label of a new image.

Training images are labeled by a trailing -<number> in their file name,
e.g. alice-7.png gets label 7.

Run without a subcommand to start the interactive shell.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("database", "", "Database root, resized templates go to <database>/resized (env FACESHELL_DATABASE)")
	rootCmd.PersistentFlags().String("template-size", "", "Template size as WIDTHxHEIGHT (default 512x512)")
	rootCmd.PersistentFlags().Int("batch-size", 0, "Images loaded per incremental training batch (default 1000)")
	rootCmd.PersistentFlags().String("label-mode", "", "How labels are assigned: filename or sequential")
	rootCmd.PersistentFlags().Bool("no-progress", false, "Print every processed file instead of a progress bar")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
