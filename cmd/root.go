package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/LdDl/strokematch/internal/config"
	"github.com/LdDl/strokematch/internal/dictionary"
	"github.com/LdDl/strokematch/strokematch"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	dictPath     string
	settingsPath string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:           "strokematch",
	Short:         "Compare hand-drawn strokes against reference characters",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		if verbose {
			strokematch.SetLogger(logger)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dictPath, "dict", "d", "dictionary.json", "Path to reference dictionary (JSON array or one entry per line)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to settings file (default is user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log search progress to stderr")
}

// Execute runs the command line tool
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, strokematch.ErrMismatchedStrokeCount) {
			fmt.Fprintln(os.Stderr, "cannot compare: stroke count mismatch:", err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadSettings() (*config.Settings, error) {
	path := settingsPath
	if path == "" {
		var err error
		path, err = config.GetSettingsPath()
		if err != nil {
			return nil, errors.Wrap(err, "can't locate settings")
		}
	}
	return config.LoadSettings(path)
}

func loadDictionary() ([]strokematch.Character, error) {
	characters, err := dictionary.LoadFile(dictPath)
	if err != nil {
		return nil, errors.Wrapf(err, "dictionary '%s'", dictPath)
	}
	return characters, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
