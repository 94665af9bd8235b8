package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all characters in the dictionary",
	RunE:  listCharacters,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listCharacters(cmd *cobra.Command, args []string) error {
	characters, err := loadDictionary()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d character(s):\n", len(characters))
	for i, character := range characters {
		fmt.Fprintf(out, "  %4d  %s  (%d strokes)\n", i, character.ID, len(character.Strokes))
	}
	return nil
}
