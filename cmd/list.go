package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/gitstar/internal/favorites"
)

var (
	jsonOutput      bool
	plaintextOutput bool
)

var listCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls", "search"},
	Short:   "List favorites",
	Long:    "List favorites, most recently added first, optionally filtered by name, owner or description.",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		favs, err := a.favorites.GetAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list favorites: %w", err)
		}
		results := favorites.Filter(favorites.SortByRecent(favs), query)

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, results)
		}
		if plaintextOutput {
			return outputPlaintext(out, results)
		}
		return outputDefault(out, results)
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.favorites.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func outputJSON(w io.Writer, results []favorites.Favorite) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputPlaintext(w io.Writer, results []favorites.Favorite) error {
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.URL, r.AddedAt)
	}
	return nil
}

func outputDefault(w io.Writer, results []favorites.Favorite) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No favorites found.")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, r.ID, r.URL)
		if r.Description != "" {
			fmt.Fprintf(w, "   %s\n", truncate(r.Description, 100))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func init() {
	listCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	listCmd.Flags().BoolVarP(&plaintextOutput, "plaintext", "p", false, "Output as plaintext")
	rootCmd.AddCommand(listCmd, countCmd)
}
