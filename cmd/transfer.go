package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportOutput  string
	importReplace bool
	clearYes      bool
)

// exportFilename is the default export target for the given day.
func exportFilename(now time.Time) string {
	return fmt.Sprintf("gitstar-favorites-%s.json", now.UTC().Format("2006-01-02"))
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export favorites as JSON",
	Long:  "Write all favorites to a JSON file that import can read back. Use -o - for stdout.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := a.favorites.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput == "-" {
			fmt.Fprintln(cmd.OutOrStdout(), data)
			return nil
		}
		path := exportOutput
		if path == "" {
			path = exportFilename(time.Now())
		}
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported favorites to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import favorites from a JSON export",
	Long:  "Merge favorites from an export file, keeping existing entries. With --replace the stored list is replaced.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.favorites.Import(cmd.Context(), string(data), !importReplace)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if !res.Success {
			return fmt.Errorf("import failed: %w", res.Err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d favorites imported\n", res.Count)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to delete ALL your favorites? This cannot be undone. [y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.favorites.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All favorites deleted.")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: gitstar-favorites-<date>.json, - for stdout)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace existing favorites instead of merging")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(exportCmd, importCmd, clearCmd)
}
