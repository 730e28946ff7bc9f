package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		prefs, err := a.settings.Load(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "language:     %s\nbutton-style: %s\n", prefs.Language, prefs.ButtonStyle)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference (language: fr|en, button-style: full|compact)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.settings.Set(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings saved")
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.settings.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings reset")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show favorites count and storage used",
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
		data, err := a.favorites.Export(cmd.Context())
		if err != nil {
			return err
		}
		keys, err := a.records.Keys(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Favorites:    %d\nStorage used: %s\nBackend:      %s\nRecords:      %s\n",
			n, formatKB(len(data)), a.cfg.Storage.Backend, strings.Join(keys, ", "))
		return nil
	},
}

func formatKB(size int) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd, statsCmd)
}
