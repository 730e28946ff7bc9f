package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/user/gitstar/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "gitstar",
	Short: "Local favorites for GitHub repositories",
	Long:  "Bookmark GitHub repositories into a local favorites list, separate from your GitHub stars.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return tui.Run(a.favorites)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: ~/.gitstar)")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: sqlite or bolt (default: sqlite)")
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("backend"))
}
