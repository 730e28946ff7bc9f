package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/gitstar/internal/sources"
)

var addDescription string

var addCmd = &cobra.Command{
	Use:   "add <repo>",
	Short: "Add a repository to favorites",
	Long:  "Add a repository (owner/name or GitHub URL) to favorites. Adding an existing favorite does nothing.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := sources.ParseGitHubRepo(args[0])
		if err != nil {
			return err
		}
		repo.Description = addDescription

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.favorites.Add(cmd.Context(), *repo); err != nil {
			return fmt.Errorf("failed to add favorite: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", repo.ID)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <repo>",
	Aliases: []string{"rm"},
	Short:   "Remove a repository from favorites",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := sources.ParseGitHubRepo(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.favorites.Remove(cmd.Context(), repo.ID); err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", repo.ID)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <repo>",
	Short: "Add a repository if absent, remove it otherwise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := sources.ParseGitHubRepo(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		on, err := a.favorites.Toggle(cmd.Context(), *repo)
		if err != nil {
			return fmt.Errorf("failed to toggle favorite: %w", err)
		}
		if on {
			fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", repo.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", repo.ID)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <repo>",
	Short: "Report whether a repository is a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := sources.ParseGitHubRepo(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.favorites.IsFavorite(cmd.Context(), repo.ID)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is a favorite\n", repo.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not a favorite\n", repo.ID)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Repository description")
	rootCmd.AddCommand(addCmd, removeCmd, toggleCmd, checkCmd)
}
