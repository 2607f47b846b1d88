package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrModification/pvzf-launcher/internal/launcher"
	"github.com/MrModification/pvzf-launcher/internal/prompt"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered installations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			items := l.Installations()
			if len(items) == 0 {
				a.say(cmd, "No installations yet. Use 'pvzf add <folder>' or 'pvzf create <version>'.")
				return nil
			}

			current, _ := l.Current(a.install)
			render(cmd.OutOrStdout(), installationsTable(items, current))
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var browse bool

	cmd := &cobra.Command{
		Use:   "add [folder]",
		Short: "Register an existing game folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			if browse || dir == "" {
				if a.cfg.NonInteractive && dir == "" {
					return errors.New("a folder is required in non-interactive mode")
				}
				dir, err = prompt.SelectFolder(dir, a.prompts(cmd))
				if err != nil {
					return err
				}
			}

			inst, err := l.AddExisting(dir)
			if err != nil {
				return err
			}
			a.say(cmd, "Added %s (%s, %s)", inst.Name(), inst.LoaderType, inst.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&browse, "browse", false, "Pick the folder with a dialog")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove [installation]",
		Aliases: []string{"rm"},
		Short:   "Forget an installation (files stay on disk)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			inst, err := l.Current(a.selector(args))
			if err != nil {
				return err
			}
			if !prompt.Confirm(fmt.Sprintf("Remove %s from the list?", inst.Name()), a.prompts(cmd)) {
				return launcher.ErrAborted
			}

			if _, err := l.Remove(inst.Path); err != nil {
				return err
			}
			a.say(cmd, "Removed %s", inst.Name())
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var opts launcher.EditOptions

	cmd := &cobra.Command{
		Use:   "edit [installation]",
		Short: "Rename, move or change the loader of an installation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("name") && strings.TrimSpace(opts.Name) == "" {
				return launcher.ErrEmptyName
			}
			if opts.Name == "" && opts.Path == "" && opts.Loader == "" {
				return errors.New("nothing to change: use --name, --path or --loader")
			}

			l, err := a.open()
			if err != nil {
				return err
			}

			inst, err := l.Edit(a.selector(args), opts)
			if errors.Is(err, launcher.ErrUnpatchFirst) {
				return fmt.Errorf("%w (run 'pvzf unpatch' first)", err)
			}
			if err != nil {
				return err
			}
			a.say(cmd, "Saved %s (%s, %s)", inst.Name(), inst.LoaderType, inst.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "New display name")
	cmd.Flags().StringVar(&opts.Path, "path", "", "New game folder")
	cmd.Flags().StringVar(&opts.Loader, "loader", "", "New loader type (MelonLoader, BepInEx, None)")
	return cmd
}

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Find the game folder from the game's Player.log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			// Open already registers what it finds; this reports the result
			dir, _, err := l.AutoDetect()
			if err != nil {
				return err
			}
			if dir == "" {
				a.say(cmd, "No game folder found in %s", a.cfg.PlayerLog)
				return nil
			}
			if _, err := l.Current(dir); err != nil {
				a.say(cmd, "Found %s, but the folder no longer exists", dir)
				return nil
			}
			a.say(cmd, "Game folder %s is registered", dir)
			return nil
		},
	}
}

// selector picks the installation named by a positional argument, falling back to --install
func (a *app) selector(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.install
}
