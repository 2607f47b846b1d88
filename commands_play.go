package main

import (
	"github.com/spf13/cobra"
)

func newLaunchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "launch [installation]",
		Aliases: []string{"play"},
		Short:   "Start the game",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			inst, exe, err := l.Launch(a.selector(args))
			if err != nil {
				return err
			}
			a.say(cmd, "Launched %s (%s)", inst.Name(), exe)
			return nil
		},
	}
}

func newModsCmd(a *app) *cobra.Command {
	var noOpen bool

	cmd := &cobra.Command{
		Use:   "mods [installation]",
		Short: "Open the installation's mods folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			dir, err := l.ModsFolder(a.selector(args), !noOpen && !a.cfg.NonInteractive)
			if err != nil {
				return err
			}
			a.say(cmd, "%s", dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noOpen, "print", false, "Only print the folder path")
	return cmd
}
