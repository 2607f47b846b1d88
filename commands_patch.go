package main

import (
	"github.com/spf13/cobra"
)

func newPatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "patch [installation]",
		Short: "Enable the installation's mod loader",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			result, err := l.Patch(a.selector(args))
			if err != nil {
				return err
			}
			how := "installed"
			if result.Restored {
				how = "restored"
			}
			a.say(cmd, "Game patched successfully (%s %s).", result.Installation.LoaderType, how)
			return nil
		},
	}
}

func newUnpatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unpatch [installation]",
		Short: "Disable the installation's mod loader, keeping its files aside",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			if _, err := l.Unpatch(a.selector(args)); err != nil {
				return err
			}
			a.say(cmd, "Game unpatched successfully.")
			return nil
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [installation]",
		Short: "Patch an unpatched installation or unpatch a patched one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			patched, err := l.TogglePatch(a.selector(args))
			if err != nil {
				return err
			}
			if patched {
				a.say(cmd, "Game patched successfully.")
			} else {
				a.say(cmd, "Game unpatched successfully.")
			}
			return nil
		},
	}
}
