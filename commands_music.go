package main

import (
	"github.com/spf13/cobra"

	"github.com/MrModification/pvzf-launcher/internal/audio"
)

func newMusicCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "music",
		Short: "Change the launcher music",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <file.wav>",
			Short: "Use a WAV file as the launcher music",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := audio.SetMusic(a.cfg.ResourceDir, args[0]); err != nil {
					return err
				}
				a.say(cmd, "Launcher music changed.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Go back to the default launcher music",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := audio.ResetMusic(a.cfg.ResourceDir); err != nil {
					return err
				}
				a.say(cmd, "Launcher music reset.")
				return nil
			},
		},
	)

	return cmd
}
