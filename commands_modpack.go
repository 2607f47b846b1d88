package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrModification/pvzf-launcher/internal/launcher"
	"github.com/MrModification/pvzf-launcher/internal/prompt"
)

func newModpackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "modpack",
		Aliases: []string{"modpacks"},
		Short:   "Manage the modpacks of an installation",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List installed modpacks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				l, err := a.open()
				if err != nil {
					return err
				}

				inst, packs, err := l.Modpacks(a.install)
				if err != nil {
					return err
				}
				if len(packs) == 0 {
					a.say(cmd, "No modpacks installed in %s.", inst.Name())
					return nil
				}
				render(cmd.OutOrStdout(), modpacksTable(packs))
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <file.Modpack>",
			Short: "Install a modpack",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				l, err := a.open()
				if err != nil {
					return err
				}
				pc := a.prompts(cmd)

				confirm := func(conflicts []string) bool {
					fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render(
						fmt.Sprintf("Warning: This modpack overwrites %d files:", len(conflicts))))
					for _, f := range launcher.Preview(conflicts, launcher.ConflictPreviewLimit) {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
					}
					return prompt.Confirm("Install anyway?", pc)
				}

				info, err := l.AddModpack(a.install, args[0], confirm)
				if err != nil {
					return err
				}
				a.say(cmd, "Installed modpack %s by %s (%d files)", info.Name, info.Creator, len(info.InstalledFiles))
				return nil
			},
		},
		&cobra.Command{
			Use:     "remove <name>",
			Aliases: []string{"rm"},
			Short:   "Uninstall a modpack",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				l, err := a.open()
				if err != nil {
					return err
				}

				if !prompt.Confirm(fmt.Sprintf("Uninstall modpack %s?", args[0]), a.prompts(cmd)) {
					return launcher.ErrAborted
				}

				info, err := l.RemoveModpack(a.install, args[0])
				if err != nil {
					return err
				}
				a.say(cmd, "Removed modpack %s", info.Name)
				return nil
			},
		},
	)

	return cmd
}
