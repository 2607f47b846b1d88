package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrModification/pvzf-launcher/internal/gamefiles"
	"github.com/MrModification/pvzf-launcher/internal/launcher"
	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/prompt"
)

func newCreateCmd(a *app) *cobra.Command {
	var opts launcher.CreateOptions

	cmd := &cobra.Command{
		Use:   "create [version]",
		Short: "Create a new installation from a game version",
		Long: `Create a new installation under the install root. Archives not given with
--zip, --net6 or --translation are downloaded from the version catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}
			pc := a.prompts(cmd)

			if len(args) == 1 {
				opts.Version = args[0]
			}
			if opts.Version == "" {
				versions := l.Catalog().VersionNames()
				if len(versions) == 0 || a.cfg.NonInteractive {
					return errors.New("a version is required (the catalog lists none to choose from)")
				}
				idx, err := prompt.Choose("Select a version to install", versions, pc)
				if err != nil {
					return err
				}
				opts.Version = versions[idx]
			}

			if opts.Loader == "" && !a.cfg.NonInteractive {
				names := make([]string, len(loader.Types))
				for i, t := range loader.Types {
					names[i] = string(t)
				}
				idx, err := prompt.Choose("Select a loader to package", names, pc)
				if err != nil {
					return err
				}
				opts.Loader = names[idx]
			}

			opts.Confirm = func(conflicts []string) bool {
				fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render(
					fmt.Sprintf("Warning: This modpack overwrites %d files:", len(conflicts))))
				for _, f := range launcher.Preview(conflicts, launcher.ConflictPreviewLimit) {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
				}
				return prompt.Confirm("Continue?", pc)
			}
			opts.Progress = a.progress(cmd)

			a.say(cmd, "Creating %s in %s", opts.Version, l.InstallRoot())
			result, err := l.CreateInstallation(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if result.TranslationApplied {
				a.say(cmd, "Translation mod installed")
			}
			a.say(cmd, "%s", successStyle.Render("Installation completed successfully!"))
			a.say(cmd, "  %s", result.Installation.Path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Loader, "loader", "", "Mod loader: MelonLoader, BepInEx or None")
	flags.StringVar(&opts.VersionZip, "zip", "", "Use a local version zip instead of downloading")
	flags.StringVar(&opts.Modpack, "modpack", "", "Install a .Modpack file after creating")
	flags.StringVar(&opts.Language, "language", "", "Game language (MelonLoader only); "+languageHelp())
	flags.StringVar(&opts.Net6Zip, "net6", "", "Local net6.zip for the translation mod")
	flags.StringVar(&opts.TranslationZip, "translation", "", "Local TranslationMod.zip")
	return cmd
}

func languageHelp() string {
	keys := make([]string, len(gamefiles.Languages))
	for i, l := range gamefiles.Languages {
		keys[i] = l.Key
	}
	return strings.Join(keys, ", ")
}

func newVersionsCmd(a *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List the game versions in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.open()
			if err != nil {
				return err
			}

			if refresh {
				if err := l.RefreshCatalog(cmd.Context()); err != nil {
					return err
				}
			}

			names := l.Catalog().VersionNames()
			if len(names) == 0 {
				a.say(cmd, "The catalog (%s) lists no versions.", a.cfg.CatalogFile)
				return nil
			}

			t := newTable("Version", "Download", "net6", "Translation")
			for _, name := range names {
				entry, _ := l.Catalog().Lookup(name)
				t.Row(name, yesNo(entry.DownloadUrl != ""), yesNo(entry.Net6DownloadUrl != ""),
					yesNo(entry.TranslationModDownloadUrl != "" || l.Catalog().TranslationMod != ""))
			}
			render(cmd.OutOrStdout(), t)
			a.say(cmd, "Install root: %s", l.InstallRoot())
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download the catalog from catalog_url first")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
