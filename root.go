package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MrModification/pvzf-launcher/internal/audio"
	"github.com/MrModification/pvzf-launcher/internal/config"
	"github.com/MrModification/pvzf-launcher/internal/console"
	"github.com/MrModification/pvzf-launcher/internal/download"
	"github.com/MrModification/pvzf-launcher/internal/launcher"
	"github.com/MrModification/pvzf-launcher/internal/logging"
	"github.com/MrModification/pvzf-launcher/internal/prompt"
	"github.com/MrModification/pvzf-launcher/internal/version"
)

// app carries flag values and lazily opened state for one invocation
type app struct {
	verbosity      int
	quiet          bool
	nonInteractive bool
	assumeYes      bool
	music          bool
	resourceDir    string
	install        string

	exePath string
	in      io.Reader
	stdin   *bufio.Reader

	cfg      *config.Config
	launcher *launcher.Launcher
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{})
}

func newRootCmdWith(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pvzf",
		Short: "Install, patch and launch Plants vs. Zombies Fusion",
		Long: `pvzf manages Plants vs. Zombies Fusion installations: it creates them from
version archives, toggles MelonLoader or BepInEx, installs modpacks and
launches the game.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return err
			}
			logging.Setup(a.cfg.Verbose, a.cfg.LogDir())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			audio.Init(a.cfg.Quiet || a.cfg.NonInteractive)
			if a.cfg.Music {
				if err := audio.PlayMusic(a.cfg.ResourceDir, a.cfg.MusicVolume); err != nil {
					log.Debug().Err(err).Msg("launcher music not started")
				}
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			audio.StopAll()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Suppress progress output")
	flags.BoolVar(&a.nonInteractive, "non-interactive", false, "Never prompt; use defaults")
	flags.BoolVarP(&a.assumeYes, "yes", "y", false, "Answer yes to confirmations")
	flags.BoolVar(&a.music, "music", false, "Play the launcher music while working")
	flags.StringVar(&a.resourceDir, "resource-dir", "", "Folder holding installations.json, the catalog and loader bundles")
	flags.StringVarP(&a.install, "install", "i", "", "Installation to act on (path or name); defaults to the last played")

	rootCmd.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newEditCmd(a),
		newDetectCmd(a),
		newCreateCmd(a),
		newVersionsCmd(a),
		newPatchCmd(a),
		newUnpatchCmd(a),
		newToggleCmd(a),
		newModpackCmd(a),
		newLaunchCmd(a),
		newModsCmd(a),
		newMusicCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// loadConfig resolves configuration with the flags the user actually set on top
func (a *app) loadConfig(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		overrides["verbose"] = a.verbosity
	}
	if flags.Changed("quiet") {
		overrides["quiet"] = a.quiet
	}
	if flags.Changed("non-interactive") {
		overrides["non_interactive"] = a.nonInteractive
	}
	if flags.Changed("yes") {
		overrides["assume_yes"] = a.assumeYes
	}
	if flags.Changed("music") {
		overrides["music"] = a.music
	}
	if flags.Changed("resource-dir") {
		overrides["resource_dir"] = a.resourceDir
	}

	cfg, err := config.Load(config.Options{ExePath: a.exePath, Overrides: overrides})
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// open returns the launcher, loading state on first use
func (a *app) open() (*launcher.Launcher, error) {
	if a.launcher != nil {
		return a.launcher, nil
	}
	l, err := launcher.Open(a.cfg)
	if err != nil {
		return nil, err
	}
	a.launcher = l
	return l, nil
}

// prompts returns the prompt settings. Every prompt of one invocation reads through
// the same buffered reader so piped answers are not lost between prompts.
func (a *app) prompts(cmd *cobra.Command) prompt.Config {
	if a.stdin == nil {
		in := a.in
		if in == nil {
			in = cmd.InOrStdin()
		}
		a.stdin = bufio.NewReader(in)
	}
	return prompt.Config{
		NonInteractive:   a.cfg.NonInteractive,
		AssumeYes:        a.cfg.AssumeYes,
		In:               a.stdin,
		Out:              cmd.OutOrStdout(),
		GetConsoleWindow: console.GetWindow,
	}
}

// say prints a progress line unless --quiet is set
func (a *app) say(cmd *cobra.Command, format string, args ...interface{}) {
	if a.cfg != nil && a.cfg.Quiet {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

// progress reports download progress on stderr, one update per 10%
func (a *app) progress(cmd *cobra.Command) download.ProgressCallback {
	if a.cfg.Quiet {
		return nil
	}
	last := -10
	return func(done, total int64, percentage int) {
		// a new download starts over
		if percentage < last {
			last = -10
		}
		if percentage < last+10 && percentage != 100 {
			return
		}
		last = percentage
		fmt.Fprintf(cmd.ErrOrStderr(), "Downloading... %d%%\n", percentage)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pvzf %s\n", version.String())
			if version.Date != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", version.Date)
			}
		},
	}
}
