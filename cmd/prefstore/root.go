package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/prefstore/internal/app"
)

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	opts app.Options
	app  *app.Application
	out  io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:   "prefstore",
		Short: "Inspect and edit a typed settings file",
		Long: "prefstore reads and writes the typed key/value settings file used by\n" +
			"applications built on the prefs package.\n\n" +
			"Every setting is addressed by a name and a type, so \"volume\" as an int\n" +
			"and \"volume\" as a string are different settings.\n",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			a, err := app.New(c.opts)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Shutdown(true)
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.opts.ConfigPath, "config", "c", "", "Path to configuration file")
	flags.StringVarP(&c.opts.File, "file", "f", "", "Settings file (default from config)")
	flags.StringVar(&c.opts.Backend, "backend", "", "Storage backend: file or bolt")
	flags.BoolVar(&c.opts.NoAutosave, "no-autosave", false, "Write the settings file once on exit instead of after every change")
	flags.StringVar(&c.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		c.getCmd(),
		c.setCmd(),
		c.rmCmd(),
		c.listCmd(),
		c.clearCmd(),
		c.exportCmd(),
		c.watchCmd(),
		typesCmd(out),
		versionCmd(out),
	)
	return root
}

// standalone marks a command that does not open the store.
var standalone = map[string]string{"standalone": "true"}

// needsStore reports whether cmd operates on the settings store. Cobra's
// generated help and completion commands do not.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["standalone"] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion":
			return false
		}
	}
	return true
}
