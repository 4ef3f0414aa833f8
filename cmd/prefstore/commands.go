package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/prefstore/internal/app"
	"github.com/dshills/prefstore/internal/prefs/codec"
	"github.com/dshills/prefstore/internal/prefs/key"
	"github.com/dshills/prefstore/internal/prefs/notify"
)

func addTypeFlag(cmd *cobra.Command, typeName *string) {
	cmd.Flags().StringVarP(typeName, "type", "t", "string", "Value type (see \"prefstore types\")")
}

func (c *cli) getCmd() *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := key.Check(args[0]); err != nil {
				return err
			}
			text, err := c.app.Store().GetText(args[0], typeName)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, text)
			return nil
		},
	}
	addTypeFlag(cmd, &typeName)
	return cmd
}

func (c *cli) setCmd() *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Create or replace a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := key.Check(args[0]); err != nil {
				return err
			}
			return c.app.Store().SetText(args[0], typeName, args[1])
		},
	}
	addTypeFlag(cmd, &typeName)
	return cmd
}

func (c *cli) rmCmd() *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a setting",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := key.Check(args[0]); err != nil {
				return err
			}
			return c.app.Store().RemoveText(args[0], typeName)
		},
	}
	addTypeFlag(cmd, &typeName)
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			for _, e := range c.app.Store().Entries() {
				fmt.Fprintf(c.out, "%s (%s) = %s\n", green(e.Name), yellow(e.Type), e.Value)
			}
			return nil
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Store().Clear(true)
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all settings as YAML or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Export(c.out, c.app.Store(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", app.FormatYAML, "Output format: yaml or toml")
	return cmd
}

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print changes made to the settings file by other programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.watch(ctx)
		},
	}
}

func (c *cli) watch(ctx context.Context) error {
	fmt.Fprintf(c.out, "watching %s\n", c.app.Store().Backend().Path())
	return c.app.Watch(ctx, func(changes []notify.Change) {
		printChanges(c.out, changes)
	})
}

func printChanges(out io.Writer, changes []notify.Change) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, ch := range changes {
		switch {
		case ch.OldValue == nil:
			fmt.Fprintf(out, "%s %s (%s) = %v\n", green("+"), ch.Name, ch.Type, ch.NewValue)
		case ch.NewValue == nil:
			fmt.Fprintf(out, "%s %s (%s)\n", red("-"), ch.Name, ch.Type)
		default:
			fmt.Fprintf(out, "%s %s (%s) %v -> %v\n", yellow("~"), ch.Name, ch.Type, ch.OldValue, ch.NewValue)
		}
	}
}

func typesCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:         "types",
		Short:       "List the supported value types",
		Args:        cobra.NoArgs,
		Annotations: standalone,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range codec.Names() {
				fmt.Fprintln(out, name)
			}
		},
	}
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: standalone,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "prefstore %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
