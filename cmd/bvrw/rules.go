package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/benbjohnson/bvrw"
	"github.com/spf13/cobra"
)

// RulesCommand represents a command for listing the rule catalog.
type RulesCommand struct {
	m *Main
}

// NewRulesCommand returns a new instance of RulesCommand.
func NewRulesCommand(m *Main) *RulesCommand {
	return &RulesCommand{m: m}
}

// Command returns the cobra command for "rules".
func (c *RulesCommand) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "rules [kind...]",
		Short: "list rewrite rules in the order they are tried",
		RunE:  func(cmd *cobra.Command, args []string) error { return c.Run(cmd.OutOrStdout(), args) },
	}
}

// Run executes the "rules" subcommand.
func (c *RulesCommand) Run(w io.Writer, args []string) error {
	var kinds []bvrw.Kind
	for _, name := range args {
		kind, ok := bvrw.ParseKind(name)
		if !ok || kind == bvrw.VALUE || kind == bvrw.VARIABLE {
			return fmt.Errorf("unknown kind: %q", name)
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		kinds = bvrw.Kinds()
	}

	rw := c.m.NewRewriter(bvrw.NewManager())
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tRULE\tLEVEL\tENABLED")
	for _, kind := range kinds {
		for _, id := range bvrw.Rules(kind) {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%v\n", kind, id, bvrw.LookupRule(id).Level, rw.Enabled(id))
		}
	}
	return tw.Flush()
}
