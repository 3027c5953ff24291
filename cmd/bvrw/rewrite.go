package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/benbjohnson/bvrw"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RewriteCommand represents a command for rewriting terms into normal form.
type RewriteCommand struct {
	m     *Main
	stats bool
	dump  bool
}

// NewRewriteCommand returns a new instance of RewriteCommand.
func NewRewriteCommand(m *Main) *RewriteCommand {
	return &RewriteCommand{m: m}
}

// Command returns the cobra command for "rewrite".
func (c *RewriteCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "rewrite terms into normal form",
		Long: `
Reads SMT-LIB declarations and terms from a file, or stdin if no file is
given, and prints the normal form of every term or asserted formula.
`[1:],
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error { return c.Run(cmd.OutOrStdout(), args) },
	}
	cmd.Flags().BoolVar(&c.stats, "stats", false, "print rule application counts")
	cmd.Flags().BoolVar(&c.dump, "dump", false, "print the structure of each result")
	return cmd
}

// Run executes the "rewrite" subcommand.
func (c *RewriteCommand) Run(w io.Writer, args []string) error {
	nm := bvrw.NewManager()
	rw := c.m.NewRewriter(nm)

	if err := c.m.each(nm, args, func(t *bvrw.Term) error {
		u := rw.Rewrite(t)
		if c.dump {
			fmt.Fprint(w, bvrw.Dump(u))
			return nil
		}
		fmt.Fprintln(w, u)
		return nil
	}); err != nil {
		return err
	}

	if c.stats {
		return writeStats(w, rw)
	}
	return nil
}

// EvalCommand represents a command for constant folding terms.
type EvalCommand struct {
	m *Main
}

// NewEvalCommand returns a new instance of EvalCommand.
func NewEvalCommand(m *Main) *EvalCommand {
	return &EvalCommand{m: m}
}

// Command returns the cobra command for "eval".
func (c *EvalCommand) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "eval [file]",
		Short: "fold constant subterms",
		Args:  cobra.MaximumNArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return c.Run(cmd.OutOrStdout(), args) },
	}
}

// Run executes the "eval" subcommand.
func (c *EvalCommand) Run(w io.Writer, args []string) error {
	nm := bvrw.NewManager()
	rw := c.m.NewRewriter(nm)
	return c.m.each(nm, args, func(t *bvrw.Term) error {
		fmt.Fprintln(w, rw.Evaluate(t))
		return nil
	})
}

// each parses the input named by args and calls fn for every term.
func (m *Main) each(nm *bvrw.Manager, args []string, fn func(t *bvrw.Term) error) error {
	r, err := m.open(args)
	if err != nil {
		return err
	}
	defer r.Close()

	p := bvrw.NewParser(r, nm)
	for i := 0; ; i++ {
		t, err := p.Next()
		if err == io.EOF {
			log.WithField("terms", i).Debug("input read")
			return nil
		} else if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
	}
}

// writeStats prints the rule application counts of rw in rule order.
func writeStats(w io.Writer, rw *bvrw.Rewriter) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tCOUNT")
	itr := rw.Stats().Iterator()
	for !itr.Done() {
		id, n, _ := itr.Next()
		fmt.Fprintf(tw, "%s\t%d\n", id, n)
	}
	return tw.Flush()
}
