package main

import (
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/bvrw"
	"github.com/benbjohnson/bvrw/z3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CheckCommand represents a command for verifying rewrites with Z3.
type CheckCommand struct {
	m       *Main
	timeout time.Duration
}

// NewCheckCommand returns a new instance of CheckCommand.
func NewCheckCommand(m *Main) *CheckCommand {
	return &CheckCommand{m: m}
}

// Command returns the cobra command for "check".
func (c *CheckCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "prove each term equivalent to its normal form",
		Long: `
Rewrites every term in the input and uses Z3 to prove the result is
equivalent to the original term. Exits with an error on the first term
whose normal form is not equivalent.
`[1:],
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error { return c.Run(cmd.OutOrStdout(), args) },
	}
	cmd.Flags().DurationVar(&c.timeout, "timeout", 10*time.Second, "solver timeout per term")
	return cmd
}

// Run executes the "check" subcommand.
func (c *CheckCommand) Run(w io.Writer, args []string) error {
	checker := z3.NewChecker(c.timeout)
	defer checker.Close()

	nm := bvrw.NewManager()
	rw := c.m.NewRewriter(nm)

	var n int
	if err := c.m.each(nm, args, func(t *bvrw.Term) error {
		u := rw.Rewrite(t)
		ok, err := checker.Equivalent(t, u)
		if err != nil {
			return fmt.Errorf("check %s: %w", t, err)
		} else if !ok {
			return fmt.Errorf("not equivalent: %s -> %s", t, u)
		}
		n++
		return nil
	}); err != nil {
		return err
	}

	stats := checker.Stats()
	log.WithFields(log.Fields{
		"checks":  stats.CheckN,
		"elapsed": stats.CheckTime,
	}).Debug("check complete")
	fmt.Fprintf(w, "%d terms ok\n", n)
	return nil
}
