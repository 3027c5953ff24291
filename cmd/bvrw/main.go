package main

import (
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/bvrw"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	m := NewMain()
	if err := m.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// Main represents the program. Options set by global flags are shared by
// every subcommand.
type Main struct {
	Config bvrw.Config

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	configPath string
	level      int
	disabled   []string
	verbose    bool
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{
		Config: bvrw.DefaultConfig(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes the program with the given command line arguments.
func (m *Main) Run(args []string) error {
	root := m.NewRootCommand()
	root.SetArgs(args)
	root.SetIn(m.Stdin)
	root.SetOut(m.Stdout)
	root.SetErr(m.Stderr)
	return root.Execute()
}

// NewRootCommand returns the top-level command with every subcommand attached.
func (m *Main) NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bvrw",
		Short: "Bvrw is a tool for rewriting bit-vector terms.",
		Long: `
Bvrw reads SMT-LIB terms over fixed-width bit-vectors and rewrites them
into a normal form using a catalog of simplification rules.
`[1:],
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return m.configure(cmd) },
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&m.configPath, "config", "c", "", "path to TOML configuration file")
	flags.IntVarP(&m.level, "level", "O", bvrw.DefaultLevel, "rewrite level (0-2)")
	flags.StringSliceVar(&m.disabled, "disable", nil, "rules to disable")
	flags.BoolVarP(&m.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewRewriteCommand(m).Command())
	cmd.AddCommand(NewEvalCommand(m).Command())
	cmd.AddCommand(NewRulesCommand(m).Command())
	cmd.AddCommand(NewCheckCommand(m).Command())
	return cmd
}

// configure loads the configuration file, applies flag overrides and sets up logging.
func (m *Main) configure(cmd *cobra.Command) (err error) {
	if m.configPath != "" {
		if m.Config, err = bvrw.LoadConfig(m.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("level") {
		m.Config.Level = m.level
	}
	if len(m.disabled) > 0 {
		m.Config.Disabled = append(m.Config.Disabled, m.disabled...)
	}
	if err := m.Config.Validate(); err != nil {
		return err
	}

	log.SetOutput(m.Stderr)
	log.SetFormatter(&log.TextFormatter{
		DisableColors:    !isTerminal(m.Stderr),
		DisableTimestamp: true,
	})
	if m.Config.LogLevel != "" {
		level, err := log.ParseLevel(m.Config.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}
	if m.verbose {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

// NewRewriter returns a rewriter for the program configuration.
func (m *Main) NewRewriter(nm *bvrw.Manager) *bvrw.Rewriter {
	return bvrw.NewRewriter(nm, m.Config)
}

// open returns a reader for the named file or stdin if no file is given.
func (m *Main) open(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(m.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// isTerminal returns true if w writes to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
