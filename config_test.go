package bvrw_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benbjohnson/bvrw"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeConfig(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		config, err := bvrw.DecodeConfig(strings.NewReader(""))
		if err != nil {
			t.Fatal(err)
		} else if diff := cmp.Diff(bvrw.DefaultConfig(), config); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("OK", func(t *testing.T) {
		config, err := bvrw.DecodeConfig(strings.NewReader(`
level = 1
disabled_rules = ["not_not", "add_same", "not_not"]
log_level = "debug"
`))
		if err != nil {
			t.Fatal(err)
		} else if diff := cmp.Diff(bvrw.Config{
			Level:    bvrw.LevelSimple,
			Disabled: []string{"add_same", "not_not"},
			LogLevel: "debug",
		}, config); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("LevelNone", func(t *testing.T) {
		config, err := bvrw.DecodeConfig(strings.NewReader("level = 0\n"))
		if err != nil {
			t.Fatal(err)
		} else if config.Level != bvrw.LevelNone {
			t.Fatalf("unexpected level: %d", config.Level)
		}
	})

	t.Run("ErrUnknownKey", func(t *testing.T) {
		if _, err := bvrw.DecodeConfig(strings.NewReader("levels = 1\n")); err == nil || err.Error() != `unknown config key: levels` {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrInvalidLevel", func(t *testing.T) {
		if _, err := bvrw.DecodeConfig(strings.NewReader("level = 3\n")); !errors.Is(err, bvrw.ErrInvalidLevel) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrUnknownRule", func(t *testing.T) {
		if _, err := bvrw.DecodeConfig(strings.NewReader(`disabled_rules = ["and_idem9"]`)); !errors.Is(err, bvrw.ErrUnknownRule) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrLogLevel", func(t *testing.T) {
		if _, err := bvrw.DecodeConfig(strings.NewReader(`log_level = "loud"`)); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("ErrSyntax", func(t *testing.T) {
		if _, err := bvrw.DecodeConfig(strings.NewReader("level = \n")); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bvrw.toml")
		if err := os.WriteFile(path, []byte("disabled_rules = [\"EVAL\"]\n"), 0666); err != nil {
			t.Fatal(err)
		}

		config, err := bvrw.LoadConfig(path)
		if err != nil {
			t.Fatal(err)
		} else if diff := cmp.Diff([]string{"EVAL"}, config.Disabled); diff != "" {
			t.Fatal(diff)
		}

		// Rule names are case insensitive.
		if rw := bvrw.NewRewriter(bvrw.NewManager(), config); rw.Enabled(bvrw.EVAL) {
			t.Fatal("expected eval to be disabled")
		}
	})

	t.Run("ErrNotExist", func(t *testing.T) {
		if _, err := bvrw.LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !os.IsNotExist(err) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrInvalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bvrw.toml")
		if err := os.WriteFile(path, []byte("level = -1\n"), 0666); err != nil {
			t.Fatal(err)
		}
		if _, err := bvrw.LoadConfig(path); !errors.Is(err, bvrw.ErrInvalidLevel) {
			t.Fatalf("unexpected error: %v", err)
		} else if !strings.HasPrefix(err.Error(), path+": ") {
			t.Fatalf("unexpected error: %s", err)
		}
	})
}
