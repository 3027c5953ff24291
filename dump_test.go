package bvrw_test

import (
	"strings"
	"testing"

	"github.com/benbjohnson/bvrw"
)

func TestDump(t *testing.T) {
	nm := bvrw.NewManager()
	x := nm.MakeVariable(4, "x")
	s := nm.Make(bvrw.MUL, x, nm.One(4))
	a := nm.Make(bvrw.ADD, s, nm.Extract(s, 3, 0))

	out := bvrw.Dump(a)
	if n := strings.Count(out, `"bvmul"`); n != 1 {
		t.Fatalf("unexpected bvmul count: %d\n%s", n, out)
	} else if !strings.Contains(out, `"#b0001"`) {
		t.Fatalf("expected value:\n%s", out)
	} else if !strings.Contains(out, `"x"`) {
		t.Fatalf("expected symbol:\n%s", out)
	} else if strings.Index(out, `"x"`) > strings.Index(out, `"bvmul"`) {
		t.Fatalf("expected children before parents:\n%s", out)
	} else if strings.Index(out, `"extract"`) > strings.Index(out, `"bvadd"`) {
		t.Fatalf("expected children before parents:\n%s", out)
	} else if strings.Contains(out, "0x") {
		t.Fatalf("unexpected pointer address:\n%s", out)
	}

	// Output is stable for the same term.
	if other := bvrw.Dump(a); other != out {
		t.Fatal("expected stable output")
	}
}

func TestDump_Deep(t *testing.T) {
	nm := bvrw.NewManager()
	x := nm.MakeVariable(8, "x")
	a := x
	for i := 0; i < 100000; i++ {
		a = nm.Make(bvrw.ADD, a, nm.One(8))
	}

	out := bvrw.Dump(a)
	if n := strings.Count(out, `"bvadd"`); n != 100000 {
		t.Fatalf("unexpected bvadd count: %d", n)
	} else if n := strings.Count(out, `"#b00000001"`); n != 1 {
		t.Fatalf("unexpected value count: %d", n)
	} else if strings.Index(out, `"x"`) > strings.Index(out, `"bvadd"`) {
		t.Fatal("expected children before parents")
	}
}
