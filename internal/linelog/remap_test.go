package linelog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func remap(t *testing.T, log LineLog, mapping map[Rev]Rev) LineLog {
	t.Helper()
	out, err := log.RemapRevs(mapping)
	if err != nil {
		t.Fatalf("RemapRevs(%v): %v", mapping, err)
	}
	return out
}

func TestRemapMaxRev(t *testing.T) {
	up := remap(t, logFromTexts(t, "a", "b"), map[Rev]Rev{1: 10})
	if up.MaxRev() != 10 {
		t.Errorf("MaxRev after 1->10 = %d, want 10", up.MaxRev())
	}

	down := remap(t, recordAt(t, newTestLog(t), 10, "a\n"), map[Rev]Rev{10: 5})
	if down.MaxRev() != 5 {
		t.Errorf("MaxRev after 10->5 = %d, want 5", down.MaxRev())
	}
	if got := checkout(t, down, 5); got != "a\n" {
		t.Errorf("Checkout(5) = %q", got)
	}
}

func TestRemapInvalidatesCheckout(t *testing.T) {
	log := logFromTexts(t, "b\n", "b\nc\n", "a\nb\nc\n")
	if got := checkout(t, log, 2); got != "b\nc\n" {
		t.Fatalf("Checkout(2) = %q", got)
	}
	remapped := remap(t, log, map[Rev]Rev{2: 3, 3: 2})
	if remapped.Program() == log.Program() {
		t.Fatal("RemapRevs should produce a new program")
	}
	if got := checkout(t, remapped, 2); got == "b\nc\n" {
		t.Errorf("Checkout(2) after swap still %q", got)
	}
	if got := checkout(t, log, 2); got != "b\nc\n" {
		t.Errorf("original Checkout(2) = %q after remap", got)
	}
}

func TestRemapReorder(t *testing.T) {
	log := remap(t, logFromTexts(t, "b\n", "b\nc\n", "a\nb\nc\n"), map[Rev]Rev{2: 3, 3: 2})

	want := map[Rev]string{1: "b\n", 2: "a\nb\n", 3: "a\nb\nc\n"}
	for rev, text := range want {
		if got := checkout(t, log, rev); got != text {
			t.Errorf("Checkout(%d) = %q, want %q", rev, got, text)
		}
	}
	wantLines := []Line{
		{Data: "a\n", Rev: 2},
		{Data: "b\n", Rev: 1},
		{Data: "c\n", Rev: 3},
		{Data: "", Rev: 0},
	}
	if diff := cmp.Diff(wantLines, checkoutLines(t, log, 3), ignorePC); diff != "" {
		t.Errorf("CheckoutLines(3) mismatch (-want +got):\n%s", diff)
	}
}

func TestRemapMerge(t *testing.T) {
	log := remap(t, logFromTexts(t, "b\n", "b\nc\n", "a\nb\nc\n"), map[Rev]Rev{2: 1})

	want := map[Rev]string{1: "b\nc\n", 2: "b\nc\n", 3: "a\nb\nc\n"}
	for rev, text := range want {
		if got := checkout(t, log, rev); got != text {
			t.Errorf("Checkout(%d) = %q, want %q", rev, got, text)
		}
	}
	if log.MaxRev() != 3 {
		t.Errorf("MaxRev = %d, want 3", log.MaxRev())
	}
}

func TestRemapInsert(t *testing.T) {
	log := remap(t, logFromTexts(t, "b\n", "b\nc\n"), map[Rev]Rev{2: 3})
	log = recordAt(t, log, 2, "a\nb\n")
	if got := checkout(t, log, 3); got != "a\nb\nc\n" {
		t.Errorf("Checkout(3) = %q, want %q", got, "a\nb\nc\n")
	}
}

func TestRemapIgnoresDependencies(t *testing.T) {
	// Rev 2 inserts "b" between lines of rev 1; swapping them is allowed.
	log := remap(t, logFromTexts(t, "a\nc\n", "a\nb\nc\n"), map[Rev]Rev{1: 2, 2: 1})
	if got := checkout(t, log, 1); got != "" {
		t.Errorf("Checkout(1) = %q, want empty", got)
	}
	if got := checkout(t, log, 2); got != "a\nb\nc\n" {
		t.Errorf("Checkout(2) = %q", got)
	}
}

func TestRemapIdentity(t *testing.T) {
	log := logFromTexts(t, "a\n", "a\nb\n")
	same := remap(t, log, nil)
	if same.Program() == log.Program() {
		t.Error("RemapRevs should always produce a new program")
	}
	if !same.Equal(log) {
		t.Error("empty mapping should keep the log equal")
	}
}

func TestRemapInvalid(t *testing.T) {
	log := logFromTexts(t, "a\n")
	for _, mapping := range []map[Rev]Rev{{-1: 1}, {1: -1}} {
		if _, err := log.RemapRevs(mapping); !errors.Is(err, ErrInvalidRemap) {
			t.Errorf("RemapRevs(%v) error = %v, want ErrInvalidRemap", mapping, err)
		}
	}
}
