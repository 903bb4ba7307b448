// Package xilcoretest provides reusable test helpers for driving a
// Kernel one cycle at a time and inspecting the trace, plus a small
// in-memory IAutoBinder test stand-in. Grounded on db47h-hwsim's
// hwtest package (ComparePart's drive/sample loop) and hwsim_test.go's
// trace() stack-dump helper.
package xilcoretest

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/cascadehls/xilcore"
	"github.com/cascadehls/xilcore/internal/portspec"
)

// DumpStack logs err's pkg/errors stack trace via t.Logf, one frame
// per line, if err carries one. Factored out of hwsim_test.go's
// trace() helper.
func DumpStack(t *testing.T, err error) {
	t.Helper()
	if se, ok := err.(interface{ StackTrace() errors.StackTrace }); ok {
		for _, f := range se.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

// Binder is an in-memory IAutoBinder: every Bind call allocates a
// fresh signal, seeded with initial, and records it by name so test
// code can look signals up after establish() without threading IDs
// through by hand. Real binders (out of this core's scope) may
// instead share clk/rst across components; this stand-in always
// allocates distinct signals, which is sufficient for exercising one
// functional unit at a time.
type Binder struct {
	k      *xilcore.Kernel
	byName map[string]xilcore.SignalID
}

// NewBinder returns a Binder that allocates signals on k.
func NewBinder(k *xilcore.Kernel) *Binder {
	return &Binder{k: k, byName: make(map[string]xilcore.SignalID)}
}

// Bind allocates a new signal of the given width seeded with initial,
// and records it under name.
func (b *Binder) Bind(usage xilcore.PortUsage, name string, width int, initial xilcore.LogicVector) xilcore.SignalID {
	id := b.k.Alloc(width)
	b.k.SeedInitial(id, initial)
	b.byName[name] = id
	return id
}

// Lookup returns the signal bound under name, and whether it exists.
func (b *Binder) Lookup(name string) (xilcore.SignalID, bool) {
	id, ok := b.byName[name]
	return id, ok
}

// MustLookup is Lookup but fails t if name was never bound.
func (b *Binder) MustLookup(t *testing.T, name string) xilcore.SignalID {
	t.Helper()
	id, ok := b.byName[name]
	if !ok {
		t.Fatalf("xilcoretest: no signal bound for port %q", name)
	}
	return id
}

// Trace records the per-cycle value of a set of watched signals.
type Trace struct {
	Names  []string
	Values [][]xilcore.LogicVector // Values[cycle][i] corresponds to Names[i]
}

// Drive parses script, then for each cycle it contains: applies the
// cycle's assignments (resolved against binder's bound names) to k,
// steps the kernel once, and records the current value of every
// signal named in watch. Ports named in watch but absent from a given
// cycle's assignment list keep whatever value they were last driven
// to (the kernel's own hold-over semantics).
func Drive(t *testing.T, k *xilcore.Kernel, binder *Binder, script string, watch []string) (*Trace, error) {
	t.Helper()
	return DriveScript(k, binder, script, watch)
}

// DriveScript is Drive without the *testing.T dependency, for callers
// outside of `go test` (the demo CLI's run subcommand).
func DriveScript(k *xilcore.Kernel, binder *Binder, script string, watch []string) (*Trace, error) {
	cycles, err := portspec.Parse(script)
	if err != nil {
		return nil, err
	}
	tr := &Trace{Names: watch}
	for _, cyc := range cycles {
		for _, a := range cyc {
			id, ok := binder.Lookup(a.Name)
			if !ok {
				return nil, errors.Errorf("xilcoretest: stimulus references unbound port %q", a.Name)
			}
			k.Set(id, a.Value)
		}
		k.Step()
		row := make([]xilcore.LogicVector, len(watch))
		for i, name := range watch {
			id, ok := binder.Lookup(name)
			if !ok {
				return nil, errors.Errorf("xilcoretest: watch references unbound port %q", name)
			}
			row[i] = k.Get(id)
		}
		tr.Values = append(tr.Values, row)
	}
	return tr, nil
}
