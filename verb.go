package xilcore

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// Mode is a TAVerb's occupancy mode.
type Mode int

const (
	// Locked forbids any other verb on the same site for that cycle.
	Locked Mode = iota
	// Shared permits concurrent use of the site across clients for
	// the same cycle. The functional units in fu build only Locked
	// verbs; MUX2's sharing is expressed by its mapping's
	// LightweightResource kind instead.
	Shared
)

// Drive binds one Signal to a Source for exactly one cycle.
type Drive struct {
	Signal SignalID
	Source Source
}

// Source produces the LogicVector a Drive applies to its Signal. It is
// usually a closure over an operand signal (hwsim's MountFn-returned
// Components play the same role: a thunk evaluated against kernel
// state at drive time).
type Source func(k *Kernel) LogicVector

// ConstSource returns a Source that always yields v, for verbs that
// drive a literal (e.g. BCU.do_nothing's brN <- '1').
func ConstSource(v LogicVector) Source {
	return func(*Kernel) LogicVector { return v }
}

// SignalSource returns a Source that forwards another signal's current value.
func SignalSource(id SignalID) Source {
	return func(k *Kernel) LogicVector { return k.Get(id) }
}

// TAVerb is one cycle's worth of signal drives, grouped under a Mode
// (spec.md §3). Construct with NewTAVerb, which validates the "one
// binding per signal per verb" invariant using a bitset keyed by
// SignalID rather than a map, since the drive set is usually small and
// the check runs once per verb at construction time, not per step.
type TAVerb struct {
	Mode   Mode
	Drives []Drive
}

// NewTAVerb builds a TAVerb from its mode and drives, failing if two
// drives in the same verb target the same signal (the "drives is an
// unordered SET of (signal, source) pairs" invariant from spec.md §3 —
// a verb cannot bind one signal twice in the same cycle).
func NewTAVerb(mode Mode, drives ...Drive) (TAVerb, error) {
	seen := bitset.New(uint(len(drives)))
	for _, d := range drives {
		idx := uint(d.Signal)
		if seen.Test(idx) {
			return TAVerb{}, errors.Errorf("xilcore: verb drives signal %d more than once", d.Signal)
		}
		seen.Set(idx)
	}
	cp := make([]Drive, len(drives))
	copy(cp, drives)
	return TAVerb{Mode: mode, Drives: cp}, nil
}

// MustTAVerb is NewTAVerb but panics on error; used by functional units
// building fixed, statically-known-distinct drive sets (their own
// invariant, unlike dynamically assembled ones).
func MustTAVerb(mode Mode, drives ...Drive) TAVerb {
	v, err := NewTAVerb(mode, drives...)
	if err != nil {
		panic(err)
	}
	return v
}

// Apply runs every drive in the verb against k for the current cycle.
func (v TAVerb) Apply(k *Kernel) {
	for _, d := range v.Drives {
		k.Set(d.Signal, d.Source(k))
	}
}

// PortUsage classifies a named port for IAutoBinder.Bind (spec.md §6).
type PortUsage int

const (
	// UsageInput is a combinational or registered input port.
	UsageInput PortUsage = iota
	// UsageOutput is an output port the component drives.
	UsageOutput
	// UsageClock is the component's clock port.
	UsageClock
	// UsageReset is the component's synchronous reset port.
	UsageReset
)

// IAutoBinder is consulted by a transaction site's establish() to
// obtain a signal for each named port the component exposes (spec.md
// §6). Out-of-scope collaborators implement this; the core only calls
// through it.
type IAutoBinder interface {
	// Bind returns the SignalID to use for a named port of the given
	// usage and width, seeded with initial if the binder allocates a
	// fresh signal (it may also return an existing shared signal, e.g.
	// for clk/rst fan-out).
	Bind(usage PortUsage, name string, width int, initial LogicVector) SignalID
}

// ITransactionSite is the per-functional-unit facade that produces
// per-cycle verbs binding the unit's ports (spec.md §6/glossary).
// Component-specific verbs (BCU's branch/branch_if/branch_if_not, MUX2's
// select) are declared on the concrete site types in the fu package;
// this interface covers the operations every site shares.
type ITransactionSite interface {
	// Establish binds the site's ports through binder and registers
	// the component's Components with the owning Kernel. Must be
	// called exactly once, after the component's configuration is
	// final (spec.md §3's initialize lifecycle step).
	Establish(binder IAutoBinder) error
	// DoNothing returns the idle verb: a Locked verb that drives the
	// component's inputs to their neutral values for one cycle.
	DoNothing() TAVerb
}
