// Package fu implements the closed set of functional units this core
// maps XIL instructions onto: the Branch Control Unit and the 2-to-1
// multiplexer (spec.md §4.2/§4.3).
package fu

import (
	"fmt"

	"github.com/cascadehls/xilcore"
)

// BCU is a registered next-address generator: on every rising clock
// edge it either reloads its startup address, advances linearly, or
// branches to an alternate address, per spec.md §4.2's truth table.
// Grounded on hwlib/dff.go's closure-captured register state
// (curOut), generalized from a single bool wire to a LogicVector of
// addr_width bits, plus a second closure-captured shift register
// (rstq) for latency masking.
type BCU struct {
	k *xilcore.Kernel

	addrWidth   int
	startupAddr xilcore.LogicVector
	latency     int

	clk, rst xilcore.In[xilcore.Logic]
	brP, brN xilcore.In[xilcore.Logic]
	altAddr  xilcore.In[xilcore.LogicVector]
	outAddr  xilcore.Out[xilcore.LogicVector]

	established bool
}

// NewBCU allocates a BCU with the given address width, latency and
// startup address. latency < 1 fails with OutOfRange (spec.md §4.2).
func NewBCU(k *xilcore.Kernel, addrWidth, latency int, startupAddr xilcore.LogicVector) (*BCU, error) {
	if latency < 1 {
		return nil, xilcore.NewOutOfRange("BCU latency", latency, "must be >= 1")
	}
	return &BCU{k: k, addrWidth: addrWidth, latency: latency, startupAddr: startupAddr}, nil
}

// preInitialize validates configuration that can only be checked once
// addr_width is known to match startup_addr's declared width (spec.md
// §4.2's pre_initialize step).
func (b *BCU) preInitialize() error {
	if b.startupAddr.Width() != b.addrWidth {
		return xilcore.NewInvalidConfiguration("BCU",
			fmt.Sprintf("startup_addr width %d does not match addr_width %d", b.startupAddr.Width(), b.addrWidth))
	}
	return nil
}

// establish binds the BCU's ports through binder and mounts its
// Component on the owning Kernel. Called once, by
// BCUTransactionSite.Establish.
func (b *BCU) establish(binder xilcore.IAutoBinder) error {
	if err := b.preInitialize(); err != nil {
		return err
	}
	b.clk = xilcore.WrapIn[xilcore.Logic](b.k, binder.Bind(xilcore.UsageClock, "clk", 1, xilcore.Zeros(1)))
	b.rst = xilcore.WrapIn[xilcore.Logic](b.k, binder.Bind(xilcore.UsageReset, "rst", 1, xilcore.Zeros(1)))
	b.brP = xilcore.WrapIn[xilcore.Logic](b.k, binder.Bind(xilcore.UsageInput, "brP", 1, xilcore.Zeros(1)))
	b.brN = xilcore.WrapIn[xilcore.Logic](b.k, binder.Bind(xilcore.UsageInput, "brN", 1, xilcore.Ones(1)))
	b.altAddr = xilcore.WrapIn[xilcore.LogicVector](b.k, binder.Bind(xilcore.UsageInput, "alt_addr", b.addrWidth, xilcore.Zeros(b.addrWidth)))
	b.outAddr = xilcore.WrapOut[xilcore.LogicVector](b.k, binder.Bind(xilcore.UsageOutput, "out_addr", b.addrWidth, b.startupAddr))
	b.k.Register(b.mount())
	b.established = true
	return nil
}

// normBrP resolves spec.md §9's open question on non-'1' brP literals:
// only the literal '1' is treated as asserted.
func normBrP(l xilcore.Logic) xilcore.Logic {
	if l == xilcore.Logic1 {
		return xilcore.Logic1
	}
	return xilcore.Logic0
}

// normBrN resolves the brN counterpart: only the literal '0' is
// treated as asserted-low; anything else (including don't-care) reads
// as deasserted.
func normBrN(l xilcore.Logic) xilcore.Logic {
	if l == xilcore.Logic0 {
		return xilcore.Logic0
	}
	return xilcore.Logic1
}

// shiftRstq advances a latency-mask shift register by one position
// toward the LSB, injecting '0' at the top (spec.md §9's note on the
// "'0'.rstq[L-2:1]" update, generalized so it also holds for the
// width-1 case: the single bit always becomes '0' after one shift).
func shiftRstq(old xilcore.LogicVector) xilcore.LogicVector {
	w := old.Width()
	if w == 0 {
		return old
	}
	nb := xilcore.Zeros(w)
	for i := 0; i <= w-2; i++ {
		nb = nb.WithBit(i, old.Bit(i+1))
	}
	return nb
}

// mount returns the BCU's per-step Component: a combinational output
// drive plus a register update gated on the clk rising edge.
//
// A branch request arriving while the latency mask is still active
// (including the warm-up mask loaded at reset/startup) does not take
// effect immediately: it is latched into pendingTarget and only
// applied once rstq drains, even though the transaction site's own
// verb sequence deasserts brP/brN again after the first cycle
// (spec.md §9's "masked cycles" — the request, not the live wire
// level, is what survives the mask).
func (b *BCU) mount() xilcore.Component {
	reg := b.startupAddr
	var rstq xilcore.LogicVector
	if b.latency > 1 {
		rstq = xilcore.Ones(b.latency - 1)
	}
	var pendingBranch bool
	var pendingTarget xilcore.LogicVector
	return func(k *xilcore.Kernel) {
		k.Set(b.outAddr.ID(), reg)

		if !k.RisingEdge(b.clk.ID()) {
			return
		}

		rst := k.Get(b.rst.ID()).Bit(0)
		if rst == xilcore.Logic1 {
			reg = b.startupAddr
			pendingBranch = false
			if b.latency > 1 {
				rstq = xilcore.Ones(b.latency - 1)
			}
			return
		}

		brP := k.Get(b.brP.ID()).Bit(0)
		brN := k.Get(b.brN.ID()).Bit(0)
		alt := k.Get(b.altAddr.ID())

		if !pendingBranch && (normBrP(brP) == xilcore.Logic1 || normBrN(brN) == xilcore.Logic0) {
			pendingBranch = true
			pendingTarget = alt
		}

		maskActive := b.latency > 1 && rstq.Bit(0) == xilcore.Logic1
		switch {
		case maskActive:
			reg = xilcore.UnsignedFromVector(reg).AddMod1().Value()
		case pendingBranch:
			reg = pendingTarget
			pendingBranch = false
		default:
			reg = xilcore.UnsignedFromVector(reg).AddMod1().Value()
		}
		if b.latency > 1 {
			rstq = shiftRstq(rstq)
		}
	}
}

// BCUTransactionSite is the BCU's transaction-site facade: the verbs
// a scheduler uses to drive a branch, and the idle verb between them
// (spec.md §4.2/§6).
type BCUTransactionSite struct {
	bcu *BCU
}

// NewBCUTransactionSite wraps bcu in a transaction site. Establish
// must still be called before the site is driven.
func NewBCUTransactionSite(bcu *BCU) *BCUTransactionSite {
	return &BCUTransactionSite{bcu: bcu}
}

// Establish binds the BCU's ports and mounts its Component.
func (s *BCUTransactionSite) Establish(binder xilcore.IAutoBinder) error {
	return s.bcu.establish(binder)
}

// DoNothing drives brP to '0' and brN to '1', the neutral (linear
// successor) combination, for one cycle.
func (s *BCUTransactionSite) DoNothing() xilcore.TAVerb {
	return xilcore.MustTAVerb(xilcore.Locked,
		xilcore.Drive{Signal: s.bcu.brP.ID(), Source: xilcore.ConstSource(xilcore.Zeros(1))},
		xilcore.Drive{Signal: s.bcu.brN.ID(), Source: xilcore.ConstSource(xilcore.Ones(1))},
	)
}

// Branch returns the verb sequence for an unconditional jump to
// target: one verb driving brP='1' and alt_addr=target, followed by
// latency-1 DoNothing verbs so the masked cycles are accounted for in
// the returned schedule (spec.md §4.2/§8's BCU-branch-verb-count
// scenario: len(Branch(...)) == latency).
func (s *BCUTransactionSite) Branch(target xilcore.Source) []xilcore.TAVerb {
	first := xilcore.MustTAVerb(xilcore.Locked,
		xilcore.Drive{Signal: s.bcu.brP.ID(), Source: xilcore.ConstSource(xilcore.Ones(1))},
		xilcore.Drive{Signal: s.bcu.brN.ID(), Source: xilcore.ConstSource(xilcore.Zeros(1))},
		xilcore.Drive{Signal: s.bcu.altAddr.ID(), Source: target},
	)
	return s.appendTail(first)
}

// BranchIf returns the verb sequence for a branch taken when cond is
// '1': drives brP from cond and alt_addr=target for one cycle, then
// latency-1 DoNothing verbs. target and cond are Sources rather than
// literals so a mapper can wire them to operand signals it does not
// itself own.
func (s *BCUTransactionSite) BranchIf(cond, target xilcore.Source) []xilcore.TAVerb {
	first := xilcore.MustTAVerb(xilcore.Locked,
		xilcore.Drive{Signal: s.bcu.brP.ID(), Source: cond},
		xilcore.Drive{Signal: s.bcu.brN.ID(), Source: xilcore.ConstSource(xilcore.Ones(1))},
		xilcore.Drive{Signal: s.bcu.altAddr.ID(), Source: target},
	)
	return s.appendTail(first)
}

// BranchIfNot returns the verb sequence for a branch taken when cond
// is '0': drives brN from cond and alt_addr=target for one cycle, then
// latency-1 DoNothing verbs.
func (s *BCUTransactionSite) BranchIfNot(cond, target xilcore.Source) []xilcore.TAVerb {
	first := xilcore.MustTAVerb(xilcore.Locked,
		xilcore.Drive{Signal: s.bcu.brP.ID(), Source: xilcore.ConstSource(xilcore.Zeros(1))},
		xilcore.Drive{Signal: s.bcu.brN.ID(), Source: cond},
		xilcore.Drive{Signal: s.bcu.altAddr.ID(), Source: target},
	)
	return s.appendTail(first)
}

func (s *BCUTransactionSite) appendTail(first xilcore.TAVerb) []xilcore.TAVerb {
	verbs := make([]xilcore.TAVerb, 1, s.bcu.latency)
	verbs[0] = first
	for i := 1; i < s.bcu.latency; i++ {
		verbs = append(verbs, s.DoNothing())
	}
	return verbs
}

// OutAddr returns the signal the BCU drives its next address onto.
func (s *BCUTransactionSite) OutAddr() xilcore.SignalID { return s.bcu.outAddr.ID() }

// AddrWidth returns the BCU's configured address width.
func (s *BCUTransactionSite) AddrWidth() int { return s.bcu.addrWidth }

// Latency returns the BCU's configured latency, in cycles.
func (s *BCUTransactionSite) Latency() int { return s.bcu.latency }
