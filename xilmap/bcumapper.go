// Package xilmap binds XIL opcodes to the functional units in fu,
// implementing xilcore.IXILMapper for the Branch Control Unit and the
// 2-to-1 multiplexer (spec.md §4.4).
package xilmap

import (
	"fmt"

	"github.com/cascadehls/xilcore"
	"github.com/cascadehls/xilcore/fu"
)

// bcuMappingKind tags which of Goto/BranchIfTrue/BranchIfFalse a
// BcuMapping realizes. spec.md §9 asks for a tagged-variant rendering
// of the closed Goto/BranchIf/BranchIfNot hierarchy rather than an
// inheritance tree; bcuMappingKind plus the single BcuMapping struct
// below is that rendering.
type bcuMappingKind int

const (
	bcuGoto bcuMappingKind = iota
	bcuBranchIfTrue
	bcuBranchIfFalse
)

// BcuMapping is the one IXILMapping type for every BCU-realizable
// instruction; Realize switches on kind instead of three separate
// structs implementing a common interface.
type BcuMapping struct {
	site      *fu.BCUTransactionSite
	kind      bcuMappingKind
	addrWidth int
}

var _ xilcore.IXILMapping = (*BcuMapping)(nil)

// Site returns the underlying BCU transaction site.
func (m *BcuMapping) Site() xilcore.ITransactionSite { return m.site }

// ResourceKind reports that BCU operations hold their site exclusively
// for the duration of the branch (spec.md §4.4).
func (m *BcuMapping) ResourceKind() xilcore.ResourceKind { return xilcore.ExclusiveResource }

// InitiationInterval is 1: the BCU accepts a new branch request every
// cycle even while a previous one is still in its latency window
// (spec.md §4.4 — distinct from Latency, the cycles until the new
// address actually appears on out_addr).
func (m *BcuMapping) InitiationInterval() int { return 1 }

// Latency is the number of cycles between issuing a branch and the
// new address appearing on out_addr.
func (m *BcuMapping) Latency() int { return m.site.Latency() }

// Description summarizes the mapping for diagnostics.
func (m *BcuMapping) Description() string {
	switch m.kind {
	case bcuGoto:
		return fmt.Sprintf("BCU goto (addr_width=%d, latency=%d)", m.addrWidth, m.site.Latency())
	case bcuBranchIfTrue:
		return fmt.Sprintf("BCU branch_if_true (addr_width=%d, latency=%d)", m.addrWidth, m.site.Latency())
	default:
		return fmt.Sprintf("BCU branch_if_false (addr_width=%d, latency=%d)", m.addrWidth, m.site.Latency())
	}
}

// Realize returns the verb sequence for one invocation. For Goto,
// operands holds a single signal carrying the target address. For the
// conditional forms, operands holds the condition bit first and the
// target address second. results is unused: the BCU's address output
// is read directly off Site().OutAddr() by whatever consumes it.
func (m *BcuMapping) Realize(operands []xilcore.OperandSink, results []xilcore.ResultSink) ([]xilcore.TAVerb, error) {
	switch m.kind {
	case bcuGoto:
		if len(operands) != 1 {
			return nil, xilcore.NewInvalidConfiguration("BcuMapping.Realize", "goto requires exactly one operand (target address)")
		}
		return m.site.Branch(xilcore.SignalSource(operands[0])), nil
	case bcuBranchIfTrue:
		if len(operands) != 2 {
			return nil, xilcore.NewInvalidConfiguration("BcuMapping.Realize", "branch_if_true requires exactly two operands (cond, target)")
		}
		return m.site.BranchIf(xilcore.SignalSource(operands[0]), xilcore.SignalSource(operands[1])), nil
	default:
		if len(operands) != 2 {
			return nil, xilcore.NewInvalidConfiguration("BcuMapping.Realize", "branch_if_false requires exactly two operands (cond, target)")
		}
		return m.site.BranchIfNot(xilcore.SignalSource(operands[0]), xilcore.SignalSource(operands[1])), nil
	}
}

// BCUMapper maps Goto/BranchIfTrue/BranchIfFalse onto a single,
// already-established BCU host (spec.md §4.4: "bound to a single BCU
// instance host"). It never constructs a BCU itself; the host is
// wired up by the caller before the mapper exists.
type BCUMapper struct {
	site *fu.BCUTransactionSite
}

var _ xilcore.IXILMapper = (*BCUMapper)(nil)

// NewBCUMapper returns a mapper bound to the given, already-established
// BCU transaction site.
func NewBCUMapper(site *fu.BCUTransactionSite) *BCUMapper {
	return &BCUMapper{site: site}
}

// SupportedInstructions lists the branch-family opcodes this mapper realizes.
func (m *BCUMapper) SupportedInstructions() []xilcore.XILName {
	return []xilcore.XILName{xilcore.Goto, xilcore.BranchIfTrue, xilcore.BranchIfFalse}
}

func (m *BCUMapper) kindFor(name xilcore.XILName) (bcuMappingKind, bool) {
	switch name {
	case xilcore.Goto:
		return bcuGoto, true
	case xilcore.BranchIfTrue:
		return bcuBranchIfTrue, true
	case xilcore.BranchIfFalse:
		return bcuBranchIfFalse, true
	default:
		return 0, false
	}
}

func (m *BCUMapper) expectedOperandWidths(kind bcuMappingKind, addrWidth int) []int {
	if kind == bcuGoto {
		return []int{addrWidth}
	}
	return []int{1, addrWidth}
}

// TryMap offers a BcuMapping for instr against site, or nil if site is
// not this mapper's bound BCU or the widths do not fit it (the
// NotApplicable protocol: spec.md §4.4's "try_map yields the
// corresponding mapping iff the site's host is the bound BCU").
func (m *BCUMapper) TryMap(site xilcore.ITransactionSite, instr xilcore.XILInstr, operandWidths, resultWidths []int) ([]xilcore.IXILMapping, error) {
	bcuSite, ok := site.(*fu.BCUTransactionSite)
	if !ok || bcuSite != m.site {
		return nil, nil
	}
	kind, ok := m.kindFor(instr.Name)
	if !ok {
		return nil, nil
	}
	want := m.expectedOperandWidths(kind, bcuSite.AddrWidth())
	if !widthsEqual(operandWidths, want) {
		return nil, nil
	}
	return []xilcore.IXILMapping{&BcuMapping{site: bcuSite, kind: kind, addrWidth: bcuSite.AddrWidth()}}, nil
}

// TryAllocate never creates a new BCU (spec.md §4.4: "try_allocate
// never creates a new BCU; it only returns a mapping on the bound
// host"); it only returns a mapping bound to this mapper's existing
// site once the requested widths are checked against it. Returns nil
// (not an error) if instr is unsupported: a NotApplicable condition,
// not a failure.
func (m *BCUMapper) TryAllocate(host interface{}, instr xilcore.XILInstr, operandWidths, resultWidths []int, project xilcore.IProject) (xilcore.IXILMapping, error) {
	kind, ok := m.kindFor(instr.Name)
	if !ok {
		return nil, nil
	}
	xilcore.DebugBreak("BCUMapper.TryAllocate")
	want := m.expectedOperandWidths(kind, m.site.AddrWidth())
	if !widthsEqual(operandWidths, want) {
		return nil, xilcore.NewInvalidConfiguration("BCUMapper.TryAllocate",
			fmt.Sprintf("operand widths %v do not match this mapper's bound addr_width %d", operandWidths, m.site.AddrWidth()))
	}
	return &BcuMapping{site: m.site, kind: kind, addrWidth: m.site.AddrWidth()}, nil
}

func widthsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
