package xilmap

import (
	"github.com/cascadehls/xilcore"
	"github.com/cascadehls/xilcore/fu"
)

// MUX2Mapping maps a single Select instruction onto a MUX2 site.
type MUX2Mapping struct {
	site  *fu.MUX2TransactionSite
	width int
}

var _ xilcore.IXILMapping = (*MUX2Mapping)(nil)

// Site returns the underlying MUX2 transaction site.
func (m *MUX2Mapping) Site() xilcore.ITransactionSite { return m.site }

// ResourceKind reports that Select may share its site across
// concurrent clients when widths match (spec.md §4.4): MUX2 is
// combinational, so nothing prevents two unrelated Selects issued in
// the same cycle from sharing one instance as long as only one of
// them actually drives it.
func (m *MUX2Mapping) ResourceKind() xilcore.ResourceKind { return xilcore.LightweightResource }

// InitiationInterval is 1: MUX2 is combinational and accepts a new
// selection every cycle.
func (m *MUX2Mapping) InitiationInterval() int { return 1 }

// Latency is 0: the result is available the same cycle it is driven.
func (m *MUX2Mapping) Latency() int { return 0 }

// Description summarizes the mapping for diagnostics.
func (m *MUX2Mapping) Description() string { return "MUX2 select" }

// Realize wires the Select instruction's three XIL operands onto the
// MUX2's a/b/sel ports and the result onto results[0]. Per spec.md
// §9's operand-reordering contract, XIL operand order does not match
// MUX2's hardware port order: a <- operands[1], b <- operands[0],
// sel <- operands[2].
func (m *MUX2Mapping) Realize(operands []xilcore.OperandSink, results []xilcore.ResultSink) ([]xilcore.TAVerb, error) {
	if len(operands) != 3 {
		return nil, xilcore.NewInvalidConfiguration("MUX2Mapping.Realize", "select requires exactly three operands")
	}
	if len(results) != 1 {
		return nil, xilcore.NewInvalidConfiguration("MUX2Mapping.Realize", "select requires exactly one result")
	}
	v := m.site.Select(
		xilcore.SignalSource(operands[1]),
		xilcore.SignalSource(operands[0]),
		xilcore.SignalSource(operands[2]),
		results[0],
	)
	return []xilcore.TAVerb{v}, nil
}

// MUX2Mapper maps Select onto a pool of MUX2 instances, allocating a
// new one per distinct width encountered (spec.md §4.4). Unlike
// BCUMapper's single exclusive host, MUX2's LightweightResource
// mappings make reuse across widths pointless: each width needs its
// own instance, but equal-width requests share one.
type MUX2Mapper struct {
	binder  xilcore.IAutoBinder
	byWidth map[int]*fu.MUX2TransactionSite
}

var _ xilcore.IXILMapper = (*MUX2Mapper)(nil)

// NewMUX2Mapper returns a mapper that establishes any MUX2 it
// allocates through binder.
func NewMUX2Mapper(binder xilcore.IAutoBinder) *MUX2Mapper {
	return &MUX2Mapper{binder: binder, byWidth: make(map[int]*fu.MUX2TransactionSite)}
}

// SupportedInstructions reports that this mapper only realizes Select.
func (m *MUX2Mapper) SupportedInstructions() []xilcore.XILName {
	return []xilcore.XILName{xilcore.Select}
}

// selectWidth validates the XIL operand-width triple for Select:
// (sel_operand, then_operand, else_operand) widths (1, W, W) per
// spec.md §9's "XIL Select convention is Select(sel_operand,
// then_operand, else_operand)" — note this is the XIL-level operand
// order, not the hardware a/b/sel wiring order Realize uses.
func (m *MUX2Mapper) selectWidth(operandWidths []int) (int, bool) {
	if len(operandWidths) != 3 || operandWidths[0] != 1 {
		return 0, false
	}
	if operandWidths[1] != operandWidths[2] {
		return 0, false
	}
	return operandWidths[1], true
}

// TryMap offers a MUX2Mapping for instr against an already-allocated
// site, or nil if site is not a MUX2 or its width does not fit
// (NotApplicable: spec.md §4.4).
func (m *MUX2Mapper) TryMap(site xilcore.ITransactionSite, instr xilcore.XILInstr, operandWidths, resultWidths []int) ([]xilcore.IXILMapping, error) {
	mux2Site, ok := site.(*fu.MUX2TransactionSite)
	if !ok || instr.Name != xilcore.Select {
		return nil, nil
	}
	width, ok := m.selectWidth(operandWidths)
	if !ok || mux2Site.Width() != width {
		return nil, nil
	}
	return []xilcore.IXILMapping{&MUX2Mapping{site: mux2Site, width: width}}, nil
}

// TryAllocate allocates a MUX2 sized to the Select instruction's
// operand width if one does not already exist for that width, and
// returns a mapping bound to it. Returns nil (not an error) if instr
// is not Select or host is the wrong type (NotApplicable).
func (m *MUX2Mapper) TryAllocate(host interface{}, instr xilcore.XILInstr, operandWidths, resultWidths []int, project xilcore.IProject) (xilcore.IXILMapping, error) {
	if instr.Name != xilcore.Select {
		return nil, nil
	}
	k, ok := host.(*xilcore.Kernel)
	if !ok {
		return nil, nil
	}
	width, ok := m.selectWidth(operandWidths)
	if !ok {
		return nil, xilcore.NewInvalidConfiguration("MUX2Mapper.TryAllocate", "select operand widths must be [1, w, w]")
	}
	xilcore.DebugBreak("MUX2Mapper.TryAllocate")
	site, cached := m.byWidth[width]
	if !cached {
		mux, err := fu.NewMUX2(k, width)
		if err != nil {
			return nil, err
		}
		site = fu.NewMUX2TransactionSite(mux)
		if err := site.Establish(m.binder); err != nil {
			return nil, err
		}
		m.byWidth[width] = site
	}
	return &MUX2Mapping{site: site, width: width}, nil
}
