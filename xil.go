package xilcore

// BranchLabel is an opaque handle to an instruction address identified
// by its c-step (spec.md's "Branch label").
type BranchLabel struct {
	cStep int
}

// NewBranchLabel wraps a non-negative c-step as a BranchLabel. Negative
// values fail with OutOfRange.
func NewBranchLabel(cStep int) (BranchLabel, error) {
	if cStep < 0 {
		return BranchLabel{}, NewOutOfRange("BranchLabel c_step", cStep, "must be >= 0")
	}
	return BranchLabel{cStep: cStep}, nil
}

// CStep returns the label's instruction address.
func (b BranchLabel) CStep() int { return b.cStep }

// XILName identifies the opcode family of a XILInstr.
type XILName int

// Recognized XIL opcodes in this core (spec.md §3).
const (
	Goto XILName = iota
	BranchIfTrue
	BranchIfFalse
	Select
)

func (n XILName) String() string {
	switch n {
	case Goto:
		return "Goto"
	case BranchIfTrue:
		return "BranchIfTrue"
	case BranchIfFalse:
		return "BranchIfFalse"
	case Select:
		return "Select"
	default:
		return "XILInstr(?)"
	}
}

// XILInstr is an abstract instruction: a name plus an optional operand
// (a branch label for the branch family; absent for Select).
type XILInstr struct {
	Name    XILName
	Operand *BranchLabel
}

// NewGoto builds an unconditional-jump XILInstr targeting label.
func NewGoto(label BranchLabel) XILInstr { return XILInstr{Name: Goto, Operand: &label} }

// NewBranchIfTrue builds a branch-if-true XILInstr targeting label.
func NewBranchIfTrue(label BranchLabel) XILInstr {
	return XILInstr{Name: BranchIfTrue, Operand: &label}
}

// NewBranchIfFalse builds a branch-if-false XILInstr targeting label.
func NewBranchIfFalse(label BranchLabel) XILInstr {
	return XILInstr{Name: BranchIfFalse, Operand: &label}
}

// NewSelect builds a Select XILInstr. Select carries no operand; its
// data operands are supplied positionally at Realize time (spec.md §9).
func NewSelect() XILInstr { return XILInstr{Name: Select} }

// ResourceKind classifies how exclusively a mapping occupies its site.
type ResourceKind int

const (
	// ExclusiveResource mappings (e.g. a branch on the BCU) occupy
	// their site for the full latency of the operation.
	ExclusiveResource ResourceKind = iota
	// LightweightResource mappings (e.g. MUX2's select) may share
	// their site across concurrent clients when widths match.
	LightweightResource
)

// OperandSink and ResultSink let IXILMapping.Realize reach the
// kernel-level signals a scheduler has already bound for this
// instruction's operands/results, without the mapping needing to know
// how those signals were allocated.
type OperandSink = SignalID
type ResultSink = SignalID

// IXILMapping bundles everything a scheduler needs to commit to one way
// of realizing a XILInstr on an already-selected site (spec.md §3/§4.4).
type IXILMapping interface {
	// Site returns the transaction site this mapping realizes on.
	Site() ITransactionSite
	// ResourceKind reports how this mapping shares its site.
	ResourceKind() ResourceKind
	// InitiationInterval is the minimum cycle distance between two
	// back-to-back uses of this mapping; always >= 1.
	InitiationInterval() int
	// Latency is the number of cycles between issue and result
	// availability; always >= 0.
	Latency() int
	// Description is a human-readable summary for diagnostics.
	Description() string
	// Realize returns the verb sequence driving the site for one
	// invocation of the mapped instruction, given the kernel-level
	// signals backing its operands and results.
	Realize(operands []OperandSink, results []ResultSink) ([]TAVerb, error)
}

// IXILMapper binds abstract XILInstr opcodes to concrete functional
// units (spec.md §4.4).
type IXILMapper interface {
	// SupportedInstructions enumerates the opcodes this mapper knows
	// how to realize.
	SupportedInstructions() []XILName
	// TryMap yields zero or more ways to realize instr on an
	// already-allocated site. An empty result is the NotApplicable
	// protocol: the caller must try other mappers.
	TryMap(site ITransactionSite, instr XILInstr, operandWidths, resultWidths []int) ([]IXILMapping, error)
	// TryAllocate allocates a new functional unit if necessary and
	// returns a mapping for it, or nil if this mapper cannot realize
	// instr at all (the NotApplicable protocol for allocation).
	TryAllocate(host interface{}, instr XILInstr, operandWidths, resultWidths []int, project IProject) (IXILMapping, error)
}
