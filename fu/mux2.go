package fu

import "github.com/cascadehls/xilcore"

// MUX2 is a stateless width-W 2-to-1 multiplexer: out = sel == '0' ?
// a : b (spec.md §4.3). Grounded on hwlib/mux.go's Mux PartSpec,
// generalized from a single bool wire to a statically sized
// LogicVector.
type MUX2 struct {
	k     *xilcore.Kernel
	width int

	a, b, sel xilcore.In[xilcore.LogicVector]
	out       xilcore.Out[xilcore.LogicVector]

	established bool
}

// NewMUX2 allocates a MUX2 of the given data width.
func NewMUX2(k *xilcore.Kernel, width int) (*MUX2, error) {
	if width < 1 {
		return nil, xilcore.NewOutOfRange("MUX2 width", width, "must be >= 1")
	}
	return &MUX2{k: k, width: width}, nil
}

// Width returns the multiplexer's configured data width.
func (m *MUX2) Width() int { return m.width }

// IsEquivalent reports whether m and other are interchangeable for
// mapping purposes: same data width (spec.md §4.4's is_equivalent,
// whose behavior hash for MUX2 reduces to its width).
func (m *MUX2) IsEquivalent(other *MUX2) bool { return other != nil && m.width == other.width }

func (m *MUX2) establish(binder xilcore.IAutoBinder) error {
	m.a = xilcore.WrapIn[xilcore.LogicVector](m.k, binder.Bind(xilcore.UsageInput, "a", m.width, xilcore.Zeros(m.width)))
	m.b = xilcore.WrapIn[xilcore.LogicVector](m.k, binder.Bind(xilcore.UsageInput, "b", m.width, xilcore.Zeros(m.width)))
	m.sel = xilcore.WrapIn[xilcore.LogicVector](m.k, binder.Bind(xilcore.UsageInput, "sel", 1, xilcore.Zeros(1)))
	m.out = xilcore.WrapOut[xilcore.LogicVector](m.k, binder.Bind(xilcore.UsageOutput, "r", m.width, xilcore.Zeros(m.width)))
	m.k.Register(m.mount())
	m.established = true
	return nil
}

func (m *MUX2) mount() xilcore.Component {
	return func(k *xilcore.Kernel) {
		sel := k.Get(m.sel.ID()).Bit(0)
		if sel == xilcore.Logic0 {
			k.Set(m.out.ID(), k.Get(m.a.ID()))
		} else {
			k.Set(m.out.ID(), k.Get(m.b.ID()))
		}
	}
}

// MUX2TransactionSite is MUX2's transaction-site facade (spec.md
// §4.3/§6). Unlike the BCU, MUX2 is combinational and shareable: its
// select verb carries LightweightResource semantics at the mapper
// level (spec.md §4.4), not here.
type MUX2TransactionSite struct {
	mux *MUX2
}

// NewMUX2TransactionSite wraps mux in a transaction site.
func NewMUX2TransactionSite(mux *MUX2) *MUX2TransactionSite {
	return &MUX2TransactionSite{mux: mux}
}

// Establish binds the MUX2's ports and mounts its Component.
func (s *MUX2TransactionSite) Establish(binder xilcore.IAutoBinder) error {
	return s.mux.establish(binder)
}

// DoNothing drives all three inputs to don't-care for one cycle: MUX2
// is combinational, so idling it only means declining to rely on its
// output.
func (s *MUX2TransactionSite) DoNothing() xilcore.TAVerb {
	w := s.mux.width
	return xilcore.MustTAVerb(xilcore.Locked,
		xilcore.Drive{Signal: s.mux.a.ID(), Source: xilcore.ConstSource(xilcore.DontCares(w))},
		xilcore.Drive{Signal: s.mux.b.ID(), Source: xilcore.ConstSource(xilcore.DontCares(w))},
		xilcore.Drive{Signal: s.mux.sel.ID(), Source: xilcore.ConstSource(xilcore.DontCares(1))},
	)
}

// Select returns the single-cycle verb realizing out = sel == '0' ?
// a : b, additionally driving resultSink, when it is not the
// multiplexer's own output, with the value the multiplexer selects
// from these inputs (spec.md §9: "wiring r to the component's result
// port"). That drive is evaluated from the sources when the verb is
// applied, since the MUX2's own output only reflects new inputs one
// Step later.
func (s *MUX2TransactionSite) Select(a, b, sel xilcore.Source, resultSink xilcore.SignalID) xilcore.TAVerb {
	drives := []xilcore.Drive{
		{Signal: s.mux.a.ID(), Source: a},
		{Signal: s.mux.b.ID(), Source: b},
		{Signal: s.mux.sel.ID(), Source: sel},
	}
	if resultSink != s.mux.out.ID() {
		selected := func(k *xilcore.Kernel) xilcore.LogicVector {
			if sel(k).Bit(0) == xilcore.Logic0 {
				return a(k)
			}
			return b(k)
		}
		drives = append(drives, xilcore.Drive{Signal: resultSink, Source: selected})
	}
	return xilcore.MustTAVerb(xilcore.Locked, drives...)
}

// Out returns the signal the MUX2 drives its result onto.
func (s *MUX2TransactionSite) Out() xilcore.SignalID { return s.mux.out.ID() }

// Width returns the multiplexer's configured data width.
func (s *MUX2TransactionSite) Width() int { return s.mux.width }
