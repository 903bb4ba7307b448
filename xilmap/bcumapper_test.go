package xilmap_test

import (
	"testing"

	"github.com/cascadehls/xilcore"
	"github.com/cascadehls/xilcore/fu"
	"github.com/cascadehls/xilcore/xilcoretest"
	"github.com/cascadehls/xilcore/xilmap"
)

func newBoundBCUMapper(t *testing.T, k *xilcore.Kernel, binder *xilcoretest.Binder, addrWidth, latency int) (*xilmap.BCUMapper, *fu.BCUTransactionSite) {
	t.Helper()
	bcu, err := fu.NewBCU(k, addrWidth, latency, xilcore.Zeros(addrWidth))
	if err != nil {
		t.Fatal(err)
	}
	site := fu.NewBCUTransactionSite(bcu)
	if err := site.Establish(binder); err != nil {
		t.Fatal(err)
	}
	return xilmap.NewBCUMapper(site), site
}

func TestBCUMapperSupportedInstructions(t *testing.T) {
	k := xilcore.NewKernel(1, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)
	m, _ := newBoundBCUMapper(t, k, binder, 8, 1)

	got := m.SupportedInstructions()
	want := []xilcore.XILName{xilcore.Goto, xilcore.BranchIfTrue, xilcore.BranchIfFalse}
	if len(got) != len(want) {
		t.Fatalf("SupportedInstructions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SupportedInstructions()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBCUMapperTryAllocateGoto(t *testing.T) {
	k := xilcore.NewKernel(2, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)
	m, site := newBoundBCUMapper(t, k, binder, 8, 1)

	label, err := xilcore.NewBranchLabel(3)
	if err != nil {
		t.Fatal(err)
	}
	instr := xilcore.NewGoto(label)

	mapping, err := m.TryAllocate(k, instr, []int{8}, nil, nil)
	if err != nil {
		t.Fatalf("TryAllocate: %v", err)
	}
	if mapping == nil {
		t.Fatal("TryAllocate returned nil mapping for a supported Goto")
	}
	if mapping.ResourceKind() != xilcore.ExclusiveResource {
		t.Fatalf("ResourceKind() = %v, want ExclusiveResource", mapping.ResourceKind())
	}
	if mapping.InitiationInterval() != 1 {
		t.Fatalf("InitiationInterval() = %d, want 1", mapping.InitiationInterval())
	}
	if mapping.Latency() != 1 {
		t.Fatalf("Latency() = %d, want 1", mapping.Latency())
	}
	if mapping.Site() != site {
		t.Fatal("TryAllocate returned a mapping bound to a different site than the mapper's host")
	}
}

// TestBCUMapperTryAllocateNeverCreatesNewHost verifies the mapper is
// permanently bound to the single site it was constructed with: every
// TryAllocate call, regardless of instruction kind, returns a mapping
// on that same site rather than allocating a new BCU (spec.md §4.4:
// "try_allocate never creates a new BCU; it only returns a mapping on
// the bound host").
func TestBCUMapperTryAllocateNeverCreatesNewHost(t *testing.T) {
	k := xilcore.NewKernel(2, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)
	m, site := newBoundBCUMapper(t, k, binder, 8, 1)

	label, _ := xilcore.NewBranchLabel(0)
	goto1, err := m.TryAllocate(k, xilcore.NewGoto(label), []int{8}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	goto2, err := m.TryAllocate(k, xilcore.NewBranchIfTrue(label), []int{1, 8}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if goto1.Site() != site || goto2.Site() != site {
		t.Fatal("TryAllocate returned a mapping not bound to the mapper's pre-existing host")
	}
}

func TestBCUMapperTryAllocateWidthMismatch(t *testing.T) {
	k := xilcore.NewKernel(2, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)
	m, _ := newBoundBCUMapper(t, k, binder, 8, 1)

	label, _ := xilcore.NewBranchLabel(0)
	if _, err := m.TryAllocate(k, xilcore.NewGoto(label), []int{8}, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.TryAllocate(k, xilcore.NewGoto(label), []int{4}, nil, nil); !xilcore.IsInvalidConfiguration(err) {
		t.Fatalf("TryAllocate with width mismatched against the bound host error = %v, want InvalidConfiguration", err)
	}
}

func TestBCUMapperTryAllocateNotApplicable(t *testing.T) {
	k := xilcore.NewKernel(1, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)
	m, _ := newBoundBCUMapper(t, k, binder, 8, 1)

	mapping, err := m.TryAllocate(k, xilcore.NewSelect(), []int{1, 8, 8}, nil, nil)
	if err != nil || mapping != nil {
		t.Fatalf("TryAllocate(Select) = (%v, %v), want (nil, nil)", mapping, err)
	}
}

func TestBCUMapperTryMapNotApplicableForForeignSite(t *testing.T) {
	k := xilcore.NewKernel(1, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)
	m, _ := newBoundBCUMapper(t, k, binder, 8, 1)

	mux, err := fu.NewMUX2(k, 8)
	if err != nil {
		t.Fatal(err)
	}
	muxSite := fu.NewMUX2TransactionSite(mux)
	if err := muxSite.Establish(binder); err != nil {
		t.Fatal(err)
	}

	label, _ := xilcore.NewBranchLabel(0)
	mappings, err := m.TryMap(muxSite, xilcore.NewGoto(label), []int{8}, nil)
	if err != nil || mappings != nil {
		t.Fatalf("TryMap(foreign site) = (%v, %v), want (nil, nil)", mappings, err)
	}
}

// TestBCUMapperTryMapDeclinesOtherMappersHost verifies the
// single-bound-host resource model holds with more than one BCU in
// play: a mapper must decline a *fu.BCUTransactionSite that type-checks
// but belongs to a different mapper's bound instance (spec.md §4.4:
// "try_map yields the corresponding mapping iff the site's host is the
// bound BCU").
func TestBCUMapperTryMapDeclinesOtherMappersHost(t *testing.T) {
	k := xilcore.NewKernel(1, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)

	mA, siteA := newBoundBCUMapper(t, k, binder, 8, 1)
	_, siteB := newBoundBCUMapper(t, k, binder, 8, 1)

	label, _ := xilcore.NewBranchLabel(0)
	if _, err := mA.TryMap(siteA, xilcore.NewGoto(label), []int{8}, nil); err != nil {
		t.Fatalf("TryMap(own site) error = %v", err)
	}
	mappings, err := mA.TryMap(siteB, xilcore.NewGoto(label), []int{8}, nil)
	if err != nil || mappings != nil {
		t.Fatalf("TryMap(other mapper's site) = (%v, %v), want (nil, nil)", mappings, err)
	}
}

func TestBCUMapperRealizeGoto(t *testing.T) {
	k := xilcore.NewKernel(2, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)
	m, _ := newBoundBCUMapper(t, k, binder, 4, 1)

	label, _ := xilcore.NewBranchLabel(0)
	mapping, err := m.TryAllocate(k, xilcore.NewGoto(label), []int{4}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	targetID := k.Alloc(4)
	k.SeedInitial(targetID, xilcore.FromLogics('1', '0', '1', '0'))

	verbs, err := mapping.Realize([]xilcore.OperandSink{targetID}, nil)
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if len(verbs) != 1 {
		t.Fatalf("len(Realize(...)) = %d, want 1 (latency 1)", len(verbs))
	}
}

func TestBCUMapperRealizeWrongOperandCount(t *testing.T) {
	k := xilcore.NewKernel(1, nil)
	defer k.Dispose()
	binder := xilcoretest.NewBinder(k)
	m, _ := newBoundBCUMapper(t, k, binder, 4, 1)

	label, _ := xilcore.NewBranchLabel(0)
	mapping, err := m.TryAllocate(k, xilcore.NewGoto(label), []int{4}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mapping.Realize(nil, nil); !xilcore.IsInvalidConfiguration(err) {
		t.Fatalf("Realize(goto, 0 operands) error = %v, want InvalidConfiguration", err)
	}
}
