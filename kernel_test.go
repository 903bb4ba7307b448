package xilcore_test

import (
	"testing"

	hw "github.com/cascadehls/xilcore"
)

func TestKernelAllocGetSet(t *testing.T) {
	k := hw.NewKernel(2, nil)
	defer k.Dispose()

	id := k.Alloc(4)
	if got := k.Get(id); got.String() != "0000" {
		t.Fatalf("initial Get() = %q, want \"0000\"", got.String())
	}
	k.Set(id, hw.FromLogics(hw.Logic1, hw.Logic0, hw.Logic1, hw.Logic0))
	if got := k.Get(id); got.String() != "0000" {
		t.Fatalf("Get() before Step() = %q, want unchanged \"0000\"", got.String())
	}
	k.Step()
	if got := k.Get(id); got.String() != "1010" {
		t.Fatalf("Get() after Step() = %q, want \"1010\"", got.String())
	}
}

func TestKernelHoldsValueAcrossSteps(t *testing.T) {
	k := hw.NewKernel(1, nil)
	defer k.Dispose()

	id := k.Alloc(1)
	k.Set(id, hw.Ones(1))
	k.Step()
	k.Step() // no intervening Set(); value should persist
	if got := k.Get(id); got.Bit(0) != hw.Logic1 {
		t.Fatalf("Get().Bit(0) = %s after un-driven step, want held '1'", got.Bit(0))
	}
}

func TestKernelRisingEdge(t *testing.T) {
	k := hw.NewKernel(1, nil)
	defer k.Dispose()

	clk := k.Alloc(1)
	k.Step() // prev=cur=0 after first step, no edge yet
	if k.RisingEdge(clk) {
		t.Fatal("RisingEdge reported true with clk held at 0")
	}
	k.Set(clk, hw.Ones(1))
	k.Step()
	if !k.RisingEdge(clk) {
		t.Fatal("RisingEdge reported false on a genuine 0->1 transition")
	}
	k.Step() // clk stays '1' held over; no edge this time
	if k.RisingEdge(clk) {
		t.Fatal("RisingEdge reported true while clk held steady at 1")
	}
}

func TestKernelRegisterRunsComponents(t *testing.T) {
	k := hw.NewKernel(2, nil)

	in := k.Alloc(1)
	out := k.Alloc(1)
	k.Register(func(kk *hw.Kernel) {
		kk.Set(out, kk.Get(in))
	})

	k.Set(in, hw.Ones(1))
	k.Step() // in becomes '1'; the component still read the pre-delta '0'
	k.Step() // the component reads in='1' and drives out
	if got := k.Get(out); got.Bit(0) != hw.Logic1 {
		t.Fatalf("Get(out).Bit(0) = %s, want '1' (component did not run)", got.Bit(0))
	}
	k.Dispose()
}

func TestKernelSeedInitial(t *testing.T) {
	k := hw.NewKernel(1, nil)
	defer k.Dispose()

	id := k.Alloc(4)
	k.SeedInitial(id, hw.Ones(4))
	if got := k.Get(id); got.String() != "1111" {
		t.Fatalf("Get() after SeedInitial = %q, want \"1111\"", got.String())
	}
}
