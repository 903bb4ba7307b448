package xilcore

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SignalID is a dense index into a Kernel's double-buffered signal
// store. Callers obtain one from Kernel.Alloc or from an IAutoBinder
// implementation during establish().
type SignalID int

// Component is one updatable process in a circuit: given the kernel,
// it reads Get() of any signal and may call Set() on signals it owns.
// Mirrors hwsim.Component, generalized from bool wires to LogicVector
// wires.
type Component func(k *Kernel)

// Kernel is the delta-cycle simulation engine the rest of this core
// runs on: a double-buffered signal store plus a worker pool that
// advances all registered Components one step at a time. Modeled on
// hwsim.Circuit (same s0/s1-swap-under-WaitGroup shape), generalized to
// LogicVector-valued signals and three-buffer rotation so that
// rising-edge detection (spec.md §3, "Signal cell") has a stable
// pre-delta value to compare against.
type Kernel struct {
	widths []int
	prev   []LogicVector // value before the most recent Step
	cur    []LogicVector // value as observed by Get this step
	next   []LogicVector // value being written by Set this step

	cs []Component

	tick uint

	wc []chan struct{}
	wg sync.WaitGroup

	log *logrus.Logger
}

// NewKernel creates an empty kernel. workers is the number of
// goroutines used to fan out registered Components each Step; if <= 0,
// GOMAXPROCS is used (mirrors hwsim.NewCircuit). log may be nil, in
// which case logrus.StandardLogger() is used.
func NewKernel(workers int, log *logrus.Logger) *Kernel {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	k := &Kernel{log: log}
	k.spawn(workers)
	return k
}

// Alloc allocates a new all-'0'-initialized signal of the given
// width and returns its ID. Valid before the kernel starts stepping and
// during a component's establish() call.
func (k *Kernel) Alloc(width int) SignalID {
	if width < 0 {
		panic(newOutOfRange("Kernel.Alloc width", width, "must be >= 0"))
	}
	id := SignalID(len(k.widths))
	k.widths = append(k.widths, width)
	k.prev = append(k.prev, Zeros(width))
	k.cur = append(k.cur, Zeros(width))
	k.next = append(k.next, Zeros(width))
	return id
}

// Register adds Components to the kernel's update set. Call before the
// first Step; workers are re-balanced across the new total.
func (k *Kernel) Register(cs ...Component) {
	k.cs = append(k.cs, cs...)
	k.rebalance()
}

func (k *Kernel) spawn(workers int) {
	k.wc = make([]chan struct{}, workers)
	for i := range k.wc {
		k.wc[i] = make(chan struct{}, 1)
	}
}

// rebalance re-slices the registered Components across the same number
// of workers, closing the previous worker channels and starting a fresh
// goroutine per worker (teacher's NewCircuit does this once at
// construction time; here it can happen incrementally as components
// are mounted).
func (k *Kernel) rebalance() {
	workers := len(k.wc)
	if workers == 0 {
		return
	}
	k.wg.Wait() // no steps may be in flight
	size := len(k.cs) / workers
	if size*workers < len(k.cs) {
		size++
	}
	cs := k.cs
	jobs := make([][]Component, workers)
	for i := 0; i < workers && len(cs) > 0; i++ {
		n := size
		if n > len(cs) {
			n = len(cs)
		}
		jobs[i] = cs[:n]
		cs = cs[n:]
	}
	for _, wc := range k.wc {
		close(wc)
	}
	k.wc = make([]chan struct{}, 0, workers)
	for _, job := range jobs {
		wc := make(chan struct{}, 1)
		k.wc = append(k.wc, wc)
		go worker(k, job, wc)
	}
}

func worker(k *Kernel, cs []Component, wc <-chan struct{}) {
	for range wc {
		for _, f := range cs {
			f(k)
		}
		k.wg.Done()
	}
}

// Dispose stops all worker goroutines. Callers must call it once the
// kernel is no longer needed.
func (k *Kernel) Dispose() {
	for _, wc := range k.wc {
		close(wc)
	}
}

// Get returns the pre-delta value of signal id.
func (k *Kernel) Get(id SignalID) LogicVector { return k.cur[id] }

// Set drives signal id to v for the next delta. One writer per signal
// per delta is the caller's responsibility (spec.md §3).
func (k *Kernel) Set(id SignalID, v LogicVector) { k.next[id] = v }

// SeedInitial sets signal id's value across all three buffers at
// once, bypassing the one-delta-of-lag a normal Set/Step would
// introduce. Intended for IAutoBinder implementations seeding a
// signal's initial value before the kernel starts stepping; calling it
// once stepping is under way would make that step's RisingEdge checks
// see a value that was never actually driven through a delta.
func (k *Kernel) SeedInitial(id SignalID, v LogicVector) {
	k.prev[id] = v
	k.cur[id] = v
	k.next[id] = v
}

// RisingEdge reports whether signal id transitioned '0' -> '1' between
// the previous delta and the current one (spec.md §3's design-time
// rising_edge() primitive). Only bit 0 is consulted; callers should
// only call this on width-1 signals (e.g. clk).
func (k *Kernel) RisingEdge(id SignalID) bool {
	return k.prev[id].Bit(0) == Logic0 && k.cur[id].Bit(0) == Logic1
}

// Step advances the simulation by one delta: fans registered
// Components out across workers, barrier-syncs, then rotates the
// double buffer so Set() writes from this delta become the next
// delta's Get() values.
func (k *Kernel) Step() {
	if len(k.cs) > 0 && len(k.wc) == 0 {
		panic(errors.New("xilcore: kernel has registered components but no workers"))
	}
	// No worker goroutines exist until the first Register() call (see
	// rebalance): with zero registered components there is nothing to
	// fan out, and sending on the unconsumed wc channels would just
	// hang wg.Wait() forever.
	if len(k.cs) > 0 {
		k.wg.Add(len(k.wc))
		for _, wc := range k.wc {
			wc <- struct{}{}
		}
		k.wg.Wait()
	}
	k.tick++
	k.prev, k.cur, k.next = k.cur, k.next, k.prev
	copy(k.next, k.cur)
	k.log.WithField("tick", k.tick).Debug("xilcore: kernel step")
}

// Steps returns the value of the step counter.
func (k *Kernel) Steps() uint { return k.tick }

// Size returns the number of registered Components.
func (k *Kernel) Size() int { return len(k.cs) }
