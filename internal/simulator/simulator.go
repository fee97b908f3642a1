package simulator

import (
	"fmt"
	"log/slog"

	"github.com/roach88/syncrim/internal/component"
	"github.com/roach88/syncrim/internal/ir"
	"github.com/roach88/syncrim/internal/netlist"
)

// State is a full snapshot of the simulator's banks.
type State struct {
	Cycle   int         `json:"cycle"`
	Signals []ir.Signal `json:"signals"`
	Storage []ir.Signal `json:"storage"`
	Pending []ir.Signal `json:"pending"`
}

func (s State) clone() State {
	return State{
		Cycle:   s.Cycle,
		Signals: append([]ir.Signal(nil), s.Signals...),
		Storage: append([]ir.Signal(nil), s.Storage...),
		Pending: append([]ir.Signal(nil), s.Pending...),
	}
}

// node is the compiled form of one component.
type node struct {
	comp     component.Component
	ports    ir.Ports
	base     int   // first output slot
	slots    []int // resolved input slots
	stBase   int   // first storage word
	stLen    int
	ctx      *component.Context
	capturer component.Capturer
}

// Simulator is a compiled, steppable netlist.
//
// INVARIANTS:
//   - each component owns signals[base:base+arity] for its lifetime
//   - the banks are allocated once; restores copy into them
//   - order never changes after construction
type Simulator struct {
	store  *netlist.Store
	logger *slog.Logger

	nodes     []node
	order     []int
	capturers []int

	state   State
	history []State

	// historyLimit bounds the history stack; 0 means unbounded.
	historyLimit int
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

// WithHistoryLimit keeps at most n snapshots; older ones are discarded
// and UnClock can then rewind at most n cycles. Default: unbounded.
func WithHistoryLimit(n int) Option {
	return func(s *Simulator) {
		s.historyLimit = n
	}
}

// New compiles store into a Simulator at cycle 0.
//
// Construction fails with netlist.ValidationErrors for a structurally
// invalid store, with CombinatorialLoopError for an illegal loop and with
// the evaluate error if the initial pass fails. The store is sealed on
// success.
func New(store *netlist.Store, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := store.Validate(); err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}

	signalLen, storageLen := s.allocate()
	if err := s.resolve(); err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}
	if err := s.buildSchedule(); err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}

	s.state = State{
		Signals: make([]ir.Signal, signalLen),
		Storage: make([]ir.Signal, storageLen),
		Pending: make([]ir.Signal, storageLen),
	}
	s.bindContexts()

	if err := s.initialize(); err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}

	store.Seal()
	s.logger.Info("simulator built",
		"components", len(s.nodes),
		"signals", signalLen,
		"storage", storageLen,
	)
	return s, nil
}

// allocate assigns output and storage subranges in declaration order.
func (s *Simulator) allocate() (signalLen, storageLen int) {
	s.nodes = make([]node, s.store.Len())
	for i := range s.nodes {
		c := s.store.At(netlist.Handle(i))
		n := &s.nodes[i]
		n.comp = c
		n.ports = c.Ports()
		n.base = signalLen
		signalLen += n.ports.Arity()

		if st, ok := c.(component.Stateful); ok {
			n.stBase = storageLen
			n.stLen = len(st.InitialStorage())
			storageLen += n.stLen
		}
		if cp, ok := c.(component.Capturer); ok {
			n.capturer = cp
		}
	}
	return signalLen, storageLen
}

// resolve turns every Input into a direct slot index.
func (s *Simulator) resolve() error {
	for i := range s.nodes {
		n := &s.nodes[i]
		n.slots = make([]int, len(n.ports.Inputs))
		for j, in := range n.ports.Inputs {
			h, ok := s.store.Lookup(in.ID)
			if !ok {
				return &netlist.UnknownComponentError{ID: in.ID, Referrer: n.comp.ComponentID()}
			}
			producer := &s.nodes[h]
			if in.Index < 0 || in.Index >= producer.ports.Arity() {
				return fmt.Errorf("component %q: input %s out of range (arity %d)",
					n.comp.ComponentID(), in, producer.ports.Arity())
			}
			n.slots[j] = producer.base + in.Index
		}
	}
	return nil
}

// buildSchedule computes the evaluation order.
func (s *Simulator) buildSchedule() error {
	g := newGraph(len(s.nodes))
	for i := range s.nodes {
		n := &s.nodes[i]
		latched := make([]bool, len(n.ports.Inputs))
		if l, ok := n.comp.(component.Latched); ok {
			for _, j := range l.LatchedInputs() {
				latched[j] = true
			}
		}
		for j, in := range n.ports.Inputs {
			h, _ := s.store.Lookup(in.ID)
			g.add(int(h), i, latched[j])
		}
	}

	if loop := g.hardLoop(); loop != nil {
		ids := make([]string, len(loop))
		for i, v := range loop {
			ids[i] = s.nodes[v].comp.ComponentID()
		}
		return &CombinatorialLoopError{Cycle: ids}
	}

	s.order = g.schedule()
	s.capturers = s.capturers[:0]
	for pos, v := range s.order {
		if s.nodes[v].capturer != nil {
			s.capturers = append(s.capturers, v)
		}
		s.logger.Debug("scheduled component",
			"component", s.nodes[v].comp.ComponentID(),
			"kind", s.nodes[v].comp.Kind(),
			"position", pos,
		)
	}
	return nil
}

// bindContexts creates one Context per node over the state banks.
func (s *Simulator) bindContexts() {
	for i := range s.nodes {
		n := &s.nodes[i]
		storage := s.state.Storage[n.stBase : n.stBase+n.stLen : n.stBase+n.stLen]
		pending := s.state.Pending[n.stBase : n.stBase+n.stLen : n.stBase+n.stLen]
		n.ctx = component.NewContext(n.comp.ComponentID(), s.state.Signals, n.slots,
			n.base, n.ports.Arity(), storage, pending)
	}
}

// initialize loads cycle-0 storage and runs the first pass.
func (s *Simulator) initialize() error {
	clear(s.state.Signals)
	clear(s.state.Pending)
	for i := range s.nodes {
		n := &s.nodes[i]
		if st, ok := n.comp.(component.Stateful); ok {
			copy(s.state.Storage[n.stBase:n.stBase+n.stLen], st.InitialStorage())
		}
	}
	s.state.Cycle = 0
	return s.pass()
}

// pass evaluates every component in schedule order, then lets capturers
// fill the pending storage bank.
func (s *Simulator) pass() error {
	for _, v := range s.order {
		n := &s.nodes[v]
		if err := n.comp.Evaluate(n.ctx); err != nil {
			s.logger.Error("evaluate failed",
				"component", n.comp.ComponentID(),
				"cycle", s.state.Cycle,
				"error", err,
			)
			return fmt.Errorf("evaluate %q: %w", n.comp.ComponentID(), err)
		}
	}

	copy(s.state.Pending, s.state.Storage)
	for _, v := range s.capturers {
		n := &s.nodes[v]
		if err := n.capturer.Capture(n.ctx); err != nil {
			s.logger.Error("capture failed",
				"component", n.comp.ComponentID(),
				"cycle", s.state.Cycle,
				"error", err,
			)
			return fmt.Errorf("capture %q: %w", n.comp.ComponentID(), err)
		}
	}
	return nil
}

// restore copies snap into the live banks without reallocating them.
func (s *Simulator) restore(snap State) {
	s.state.Cycle = snap.Cycle
	copy(s.state.Signals, snap.Signals)
	copy(s.state.Storage, snap.Storage)
	copy(s.state.Pending, snap.Pending)
}
