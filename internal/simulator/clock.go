package simulator

import "fmt"

// Clock advances one cycle.
//
// The current state is pushed onto the history stack, pending storage is
// committed and a full pass runs. If the pass fails the previous state is
// restored, history is unchanged and the error is returned.
func (s *Simulator) Clock() error {
	snap := s.state.clone()

	copy(s.state.Storage, s.state.Pending)
	s.state.Cycle++
	if err := s.pass(); err != nil {
		s.restore(snap)
		return fmt.Errorf("clock to cycle %d: %w", snap.Cycle+1, err)
	}

	s.history = append(s.history, snap)
	if s.historyLimit > 0 && len(s.history) > s.historyLimit {
		// Shift down in place and clear the tail so dropped snapshots
		// are not kept alive by the backing array.
		n := copy(s.history, s.history[len(s.history)-s.historyLimit:])
		clear(s.history[n:])
		s.history = s.history[:n]
	}

	s.logger.Debug("clocked", "cycle", s.state.Cycle, "history", len(s.history))
	return nil
}

// UnClock restores the state from before the most recent Clock.
// At cycle 0 it fails with ErrHistoryUnderflow and changes nothing.
func (s *Simulator) UnClock() error {
	if len(s.history) == 0 {
		return ErrHistoryUnderflow
	}
	last := len(s.history) - 1
	s.restore(s.history[last])
	s.history[last] = State{}
	s.history = s.history[:last]

	s.logger.Debug("un-clocked", "cycle", s.state.Cycle, "history", len(s.history))
	return nil
}

// Reset discards history and rebuilds cycle 0 from the store's initial
// configuration, as if freshly constructed.
func (s *Simulator) Reset() error {
	s.history = nil
	if err := s.initialize(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.logger.Debug("reset", "cycle", s.state.Cycle)
	return nil
}

// Run clocks n times, stopping at the first error.
func (s *Simulator) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Clock(); err != nil {
			return err
		}
	}
	return nil
}
