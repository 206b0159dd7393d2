package prediction

import "sync"

// Sequencer numbers predict requests so that only the response to the most
// recently dispatched request is applied.
type Sequencer struct {
	mu     sync.Mutex
	latest uint64
}

// Next issues the ticket for a newly dispatched request.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Latest returns the most recently issued ticket, 0 if none.
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// IsLatest reports whether no request was dispatched after ticket.
func (s *Sequencer) IsLatest(ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ticket == s.latest
}
