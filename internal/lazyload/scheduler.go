package lazyload

import tea "github.com/charmbracelet/bubbletea"

// TickMsg asks the program loop to drain the scheduler.
type TickMsg struct{}

// TeaScheduler queues work until the Bubble Tea loop delivers a TickMsg.
type TeaScheduler struct {
	queue []func()
	armed bool
}

func (s *TeaScheduler) NextTick(fn func()) {
	s.queue = append(s.queue, fn)
}

// Cmd returns a command delivering TickMsg when work is queued and no tick is in flight.
func (s *TeaScheduler) Cmd() tea.Cmd {
	if len(s.queue) == 0 || s.armed {
		return nil
	}
	s.armed = true
	return func() tea.Msg { return TickMsg{} }
}

// Drain runs the queued work. Work scheduled while draining waits for the next tick.
func (s *TeaScheduler) Drain() {
	s.armed = false
	q := s.queue
	s.queue = nil
	for _, fn := range q {
		fn()
	}
}
