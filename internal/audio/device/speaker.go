package device

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Speaker plays through beep's speaker package. Only one Speaker may be open
// per process.
type Speaker struct {
	format Format

	mu    sync.Mutex
	state State
	open  bool
}

// Open implements Device.
func (s *Speaker) Open(src beep.Streamer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := s.format.SampleRate
	if err := speaker.Init(rate, rate.N(s.format.Buffer)); err != nil {
		return &AudioUnavailableError{Backend: BackendSpeaker, Err: err}
	}
	speaker.Play(src)
	if err := speaker.Suspend(); err != nil {
		speaker.Close()
		return &AudioUnavailableError{Backend: BackendSpeaker, Err: fmt.Errorf("suspending: %w", err)}
	}
	s.open = true
	s.state = StateSuspended
	return nil
}

// Resume implements Device.
func (s *Speaker) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || s.state != StateSuspended {
		return nil
	}
	if err := speaker.Resume(); err != nil {
		return fmt.Errorf("resuming speaker: %w", err)
	}
	s.state = StateRunning
	return nil
}

// Suspend implements Device.
func (s *Speaker) Suspend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || s.state != StateRunning {
		return nil
	}
	if err := speaker.Suspend(); err != nil {
		return fmt.Errorf("suspending speaker: %w", err)
	}
	s.state = StateSuspended
	return nil
}

// State implements Device.
func (s *Speaker) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return StateClosed
	}
	return s.state
}

// Close implements Device.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	s.open = false
	s.state = StateClosed
	return nil
}
