package ui

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer written by the animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Installing MySQL")
	assert.Equal(t, "Installing MySQL", s.Label())
	assert.Equal(t, SpinnerPending, s.State())
	assert.Equal(t, time.Duration(0), s.Elapsed())
}

func TestSpinnerStartStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner("Test")
	s.SetOutput(&buf)

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	assert.Equal(t, SpinnerInProgress, s.State())
	assert.Contains(t, buf.String(), "Test...")
	assert.Greater(t, s.Elapsed(), time.Duration(0))
}

func TestSpinnerFinalStates(t *testing.T) {
	DisableColors()

	tests := []struct {
		name   string
		finish func(*Spinner)
		state  SpinnerState
		symbol string
	}{
		{"success", func(s *Spinner) { s.Success() }, SpinnerSuccess, SymbolSuccess},
		{"fail", func(s *Spinner) { s.Fail() }, SpinnerFailed, SymbolFail},
		{"skip", func(s *Spinner) { s.Skip() }, SpinnerSkipped, SymbolSkipped},
		{"finish ok", func(s *Spinner) { s.Finish(true) }, SpinnerSuccess, SymbolSuccess},
		{"finish failed", func(s *Spinner) { s.Finish(false) }, SpinnerFailed, SymbolFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf syncBuffer
			s := NewSpinner("Step")
			s.SetOutput(&buf)

			s.Start()
			tt.finish(s)

			assert.Equal(t, tt.state, s.State())
			assert.Contains(t, buf.String(), tt.symbol+" Step ")
		})
	}
}

func TestSpinnerDoubleStartStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner("Test")
	s.SetOutput(&buf)

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	assert.Equal(t, SpinnerInProgress, s.State())
}

func TestSpinnerSetLabel(t *testing.T) {
	s := NewSpinner("Initial")
	s.SetLabel("Updated")
	assert.Equal(t, "Updated", s.Label())
}

func TestSpinnerConcurrentAccess(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner("Test")
	s.SetOutput(&buf)
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.State()
			_ = s.Label()
			_ = s.Elapsed()
		}()
	}
	wg.Wait()
	s.Success()

	require.Equal(t, SpinnerSuccess, s.State())
}
