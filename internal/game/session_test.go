package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

func TestSessionInitialState(t *testing.T) {
	s := NewSession(w("CRANE"), t0)
	assert.Equal(t, InProgress, s.Outcome())
	assert.Equal(t, 0, s.Attempts())
	assert.Equal(t, MaxAttempts, s.Limit())
	assert.Equal(t, MaxAttempts, s.Remaining())
	assert.Len(t, s.ID(), 16)
	assert.False(t, s.Done())
}

func TestSessionLosesAfterLimit(t *testing.T) {
	s := NewSession(w("CRANE"), t0)
	for i := 1; i <= MaxAttempts; i++ {
		_, err := s.Submit(w("BUILT"), Evaluate, t0.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		if i < MaxAttempts {
			assert.Equal(t, InProgress, s.Outcome(), "attempt %d", i)
		}
	}
	assert.Equal(t, Lost, s.Outcome())
	assert.Equal(t, MaxAttempts, s.Attempts())

	_, err := s.Submit(w("CRANE"), Evaluate, t0.Add(time.Minute))
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.Equal(t, MaxAttempts, s.Attempts())
	assert.Equal(t, Lost, s.Outcome())
}

func TestSessionWinsAtAnyAttempt(t *testing.T) {
	for n := 1; n <= MaxAttempts; n++ {
		s := NewSession(w("CRANE"), t0)
		for i := 1; i < n; i++ {
			_, err := s.Submit(w("SLATE"), Evaluate, t0)
			require.NoError(t, err)
		}
		res, err := s.Submit(w("crane"), Evaluate, t0.Add(42*time.Second))
		require.NoError(t, err)
		assert.True(t, IsWin(res))
		assert.Equal(t, Won, s.Outcome())
		assert.Equal(t, n, s.Attempts())
		assert.Equal(t, w("CRANE"), s.Guesses()[n-1])
	}
}

func TestSessionRejectsAfterWin(t *testing.T) {
	s := NewSession(w("CRANE"), t0)
	_, err := s.Submit(w("CRANE"), Evaluate, t0)
	require.NoError(t, err)
	_, err = s.Submit(w("CRANE"), Evaluate, t0)
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.Equal(t, 1, s.Attempts())
}

func TestSessionElapsedSeconds(t *testing.T) {
	s := NewSession(w("CRANE"), t0)
	assert.Equal(t, 0, s.ElapsedSeconds(t0.Add(-time.Second)))
	assert.Equal(t, 12, s.ElapsedSeconds(t0.Add(12900*time.Millisecond)))

	_, err := s.Submit(w("CRANE"), Evaluate, t0.Add(30*time.Second))
	require.NoError(t, err)
	// frozen at the winning guess
	assert.Equal(t, 30, s.ElapsedSeconds(t0.Add(time.Hour)))
}

func TestSessionGuessesIsCopy(t *testing.T) {
	s := NewSession(w("CRANE"), t0)
	_, _ = s.Submit(w("SLATE"), Evaluate, t0)
	g := s.Guesses()
	g[0] = "XXXXX"
	assert.Equal(t, "SLATE", string(s.Guesses()[0]))
}
