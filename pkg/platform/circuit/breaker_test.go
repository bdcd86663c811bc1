package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_StartsClosed(t *testing.T) {
	b := New("stats-cache")
	assert.Equal(t, "stats-cache", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}

func TestBreaker_Opening(t *testing.T) {
	b := New("stats-cache", WithFailureThreshold(3))

	for i := 1; i <= 2; i++ {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback, "failure %d", i)
		assert.False(t, change.Opened, "failure %d", i)
	}

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open")
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b := New("stats-cache", WithFailureThreshold(3))
	b.RecordFailure()
	b.RecordFailure()
	usePrimary, _ := b.RecordSuccess()
	assert.True(t, usePrimary)

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_Closing(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []bool // true = success, recorded after the breaker opened
		wantOpen bool
	}{
		{"one success is not enough", []bool{true}, true},
		{"threshold of successes closes", []bool{true, true, true}, false},
		{"failure restarts the success streak", []bool{true, true, false, true, true}, true},
		{"full streak after a failure closes", []bool{true, false, true, true, true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("stats-cache", WithFailureThreshold(1), WithSuccessThreshold(3))
			b.RecordFailure()
			require.True(t, b.IsOpen())

			closed := false
			for _, ok := range tt.outcomes {
				if ok {
					_, change := b.RecordSuccess()
					closed = closed || change.Closed
				} else {
					b.RecordFailure()
				}
			}
			assert.Equal(t, tt.wantOpen, b.IsOpen())
			assert.Equal(t, !tt.wantOpen, closed)
		})
	}
}

func TestBreaker_Reset(t *testing.T) {
	b := New("stats-cache", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_IgnoresNonPositiveThresholds(t *testing.T) {
	b := New("stats-cache", WithFailureThreshold(0), WithSuccessThreshold(-1))
	for range 4 {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen(), "default threshold is five")
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
}
