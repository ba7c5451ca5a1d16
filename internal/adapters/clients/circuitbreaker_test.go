package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestBreaker(maxFailures, halfOpen int) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   maxFailures,
		Timeout:       30 * time.Second,
		HalfOpenLimit: halfOpen,
	})
	cb.now = clock.Now

	return cb, clock
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	cb, _ := newTestBreaker(3, 1)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State(), "success resets the failure count")

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenProbes(t *testing.T) {
	t.Parallel()

	t.Run("closes after enough successes", func(t *testing.T) {
		t.Parallel()

		cb, clock := newTestBreaker(1, 2)
		cb.RecordFailure()

		clock.Advance(29 * time.Second)
		assert.False(t, cb.Allow())

		clock.Advance(time.Second)
		assert.True(t, cb.Allow())
		assert.Equal(t, StateHalfOpen, cb.State())
		assert.True(t, cb.Allow())
		assert.False(t, cb.Allow(), "probe limit reached")

		cb.RecordSuccess()
		assert.Equal(t, StateHalfOpen, cb.State())
		cb.RecordSuccess()
		assert.Equal(t, StateClosed, cb.State())
		assert.True(t, cb.Allow())
	})

	t.Run("reopens on failure", func(t *testing.T) {
		t.Parallel()

		cb, clock := newTestBreaker(1, 2)
		cb.RecordFailure()
		clock.Advance(time.Minute)

		assert.True(t, cb.Allow())
		cb.RecordFailure()

		assert.Equal(t, StateOpen, cb.State())
		assert.False(t, cb.Allow())
	})
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	t.Parallel()

	cb, clock := newTestBreaker(1, 1)

	var got []string

	cb.OnStateChange(func(from, to State) {
		got = append(got, from.String()+"->"+to.String())
		_ = cb.State()
	})

	cb.RecordFailure()
	clock.Advance(time.Minute)
	cb.Allow()
	cb.RecordSuccess()

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, got)
}

func TestCircuitBreaker_ZeroConfig(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	cb.RecordFailure()

	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	t.Parallel()

	cb, _ := newTestBreaker(100, 10)

	var wg sync.WaitGroup

	for i := range 500 {
		wg.Go(func() {
			if !cb.Allow() {
				return
			}

			if i%2 == 0 {
				cb.RecordSuccess()
			} else {
				cb.RecordFailure()
			}
		})
	}

	wg.Wait()

	assert.Contains(t, []State{StateClosed, StateOpen, StateHalfOpen}, cb.State())
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(99).String())
}
