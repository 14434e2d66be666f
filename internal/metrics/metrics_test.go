package metrics

import (
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTally(t *testing.T) {
	t.Parallel()
	s := New()

	s.HookRan("update", "pulse")
	s.HookRan("update", "pulse")
	s.HookRan("physics", "steps")

	tally := s.TallySnapshot()
	assert.EqualValues(t, 2, tally["update/pulse"])
	assert.EqualValues(t, 1, tally["physics/steps"])
}

func TestTallyConcurrentBumps(t *testing.T) {
	t.Parallel()
	s := New()

	const perLane = 200
	var wg sync.WaitGroup
	for _, phase := range []string{"update", "physics", "render"} {
		phase := phase
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perLane; i++ {
				s.HookRan(phase, "mod")
			}
		}()
	}
	wg.Wait()

	tally := s.TallySnapshot()
	assert.EqualValues(t, perLane, tally["update/mod"])
	assert.EqualValues(t, perLane, tally["physics/mod"])
	assert.EqualValues(t, perLane, tally["render/mod"])
}

func TestHandlerExposesCounters(t *testing.T) {
	t.Parallel()
	s := New()
	s.Firing("update")
	s.Firing("update")
	s.HookError("physics")

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `runloop_phase_firings_total{phase="update"} 2`)
	assert.Contains(t, body, `runloop_hook_errors_total{phase="physics"} 1`)
}
