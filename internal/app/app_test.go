package app_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/runloop/internal/app"
	"github.com/vk/runloop/internal/catalog"
)

// probe is a test module that records which lifecycle hooks ran.
type probe struct {
	mu        sync.Mutex
	initDone  bool
	startDone bool
	updates   int
}

func (p *probe) OnInit(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initDone = true
	return nil
}

func (p *probe) OnStart(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startDone = true
	return nil
}

func (p *probe) OnUpdate(dt float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates++
	return nil
}

func (p *probe) snapshot() (bool, bool, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initDone, p.startDone, p.updates
}

// probeModule registers a factory that always hands out the same probe so the
// test can observe it.
type probeModule struct{ p *probe }

func (m probeModule) Register(c *catalog.Catalog) {
	c.RegisterFactory("probe", func(ctx context.Context, params catalog.Params) (any, error) {
		return m.p, nil
	})
}

func writeHostConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "host.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAppRunsFullLifecycle(t *testing.T) {
	t.Parallel()
	path := writeHostConfig(t, `
		ticks {
			update  = "2ms"
			physics = "2ms"
		}

		module "p" { type = "probe" }
	`)

	p := &probe{}
	testApp, logs := app.SetupAppTest(t, &app.Config{ConfigPath: path}, probeModule{p: p})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- testApp.Run(ctx) }()

	require.Eventually(t, func() bool {
		init, start, updates := p.snapshot()
		return init && start && updates >= 3
	}, 2*time.Second, 5*time.Millisecond, "lifecycle hooks should fire")

	assert.Contains(t, logs.String(), "All services up and running")
	assert.Equal(t, 1, testApp.Registry().Len())
	assert.True(t, testApp.Registry().Consumed())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	assert.Contains(t, logs.String(), "Shutting down")
}

func TestAppClientRoleAnnouncesControllers(t *testing.T) {
	t.Parallel()
	path := writeHostConfig(t, `
		role = "client"

		ticks {
			update  = "2ms"
			physics = "2ms"
			render  = "2ms"
		}

		module "p" { type = "probe" }
	`)

	p := &probe{}
	testApp, logs := app.SetupAppTest(t, &app.Config{ConfigPath: path}, probeModule{p: p})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- testApp.Run(ctx) }()

	require.Eventually(t, func() bool {
		init, _, _ := p.snapshot()
		return init
	}, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, logs.String(), "All controllers up and running")

	cancel()
	require.NoError(t, <-done)
}

func TestNewAppPanicsOnBadConfig(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		app.NewApp(&app.SafeBuffer{}, &app.Config{ConfigPath: filepath.Join(t.TempDir(), "nope.hcl")})
	})
}
