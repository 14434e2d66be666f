package physlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/internal/ctxlog"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		got, err := New(context.Background(), nil)
		require.NoError(t, err)
		s := got.(*Steps)
		assert.Equal(t, 0.01, s.nominal)
		assert.EqualValues(t, 600, s.reportEvery)
	})

	t.Run("invalid nominal", func(t *testing.T) {
		t.Parallel()
		_, err := New(context.Background(), catalog.Params{"nominal": "slow"})
		assert.Error(t, err)
	})

	t.Run("invalid report_every", func(t *testing.T) {
		t.Parallel()
		_, err := New(context.Background(), catalog.Params{"report_every": "often"})
		assert.Error(t, err)
	})
}

func TestOnPhysicsTracksJitterAndReports(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))

	got, err := New(ctx, catalog.Params{"nominal": "10ms", "report_every": "2"})
	require.NoError(t, err)
	s := got.(*Steps)
	require.NoError(t, s.OnInit(ctx))

	require.NoError(t, s.OnPhysics(0.010))
	assert.NotContains(t, buf.String(), "Physics lane summary.")
	assert.Zero(t, s.maxJitter)

	require.NoError(t, s.OnPhysics(0.030))
	assert.Contains(t, buf.String(), "Physics lane summary.")
	assert.EqualValues(t, 2, s.StepCount())
	assert.Zero(t, s.maxJitter, "jitter resets after each summary")
}

func TestModuleRegister(t *testing.T) {
	t.Parallel()
	cat := catalog.New()
	Module{}.Register(cat)
	assert.Contains(t, cat.Types(), "physlog")
}
