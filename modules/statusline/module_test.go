package statusline

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

func TestOnRenderWritesStatusLine(t *testing.T) {
	t.Parallel()
	logBuf := &bytes.Buffer{}
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(logBuf, nil)))

	got, err := New(ctx, catalog.Params{"label": "demo"})
	require.NoError(t, err)
	s := got.(*Statusline)

	out := &bytes.Buffer{}
	s.W = out

	require.NoError(t, s.OnInit(ctx))
	require.NoError(t, s.OnStart(ctx))
	assert.Contains(t, logBuf.String(), "Status line active.")

	require.NoError(t, s.OnRender(0.016))
	require.NoError(t, s.OnRender(0.016))

	assert.EqualValues(t, 2, s.Frames())
	assert.Contains(t, out.String(), "demo | frames=2")
	assert.Greater(t, s.fps, 0.0, "moving average picks up after a few frames")
}

func TestOnRenderIgnoresZeroDelta(t *testing.T) {
	t.Parallel()
	s := &Statusline{W: &bytes.Buffer{}, label: "x"}
	require.NoError(t, s.OnRender(0))
	assert.Zero(t, s.fps)
	assert.EqualValues(t, 1, s.Frames())
}

func TestModuleRegister(t *testing.T) {
	t.Parallel()
	cat := catalog.New()
	Module{}.Register(cat)
	assert.Contains(t, cat.Types(), "statusline")
}
