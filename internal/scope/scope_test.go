package scope

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/internal/config"
	"github.com/vk/runloop/internal/ctxlog"
	"github.com/vk/runloop/internal/registry"
)

func testTree() config.Folder {
	return config.Folder{
		Modules: []config.Decl{
			{Name: "pulse", Type: "heartbeat", Params: map[string]string{"every": "1s"}},
		},
		Folders: []config.Folder{
			{
				Name: "monitoring",
				Modules: []config.Decl{
					{Name: "sys", Type: "sysmon"},
				},
			},
		},
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()
	root := FromConfig(context.Background(), testTree())

	require.False(t, root.IsModule())
	kids := root.Children()
	require.Len(t, kids, 2)

	assert.Equal(t, registry.Identity("pulse"), kids[0].Identity())
	assert.True(t, kids[0].IsModule())

	mon := kids[1]
	assert.Equal(t, registry.Identity("monitoring"), mon.Identity())
	assert.False(t, mon.IsModule())
	monKids := mon.Children()
	require.Len(t, monKids, 1)
	assert.Equal(t, registry.Identity("monitoring/sys"), monKids[0].Identity())
}

func TestFromConfigWarnsOnDuplicateNames(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	tree := config.Folder{
		Modules: []config.Decl{
			{Name: "twin", Type: "heartbeat"},
			{Name: "twin", Type: "sysmon"},
		},
	}
	FromConfig(ctx, tree)

	assert.Contains(t, buf.String(), "Duplicate name")
	assert.Contains(t, buf.String(), "twin")
}

func TestLoader(t *testing.T) {
	t.Parallel()

	cat := catalog.New()
	cat.RegisterFactory("heartbeat", func(ctx context.Context, params catalog.Params) (any, error) {
		return "beat-" + params.String("every", ""), nil
	})
	cat.RegisterFactory("sysmon", func(ctx context.Context, params catalog.Params) (any, error) {
		return "sys", nil
	})

	root := FromConfig(context.Background(), testTree())
	loader := NewLoader(cat, root)

	t.Run("builds declared modules with their params", func(t *testing.T) {
		t.Parallel()
		got, err := loader.Load(context.Background(), "pulse")
		require.NoError(t, err)
		assert.Equal(t, "beat-1s", got)

		got, err = loader.Load(context.Background(), "monitoring/sys")
		require.NoError(t, err)
		assert.Equal(t, "sys", got)
	})

	t.Run("unknown identity", func(t *testing.T) {
		t.Parallel()
		_, err := loader.Load(context.Background(), "ghost")
		assert.ErrorContains(t, err, "no declaration for identity")
	})

	t.Run("unknown type propagates", func(t *testing.T) {
		t.Parallel()
		bare := catalog.New()
		l := NewLoader(bare, root)
		_, err := l.Load(context.Background(), "pulse")
		assert.ErrorIs(t, err, catalog.ErrUnknownModuleType)
	})
}
