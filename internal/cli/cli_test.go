package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints usage and exits cleanly", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse(nil, out)
		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("config flag", func(t *testing.T) {
		t.Parallel()
		cfg, shouldExit, err := Parse([]string{"-config", "host.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, "host.hcl", cfg.ConfigPath)
	})

	t.Run("shorthand flag", func(t *testing.T) {
		t.Parallel()
		cfg, _, err := Parse([]string{"-c", "host.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "host.hcl", cfg.ConfigPath)
	})

	t.Run("positional argument", func(t *testing.T) {
		t.Parallel()
		cfg, _, err := Parse([]string{"conf/"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "conf/", cfg.ConfigPath)
	})

	t.Run("log overrides are optional and validated", func(t *testing.T) {
		t.Parallel()
		cfg, _, err := Parse([]string{"-log-level", "DEBUG", "-log-format", "json", "host.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)

		_, _, err = Parse([]string{"-log-level", "loud", "host.hcl"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)

		_, _, err = Parse([]string{"-log-format", "xml", "host.hcl"}, &bytes.Buffer{})
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "log-format")
	})
}
