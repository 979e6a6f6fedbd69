package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fortuna/boreas/internal/config"
)

func TestSpecFromFlags(t *testing.T) {
	cfg := &config.Config{
		Update: config.UpdateConfig{Lookback: 16, Span: 32, FetchDelay: time.Second},
	}
	flags := updateCmd.Flags()
	t.Cleanup(func() {
		for _, name := range []string{"lookback", "span"} {
			f := flags.Lookup(name)
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		}
	})

	// Nothing set on the command line: config wins.
	spec := specFromFlags(cfg, flags)
	require.Equal(t, 16, spec.Lookback)
	require.Equal(t, 32, spec.Span)
	require.Equal(t, time.Second, spec.Delay)

	// An explicit zero is a real value, not "use the default".
	require.NoError(t, flags.Set("lookback", "0"))
	require.NoError(t, flags.Set("span", "64"))

	spec = specFromFlags(cfg, flags)
	require.Equal(t, 0, spec.Lookback)
	require.Equal(t, 64, spec.Span)
}
