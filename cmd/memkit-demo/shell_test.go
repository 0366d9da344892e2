package main

import (
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/memkit/console"
	"github.com/pavanmanishd/memkit/scene"
)

func newTestShell(t *testing.T, capacity int) (*shell, *console.Console) {
	t.Helper()
	sc, err := scene.New(capacity)
	require.NoError(t, err)
	t.Cleanup(sc.Close)

	sh := &shell{scene: sc, mu: new(sync.Mutex), radius: 1, step: 1}
	con, err := console.New(console.WithEvaluator(sh.eval))
	require.NoError(t, err)
	sh.log = slog.New(con.Handler(&slog.HandlerOptions{Level: slog.LevelDebug}))
	return sh, con
}

func TestShellSession(t *testing.T) {
	sh, con := newTestShell(t, 64)

	for _, cmd := range []string{
		"spawn base 10 0 0",
		"spawn tip 0 2 0",
		"parent tip base",
		"where tip",
		"parent base tip",
		"remove base",
		"where tip",
		"bogus",
		"spawn incomplete",
	} {
		con.Submit(cmd)
	}

	assert.Equal(t, []string{
		"> spawn base 10 0 0",
		"level=INFO msg=spawned name=base",
		"> spawn tip 0 2 0",
		"level=INFO msg=spawned name=tip",
		"> parent tip base",
		"> where tip",
		"tip\t10\t2\t0",
		"> parent base tip",
		"error: parent: base is an ancestor of tip",
		"> remove base",
		"> where tip",
		"tip\t0\t2\t0",
		"> bogus",
		"error: unknown command \"bogus\"",
		"> spawn incomplete",
		"error: usage: spawn NAME X Y Z",
	}, con.Lines())
	assert.Equal(t, 1, sh.scene.Len())
}

func TestShellPopulateAndChurn(t *testing.T) {
	sh, con := newTestShell(t, 20)

	con.Submit("populate")
	assert.Equal(t, 20, sh.scene.Len())

	require.NoError(t, sh.churn(5))
	assert.Equal(t, 20, sh.scene.Len())
	assert.Equal(t, 20, sh.scene.Metrics().Live)
	_, ok := sh.scene.Lookup("churn-5")
	assert.True(t, ok)

	con.Submit("churn 3")
	_, ok = sh.scene.Lookup("churn-8")
	assert.True(t, ok)

	con.Submit("stats")
	lines := con.Lines()
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "Arena{live: 20/20"), last)
	assert.Contains(t, last, "HashMap{size: 8")
}
