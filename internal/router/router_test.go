package router

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHostHashDeterministic(t *testing.T) {
	require.Equal(t, HostHash([]byte("a.example.com")), HostHash([]byte("a.example.com")))
	require.NotEqual(t, HostHash([]byte("a.example.com")), HostHash([]byte("b.example.com")))
}

func TestTableRoutesKnownHost(t *testing.T) {
	table, err := NewTable(map[string][]string{
		"a.example.com": {"127.0.0.1:9001"},
	})
	require.NoError(t, err)

	b, ok := table.Route([]byte("a.example.com"))
	require.True(t, ok)
	require.Equal(t, "127.0.0.1:9001", b.Next().String())
}

func TestTableUnknownHost(t *testing.T) {
	table, err := NewTable(map[string][]string{
		"a.example.com": {"127.0.0.1:9001"},
	})
	require.NoError(t, err)

	_, ok := table.Route([]byte("unknown.example.com"))
	require.False(t, ok)
}

func TestBalancerRoundRobins(t *testing.T) {
	table, err := NewTable(map[string][]string{
		"a.example.com": {"127.0.0.1:9001", "127.0.0.1:9002", "127.0.0.1:9003"},
	})
	require.NoError(t, err)

	b, ok := table.Route([]byte("a.example.com"))
	require.True(t, ok)

	seen := make([]string, 6)
	for i := range seen {
		seen[i] = b.Next().String()
	}
	require.Equal(t, []string{
		"127.0.0.1:9001", "127.0.0.1:9002", "127.0.0.1:9003",
		"127.0.0.1:9001", "127.0.0.1:9002", "127.0.0.1:9003",
	}, seen)
}
