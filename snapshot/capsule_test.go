package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapsuleTakenExactlyOnce(t *testing.T) {
	c := newCapsules()
	cb := func(Response) {}

	id := c.put(3, cb)
	require.Equal(t, 1, c.len())

	cp := c.take(id)
	require.NotNil(t, cp)
	require.Equal(t, 3, cp.slot)
	require.Zero(t, c.len())

	require.Nil(t, c.take(id), "a capsule is consumed by its first take")
}

func TestCapsuleIdsUnique(t *testing.T) {
	c := newCapsules()
	cb := func(Response) {}
	a := c.put(0, cb)
	b := c.put(1, cb)
	require.NotEqual(t, a, b)

	// an untaken capsule stays live: this is the designed leak when the
	// host never completes a request
	require.NotNil(t, c.take(a))
	require.Equal(t, 1, c.len())
}
