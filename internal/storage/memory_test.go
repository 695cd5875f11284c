package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()

	_, found, err := m.Get("k")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, m.Put("k", []byte("v")))

	v, found, err := m.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, m.Delete("k"))
	_, found, err = m.Get("k")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put("k", []byte("abc")))

	v, _, _ := m.Get("k")
	v[0] = 'z'

	v2, _, _ := m.Get("k")
	require.Equal(t, []byte("abc"), v2)
}
