package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDataDirReturnsNilStore(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestPutGet_RoundTrips(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("k1", []byte("hello")))
	val, ok, err := s.Get("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", string(val))
}

func TestGet_MissingKeyReturnsNotOK(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPut_OverwritesExistingValue(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("k1", []byte("first")))
	require.NoError(t, s.Put("k1", []byte("second")))

	val, ok, err := s.Get("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(val))
}

func TestNilStore_OperationsAreNoOps(t *testing.T) {
	var s *Store
	val, ok, err := s.Get("x")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.NoError(t, s.Put("x", []byte("y")))
	assert.NoError(t, s.Close())
}
