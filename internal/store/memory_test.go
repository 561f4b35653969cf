package store

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	ctx := t.Context()

	require.NoError(t, kv.Set(ctx, "order:1", map[string]string{"status": "pending"}))

	var got map[string]string
	require.NoError(t, kv.Get(ctx, "order:1", &got))
	assert.Equal(t, "pending", got["status"])

	require.NoError(t, kv.Delete(ctx, "order:1"))
	assert.ErrorIs(t, kv.Get(ctx, "order:1", &got), ErrNotFound)

	// delete d'une clé absente : pas d'erreur
	require.NoError(t, kv.Delete(ctx, "order:1"))
}

func TestMemoryKVGetByPrefix(t *testing.T) {
	kv := NewMemoryKV()
	ctx := t.Context()

	require.NoError(t, kv.Set(ctx, "order:1", map[string]int{"n": 1}))
	require.NoError(t, kv.Set(ctx, "order:2", map[string]int{"n": 2}))
	require.NoError(t, kv.Set(ctx, "product:1", map[string]int{"n": 3}))

	raws, err := kv.GetByPrefix(ctx, "order:")
	require.NoError(t, err)
	assert.Len(t, raws, 2)

	raws, err = kv.GetByPrefix(ctx, "payment:")
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestMemoryKVUpdate(t *testing.T) {
	kv := NewMemoryKV()
	ctx := t.Context()

	require.NoError(t, kv.Set(ctx, "counter", map[string]int{"n": 1}))

	err := kv.Update(ctx, "counter", func(raw json.RawMessage) (any, error) {
		var v map[string]int
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		v["n"]++
		return v, nil
	})
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, kv.Get(ctx, "counter", &got))
	assert.Equal(t, 2, got["n"])

	// clé absente
	err = kv.Update(ctx, "missing", func(raw json.RawMessage) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrNotFound)

	// l'erreur de mutate remonte sans écrire
	boom := errors.New("boom")
	err = kv.Update(ctx, "counter", func(raw json.RawMessage) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, kv.Get(ctx, "counter", &got))
	assert.Equal(t, 2, got["n"])
}
