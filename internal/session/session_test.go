package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the token lifecycle every Store must support.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	_, err := st.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken, "fresh store should be empty")

	require.NoError(t, st.SetToken(ctx, "abc.def"))
	token, err := st.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	require.NoError(t, st.SetToken(ctx, "second"))
	token, err = st.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token, "SetToken should overwrite")

	require.NoError(t, st.Clear(ctx))
	_, err = st.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	// Clearing an empty slot is not an error
	assert.NoError(t, st.Clear(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestBadgerStore_InMemory(t *testing.T) {
	st, err := NewBadgerStore("")
	require.NoError(t, err)
	defer st.Close()

	exerciseStore(t, st)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := NewBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, st.SetToken(ctx, "persisted"))
	require.NoError(t, st.Close())

	// A new process reads the token left behind by the previous one
	st, err = NewBadgerStore(dir)
	require.NoError(t, err)
	defer st.Close()

	token, err := st.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	st, err := NewRedisStore(context.Background(), mr.Addr(), "test")
	require.NoError(t, err)
	defer st.Close()

	exerciseStore(t, st)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	st, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.SetToken(context.Background(), "shared"))

	val, err := mr.Get("article-desk:token")
	require.NoError(t, err)
	assert.Equal(t, "shared", val)

	require.NoError(t, st.Clear(context.Background()))
	assert.False(t, mr.Exists("article-desk:token"))
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(context.Background(), addr, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	st, err := Open(ctx, "memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, st)

	st, err = Open(ctx, "", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &BadgerStore{}, st)
	require.NoError(t, st.Close())

	_, err = Open(ctx, "badger", "")
	assert.Error(t, err)

	_, err = Open(ctx, "etcd://nope", "")
	assert.Error(t, err)
}

func TestHybridStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	st, err := NewHybridStore(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	defer st.Close()

	exerciseStore(t, st)
}

func TestHybridStore_FallsBackToLocalCopy(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	ctx := context.Background()
	st, err := NewHybridStore(ctx, mr.Addr(), "")
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.SetToken(ctx, "abc"))
	val, err := mr.Get("article-desk:token")
	require.NoError(t, err)
	assert.Equal(t, "abc", val)

	// Logout from another terminal
	mr.Del("article-desk:token")
	_, err = st.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, st.SetToken(ctx, "def"))
	mr.Close()

	token, err := st.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "def", token)
}

func TestOpen_Hybrid(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	st, err := Open(context.Background(), "hybrid+redis://"+mr.Addr(), t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &HybridStore{}, st)
	require.NoError(t, st.Close())
}
