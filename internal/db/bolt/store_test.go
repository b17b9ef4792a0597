package bolt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/taggate/internal/db"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taggate.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, path
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.WaitForReady(context.Background(), time.Second))
}

func TestPing_Closed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	s.Close()

	err = s.Ping(context.Background())
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpPing, dbErr.Op)
}

func TestHash_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HSet(ctx, "user:k1", map[string]string{"id": "u1", "active": "1"}))
	require.NoError(t, s.HSet(ctx, "user:k1", map[string]string{"active": "0"}))

	m, err := s.HGetAll(ctx, "user:k1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "u1", "active": "0"}, m)

	ok, err := s.Exists(ctx, "user:k1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHGetAll_Missing(t *testing.T) {
	s, _ := newTestStore(t)

	m, err := s.HGetAll(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.NotNil(t, m)
}

func TestHSet_NoFields(t *testing.T) {
	s, _ := newTestStore(t)
	require.Error(t, s.HSet(context.Background(), "k", map[string]string{}))
}

func TestDel(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HSet(ctx, "h", map[string]string{"f": "v"}))
	require.NoError(t, s.RPush(ctx, "l", []byte("x")))

	require.NoError(t, s.Del(ctx, "h"))
	require.NoError(t, s.Del(ctx, "l"))
	require.NoError(t, s.Del(ctx, "never-existed"))

	for _, key := range []string{"h", "l"} {
		ok, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestWrongType(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.HSet(ctx, "h", map[string]string{"f": "v"}))
	require.NoError(t, s.RPush(ctx, "l", []byte("x")))

	assert.ErrorIs(t, s.RPush(ctx, "h", []byte("y")), db.ErrWrongType)
	assert.ErrorIs(t, s.HSet(ctx, "l", map[string]string{"f": "v"}), db.ErrWrongType)

	_, err := s.HGetAll(ctx, "l")
	assert.ErrorIs(t, err, db.ErrWrongType)
	_, err = s.LRange(ctx, "h", 0, -1)
	assert.ErrorIs(t, err, db.ErrWrongType)
}

func TestList_Order(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RPush(ctx, "q", []byte("a"), []byte("b")))
	require.NoError(t, s.RPush(ctx, "q", []byte("c")))
	require.NoError(t, s.RPush(ctx, "q"))

	items, err := s.LRange(ctx, "q", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, items)
}

func TestLRange_Indices(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	for i := range 5 {
		require.NoError(t, s.RPush(ctx, "q", []byte(fmt.Sprint(i))))
	}

	tests := []struct {
		start, stop int64
		want        []string
	}{
		{0, -1, []string{"0", "1", "2", "3", "4"}},
		{-2, -1, []string{"3", "4"}},
		{1, 2, []string{"1", "2"}},
		{3, 100, []string{"3", "4"}},
		{-100, 0, []string{"0"}},
		{4, 1, []string{}},
		{5, 10, []string{}},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d..%d", tc.start, tc.stop), func(t *testing.T) {
			items, err := s.LRange(ctx, "q", tc.start, tc.stop)
			require.NoError(t, err)
			got := make([]string, len(items))
			for i, it := range items {
				got[i] = string(it)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLRange_Missing(t *testing.T) {
	s, _ := newTestStore(t)
	items, err := s.LRange(context.Background(), "missing", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCancelledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, errors.Is(s.HSet(ctx, "k", map[string]string{"f": "v"}), context.Canceled))
	assert.True(t, errors.Is(s.RPush(ctx, "k", []byte("v")), context.Canceled))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.HSet(ctx, "user:k", map[string]string{"id": "u1"}))
	require.NoError(t, s.RPush(ctx, "queries:u1", []byte(`{"n":1}`)))
	s.Close()

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	m, err := s.HGetAll(ctx, "user:k")
	require.NoError(t, err)
	assert.Equal(t, "u1", m["id"])

	items, err := s.LRange(ctx, "queries:u1", 0, -1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.JSONEq(t, `{"n":1}`, string(items[0]))
}

func TestConcurrentPush(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.RPush(ctx, "q", []byte(fmt.Sprint(i))))
		}()
	}
	wg.Wait()

	items, err := s.LRange(ctx, "q", 0, -1)
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestClampRange(t *testing.T) {
	from, to, ok := clampRange(0, 0, -1)
	assert.False(t, ok)

	from, to, ok = clampRange(3, -1, -1)
	assert.True(t, ok)
	assert.Equal(t, int64(2), from)
	assert.Equal(t, int64(2), to)
}
