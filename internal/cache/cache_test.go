package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "abc:wgsl:0f", Key("abc", "wgsl", "0f"))
	assert.NotEqual(t, Key("abc", "glsl", "0f"), Key("abc", "wgsl", "0f"))
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	e := Entry{Key: "k1", Name: "tinted", Target: "glsl", Stage: "fragment", EntryPoint: "main", Source: "void main() {}\n"}
	require.NoError(t, s.Put(ctx, e))

	got, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, e.Source, got.Source)
	assert.Equal(t, "main", got.EntryPoint)
	assert.False(t, got.Created.IsZero())

	e.Source = "void main() { }\n"
	require.NoError(t, s.Put(ctx, e))
	got, ok, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, e.Source, got.Source)

	assert.Error(t, s.Put(ctx, Entry{}))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	testStore(t, m)
	assert.Equal(t, 1, m.Len())

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, m.Put(context.Background(), Entry{Key: "k2", Created: created}))
	got, _, err := m.Get(context.Background(), "k2")
	require.NoError(t, err)
	assert.Equal(t, created, got.Created)

	require.NoError(t, m.Close())
	_, _, err = m.Get(context.Background(), "k1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Put(context.Background(), Entry{Key: "k3"}), ErrClosed)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	assert.ErrorIs(t, m.Put(ctx, Entry{Key: "k"}), context.Canceled)
	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDSNFromEnv(t *testing.T) {
	t.Setenv("PGHOST", "db.local")
	t.Setenv("PGPORT", "6543")
	t.Setenv("PGUSER", "")
	t.Setenv("PGDATABASE", "")
	t.Setenv("PGPASSWORD", "")
	assert.Equal(t, "host=db.local port=6543 user=shadergraph dbname=shadergraph sslmode=disable", DSNFromEnv())

	t.Setenv("PGPASSWORD", "secret")
	assert.Contains(t, DSNFromEnv(), "password=secret")
}

// TestPostgres runs against a live database when SGC_TEST_DSN is set.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("SGC_TEST_DSN")
	if dsn == "" {
		t.Skip("SGC_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := OpenPostgres(ctx, dsn, logr.Discard())
	require.NoError(t, err)
	defer p.Close()

	_, err = p.db.ExecContext(ctx, `DELETE FROM shader_cache WHERE key IN ('k1', 'missing')`)
	require.NoError(t, err)
	testStore(t, p)
}
