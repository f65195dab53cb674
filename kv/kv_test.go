package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]IStore {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	s, err := OpenSQL("sqlite", "file:"+filepath.Join(t.TempDir(), "kv.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() {
		b.Close()
		s.Close()
	})
	return map[string]IStore{"bolt": b, "sqlite": s}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "options", "missing")
			assert.True(t, IsNotFound(err))

			require.NoError(t, s.Put(ctx, "options", "b", []byte("1")))
			require.NoError(t, s.Put(ctx, "options", "a", []byte("2")))
			require.NoError(t, s.Put(ctx, "options", "b", []byte("3")), "put replaces")
			require.NoError(t, s.Put(ctx, "drafts", "a", []byte("x")))

			v, err := s.Get(ctx, "options", "b")
			require.NoError(t, err)
			assert.Equal(t, []byte("3"), v)

			var keys []string
			require.NoError(t, s.ForEach(ctx, "options", func(k string, v []byte) error {
				keys = append(keys, k+"="+string(v))
				return nil
			}))
			assert.Equal(t, []string{"a=2", "b=3"}, keys)

			require.NoError(t, s.Delete(ctx, "options", "a"))
			require.NoError(t, s.Delete(ctx, "options", "a"))
			require.NoError(t, s.Delete(ctx, "nobucket", "a"))
			_, err = s.Get(ctx, "options", "a")
			assert.True(t, IsNotFound(err))

			stop := errors.New("stop")
			n := 0
			err = s.ForEach(ctx, "options", func(string, []byte) error {
				n++
				return stop
			})
			assert.Equal(t, stop, errors.Cause(err))
			assert.Equal(t, 1, n)

			require.NoError(t, s.ForEach(ctx, "nobucket", func(string, []byte) error {
				t.Fatal("empty bucket")
				return nil
			}))
		})
	}
}

func TestIsDupKeyError(t *testing.T) {
	assert.True(t, IsDupKeyError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, IsDupKeyError(errors.Wrap(&mysql.MySQLError{Number: 1062}, "insert")))
	assert.False(t, IsDupKeyError(&mysql.MySQLError{Number: 1045}))
	assert.True(t, IsDupKeyError(errors.New("constraint failed: UNIQUE constraint failed: kv.bucket, kv.k (1555)")))
	assert.False(t, IsDupKeyError(nil))
}

func TestOpenSQLUnknownKind(t *testing.T) {
	_, err := OpenSQL("postgres", "")
	assert.Error(t, err)
}
