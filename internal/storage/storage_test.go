package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapters(t *testing.T) {
	adapters := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemory()
		},
		"file": func(t *testing.T) Store {
			st, err := NewFile(filepath.Join(t.TempDir(), "state"))
			require.NoError(t, err)
			return st
		},
		"sqlite": func(t *testing.T) Store {
			st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err)
			t.Cleanup(func() { st.Close() })
			return st
		},
	}

	for name, open := range adapters {
		t.Run(name, func(t *testing.T) {
			st := open(t)

			_, err := st.Load("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.Save(KeyCards, []byte(`[{"id":"c1"}]`)))
			got, err := st.Load(KeyCards)
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"c1"}]`, string(got))

			// Saving again overwrites in full.
			require.NoError(t, st.Save(KeyCards, []byte(`[]`)))
			got, err = st.Load(KeyCards)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, st.Remove(KeyCards))
			_, err = st.Load(KeyCards)
			assert.ErrorIs(t, err, ErrNotFound)

			// Removing a missing key is not an error.
			assert.NoError(t, st.Remove("missing"))
		})
	}
}

func TestFileKeysDoNotCollide(t *testing.T) {
	st, err := NewFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, st.Save(KeyAuth, []byte("true")))
	require.NoError(t, st.Save(KeyCurrentUser, []byte("a@x.com")))

	auth, err := st.Load(KeyAuth)
	require.NoError(t, err)
	user, err := st.Load(KeyCurrentUser)
	require.NoError(t, err)

	assert.Equal(t, "true", string(auth))
	assert.Equal(t, "a@x.com", string(user))
}
