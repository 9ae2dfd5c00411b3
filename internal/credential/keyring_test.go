package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useArrayKeyring(t *testing.T, items ...keyring.Item) {
	t.Helper()

	ring := keyring.NewArrayKeyring(items)
	prev := Opener
	Opener = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { Opener = prev })
}

func TestSetGetDelete(t *testing.T) {
	useArrayKeyring(t)

	require.NoError(t, Set(JiraKey("qa"), "token-1"))

	got, err := Get(JiraKey("qa"))
	require.NoError(t, err)
	assert.Equal(t, "token-1", got)

	require.NoError(t, Delete(JiraKey("qa")))

	_, err = Get(JiraKey("qa"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestResolvePassword(t *testing.T) {
	tests := map[string]struct {
		items    []keyring.Item
		password string
		want     string
		wantErr  bool
	}{
		"explicit password wins": {
			items:    []keyring.Item{{Key: "jira-qa", Data: []byte("stored")}},
			password: "from-env",
			want:     "from-env",
		},
		"falls back to keyring": {
			items: []keyring.Item{{Key: "jira-qa", Data: []byte("stored")}},
			want:  "stored",
		},
		"nothing stored": {
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			useArrayKeyring(t, test.items...)

			got, err := ResolvePassword("qa", test.password)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}
