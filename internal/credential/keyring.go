package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "xraysync"

// ErrNotFound is returned by Get when no credential is stored under the key.
var ErrNotFound = keyring.ErrKeyNotFound

// Opener opens the keyring. Tests replace it with an in-memory ring.
var Opener = openKeyring

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/xraysync/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("xraysync-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// JiraKey returns the keyring key the password of user is stored under.
func JiraKey(user string) string {
	return "jira-" + user
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := Opener()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := Opener()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := Opener()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// IsNotFound reports whether err means the credential is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ResolvePassword returns password when set, otherwise the password stored
// for user by the login command.
func ResolvePassword(user, password string) (string, error) {
	if password != "" {
		return password, nil
	}

	stored, err := Get(JiraKey(user))
	if err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf(
				"no password for %s: set JIRA_PASS or run the login command", user,
			)
		}
		return "", err
	}
	return stored, nil
}
