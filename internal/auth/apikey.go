// Package auth holds the sensor ingest API key check.
package auth

import "crypto/subtle"

// Keyring verifies sensor API keys. An empty keyring accepts everything,
// which keeps local dev runs friction-free.
type Keyring struct {
	keys []string
}

func NewKeyring(keys []string) *Keyring {
	return &Keyring{keys: keys}
}

// Verify reports whether key is accepted. Comparison is constant-time per
// configured key.
func (k *Keyring) Verify(key string) bool {
	if len(k.keys) == 0 {
		return true
	}
	ok := false
	for _, want := range k.keys {
		if subtle.ConstantTimeCompare([]byte(want), []byte(key)) == 1 {
			ok = true
		}
	}
	return ok
}

// Open reports whether the keyring accepts unauthenticated callers.
func (k *Keyring) Open() bool { return len(k.keys) == 0 }
