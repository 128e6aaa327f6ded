// Package credentials provides the key/value credential stores the API
// client reads its bearer token from.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// TokenKey is the key the bearer token is stored under.
const TokenKey = "token"

// Store is a read-only key/value credential store.
type Store interface {
	Get(key string) (string, bool)
}

// Static is an in-memory store, mostly useful in tests.
type Static map[string]string

func (s Static) Get(key string) (string, bool) {
	v, ok := s[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Env reads keys from environment variables named Prefix + upper(key),
// e.g. FINADMIN_API_TOKEN for key "token" with prefix "FINADMIN_API_".
type Env struct {
	Prefix string
}

func (e Env) Get(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(e.Prefix + strings.ToUpper(key)))
	return v, v != ""
}

// File is a store backed by a flat JSON object on disk. The file is read
// on every lookup so that a token refreshed by another process is picked up.
type File struct {
	Path string
}

func (f File) Get(key string) (string, bool) {
	values, err := f.load()
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(values[key])
	return v, v != ""
}

func (f File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("credentials file %s: %w", f.Path, err)
	}
	return values, nil
}

// Chain consults each store in order and returns the first hit.
type Chain []Store

func (c Chain) Get(key string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Get(key); ok {
			return v, true
		}
	}
	return "", false
}
