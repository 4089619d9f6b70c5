package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoAuthState is returned when the cache slot holds no session state
var ErrNoAuthState = errors.New("no cached session state")

// AuthCache is a single-slot, file-backed cache for a logged in browser
// session. The slot is written at most once per run and read by every
// test that wants an authenticated context.
type AuthCache struct {
	mu   sync.Mutex
	path string
}

// NewAuthCache creates a cache stored at path
func NewAuthCache(path string) *AuthCache {
	return &AuthCache{path: path}
}

// Path returns the location of the cached state file
func (c *AuthCache) Path() string {
	return c.path
}

// StatePath returns the path of the cached state, or ErrNoAuthState when the
// slot is empty.
func (c *AuthCache) StatePath() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.exists() {
		return "", ErrNoAuthState
	}
	return c.path, nil
}

// Ensure fills the slot by calling create with a temporary path when the slot
// is empty. create must write a playwright storage-state document to the path
// it is given. The result is moved into place only if it parses.
func (c *AuthCache) Ensure(create func(path string) error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exists() {
		return false, nil
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create auth cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".storagestate-*.json")
	if err != nil {
		return false, fmt.Errorf("failed to create auth cache file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := create(tmpPath); err != nil {
		return false, err
	}
	if err := validateStorageState(tmpPath); err != nil {
		return false, err
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return false, fmt.Errorf("failed to store auth cache: %w", err)
	}
	return true, nil
}

// Remove empties the slot. Removing an empty slot is not an error.
func (c *AuthCache) Remove() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove auth cache: %w", err)
	}
	return nil
}

func (c *AuthCache) exists() bool {
	info, err := os.Stat(c.path)
	return err == nil && !info.IsDir()
}

type storageState struct {
	Cookies []json.RawMessage `json:"cookies"`
	Origins []json.RawMessage `json:"origins"`
}

func validateStorageState(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read session state: %w", err)
	}
	var state storageState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("invalid session state: %w", err)
	}
	return nil
}
