package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrConfigNotFound is matched by errors.Is on a *NotFoundError.
var ErrConfigNotFound = errors.New("config not found")

// NotFoundError reports an identifier with no runner entry.
type NotFoundError struct {
	Identifier string
	Available  []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no runner configured for %q (available: %s)", e.Identifier, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrConfigNotFound }

// Store is a read-only source of runner configuration.
type Store interface {
	// Identifiers returns the configured keys, sorted.
	Identifiers() ([]string, error)
	// Lookup returns the resolved entry for id and whether it exists.
	Lookup(id string) (ExecutionConfig, bool, error)
	// Settings returns file-wide options.
	Settings() (Settings, error)
}

// Resolve looks id up in store. A missing id yields a *NotFoundError listing
// the available identifiers.
func Resolve(id string, store Store) (ExecutionConfig, error) {
	cfg, ok, err := store.Lookup(id)
	if err != nil {
		return ExecutionConfig{}, err
	}
	if ok {
		return cfg, nil
	}
	ids, err := store.Identifiers()
	if err != nil {
		return ExecutionConfig{}, err
	}
	return ExecutionConfig{}, &NotFoundError{Identifier: id, Available: ids}
}

// FileStore reads its file again on every call, so edits are picked up by
// the next lookup without a restart.
type FileStore struct {
	Path string
}

func (s FileStore) Identifiers() ([]string, error) {
	f, err := Load(s.Path)
	if err != nil {
		return nil, err
	}
	return f.Identifiers(), nil
}

func (s FileStore) Lookup(id string) (ExecutionConfig, bool, error) {
	f, err := Load(s.Path)
	if err != nil {
		return ExecutionConfig{}, false, err
	}
	r, ok := f.Runners[id]
	if !ok {
		return ExecutionConfig{}, false, nil
	}
	return r.Resolve(), true, nil
}

func (s FileStore) Settings() (Settings, error) {
	f, err := Load(s.Path)
	if err != nil {
		return Settings{}, err
	}
	return f.Settings(), nil
}

// MapStore is an in-memory Store.
type MapStore struct {
	Runners map[string]Runner
	Options Settings
}

func (s MapStore) Identifiers() ([]string, error) {
	ids := make([]string, 0, len(s.Runners))
	for k := range s.Runners {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s MapStore) Lookup(id string) (ExecutionConfig, bool, error) {
	r, ok := s.Runners[id]
	if !ok {
		return ExecutionConfig{}, false, nil
	}
	return r.Resolve(), true, nil
}

func (s MapStore) Settings() (Settings, error) {
	return File{Interpreter: s.Options.Interpreter, Fence: s.Options.Fence}.Settings(), nil
}

// EnvConfigPath names the environment variable consulted when no --config
// flag is given.
const EnvConfigPath = "FENCERUN_CONFIG"

// PathOrEnv returns p, or the EnvConfigPath value when p is empty.
func PathOrEnv(p string) string {
	if p != "" {
		return p
	}
	return os.Getenv(EnvConfigPath)
}
