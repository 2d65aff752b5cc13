package openalgo

import (
	"fmt"
	"strings"
	"sync"

	"algogrid/internal/grid"
)

const (
	DefaultVersion = "v1"
	DefaultHostURL = "http://127.0.0.1:5000"
)

// Settings is an immutable snapshot of the API configuration. Every call
// takes its own snapshot so a concurrent update cannot change behaviour
// mid-call.
type Settings struct {
	APIKey  string
	Version string
	HostURL string
	Format  grid.Format
}

// HasKey reports whether an API key has been configured.
func (s Settings) HasKey() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

// MaskedKey renders the API key for display, keeping only the last four
// characters visible.
func (s Settings) MaskedKey() string {
	if len(s.APIKey) > 4 {
		return "***" + s.APIKey[len(s.APIKey)-4:]
	}
	return "Not Set"
}

// EndpointURL builds the fully-qualified URL for one API resource.
func (s Settings) EndpointURL(resource string) string {
	return fmt.Sprintf("%s/api/%s/%s", s.HostURL, s.Version, resource)
}

// Store holds the process-wide settings. It is safe for concurrent use;
// readers always work from a Snapshot.
type Store struct {
	mu      sync.RWMutex
	current Settings
}

func NewStore(initial Settings) *Store {
	if initial.Version == "" {
		initial.Version = DefaultVersion
	}
	if initial.HostURL == "" {
		initial.HostURL = DefaultHostURL
	}
	initial.HostURL = strings.TrimRight(initial.HostURL, "/")
	return &Store{current: initial}
}

// Update replaces the API key, version and host URL and returns the new
// snapshot. Empty version and host fall back to their defaults; the display
// format is left untouched.
func (st *Store) Update(apiKey, version, hostURL string) Settings {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.current.APIKey = strings.TrimSpace(apiKey)
	if version = strings.TrimSpace(version); version != "" {
		st.current.Version = version
	} else {
		st.current.Version = DefaultVersion
	}
	if hostURL = strings.TrimSpace(hostURL); hostURL != "" {
		st.current.HostURL = strings.TrimRight(hostURL, "/")
	} else {
		st.current.HostURL = DefaultHostURL
	}
	return st.current
}

// SetFormat changes the preferred display format.
func (st *Store) SetFormat(f grid.Format) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current.Format = f
}

// Snapshot returns a copy of the current settings.
func (st *Store) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}
