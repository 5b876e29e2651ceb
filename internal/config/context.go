package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Context is the persisted selection state: which correspondent was
// active and any unsent compose draft. Provisional or failed messages
// are never persisted here; only operator-typed draft text survives a
// restart.
type Context struct {
	// ContactID is the last selected correspondent.
	ContactID string `yaml:"contact,omitempty"`
	// ContactName is the human-readable correspondent name (for display).
	ContactName string `yaml:"contact_name,omitempty"`
	// ComposeDraft is unsent compose text for that correspondent.
	ComposeDraft string `yaml:"compose_draft,omitempty"`
	// UpdatedAt is when the context was last modified.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// IsEmpty returns true if no context is set.
func (c *Context) IsEmpty() bool {
	return c.ContactID == "" && c.ComposeDraft == ""
}

// HasContact returns true if a correspondent is set.
func (c *Context) HasContact() bool {
	return c.ContactID != ""
}

// Clear removes all context.
func (c *Context) Clear() {
	c.ContactID = ""
	c.ContactName = ""
	c.ComposeDraft = ""
	c.UpdatedAt = time.Now()
}

// SetContact sets the selected correspondent. A draft belongs to the
// correspondent it was typed for, so switching contacts discards it.
func (c *Context) SetContact(id, name string) {
	if id != c.ContactID {
		c.ComposeDraft = ""
	}
	c.ContactID = id
	c.ContactName = name
	c.UpdatedAt = time.Now()
}

// SetDraft records unsent compose text.
func (c *Context) SetDraft(text string) {
	c.ComposeDraft = text
	c.UpdatedAt = time.Now()
}

// String returns a human-readable representation of the context.
func (c *Context) String() string {
	if !c.HasContact() {
		return "(no contact selected)"
	}
	name := c.ContactName
	if name == "" {
		name = shortID(c.ContactID)
	}
	return fmt.Sprintf("contact:%s", name)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ContextStore manages loading and saving context.
type ContextStore struct {
	path string
	mu   sync.RWMutex
}

// NewContextStore creates a new context store.
// If path is empty, uses the default path (~/.config/crewcomm/context.yaml).
func NewContextStore(path string) *ContextStore {
	if path == "" {
		homeDir, _ := os.UserHomeDir()
		path = filepath.Join(homeDir, ".config", "crewcomm", "context.yaml")
	}
	return &ContextStore{path: path}
}

// Path returns the context file path.
func (s *ContextStore) Path() string {
	return s.path
}

// Load reads the context from disk.
// Returns an empty context if the file doesn't exist.
func (s *ContextStore) Load() (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := &Context{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ctx, nil
		}
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}

	if err := yaml.Unmarshal(data, ctx); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}

	return ctx, nil
}

// Save writes the context to disk.
func (s *ContextStore) Save(ctx *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create context directory: %w", err)
	}

	data, err := yaml.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("failed to serialize context: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write context file: %w", err)
	}

	return nil
}

// Clear removes the context file.
func (s *ContextStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove context file: %w", err)
	}
	return nil
}
