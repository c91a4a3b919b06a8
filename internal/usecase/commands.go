package usecase

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const helpReply = "I can help with soil health, crop selection, irrigation and pest control. " +
	"Ask a farming question, or send your soil pH, moisture and temperature for a recommendation."

// DefaultCommands is the built-in command table used when no file is configured.
var DefaultCommands = map[string]string{
	"help":      helpReply,
	"hi":        "Hello! How can I help with your farm today?",
	"hello":     "Hello! How can I help with your farm today?",
	"thanks":    "You're welcome. Happy farming!",
	"thank you": "You're welcome. Happy farming!",
	"bye":       "Goodbye! Come back any time you need farming advice.",
}

// CommandTable maps a normalized phrase to a canned reply. It is read-only
// after construction and safe for concurrent use.
type CommandTable struct {
	entries map[string]string
}

func NewCommandTable(entries map[string]string) *CommandTable {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		if key := normalizeCommand(k); key != "" {
			m[key] = v
		}
	}
	return &CommandTable{entries: m}
}

// commandFile is the on-disk shape of a command table.
type commandFile struct {
	Commands map[string]string `yaml:"commands"`
}

// LoadCommandTable reads a YAML command table. An empty path yields the
// built-in table.
func LoadCommandTable(path string) (*CommandTable, error) {
	if strings.TrimSpace(path) == "" {
		return NewCommandTable(DefaultCommands), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading command table: %w", err)
	}
	var f commandFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing command table %s: %w", path, err)
	}
	if len(f.Commands) == 0 {
		return nil, fmt.Errorf("command table %s has no commands", path)
	}
	return NewCommandTable(f.Commands), nil
}

// Lookup matches message against the table after trimming and case folding.
func (t *CommandTable) Lookup(message string) (string, bool) {
	if t == nil {
		return "", false
	}
	reply, ok := t.entries[normalizeCommand(message)]
	return reply, ok
}

// Phrases returns the normalized phrases in sorted order.
func (t *CommandTable) Phrases() []string {
	out := make([]string, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalizeCommand(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
