/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
)

// CommandGroup represents the operational classification of commands
type CommandGroup string

const (
	GroupContent CommandGroup = "content" // scaffold, meta: commands that write the tree
	GroupInspect CommandGroup = "inspect" // list, meta validate: read-only views
	GroupSupport CommandGroup = "support" // config, version
)

// GroupOrder is the order groups appear in help output.
var GroupOrder = []CommandGroup{GroupContent, GroupInspect, GroupSupport}

// Title returns the help heading for a group.
func (g CommandGroup) Title() string {
	switch g {
	case GroupContent:
		return "Content Commands"
	case GroupInspect:
		return "Inspection Commands"
	case GroupSupport:
		return "Support Commands"
	default:
		return string(g)
	}
}

// CommandRegistration represents a registered command with its classification
type CommandRegistration struct {
	Name        string
	Group       CommandGroup
	Command     *cobra.Command
	Description string
}

// Registry manages command classifications and registrations. Each command
// tree owns its own registry so tests can build trees side by side.
type Registry struct {
	mu         sync.RWMutex
	commands   map[string]*CommandRegistration
	groupIndex map[CommandGroup][]*CommandRegistration
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		commands:   make(map[string]*CommandRegistration),
		groupIndex: make(map[CommandGroup][]*CommandRegistration),
	}
}

// Register adds a command to the registry. The description defaults to the command's Short text.
func (r *Registry) Register(group CommandGroup, cmd *cobra.Command, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %s already registered", name)
	}
	if description == "" {
		description = cmd.Short
	}

	registration := &CommandRegistration{
		Name:        name,
		Group:       group,
		Command:     cmd,
		Description: description,
	}
	r.commands[name] = registration
	r.groupIndex[group] = append(r.groupIndex[group], registration)
	return nil
}

// Attach adds every registered top-level command to root, tagged with its
// cobra group so the default help output is grouped too.
func (r *Registry) Attach(root *cobra.Command) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range GroupOrder {
		regs := r.groupIndex[g]
		if len(regs) == 0 {
			continue
		}
		if !root.ContainsGroup(string(g)) {
			root.AddGroup(&cobra.Group{ID: string(g), Title: g.Title() + ":"})
		}
		for _, reg := range regs {
			if reg.Command.Parent() != nil {
				continue
			}
			reg.Command.GroupID = string(g)
			root.AddCommand(reg.Command)
		}
	}
}

// GetCommand returns a registered command by name
func (r *Registry) GetCommand(name string) (*CommandRegistration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommandsByGroup returns all commands in a specific group
func (r *Registry) GetCommandsByGroup(group CommandGroup) []*CommandRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*CommandRegistration(nil), r.groupIndex[group]...)
}

// ListGroups returns all command groups and their command counts
func (r *Registry) ListGroups() map[CommandGroup]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[CommandGroup]int)
	for group, commands := range r.groupIndex {
		result[group] = len(commands)
	}
	return result
}
