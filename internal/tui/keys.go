package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding maps keys to an action within a set of scopes. An empty Scopes
// or "*" matches every scope.
type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// Action returns the action bound to msg in scope, or "".
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) string {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action
			}
		}
	}
	return ""
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	return r.Action(msg, scope) == action
}

// HelpBindings converts the scope's bindings for bubbles/help.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	bindings := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 || b.Description == "" {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description)))
	}
	return out
}

func normalizeKey(k string) string {
	if k == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

const (
	actionQuit     = "quit"
	actionStart    = "start"
	actionUp       = "up"
	actionDown     = "down"
	actionToggle   = "toggle"
	actionEarlier  = "earlier"
	actionLater    = "later"
	actionInfo     = "info"
	actionProceed  = "proceed"
	actionBack     = "back"
	actionAccept   = "accept"
	actionRemove   = "remove"
	actionChipPrev = "chip_prev"
	actionChipNext = "chip_next"
	actionPrevOpt  = "prev_option"
	actionNextOpt  = "next_option"
	actionSubmit   = "submit"
	actionRestart  = "restart"
	scopeHome      = "step:home"
	scopeConcerns  = "step:concerns"
	scopeDiet      = "step:diet"
	scopeAllergies = "step:allergies"
	scopeLifestyle = "step:lifestyle"
	scopeDone      = "step:done"
)

// DefaultBindings are the stock key map. Letter keys are left out of the
// allergies scope so they reach the search input.
func DefaultBindings() []KeyBinding {
	lists := []string{scopeConcerns, scopeDiet, scopeLifestyle}
	return []KeyBinding{
		{Keys: []string{"ctrl+c"}, Action: actionQuit, Scopes: []string{"*"}},
		{Keys: []string{"q"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeHome, scopeConcerns, scopeDiet, scopeLifestyle, scopeDone}},
		{Keys: []string{"enter"}, Action: actionStart, Description: "start", Scopes: []string{scopeHome}},
		{Keys: []string{"up", "k"}, Action: actionUp, Description: "up", Scopes: lists},
		{Keys: []string{"down", "j"}, Action: actionDown, Description: "down", Scopes: lists},
		{Keys: []string{"up"}, Action: actionUp, Scopes: []string{scopeAllergies}},
		{Keys: []string{"down"}, Action: actionDown, Scopes: []string{scopeAllergies}},
		{Keys: []string{"space"}, Action: actionToggle, Description: "select", Scopes: []string{scopeConcerns, scopeDiet}},
		{Keys: []string{"["}, Action: actionEarlier, Description: "raise priority", Scopes: []string{scopeConcerns}},
		{Keys: []string{"]"}, Action: actionLater, Description: "lower priority", Scopes: []string{scopeConcerns}},
		{Keys: []string{"i"}, Action: actionInfo, Description: "info", Scopes: []string{scopeDiet}},
		{Keys: []string{"left", "h"}, Action: actionPrevOpt, Description: "prev answer", Scopes: []string{scopeLifestyle}},
		{Keys: []string{"right", "l"}, Action: actionNextOpt, Description: "next answer", Scopes: []string{scopeLifestyle}},
		{Keys: []string{"tab"}, Action: actionAccept, Description: "accept suggestion", Scopes: []string{scopeAllergies}},
		{Keys: []string{"shift+left"}, Action: actionChipPrev, Description: "prev allergy", Scopes: []string{scopeAllergies}},
		{Keys: []string{"shift+right"}, Action: actionChipNext, Description: "next allergy", Scopes: []string{scopeAllergies}},
		{Keys: []string{"ctrl+x"}, Action: actionRemove, Description: "remove allergy", Scopes: []string{scopeAllergies}},
		{Keys: []string{"enter"}, Action: actionProceed, Description: "next", Scopes: []string{scopeConcerns, scopeDiet, scopeAllergies}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "submit", Scopes: []string{scopeLifestyle}},
		{Keys: []string{"esc"}, Action: actionBack, Description: "back", Scopes: []string{scopeConcerns, scopeDiet, scopeAllergies, scopeLifestyle}},
		{Keys: []string{"r"}, Action: actionRestart, Description: "start over", Scopes: []string{scopeDone}},
	}
}
