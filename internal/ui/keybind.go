package ui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Leader is the leader key as written in sequences: "SPC a" means space
// then a.
const Leader = "SPC"

type binding struct {
	cmd   tea.Cmd
	desc  string
	modes []AppMode // empty: every mode
}

func (b binding) activeIn(mode AppMode) bool {
	return len(b.modes) == 0 || slices.Contains(b.modes, mode)
}

// KeybindRegistry maps key sequences to commands. Sequences are single
// keys in tea.KeyMsg notation ("q", "tab", "ctrl+c") or leader sequences
// ("SPC a", "SPC g x").
type KeybindRegistry struct {
	bindings map[string]binding
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string]binding)}
}

// Bind registers seq in every mode, replacing any earlier binding. An
// empty desc keeps the binding out of the hints.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd, desc string) {
	r.BindIn(seq, cmd, desc)
}

// BindIn registers seq for the given modes only; no modes means all.
func (r *KeybindRegistry) BindIn(seq string, cmd tea.Cmd, desc string, modes ...AppMode) {
	r.bindings[normalizeSeq(seq)] = binding{cmd: cmd, desc: desc, modes: modes}
}

// Lookup returns the command bound to seq in mode, or nil.
func (r *KeybindRegistry) Lookup(seq string, mode AppMode) tea.Cmd {
	b, ok := r.bindings[normalizeSeq(seq)]
	if !ok || !b.activeIn(mode) {
		return nil
	}
	return b.cmd
}

// continues reports whether a binding active in mode extends seq.
func (r *KeybindRegistry) continues(seq string, mode AppMode) bool {
	prefix := normalizeSeq(seq) + " "
	for s, b := range r.bindings {
		if b.cmd != nil && b.activeIn(mode) && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// Hints maps the next key to its description for every binding active in
// mode that is reachable from prefix. An empty prefix lists single keys
// outside the leader. A key that opens a longer sequence shows as "key…".
func (r *KeybindRegistry) Hints(prefix string, mode AppMode) map[string]string {
	prefix = normalizeSeq(prefix)
	out := make(map[string]string)
	for seq, b := range r.bindings {
		if b.cmd == nil || !b.activeIn(mode) {
			continue
		}
		rest := seq
		switch {
		case prefix == "":
			if seq == Leader || strings.HasPrefix(seq, Leader+" ") {
				continue
			}
		case strings.HasPrefix(seq, prefix+" "):
			rest = strings.TrimPrefix(seq, prefix+" ")
		default:
			continue
		}
		next, _, deeper := strings.Cut(rest, " ")
		switch {
		case deeper:
			out[next] = next + "…"
		case b.desc != "":
			if _, taken := out[next]; !taken {
				out[next] = b.desc
			}
		}
	}
	return out
}

func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

// keyToSeqPart maps tea's name for space to Leader.
func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return Leader
	}
	return s
}

// KeyHandler tracks leader state and dispatches keys to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	Mode          AppMode  // bindings are filtered to this mode
	LeaderWaiting bool     // SPC pressed, sequence incomplete
	Buffer        []string // sequence so far, starting with Leader
}

// NewKeyHandler creates a handler over reg.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Pending returns the leader sequence typed so far.
func (h *KeyHandler) Pending() string {
	return strings.Join(h.Buffer, " ")
}

// Handle processes a key. consumed means the key belonged to the keybind
// system and must not reach views; cmd is the bound command, if any.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	part := keyToSeqPart(msg.String())

	if !h.LeaderWaiting {
		if part == Leader {
			h.LeaderWaiting = true
			h.Buffer = []string{Leader}
			return true, nil
		}
		if c := h.Registry.Lookup(part, h.Mode); c != nil {
			return true, c
		}
		return false, nil
	}

	if part == "esc" {
		h.cancel()
		return true, nil
	}
	h.Buffer = append(h.Buffer, part)
	seq := h.Pending()
	if c := h.Registry.Lookup(seq, h.Mode); c != nil {
		h.cancel()
		return true, c
	}
	// Unknown sequences are swallowed so a mistyped leader key never
	// reaches the grid.
	if !h.Registry.continues(seq, h.Mode) {
		h.cancel()
	}
	return true, nil
}

func (h *KeyHandler) cancel() {
	h.LeaderWaiting = false
	h.Buffer = nil
}
