package interaction

import (
	"fmt"
	"slices"
	"strings"
)

// Kind tells what a selector does inside its namespace.
type Kind int

const (
	// KindPage switches the rendered page.
	KindPage Kind = iota + 1
	// KindMenu identifies a select menu; the chosen option carries the real token.
	KindMenu
	// KindAction runs a command-specific action (e.g. re-check a challenge).
	KindAction
	// KindConfirm is the positive branch of a confirmation prompt.
	KindConfirm
	// KindCancel is the negative branch of a confirmation prompt.
	KindCancel
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindMenu:
		return "menu"
	case KindAction:
		return "action"
	case KindConfirm:
		return "confirm"
	case KindCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// State is one entry of a namespace state table.
type State struct {
	Selector string
	Kind     Kind
	// MinArgs is the number of positional arguments that must follow the selector.
	MinArgs int
	// Qualifiers, when set, lists the values allowed for the argument right
	// after the required ones (e.g. "combat" for a classes page).
	Qualifiers []string
}

// Table is the state machine of one command namespace: which selectors exist,
// what kind they are and which pages can be reached from a page.
type Table struct {
	namespace string
	states    map[string]State
	pages     []string
}

// Namespace returns the command namespace the table belongs to.
func (t *Table) Namespace() string { return t.namespace }

// State looks a selector up.
func (t *Table) State(selector string) (State, bool) {
	s, ok := t.states[selector]
	return s, ok
}

// Pages lists the page selectors in declaration order.
func (t *Table) Pages() []string { return slices.Clone(t.pages) }

// Next returns the selectors reachable from the page `from`: every other page.
// Confirm/cancel prompts lead nowhere.
func (t *Table) Next(from string) []string {
	s, ok := t.states[from]
	if !ok || s.Kind != KindPage {
		return nil
	}
	out := make([]string, 0, len(t.pages))
	for _, p := range t.pages {
		if p != from {
			out = append(out, p)
		}
	}
	return out
}

// TableBuilder declares a namespace state table. Build panics on any
// inconsistency so mistakes surface at start-up, not on a user click.
type TableBuilder struct {
	t   *Table
	err []string
}

// NewTable starts the table of namespace.
func NewTable(namespace string) *TableBuilder {
	b := &TableBuilder{t: &Table{namespace: namespace, states: map[string]State{}}}
	if !validSegment(namespace) {
		b.err = append(b.err, fmt.Sprintf("invalid namespace %q", namespace))
	}
	return b
}

func (b *TableBuilder) add(s State) *TableBuilder {
	switch {
	case !validSegment(s.Selector):
		b.err = append(b.err, fmt.Sprintf("invalid selector %q", s.Selector))
	case s.MinArgs < 0:
		b.err = append(b.err, fmt.Sprintf("selector %q: negative arity", s.Selector))
	default:
		if _, dup := b.t.states[s.Selector]; dup {
			b.err = append(b.err, fmt.Sprintf("duplicate selector %q", s.Selector))
			return b
		}
		for _, q := range s.Qualifiers {
			if !validSegment(q) {
				b.err = append(b.err, fmt.Sprintf("selector %q: invalid qualifier %q", s.Selector, q))
			}
		}
		b.t.states[s.Selector] = s
		if s.Kind == KindPage {
			b.t.pages = append(b.t.pages, s.Selector)
		}
	}
	return b
}

// Page declares a navigable page.
func (b *TableBuilder) Page(selector string, minArgs int, qualifiers ...string) *TableBuilder {
	return b.add(State{Selector: selector, Kind: KindPage, MinArgs: minArgs, Qualifiers: qualifiers})
}

// Menu declares a select menu identifier.
func (b *TableBuilder) Menu(selector string, minArgs int) *TableBuilder {
	return b.add(State{Selector: selector, Kind: KindMenu, MinArgs: minArgs})
}

// Action declares a command-specific action.
func (b *TableBuilder) Action(selector string, minArgs int) *TableBuilder {
	return b.add(State{Selector: selector, Kind: KindAction, MinArgs: minArgs})
}

// Confirm declares the positive branch of a prompt.
func (b *TableBuilder) Confirm(selector string, minArgs int) *TableBuilder {
	return b.add(State{Selector: selector, Kind: KindConfirm, MinArgs: minArgs})
}

// Cancel declares the negative branch of a prompt.
func (b *TableBuilder) Cancel(selector string) *TableBuilder {
	return b.add(State{Selector: selector, Kind: KindCancel})
}

// Build validates and returns the table.
func (b *TableBuilder) Build() *Table {
	var confirms, cancels int
	for _, s := range b.t.states {
		switch s.Kind {
		case KindConfirm:
			confirms++
		case KindCancel:
			cancels++
		}
	}
	if confirms > 0 && cancels == 0 {
		b.err = append(b.err, "confirm selector declared without a cancel selector")
	}
	if cancels > 0 && confirms == 0 {
		b.err = append(b.err, "cancel selector declared without a confirm selector")
	}
	if len(b.t.states) == 0 {
		b.err = append(b.err, "no selectors declared")
	}
	if len(b.err) > 0 {
		panic(fmt.Sprintf("interaction table %q: %s", b.t.namespace, strings.Join(b.err, "; ")))
	}
	return b.t
}

func validSegment(s string) bool {
	return s != "" && !strings.Contains(s, Delimiter)
}
