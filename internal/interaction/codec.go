// Package interaction encodes navigation state into chat control identifiers
// and routes control activations back to the command that owns them.
package interaction

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

const (
	// Delimiter separates namespace, selector and arguments.
	Delimiter = "."
	// MaxLength is the platform limit for a control identifier.
	MaxLength = 100
)

// Codec encodes and decodes control identifiers such as
// "find.classesjobs.4201234" against the registered namespace tables.
type Codec struct {
	tables map[string]*Table
}

// NewCodec builds a codec over the given tables. It panics when two tables
// share a namespace.
func NewCodec(tables ...*Table) *Codec {
	c := &Codec{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if _, dup := c.tables[t.Namespace()]; dup {
			panic(fmt.Sprintf("interaction codec: duplicate namespace %q", t.Namespace()))
		}
		c.tables[t.Namespace()] = t
	}
	return c
}

// Table returns the state table of namespace.
func (c *Codec) Table(namespace string) (*Table, bool) {
	t, ok := c.tables[namespace]
	return t, ok
}

// Encode joins namespace, selector and args. It fails when the selector is
// unknown, arity is not met, the qualifier is not declared, an argument is
// empty or contains the delimiter, or the result exceeds MaxLength.
func (c *Codec) Encode(namespace, selector string, args ...string) (string, error) {
	t, ok := c.tables[namespace]
	if !ok {
		return "", fmt.Errorf("encode: unknown namespace %q", namespace)
	}
	st, ok := t.State(selector)
	if !ok {
		return "", fmt.Errorf("encode: unknown selector %q in %q", selector, namespace)
	}
	if len(args) < st.MinArgs {
		return "", fmt.Errorf("encode: %s.%s needs %d args, got %d", namespace, selector, st.MinArgs, len(args))
	}
	if len(st.Qualifiers) > 0 && len(args) > st.MinArgs && !slices.Contains(st.Qualifiers, args[st.MinArgs]) {
		return "", fmt.Errorf("encode: %s.%s unknown qualifier %q", namespace, selector, args[st.MinArgs])
	}
	for i, a := range args {
		if a == "" {
			return "", fmt.Errorf("encode: %s.%s argument %d is empty", namespace, selector, i)
		}
		if strings.Contains(a, Delimiter) {
			return "", fmt.Errorf("encode: %s.%s argument %d contains %q", namespace, selector, i, Delimiter)
		}
	}

	parts := make([]string, 0, 2+len(args))
	parts = append(parts, namespace, selector)
	parts = append(parts, args...)
	id := strings.Join(parts, Delimiter)
	if len(id) > MaxLength {
		return "", fmt.Errorf("encode: %q is %d chars, limit is %d", id, len(id), MaxLength)
	}
	return id, nil
}

// MustEncode is Encode for identifiers built from trusted values. It panics
// on error.
func (c *Codec) MustEncode(namespace, selector string, args ...string) string {
	id, err := c.Encode(namespace, selector, args...)
	if err != nil {
		panic(err)
	}
	return id
}

// Decode parses a control identifier. Every failure wraps
// domain.ErrMalformedToken; nothing is guessed.
func (c *Codec) Decode(id string) (Token, error) {
	if id == "" || len(id) > MaxLength {
		return Token{}, malformed(id, "bad length")
	}

	parts := strings.Split(id, Delimiter)
	if len(parts) < 2 {
		return Token{}, malformed(id, "missing selector")
	}
	if slices.Contains(parts, "") {
		return Token{}, malformed(id, "empty segment")
	}

	t, ok := c.tables[parts[0]]
	if !ok {
		return Token{}, malformed(id, "unknown namespace")
	}
	st, ok := t.State(parts[1])
	if !ok {
		return Token{}, malformed(id, "unknown selector")
	}

	args := parts[2:]
	if len(args) < st.MinArgs {
		return Token{}, malformed(id, fmt.Sprintf("needs %d args, got %d", st.MinArgs, len(args)))
	}
	if len(st.Qualifiers) > 0 && len(args) > st.MinArgs && !slices.Contains(st.Qualifiers, args[st.MinArgs]) {
		return Token{}, malformed(id, "unknown qualifier")
	}

	return Token{
		Namespace: parts[0],
		Selector:  parts[1],
		Kind:      st.Kind,
		Args:      args,
	}, nil
}

// Namespace returns the leading segment of id without validating the rest.
func Namespace(id string) string {
	ns, _, _ := strings.Cut(id, Delimiter)
	return ns
}

func malformed(id, reason string) error {
	return fmt.Errorf("%w: %q: %s", domain.ErrMalformedToken, id, reason)
}
