package interaction

import (
	"fmt"
	"strconv"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

// Token is a decoded control identifier. Kind discriminates how Args must be
// read; the table that produced it guarantees len(Args) >= the selector arity.
type Token struct {
	Namespace string
	Selector  string
	Kind      Kind
	Args      []string
}

// Arg returns the i-th argument or "" when absent.
func (t Token) Arg(i int) string {
	if i < 0 || i >= len(t.Args) {
		return ""
	}
	return t.Args[i]
}

// ID parses the i-th argument as an entity identifier.
func (t Token) ID(i int) (int64, error) {
	raw := t.Arg(i)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: argument %d of %s.%s is not an id: %q", domain.ErrMalformedToken, i, t.Namespace, t.Selector, raw)
	}
	return id, nil
}

func (t Token) IsConfirm() bool { return t.Kind == KindConfirm }
func (t Token) IsCancel() bool  { return t.Kind == KindCancel }
func (t Token) IsPage() bool    { return t.Kind == KindPage }
