package interaction

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/naago/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := testCodec()

	id, err := c.Encode("find", "classesjobs", "4201234")
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if id != "find.classesjobs.4201234" {
		t.Errorf("Encode() = %q, want %q", id, "find.classesjobs.4201234")
	}

	got, err := c.Decode(id)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := Token{Namespace: "find", Selector: "classesjobs", Kind: KindPage, Args: []string{"4201234"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestEncodeRejects(t *testing.T) {
	c := testCodec()

	tests := []struct {
		name      string
		namespace string
		selector  string
		args      []string
	}{
		{"delimiter in arg", "find", "profile", []string{"42.1"}},
		{"empty arg", "find", "profile", []string{""}},
		{"missing arg", "find", "profile", nil},
		{"unknown namespace", "nope", "profile", []string{"1"}},
		{"unknown selector", "find", "nope", []string{"1"}},
		{"too long", "find", "profile", []string{strings.Repeat("9", MaxLength)}},
		{"unknown qualifier", "find", "classesjobs", []string{"4201234", "bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Encode(tt.namespace, tt.selector, tt.args...); err == nil {
				t.Error("Encode() should fail")
			}
		})
	}
}

func TestDecodeFailsClosed(t *testing.T) {
	c := testCodec()

	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"namespace only", "find"},
		{"below arity", "find.profile"},
		{"unknown namespace", "lost.profile.1"},
		{"unknown selector", "find.inventory.1"},
		{"empty segment", "find..1"},
		{"trailing delimiter", "find.profile.1."},
		{"unknown qualifier", "find.classesjobs.1.fishing"},
		{"too long", "find.profile." + strings.Repeat("1", MaxLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.id)
			if !errors.Is(err, domain.ErrMalformedToken) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformedToken", tt.id, err)
			}
		})
	}
}

func TestDecodeKinds(t *testing.T) {
	c := testCodec()

	tests := []struct {
		id   string
		kind Kind
	}{
		{"find.profile.1", KindPage},
		{"find.classesjobs.1.crafting", KindPage},
		{"find.menu.1", KindMenu},
		{"setup.unset", KindConfirm},
		{"setup.cancel", KindCancel},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			tok, err := c.Decode(tt.id)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
		})
	}

	unset, _ := c.Decode("setup.unset")
	cancel, _ := c.Decode("setup.cancel")
	if !unset.IsConfirm() || unset.IsCancel() || !cancel.IsCancel() || cancel.IsConfirm() {
		t.Error("confirm and cancel must be distinguishable")
	}
}

func TestTokenID(t *testing.T) {
	tok := Token{Namespace: "find", Selector: "profile", Args: []string{"4201234", "abc"}}

	if id, err := tok.ID(0); err != nil || id != 4201234 {
		t.Errorf("ID(0) = %d, %v", id, err)
	}
	if _, err := tok.ID(1); !errors.Is(err, domain.ErrMalformedToken) {
		t.Errorf("ID(1) error = %v, want ErrMalformedToken", err)
	}
	if _, err := tok.ID(5); !errors.Is(err, domain.ErrMalformedToken) {
		t.Errorf("ID(5) error = %v, want ErrMalformedToken", err)
	}
}

func TestNewCodecDuplicateNamespacePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	a := NewTable("me").Page("profile", 1).Build()
	b := NewTable("me").Page("profile", 1).Build()
	NewCodec(a, b)
}

func TestNamespace(t *testing.T) {
	if got := Namespace("find.profile.1"); got != "find" {
		t.Errorf("Namespace() = %q, want find", got)
	}
}
