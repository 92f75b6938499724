package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	for _, code := range GetAllCodes() {
		e := New(code)
		tmpl, _ := GetTemplate(code)
		if e.Message != tmpl.Message {
			t.Errorf("%s: message = %q, want %q", code, e.Message, tmpl.Message)
		}
		if e.Category != tmpl.Category {
			t.Errorf("%s: category = %q, want %q", code, e.Category, tmpl.Category)
		}
	}
}

func TestNewUnknownCode(t *testing.T) {
	e := New("Z999")
	if e.Message != "Unknown error" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestErrorString(t *testing.T) {
	e := New("H006").WithValue(struct{ A int }{A: 1})
	got := e.Error()
	if !strings.HasPrefix(got, "H006: Unknown render value") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "A:1") {
		t.Errorf("expected offending value in message, got %q", got)
	}
}

func TestIsByCode(t *testing.T) {
	wrapped := fmt.Errorf("render: %w", New("H002"))
	if !stderrors.Is(wrapped, New("H002")) {
		t.Error("expected errors.Is to match by code")
	}
	if stderrors.Is(wrapped, New("H001")) {
		t.Error("different codes must not match")
	}
	if !HasCode(wrapped, "H002") {
		t.Error("HasCode should see through wrapping")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "C001") != nil {
		t.Error("nil error should stay nil")
	}
	base := stderrors.New("boom")
	e := FromError(base, "C001")
	if e.Code != "C001" || !stderrors.Is(e, base) {
		t.Errorf("unexpected wrap: %+v", e)
	}
	if FromError(e, "C002") != e {
		t.Error("existing *Error should be returned as is")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("H004").WithValue("submit").WithSuggestion("rename one of them").Format()
	for _, want := range []string{"ERROR H004: Duplicate local child name", `Value: "submit"`, "Hint: rename one of them"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
	if got := New("H004").FormatCompact(); got != "H004: Duplicate local child name" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 10)
	if len(lines) != 2 || lines[0] != "one two" || lines[1] != "three four" {
		t.Errorf("wrapText = %#v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}
