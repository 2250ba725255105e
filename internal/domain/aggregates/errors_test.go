package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(CodeNotFound, "Contracts.AddLiquidation", "contract 7 not found", nil)
	want := "Contracts.AddLiquidation: contract 7 not found (not_found)"
	if err.Error() != want {
		t.Fatalf("Error(): want=%q got=%q", want, err.Error())
	}
	if MessageOf(err) != "contract 7 not found" {
		t.Fatalf("MessageOf: got=%q", MessageOf(err))
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := NewError(CodeInvalidTransition, "op", "terminal", nil)
	wrapped := fmt.Errorf("outer: %w", base)
	if !IsCode(wrapped, CodeInvalidTransition) {
		t.Fatalf("expected invalid_transition through fmt wrapping")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors carry no code")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
}

func TestSentinelsMatchByCode(t *testing.T) {
	err := fmt.Errorf("service: %w", NewError(CodeNotFound, "Contracts.Get", "contract 3 not found", nil))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("errors.Is(ErrNotFound) failed for %v", err)
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("not_found must not match ErrConflict")
	}
	other := NewError(CodeNotFound, "other", "x", nil)
	if errors.Is(err, other) {
		t.Fatalf("a non-sentinel target must not match by code alone")
	}
}

func TestInvalidCarriesFields(t *testing.T) {
	err := Invalid("contracts.create", "missing or invalid fields: plotNumber, wardId", "plotNumber", "wardId")
	if !IsCode(err, CodeValidation) {
		t.Fatalf("code: want=%s got=%s", CodeValidation, CodeOf(err))
	}
	got := FieldsOf(fmt.Errorf("wrap: %w", err))
	if len(got) != 2 || got[0] != "plotNumber" || got[1] != "wardId" {
		t.Fatalf("fields: got=%v", got)
	}
	if FieldsOf(errors.New("plain")) != nil {
		t.Fatalf("plain errors carry no fields")
	}
}
