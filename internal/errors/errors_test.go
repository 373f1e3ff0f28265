package errors

import (
	"fmt"
	"testing"
)

func TestUnknownPlan(t *testing.T) {
	err := UnknownPlan("Gold")

	if err.Type != TypeUnknownPlan {
		t.Fatalf("expected %s, got %s", TypeUnknownPlan, err.Type)
	}
	if err.Error() != "[UNKNOWN_PLAN] membership Gold is not available" {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if err.Context["plan"] != "Gold" {
		t.Errorf("expected plan context, got %v", err.Context)
	}
}

func TestUnknownFeature(t *testing.T) {
	err := UnknownFeature("Basic", "Sauna")

	if !IsUnknownFeature(err) {
		t.Fatal("expected unknown feature error")
	}
	if IsUnknownPlan(err) {
		t.Fatal("unknown feature must not match unknown plan")
	}
	if err.Context["feature"] != "Sauna" {
		t.Errorf("expected feature context, got %v", err.Context)
	}
}

func TestIsTypeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("select plan: %w", UnknownPlan("Gold"))

	if !IsUnknownPlan(wrapped) {
		t.Error("IsUnknownPlan should see through fmt.Errorf wrapping")
	}
	if IsType(fmt.Errorf("plain"), TypeUnknownPlan) {
		t.Error("plain errors have no type")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Config("failed to save", cause)

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if err.Error() != "[CONFIG_ERROR] failed to save: disk full" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestInternal(t *testing.T) {
	err := Internal("session ended with an unexpected model", fmt.Errorf("got int"))

	if !IsType(err, TypeInternal) {
		t.Fatalf("expected %s, got %s", TypeInternal, err.Type)
	}
	if err.Error() != "[INTERNAL_ERROR] session ended with an unexpected model: got int" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
