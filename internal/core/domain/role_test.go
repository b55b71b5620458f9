package domain

import "testing"

func TestHasModule(t *testing.T) {
	role := Role{AccessModules: []string{"users", "reports"}}
	if !role.HasModule("reports") {
		t.Fatalf("expected module to be present")
	}
	if role.HasModule("billing") {
		t.Fatalf("unexpected module match")
	}

	empty := Role{}
	if empty.HasModule("users") {
		t.Fatalf("empty role must grant nothing")
	}
}

func TestHasDuplicates(t *testing.T) {
	if HasDuplicates([]string{"users", "reports"}) {
		t.Fatalf("no duplicates expected")
	}
	if !HasDuplicates([]string{"users", "reports", "users"}) {
		t.Fatalf("duplicate not detected")
	}
	if HasDuplicates(nil) {
		t.Fatalf("nil slice has no duplicates")
	}
}
