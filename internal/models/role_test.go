package models

import "testing"

func TestRoleLabels(t *testing.T) {
	cases := []struct {
		role       Role
		department string
		position   string
	}{
		{RoleCrew, "Crew", "Crew Member"},
		{RoleHealth, "Medical", "Health Officer"},
		{RoleEmergency, "Emergency Response", "Emergency Staff"},
		{RoleInventory, "Stores & Inventory", "Inventory Officer"},
		{RoleAdmin, "Administration", "Administrator"},
	}

	for _, tc := range cases {
		if got := tc.role.DepartmentLabel(); got != tc.department {
			t.Fatalf("%s department = %q, want %q", tc.role, got, tc.department)
		}
		if got := tc.role.PositionLabel(); got != tc.position {
			t.Fatalf("%s position = %q, want %q", tc.role, got, tc.position)
		}
	}
}

func TestUnknownRoleDefaultsToCrewLabels(t *testing.T) {
	unknown := Role("quartermaster")
	if unknown.Known() {
		t.Fatal("expected role to be unknown")
	}
	if got := unknown.DepartmentLabel(); got != "Crew" {
		t.Fatalf("department = %q, want Crew", got)
	}
	if got := unknown.PositionLabel(); got != "Crew Member" {
		t.Fatalf("position = %q, want Crew Member", got)
	}
}

func TestOperatorOwns(t *testing.T) {
	op := Operator{ID: "op-1", CrewID: "CR-42"}

	if !op.Owns("op-1", "") {
		t.Fatal("expected match on id")
	}
	if !op.Owns("other", "CR-42") {
		t.Fatal("expected match on crew id")
	}
	if op.Owns("other", "CR-7") {
		t.Fatal("expected no match")
	}
	if op.Owns("", "") {
		t.Fatal("expected empty identifiers to not match")
	}
}

func TestCorrespondentColorSeedPreference(t *testing.T) {
	full := Correspondent{ID: "a", CrewID: "CR-1", DisplayName: "Alice"}
	if got := full.ColorSeed(); got != "CR-1" {
		t.Fatalf("seed = %q, want crew id", got)
	}

	noCrew := Correspondent{ID: "a", DisplayName: "Alice"}
	if got := noCrew.ColorSeed(); got != "Alice" {
		t.Fatalf("seed = %q, want name", got)
	}

	bare := Correspondent{ID: "a"}
	if got := bare.ColorSeed(); got != "a" {
		t.Fatalf("seed = %q, want id", got)
	}
}
