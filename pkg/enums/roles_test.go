package enums

import "testing"

func TestUIRoleRoundTrip(t *testing.T) {
	cases := []struct {
		ui     UIRole
		stored StoredRole
	}{
		{UIRoleAdmin, StoredRoleAdmin},
		{UIRoleEditor, StoredRoleUser},
		{UIRoleViewer, StoredRoleViewer},
	}

	for _, tc := range cases {
		if got := tc.ui.ToStored(); got != tc.stored {
			t.Fatalf("%s stored as %s, want %s", tc.ui, got, tc.stored)
		}
		back, err := tc.stored.ToUI()
		if err != nil {
			t.Fatalf("translate %s: %v", tc.stored, err)
		}
		if back != tc.ui {
			t.Fatalf("%s resolved to %s, want %s", tc.stored, back, tc.ui)
		}
	}
}

func TestLegacyEditorValueResolvesToEditor(t *testing.T) {
	legacy, err := ParseStoredRole("editor")
	if err != nil {
		t.Fatalf("parse legacy value: %v", err)
	}
	ui, err := legacy.ToUI()
	if err != nil {
		t.Fatalf("translate legacy value: %v", err)
	}
	if ui != UIRoleEditor {
		t.Fatalf("legacy editor resolved to %s", ui)
	}
}

func TestCanEdit(t *testing.T) {
	if !UIRoleAdmin.CanEdit() {
		t.Fatal("admin should edit")
	}
	if !UIRoleEditor.CanEdit() {
		t.Fatal("editor should edit")
	}
	if UIRoleViewer.CanEdit() {
		t.Fatal("viewer must not edit")
	}
	if UIRole("agronomist").CanEdit() {
		t.Fatal("unknown role must not edit")
	}
}

func TestParseUIRoleRejectsStoredSpelling(t *testing.T) {
	if _, err := ParseUIRole("user"); err == nil {
		t.Fatal("\"user\" is a storage value, not a ui role")
	}
}
