package enums

import "fmt"

// StoredRole is the role value as persisted in the user_roles table.
// The database enum historically used "user" where the UI says "editor";
// some legacy rows carry the literal "editor" instead. Reads accept both,
// writes always use the canonical set below.
type StoredRole string

const (
	StoredRoleAdmin  StoredRole = "admin"
	StoredRoleUser   StoredRole = "user"
	StoredRoleViewer StoredRole = "viewer"

	// StoredRoleLegacyEditor is the alternate spelling written by older
	// clients. It is never written by this codebase.
	StoredRoleLegacyEditor StoredRole = "editor"
)

var canonicalStoredRoles = []StoredRole{
	StoredRoleAdmin,
	StoredRoleUser,
	StoredRoleViewer,
}

// String implements fmt.Stringer.
func (r StoredRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a writable StoredRole.
func (r StoredRole) IsValid() bool {
	for _, candidate := range canonicalStoredRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseStoredRole converts raw input into a StoredRole, accepting the
// legacy editor spelling for compatibility with unmigrated rows.
func ParseStoredRole(value string) (StoredRole, error) {
	for _, candidate := range canonicalStoredRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	if StoredRole(value) == StoredRoleLegacyEditor {
		return StoredRoleLegacyEditor, nil
	}
	return "", fmt.Errorf("invalid stored role %q", value)
}

// ToUI translates a persisted value into the UI role. Both "user" and
// the legacy "editor" spelling resolve to editor.
func (r StoredRole) ToUI() (UIRole, error) {
	switch r {
	case StoredRoleAdmin:
		return UIRoleAdmin, nil
	case StoredRoleUser, StoredRoleLegacyEditor:
		return UIRoleEditor, nil
	case StoredRoleViewer:
		return UIRoleViewer, nil
	}
	return "", fmt.Errorf("invalid stored role %q", r)
}
