package enums

import "fmt"

// UIRole is the three-valued role used for display and client-side gating.
type UIRole string

const (
	UIRoleAdmin  UIRole = "admin"
	UIRoleEditor UIRole = "editor"
	UIRoleViewer UIRole = "viewer"
)

var validUIRoles = []UIRole{
	UIRoleAdmin,
	UIRoleEditor,
	UIRoleViewer,
}

// String implements fmt.Stringer.
func (r UIRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UIRole.
func (r UIRole) IsValid() bool {
	for _, candidate := range validUIRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUIRole converts raw input into a UIRole.
func ParseUIRole(value string) (UIRole, error) {
	for _, candidate := range validUIRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ui role %q", value)
}

// IsAdmin reports whether the role grants full administration.
func (r UIRole) IsAdmin() bool {
	return r == UIRoleAdmin
}

// IsEditor reports whether the role is exactly editor.
func (r UIRole) IsEditor() bool {
	return r == UIRoleEditor
}

// IsViewer reports whether the role is read-only.
func (r UIRole) IsViewer() bool {
	return r == UIRoleViewer
}

// CanEdit reports whether the role may mutate farm records. Admins and
// editors can edit; viewers and unknown roles cannot.
func (r UIRole) CanEdit() bool {
	return r == UIRoleAdmin || r == UIRoleEditor
}

// ToStored translates the UI role into its canonical persisted value.
// Editor persists as the legacy "user" value so existing role rows and
// new ones stay on a single spelling.
func (r UIRole) ToStored() StoredRole {
	switch r {
	case UIRoleAdmin:
		return StoredRoleAdmin
	case UIRoleEditor:
		return StoredRoleUser
	case UIRoleViewer:
		return StoredRoleViewer
	}
	return ""
}
