package models

// Role identifies the account role of a crew member.
type Role string

const (
	RoleCrew      Role = "crew"
	RoleHealth    Role = "health"
	RoleEmergency Role = "emergency"
	RoleInventory Role = "inventory"
	RoleAdmin     Role = "admin"
)

// roleLabels maps each known role to its department and position labels.
// Unknown roles deliberately fall back to the generic crew labels rather
// than leaking the raw role string into the UI.
var roleLabels = map[Role]struct {
	Department string
	Position   string
}{
	RoleCrew:      {Department: "Crew", Position: "Crew Member"},
	RoleHealth:    {Department: "Medical", Position: "Health Officer"},
	RoleEmergency: {Department: "Emergency Response", Position: "Emergency Staff"},
	RoleInventory: {Department: "Stores & Inventory", Position: "Inventory Officer"},
	RoleAdmin:     {Department: "Administration", Position: "Administrator"},
}

// DepartmentLabel returns the human department name for the role.
func (r Role) DepartmentLabel() string {
	if labels, ok := roleLabels[r]; ok {
		return labels.Department
	}
	return roleLabels[RoleCrew].Department
}

// PositionLabel returns the human position name for the role.
func (r Role) PositionLabel() string {
	if labels, ok := roleLabels[r]; ok {
		return labels.Position
	}
	return roleLabels[RoleCrew].Position
}

// Known reports whether the role is one of the closed set.
func (r Role) Known() bool {
	_, ok := roleLabels[r]
	return ok
}

// AllRoles returns the closed set of known roles in display order.
func AllRoles() []Role {
	return []Role{RoleCrew, RoleHealth, RoleEmergency, RoleInventory, RoleAdmin}
}
