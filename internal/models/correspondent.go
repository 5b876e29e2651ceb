package models

// Presence indicates whether a correspondent is currently reachable.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
)

// Correspondent is a directory entry representing another operator
// reachable for messaging. The directory never contains the current
// operator's own record.
type Correspondent struct {
	// ID is the stable identity of the correspondent.
	ID string `json:"id"`

	// CrewID is an optional secondary identifier (crew roster number).
	CrewID string `json:"crew_id,omitempty"`

	// DisplayName is the full name shown in the directory.
	DisplayName string `json:"display_name"`

	// AccountRole is the correspondent's account role.
	AccountRole Role `json:"account_role"`

	// DepartmentLabel is derived from AccountRole; display only.
	DepartmentLabel string `json:"department_label"`

	// RoleLabel is derived from AccountRole; display only.
	RoleLabel string `json:"role_label"`

	// Presence reports reachability derived from the account active flag.
	Presence Presence `json:"presence"`
}

// ColorSeed returns the stable seed used to derive the correspondent's
// display color. Preference order: crew id, then name, then id, so the
// same person renders identically across sessions and clients.
func (c Correspondent) ColorSeed() string {
	if c.CrewID != "" {
		return c.CrewID
	}
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.ID
}

// Online reports whether the correspondent is currently online.
func (c Correspondent) Online() bool {
	return c.Presence == PresenceOnline
}

// Validate checks that the correspondent has a usable identity.
func (c *Correspondent) Validate() error {
	validation := &ValidationErrors{}
	if c.ID == "" {
		validation.AddMessage("id", "id is required")
	}
	if c.DisplayName == "" {
		validation.AddMessage("display_name", "display name is required")
	}
	return validation.Err()
}
