package models

// Operator is the identity of the signed-in user. It is passed
// explicitly into the directory, thread and send contracts; nothing in
// this subsystem reads identity from ambient state.
type Operator struct {
	// ID is the operator's account id.
	ID string `json:"id"`

	// CrewID is the operator's crew roster number, when assigned.
	CrewID string `json:"crew_id,omitempty"`

	// FullName is the operator's display name.
	FullName string `json:"full_name"`

	// Role is the operator's account role.
	Role Role `json:"role"`

	// Vessel names the vessel this operator is assigned to.
	Vessel string `json:"vessel,omitempty"`
}

// Owns reports whether a directory record belongs to the operator,
// matching on either identifier. A record can surface under the account
// id or the crew id when both exist, so both must be excluded from the
// directory.
func (o Operator) Owns(id, crewID string) bool {
	if id != "" && id == o.ID {
		return true
	}
	if crewID != "" && o.CrewID != "" && crewID == o.CrewID {
		return true
	}
	return false
}

// Validate checks that the operator identity is usable.
func (o *Operator) Validate() error {
	validation := &ValidationErrors{}
	if o.ID == "" {
		validation.AddMessage("id", "operator id is required")
	}
	if o.FullName == "" {
		validation.AddMessage("full_name", "operator name is required")
	}
	return validation.Err()
}
