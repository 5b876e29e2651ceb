package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/vesselworks/crewcomm/internal/models"
)

// contactRecord is the wire shape of a directory entry.
type contactRecord struct {
	ID       string `json:"id"`
	CrewID   string `json:"crew_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Position string `json:"position"`
	Status   string `json:"status"`
}

// LoadDirectory fetches the reachable correspondents for the operator.
//
// roleFilter limits the result to the given account roles; nil means all
// roles. The operator's own records are excluded, matching on both the
// account id and the crew id since the same person can surface under
// either. Records without a usable identity are dropped. The result is
// sorted ascending by display name, ties broken by id.
func (c *Client) LoadDirectory(ctx context.Context, roleFilter []models.Role) ([]models.Correspondent, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/contacts", nil)
	if err != nil {
		return nil, err
	}

	var records []contactRecord
	if err := decode(resp, &records); err != nil {
		return nil, err
	}

	allowed := roleSet(roleFilter)
	out := make([]models.Correspondent, 0, len(records))
	for _, record := range records {
		if record.ID == "" || record.FullName == "" {
			continue
		}
		if c.operator.Owns(record.ID, record.CrewID) {
			continue
		}
		role := models.Role(record.Role)
		if allowed != nil {
			if _, ok := allowed[role]; !ok {
				continue
			}
		}
		out = append(out, normalizeContact(record))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func normalizeContact(record contactRecord) models.Correspondent {
	role := models.Role(record.Role)

	presence := models.PresenceOffline
	if record.Status == "active" {
		presence = models.PresenceOnline
	}

	return models.Correspondent{
		ID:              record.ID,
		CrewID:          record.CrewID,
		DisplayName:     record.FullName,
		AccountRole:     role,
		DepartmentLabel: role.DepartmentLabel(),
		RoleLabel:       role.PositionLabel(),
		Presence:        presence,
	}
}

func roleSet(roles []models.Role) map[models.Role]struct{} {
	if roles == nil {
		return nil
	}
	set := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}
