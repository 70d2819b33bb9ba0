package identity

import "github.com/google/uuid"

// Actor identifies the authenticated caller of an application operation.
// Role and agency come from validated JWT claims.
type Actor struct {
	ID       uuid.UUID
	Role     Role
	AgencyID *uuid.UUID
}

// IsAdmin reports whether the actor holds the platform admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ManagesAgency reports whether the actor administers the given agency
func (a Actor) ManagesAgency(agencyID uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	if a.Role != RoleAgencyAdmin && a.Role != RoleMasterAgent {
		return false
	}
	return a.AgencyID != nil && *a.AgencyID == agencyID
}

// BelongsToAgency reports whether the actor is a member of the given agency
func (a Actor) BelongsToAgency(agencyID uuid.UUID) bool {
	return a.AgencyID != nil && *a.AgencyID == agencyID
}
