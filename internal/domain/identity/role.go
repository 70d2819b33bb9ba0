package identity

// Role represents a user's role on the platform
type Role string

const (
	RoleSpotter     Role = "Spotter"
	RoleAgent       Role = "Agent"
	RoleMasterAgent Role = "Master Agent"
	RoleAgencyAdmin Role = "Agency_Admin"
	RoleAdmin       Role = "Admin"
)

// AllRoles lists every valid role
func AllRoles() []Role {
	return []Role{RoleSpotter, RoleAgent, RoleMasterAgent, RoleAgencyAdmin, RoleAdmin}
}

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSpotter, RoleAgent, RoleMasterAgent, RoleAgencyAdmin, RoleAdmin:
		return true
	}
	return false
}

// IsAgencyRole reports whether the role belongs inside an agency
func (r Role) IsAgencyRole() bool {
	switch r {
	case RoleAgent, RoleMasterAgent, RoleAgencyAdmin:
		return true
	}
	return false
}

// CanWorkLeads reports whether the role may be assigned leads
func (r Role) CanWorkLeads() bool {
	return r == RoleAgent || r == RoleAgencyAdmin || r == RoleMasterAgent
}
