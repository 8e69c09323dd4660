package domain

// Role is the caller's role as asserted by the identity provider.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleConsultant Role = "consultant"
	RoleClient     Role = "client"
)

// Valid returns true for known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleConsultant || r == RoleClient
}

// Identity is the authenticated caller.
type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Owns returns true when the caller is the consultant's own account.
func (i Identity) Owns(c *Consultant) bool {
	return c != nil && i.Role == RoleConsultant && c.UserID == i.UserID
}

// CanManage returns true for admins and for the consultant themselves.
func (i Identity) CanManage(c *Consultant) bool {
	return i.IsAdmin() || i.Owns(c)
}
