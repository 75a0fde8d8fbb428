package booking

type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// Actor is whoever asks for an operation.
type Actor struct {
	ID   uint
	Role Role
}

// SystemActor runs scheduled jobs with admin rights.
var SystemActor = Actor{Role: RoleSystem}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}

// IsTiedTo reports whether a may act on b: admins always, clients and
// providers only on their own bookings.
func (a Actor) IsTiedTo(b Booking) bool {
	switch a.Role {
	case RoleAdmin, RoleSystem:
		return true
	case RoleClient:
		return b.ClientID != 0 && a.ID == b.ClientID
	case RoleProvider:
		return a.ID == b.ProviderID
	}
	return false
}

func (a Actor) hasRole(roles []Role) bool {
	for _, r := range roles {
		if a.Role == r || (r == RoleAdmin && a.IsAdmin()) {
			return true
		}
	}
	return false
}
