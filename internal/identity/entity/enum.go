package entity

// AccountStatus is stored as a smallint.
type AccountStatus int16

const (
	AccountStatusUnknown AccountStatus = iota
	AccountStatusActive
	AccountStatusBanned
)

// Ensure clamps unexpected values to AccountStatusUnknown.
func (s AccountStatus) Ensure() AccountStatus {
	switch s {
	case AccountStatusActive, AccountStatusBanned:
		return s
	default:
		return AccountStatusUnknown
	}
}

func (s AccountStatus) String() string {
	switch s {
	case AccountStatusActive:
		return "active"
	case AccountStatusBanned:
		return "banned"
	default:
		return "unknown"
	}
}

// Role names the account's position in the marketplace.
type Role string

const (
	RoleTraveler Role = "traveler"
	RoleHost     Role = "host"
	RoleVendor   Role = "vendor"
	RoleGuide    Role = "guide"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTraveler, RoleHost, RoleVendor, RoleGuide, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

func RoleFromString(s string) Role {
	r := Role(s)
	if !r.Valid() {
		return RoleTraveler
	}
	return r
}
