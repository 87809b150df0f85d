package models

import "time"

// RoleName is the closed set of roles known to the system.
type RoleName string

const (
	RoleAdmin RoleName = "ADMIN"
	RoleUser  RoleName = "USER"
)

// AllRoles is the reference data seeded into the roles table at startup.
var AllRoles = []RoleName{RoleAdmin, RoleUser}

func (r RoleName) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Expand maps a role to the full capability set it grants. ADMIN implies
// USER, so an admin passes any gate a regular user passes.
func (r RoleName) Expand() []RoleName {
	if r == RoleAdmin {
		return []RoleName{RoleAdmin, RoleUser}
	}
	return []RoleName{r}
}

type Role struct {
	ID   uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name RoleName `gorm:"uniqueIndex;not null"     json:"name"`
}

// Passport holds the optional identity-document columns embedded into the
// users table.
type Passport struct {
	Series string `gorm:"column:passport_series" json:"passportSeries,omitempty"`
	Number string `gorm:"column:passport_number" json:"passportNumber,omitempty"`
}

type User struct {
	ID           uint     `gorm:"primaryKey;autoIncrement"   json:"id"`
	Login        string   `gorm:"uniqueIndex;not null"       json:"login"`
	PasswordHash string   `gorm:"not null"                   json:"-"`
	Passport     Passport `gorm:"embedded"                   json:"passport"`
	Roles        []Role   `gorm:"many2many:user_roles"       json:"roles"`
}

// RoleNames returns the names of the user's roles without capability
// expansion.
func (u *User) RoleNames() []RoleName {
	out := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Name)
	}
	return out
}

// RevokedToken is a blacklist row. Rows are keyed by username: one entry
// invalidates every outstanding token for that user until it expires or the
// user signs in again.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"index;not null"           json:"username"`
	Token     string    `gorm:"not null"                 json:"token"`
	ExpiresAt time.Time `gorm:"index;not null"           json:"expires_at"`
}
