package models

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperario Role = "operario"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOperario
}

// User represents an account of the maintenance back office.
// It maps to the `users` table in SQLite.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	Role         Role   `db:"role" json:"role"`
	PasswordHash string `db:"password_hash" json:"-"`
}
