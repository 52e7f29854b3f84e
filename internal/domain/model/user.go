package model

// Role distinguishes dashboard viewers.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

// UserRef points at the order's owner. The server sends either a bare
// identifier or the full profile; both forms must be handled alike.
type UserRef struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email,omitempty"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Address   string   `json:"address,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// Complete reports whether the reference carries the full profile rather
// than just the relation.
func (u *UserRef) Complete() bool {
	return u != nil && u.Username != "" && u.Email != ""
}
