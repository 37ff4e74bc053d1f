package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// User is a registered account row, including its credential hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	Location     string
	PhotoURL     string
}

// Identity is what the auth boundary hands back after a successful login.
type Identity struct {
	ID          string
	Role        Role
	DisplayName string
}

// Actor is the identity context passed explicitly into every engine
// call. The zero Actor means an unauthenticated guest.
type Actor struct {
	ID   string
	Role Role
	Name string
}

// IsGuest reports whether the actor carries no authenticated identity.
func (a Actor) IsGuest() bool {
	return a.ID == ""
}

// CanManageLoans reports whether the actor may run lifecycle
// transitions. Librarian and admin are equivalent here.
func (a Actor) CanManageLoans() bool {
	return a.Role == RoleLibrarian || a.Role == RoleAdmin
}
