package domain

// Roles are fixed at registration; a user never changes sides.
const (
	RoleFarmer = "FARMER"
	RoleBuyer  = "BUYER"
)

type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Hash  string `db:"password_hash" json:"-"`
	Role  string `db:"role" json:"role"`
	Phone string `db:"phone" json:"phone,omitempty"`
}
