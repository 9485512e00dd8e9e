package domain

// User is a store operator who can sign in to the back office.
type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"` // STAFF | ADMIN
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == "ADMIN" }
