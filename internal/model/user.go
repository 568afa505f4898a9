package model

// User is an admin account. Password holds the hex sha-256 digest of the
// plaintext password, never the plaintext itself.
type User struct {
	ID       int    `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
	Name     string `db:"name" json:"name"`
	Role     string `db:"role" json:"role"`
}
