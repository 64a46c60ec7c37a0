package domain

// User is a shopper who can leave reviews. Users are read-only here.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
}
