package domain

// ResourceUser is the collection name users are addressed under.
const ResourceUser = "user"

// UserID identifies a stored user. Ids are assigned on creation and are never reused.
type UserID int64

// User is an account that notes point back to through CreatedBy.
// Password is opaque: it is stored and returned exactly as received.
type User struct {
	ID       UserID
	Name     string
	Password string
	Email    *string // optional
}

// Clone returns a deep copy so callers never share optional-field pointers with a store.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Email != nil {
		email := *u.Email
		c.Email = &email
	}
	return &c
}
