package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Password holds the bcrypt hash and is empty for users created without credentials.
// UUID is assigned once at creation and is the external key used in events.
type User struct {
	ID        int64
	UUID      string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

// Apply copies the set fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
}
