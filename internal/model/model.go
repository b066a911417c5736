package model

import "time"

// User is an account that owns contacts. The password is only ever kept as a bcrypt hash.
// These types never leave the process; handlers convert them to the pkg/model wire types.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Contact is the data structure for a person that we know. Every contact belongs to exactly
// one user.
type Contact struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ContactInput holds the user supplied fields of a new contact.
type ContactInput struct {
	Name  string
	Email string
	Phone string
}

// ContactPatch holds the fields of a partial update. A nil field is left untouched.
type ContactPatch struct {
	Name  *string
	Email *string
	Phone *string
}

// IsEmpty reports whether the patch would not change anything.
func (p ContactPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil
}

// Apply copies the present fields of the patch onto the contact.
func (p ContactPatch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
}
