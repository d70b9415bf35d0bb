package domain

import "time"

type ContactType string

const (
	ContactTypePersonal     ContactType = "personal"
	ContactTypeProfessional ContactType = "professional"
)

// Contact is an address-book entry owned by a single user.
type Contact struct {
	ID        string
	UserID    int64
	Name      string
	Email     string
	Phone     string
	Type      ContactType
	CreatedAt time.Time
	UpdatedAt time.Time
}
