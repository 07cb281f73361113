package authx

import "time"

// User represents a staff member as described by the API server's login
// response.
type User struct {
	// ID is the API server's identifier for the User.
	ID        string     `json:"id"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Roles     Roles      `json:"roles,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// DisplayName returns the User's full name, falling back to whichever contact
// detail is available.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	case u.Email != "":
		return u.Email
	case u.Phone != "":
		return u.Phone
	}
	return u.ID
}
