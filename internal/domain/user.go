package domain

// User Model
type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`                  // Primary key
	Username  string  `gorm:"unique;not null" json:"username"`       // Unique username
	Email     string  `gorm:"unique;not null" json:"email"`          // Unique email address
	Password  string  `gorm:"not null" json:"-"`                     // Hashed password, never serialized
	FirstName string  `json:"first_name"`                            // Optional first name
	LastName  string  `json:"last_name"`                             // Optional last name
	Role      string  `gorm:"default:user" json:"role"`              // Role: user or admin
	Profile   Profile `gorm:"constraint:OnDelete:CASCADE;" json:"-"` // One-to-one relationship with Profile
}

// DisplayName returns the first name when set, otherwise the username
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName // Prefer the first name for greetings
	}
	return u.Username // Fall back to the username
}
