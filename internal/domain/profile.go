package domain

// Profile Model
type Profile struct {
	ID      uint   `gorm:"primaryKey" json:"id"`              // Primary key
	UserID  uint   `gorm:"uniqueIndex" json:"user_id"`        // Foreign key to User, at most one Profile per User
	Picture string `gorm:"size:255" json:"picture"`           // Stored avatar file name, empty when unset
	Bio     string `gorm:"size:500" json:"bio"`               // Free-text bio, up to 500 characters
	Phone   string `gorm:"size:20" json:"phone"`              // Phone number string
}

// HasPicture reports whether an avatar is currently set
func (p *Profile) HasPicture() bool {
	return p.Picture != ""
}
