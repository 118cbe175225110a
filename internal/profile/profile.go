package profile

import (
	"strings" // Input trimming

	"cash_management/internal/domain" // Importing domain models
	"cash_management/internal/ledger" // Shared error taxonomy

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // ON CONFLICT support
)

// AvatarStore abstracts where avatar image bytes live. The disk store in
// internal/storage is the only implementation in production; tests swap in
// an in-memory one.
type AvatarStore interface {
	Save(data []byte, filename string) (string, error) // Persist bytes, return the stored name
	Remove(name string) error                          // Release the stored file, no-op when absent
}

// Coordinator lazily provisions and mutates per-user profiles
type Coordinator struct {
	DB    *gorm.DB    // Storage layer
	Store AvatarStore // Avatar byte storage
}

// GetOrCreate returns the user's profile, creating an empty one on first
// access. The insert is insert-if-absent against the unique user_id index,
// so two concurrent first touches resolve to exactly one row; the loser of
// the race simply re-reads the winner's row.
func (c *Coordinator) GetOrCreate(userID uint) (*domain.Profile, error) {
	fresh := domain.Profile{UserID: userID} // Candidate empty profile
	err := c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}}, // Unique index on the User relation
		DoNothing: true,                               // Losers insert nothing
	}).Create(&fresh).Error
	if err != nil {
		return nil, err // Propagate storage errors
	}
	var p domain.Profile // Re-read regardless of who won the insert
	if err := c.DB.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err // Propagate storage errors
	}
	return &p, nil
}

// Update edits the profile's bio and phone in place
func (c *Coordinator) Update(userID uint, bio, phone string) (*domain.Profile, error) {
	bio = strings.TrimSpace(bio)     // Free-text bio
	phone = strings.TrimSpace(phone) // Phone string
	if len(bio) > 500 {
		return nil, &ledger.ValidationError{Field: "bio", Reason: "must be at most 500 characters"}
	}
	if len(phone) > 20 {
		return nil, &ledger.ValidationError{Field: "phone", Reason: "must be at most 20 characters"}
	}
	p, err := c.GetOrCreate(userID) // Lazy provisioning on first touch
	if err != nil {
		return nil, err
	}
	// Update both fields in one statement
	updates := map[string]any{"bio": bio, "phone": phone}
	if err := c.DB.Model(p).Updates(updates).Error; err != nil {
		return nil, err // Propagate storage errors
	}
	p.Bio, p.Phone = bio, phone // Reflect the committed values
	return p, nil
}

// SetAvatar stores the uploaded image, swaps the profile's reference to it
// and releases the previous image's storage.
func (c *Coordinator) SetAvatar(userID uint, data []byte, filename string) (*domain.Profile, error) {
	p, err := c.GetOrCreate(userID) // Lazy provisioning on first touch
	if err != nil {
		return nil, err
	}
	stored, err := c.Store.Save(data, filename) // Persist the new image first
	if err != nil {
		return nil, err // Nothing swapped on storage failure
	}
	previous := p.Picture // Remember the image being replaced
	if err := c.DB.Model(p).Update("picture", stored).Error; err != nil {
		_ = c.Store.Remove(stored) // Release the orphaned upload
		return nil, err
	}
	p.Picture = stored // Reflect the committed value
	if previous != "" {
		// Best effort: a leaked old file is logged, not fatal
		if err := c.Store.Remove(previous); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,   // Owner
				"picture": previous, // Orphaned file name
			}).Warn("Failed to remove replaced avatar")
		}
	}
	// Log the swap with context
	logrus.WithFields(logrus.Fields{
		"user_id": userID, // Owner
		"picture": stored, // New file name
	}).Info("Avatar updated")
	return p, nil
}

// ClearAvatar removes the avatar reference and releases its storage.
// Clearing an unset avatar is a no-op, not an error.
func (c *Coordinator) ClearAvatar(userID uint) (*domain.Profile, error) {
	p, err := c.GetOrCreate(userID) // Lazy provisioning on first touch
	if err != nil {
		return nil, err
	}
	if !p.HasPicture() {
		return p, nil // Nothing to clear
	}
	previous := p.Picture // The image being released
	if err := c.DB.Model(p).Update("picture", "").Error; err != nil {
		return nil, err // Propagate storage errors
	}
	p.Picture = "" // Reflect the committed value
	// Best effort: a leaked file is logged, not fatal
	if err := c.Store.Remove(previous); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,   // Owner
			"picture": previous, // Orphaned file name
		}).Warn("Failed to remove cleared avatar")
	}
	return p, nil
}
