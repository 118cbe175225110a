package api

import (
	"io"       // Reading the uploaded file
	"net/http" // HTTP status codes
	"path/filepath"
	"strings" // Extension checks

	"cash_management/internal/domain"  // Importing domain models
	"cash_management/internal/ledger"  // Error taxonomy
	"cash_management/internal/profile" // Profile coordinator

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// maxAvatarSize caps avatar uploads at 5 MiB
const maxAvatarSize = 5 << 20

// allowedAvatarExts is the accepted set of image extensions
var allowedAvatarExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// GetProfileHandler returns the user's profile, provisioning an empty one
// on first access
func GetProfileHandler(db *gorm.DB, coord *profile.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		p, err := coord.GetOrCreate(userID) // Lazy, race-safe provisioning
		if err != nil {
			respondError(c, err)
			return
		}
		var user domain.User // Account fields shown alongside the profile
		if err := db.First(&user, userID).Error; err != nil {
			respondError(c, err)
			return
		}
		// Return profile and account data
		c.JSON(http.StatusOK, gin.H{"profile": p, "user": user})
	}
}

// UpdateProfileHandler edits bio, phone, names and email from form input.
// An email collision with another account is a conflict, not a fault.
func UpdateProfileHandler(db *gorm.DB, coord *profile.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		email := strings.ToLower(strings.TrimSpace(c.PostForm("email"))) // Lowercase to ensure uniqueness
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
			return
		}
		if !isValidEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		// Check if email already belongs to another user
		var count int64
		if err := db.Model(&domain.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
			respondError(c, err)
			return
		}
		if count > 0 {
			respondError(c, &ledger.ConflictError{Field: "email"})
			return
		}
		// Update the account fields
		updates := map[string]any{
			"first_name": strings.TrimSpace(c.PostForm("first_name")), // Optional
			"last_name":  strings.TrimSpace(c.PostForm("last_name")),  // Optional
			"email":      email,                                       // Unique email
		}
		if err := db.Model(&domain.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
		// Update the profile fields through the coordinator
		p, err := coord.Update(userID, c.PostForm("bio"), c.PostForm("phone"))
		if err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "profile": p})
	}
}

// UploadAvatarHandler replaces the user's avatar with the uploaded image
func UploadAvatarHandler(coord *profile.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		header, err := c.FormFile("picture") // Multipart file field
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A picture file is required"})
			return
		}
		if header.Size > maxAvatarSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Picture must be at most 5 MB"})
			return
		}
		ext := strings.ToLower(filepath.Ext(header.Filename)) // Extension check
		if !allowedAvatarExts[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Picture must be a png, jpg, jpeg, gif or webp image"})
			return
		}
		f, err := header.Open() // Read the upload into memory
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxAvatarSize)) // Bounded read
		if err != nil {
			respondError(c, err)
			return
		}
		// Swap the avatar; the previous image's storage is released
		p, err := coord.SetAvatar(userID, data, header.Filename)
		if err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated", "profile": p})
	}
}

// DeleteAvatarHandler removes the avatar; removing an unset avatar is a no-op
func DeleteAvatarHandler(coord *profile.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		p, err := coord.ClearAvatar(userID) // No-op when nothing is set
		if err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Profile picture removed", "profile": p})
	}
}
