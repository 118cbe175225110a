package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation
	"time"     // Denylist TTL

	"cash_management/internal/domain" // Importing domain models
	"cash_management/internal/ledger" // Error taxonomy
	"cash_management/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"` // Username must be provided
	Email     string `json:"email" binding:"required"`    // Email must be provided
	Password  string `json:"password" binding:"required"` // Password must be provided
	FirstName string `json:"first_name"`                  // Optional first name
	LastName  string `json:"last_name"`                   // Optional last name
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"` // Current password
	NewPassword string `json:"new_password" binding:"required"` // Replacement password
}

// Response struct for authentication
type AuthResponse struct {
	Token   string `json:"token"`   // JWT token
	Message string `json:"message"` // Greeting shown after login
}

// isValidUsername checks if the username contains only letters and digits
func isValidUsername(username string) bool {
	matched, _ := regexp.MatchString(`^[A-Za-z0-9]+$`, username) // Regex to match alphanumeric characters only
	return matched                                               // Return whether it matched
}

// isValidEmail does a light shape check on the email address
func isValidEmail(email string) bool {
	matched, _ := regexp.MatchString(`^[^@\s]+@[^@\s]+\.[^@\s]+$`, email) // Something@something.something
	return matched                                                        // Return whether it matched
}

// isValidPassword checks if the password length is between 8 and 72 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72 // 72 is the bcrypt input limit
}

// RegisterHandler creates a new account. Username and email collisions come
// back as conflicts, never as server faults.
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email, Username, and Password are required"})
			return
		}
		// Validate username shape
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be letters and digits only"})
			return
		}
		// Validate email shape
		if !isValidEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-72 characters"})
			return
		}
		username := strings.ToLower(req.Username) // Lowercase to ensure uniqueness
		email := strings.ToLower(req.Email)       // Lowercase to ensure uniqueness
		// Check for an existing username before attempting the insert
		var count int64
		if err := db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err == nil && count > 0 {
			respondError(c, &ledger.ConflictError{Field: "username"})
			return
		}
		// Check for an existing email before attempting the insert
		if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err == nil && count > 0 {
			respondError(c, &ledger.ConflictError{Field: "email"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Username:  username,          // Unique username
			Email:     email,             // Unique email
			Password:  string(hash),      // Bcrypt hash
			FirstName: req.FirstName,     // Optional
			LastName:  req.LastName,      // Optional
		}
		// Attempt to create the user; the unique constraints backstop the checks above
		if err := db.Create(&user).Error; err != nil {
			respondError(c, &ledger.ConflictError{Field: "username or email"})
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully"})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{
			Token:   token,                                   // JWT token
			Message: "Welcome back, " + user.DisplayName() + "!", // Greeting
		})
	}
}

// LogoutHandler revokes the presented token until its natural expiry
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenID, exists := c.Get("tokenID") // Set by JWTAuthMiddleware
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		expiry, _ := c.Get("tokenExpiry") // Remaining lifetime bounds the denylist TTL
		ttl := time.Until(expiry.(time.Time))
		if err := utils.RevokeToken(c.Request.Context(), rdb, tokenID.(string), ttl); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// ChangePasswordHandler replaces the user's password after checking the old one
func ChangePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		var req ChangePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Old and new passwords are required"})
			return
		}
		// Validate new password length
		if !isValidPassword(req.NewPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-72 characters"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// The old password must match before anything changes
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}
		// Hash and store the new password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}
