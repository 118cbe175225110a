package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // Search patterns
	"time"     // Time-range filters and cache TTL

	"cash_management/internal/domain" // Importing domain models
	"cash_management/internal/ledger" // LIKE pattern escaping
	"cash_management/internal/utils"  // Cache utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// pagination reads page/page_size query params with the usual bounds
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page
	pageSize = 20 // Default page size
	// If page exists in query
	if p := c.Query("page"); p != "" {
		// Convert page to integer
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// If page_size exists in query
	if ps := c.Query("page_size"); ps != "" {
		// Convert page_size to integer
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Email    string `json:"email"`    // Email address
	Role     string `json:"role"`     // User role
}

// ListUsersHandler returns the paginated user directory. This is the one
// admin view that is cached: it is account data, not ledger data, so the
// recompute-on-read rule does not apply to it.
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c) // Pagination bounds
		// Create a cache key from the clamped pagination values so malformed
		// or out-of-range params share the key of the page actually served
		cacheKey := "admin:users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		// Try to get cached response
		var cached struct {
			Users      []UserAdminResponse `json:"users"`       // List of users
			Page       int                 `json:"page"`        // Current page
			PageSize   int                 `json:"page_size"`   // Page size
			Total      int64               `json:"total"`       // Total number of users
			TotalPages int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCachedJSON(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,      // List of users
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of users
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		// Map users to response format
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:       u.ID,       // User ID
				Username: u.Username, // Username
				Email:    u.Email,    // Email address
				Role:     u.Role,     // User role
			}
		}
		// Prepare final response data
		respData := gin.H{
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCachedJSON(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// adminTimeRange parses the optional from/to RFC3339 query params
func adminTimeRange(c *gin.Context) (from, to *time.Time, ok bool) {
	if f := c.Query("from"); f != "" {
		t, err := time.Parse(time.RFC3339, f) // RFC3339 lower bound
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp, expected RFC3339"})
			return nil, nil, false
		}
		from = &t
	}
	if f := c.Query("to"); f != "" {
		t, err := time.Parse(time.RFC3339, f) // RFC3339 upper bound
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp, expected RFC3339"})
			return nil, nil, false
		}
		to = &t
	}
	return from, to, true
}

// AdminListCashHandler is the operational read surface over all cash
// entries: newest first, filterable by owner, time range, source and a
// substring search. Read-only; no write path exists here. Ledger data is
// never cached, so every request reflects the current store.
func AdminListCashHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&domain.AddCash{}) // Unscoped across users by design
		// Optional owner filter
		if uid := c.Query("user_id"); uid != "" {
			if v, err := strconv.Atoi(uid); err == nil && v > 0 {
				q = q.Where("user_id = ?", v) // Filter by owner
			}
		}
		from, to, ok := adminTimeRange(c) // Optional time-range filter
		if !ok {
			return
		}
		if from != nil {
			q = q.Where("created_at >= ?", *from) // Lower bound
		}
		if to != nil {
			q = q.Where("created_at <= ?", *to) // Upper bound
		}
		// Optional exact source filter
		if source := c.Query("source"); source != "" {
			q = q.Where("source = ?", source)
		}
		// Optional substring search over source and description
		if s := strings.TrimSpace(c.Query("q")); s != "" {
			pattern := "%" + strings.ToLower(ledger.EscapeLike(s)) + "%" // Literal substring pattern
			q = q.Where("LOWER(source) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
		}
		q = q.Session(&gorm.Session{})  // Reusable for both the count and the page fetch
		page, pageSize := pagination(c) // Pagination bounds
		var total int64                 // Total matching entries
		if err := q.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count cash entries"})
			return
		}
		var entries []domain.AddCash // Slice to hold entries
		if err := q.Order("created_at DESC, id DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cash entries"})
			return
		}
		// Return the filtered page
		c.JSON(http.StatusOK, gin.H{
			"cash_additions": entries,                                      // Filtered page
			"page":           page,                                         // Current page
			"page_size":      pageSize,                                     // Page size
			"total":          total,                                        // Total matching entries
			"total_pages":    (int(total) + pageSize - 1) / pageSize,       // Total pages
		})
	}
}

// AdminListExpensesHandler mirrors AdminListCashHandler for expenses.
// Expenses have no source field, so only the time range, owner and
// description search apply.
func AdminListExpensesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&domain.Expense{}) // Unscoped across users by design
		// Optional owner filter
		if uid := c.Query("user_id"); uid != "" {
			if v, err := strconv.Atoi(uid); err == nil && v > 0 {
				q = q.Where("user_id = ?", v) // Filter by owner
			}
		}
		from, to, ok := adminTimeRange(c) // Optional time-range filter
		if !ok {
			return
		}
		if from != nil {
			q = q.Where("created_at >= ?", *from) // Lower bound
		}
		if to != nil {
			q = q.Where("created_at <= ?", *to) // Upper bound
		}
		// Optional substring search over the description
		if s := strings.TrimSpace(c.Query("q")); s != "" {
			q = q.Where("LOWER(description) LIKE ? ESCAPE '!'", "%"+strings.ToLower(ledger.EscapeLike(s))+"%")
		}
		q = q.Session(&gorm.Session{})  // Reusable for both the count and the page fetch
		page, pageSize := pagination(c) // Pagination bounds
		var total int64                 // Total matching expenses
		if err := q.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count expenses"})
			return
		}
		var expenses []domain.Expense // Slice to hold expenses
		if err := q.Order("created_at DESC, id DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&expenses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
			return
		}
		// Return the filtered page
		c.JSON(http.StatusOK, gin.H{
			"expenses":    expenses,                               // Filtered page
			"page":        page,                                   // Current page
			"page_size":   pageSize,                               // Page size
			"total":       total,                                  // Total matching expenses
			"total_pages": (int(total) + pageSize - 1) / pageSize, // Total pages
		})
	}
}
