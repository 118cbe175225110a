package api

import (
	"net/http" // HTTP status codes

	"cash_management/internal/ledger" // Ledger query engine and mutation service

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// recentLimit is how many entries of each kind the dashboard shows
const recentLimit = 5

// DashboardHandler returns the user's balance, entry counts and the most
// recent entries of each kind. Everything is recomputed from storage on
// every request; nothing here is cached.
func DashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		balance, err := ledger.ComputeBalance(db, userID) // Recompute totals
		if err != nil {
			respondError(c, err)
			return
		}
		cash, cashAgg, err := ledger.ListCash(db, userID, "") // Full ordered cash listing
		if err != nil {
			respondError(c, err)
			return
		}
		expenses, expenseAgg, err := ledger.ListExpenses(db, userID, "") // Full ordered expense listing
		if err != nil {
			respondError(c, err)
			return
		}
		// Recent-N is a slice of the same descending ordering, not a separate query path
		recentCash := cash
		if len(recentCash) > recentLimit {
			recentCash = recentCash[:recentLimit]
		}
		recentExpenses := expenses
		if len(recentExpenses) > recentLimit {
			recentExpenses = recentExpenses[:recentLimit]
		}
		// Return the dashboard data
		c.JSON(http.StatusOK, gin.H{
			"total_added":          balance.TotalAdded, // Sum of all cash entries
			"total_spent":          balance.TotalSpent, // Sum of all expenses
			"balance":              balance.Balance,    // Remaining balance
			"cash_additions_count": cashAgg.Count,      // Number of cash entries
			"expenses_count":       expenseAgg.Count,   // Number of expenses
			"recent_added":         recentCash,         // Last few cash entries
			"recent_expenses":      recentExpenses,     // Last few expenses
		})
	}
}

// CreateCashHandler records a new cash entry from form input. The amount
// arrives as a string and is parsed by the mutation service with exact
// decimal arithmetic; nothing here pre-validates on the handler's behalf.
func CreateCashHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		// Raw form values, validated by the mutation service
		entry, err := ledger.CreateCash(db, userID, c.PostForm("source"), c.PostForm("amount"), c.PostForm("description"))
		if err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Cash added successfully", "cash": entry})
	}
}

// CreateExpenseHandler records a new expense from form input
func CreateExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		// Raw form values, validated by the mutation service
		expense, err := ledger.CreateExpense(db, userID, c.PostForm("description"), c.PostForm("amount"))
		if err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Expense recorded successfully", "expense": expense})
	}
}

// ListCashHandler returns the user's cash entries, newest first, optionally
// filtered by the q query parameter, with totals over the filtered set
func ListCashHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		search := c.Query("q") // Empty means no filter
		entries, agg, err := ledger.ListCash(db, userID, search)
		if err != nil {
			respondError(c, err)
			return
		}
		// Return the listing and its aggregates
		c.JSON(http.StatusOK, gin.H{
			"cash_additions": entries,     // Ordered, filtered entries
			"search_query":   search,      // Echo the search term
			"total":          agg.Total,   // Sum over the filtered set
			"count":          agg.Count,   // Rows in the filtered set
			"average":        agg.Average, // Total / Count, 0 when empty
		})
	}
}

// ListExpensesHandler mirrors ListCashHandler for expenses
func ListExpensesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		search := c.Query("q") // Empty means no filter
		expenses, agg, err := ledger.ListExpenses(db, userID, search)
		if err != nil {
			respondError(c, err)
			return
		}
		// Return the listing and its aggregates
		c.JSON(http.StatusOK, gin.H{
			"expenses":     expenses,    // Ordered, filtered expenses
			"search_query": search,      // Echo the search term
			"total":        agg.Total,   // Sum over the filtered set
			"count":        agg.Count,   // Rows in the filtered set
			"average":      agg.Average, // Total / Count, 0 when empty
		})
	}
}

// DeleteCashPreviewHandler is the safe first step of the two-step delete:
// a read-only GET that shows the record about to be deleted. Only the POST
// commit actually destroys anything.
func DeleteCashPreviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		id, ok := recordIDParam(c) // Record to preview
		if !ok {
			return
		}
		entry, err := ledger.GetCash(db, userID, id) // Owner-scoped read
		if err != nil {
			respondError(c, err)
			return
		}
		// Return the record to be confirmed for deletion
		c.JSON(http.StatusOK, gin.H{"object": entry, "object_type": "Cash Entry"})
	}
}

// DeleteCashHandler is the destructive commit step of the two-step delete
func DeleteCashHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		id, ok := recordIDParam(c) // Record to delete
		if !ok {
			return
		}
		if err := ledger.DeleteCash(db, userID, id); err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Cash entry deleted successfully"})
	}
}

// DeleteExpensePreviewHandler mirrors DeleteCashPreviewHandler for expenses
func DeleteExpensePreviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		id, ok := recordIDParam(c) // Record to preview
		if !ok {
			return
		}
		expense, err := ledger.GetExpense(db, userID, id) // Owner-scoped read
		if err != nil {
			respondError(c, err)
			return
		}
		// Return the record to be confirmed for deletion
		c.JSON(http.StatusOK, gin.H{"object": expense, "object_type": "Expense"})
	}
}

// DeleteExpenseHandler is the destructive commit step for expenses
func DeleteExpenseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			return
		}
		id, ok := recordIDParam(c) // Record to delete
		if !ok {
			return
		}
		if err := ledger.DeleteExpense(db, userID, id); err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
	}
}
