package ledger

import (
	"errors"  // Sentinel error checks
	"strings" // Input trimming

	"cash_management/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact decimal parsing
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// maxAmount is the largest value a decimal(10,2) column can hold
var maxAmount = decimal.RequireFromString("99999999.99")

// ParseAmount parses a raw form value into an exact positive decimal.
// Form input is never trusted: it is parsed here with decimal arithmetic,
// never through a float.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw) // Tolerate surrounding whitespace
	if raw == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "is required"}
	}
	amount, err := decimal.NewFromString(raw) // Exact decimal parse
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "is not a valid number"}
	}
	if !amount.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "has more than two decimal places"}
	}
	if amount.GreaterThan(maxAmount) {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "is too large"}
	}
	return amount, nil
}

// CreateCash validates and persists a new cash entry for the user.
// The creation timestamp is server-assigned. A failed create persists nothing.
func CreateCash(db *gorm.DB, userID uint, source, amount, description string) (*domain.AddCash, error) {
	source = strings.TrimSpace(source) // Required free text
	if source == "" {
		return nil, &ValidationError{Field: "source", Reason: "is required"}
	}
	value, err := ParseAmount(amount) // Exact decimal parse and range check
	if err != nil {
		return nil, err // ValidationError from ParseAmount
	}
	entry := &domain.AddCash{
		UserID:      userID,                        // Ownership is fixed at creation
		Source:      source,                        // Where the cash came from
		Amount:      value,                         // Validated positive amount
		Description: strings.TrimSpace(description), // Optional description
	}
	if err := db.Create(entry).Error; err != nil {
		return nil, err // Propagate storage errors
	}
	// Log the mutation with context
	logrus.WithFields(logrus.Fields{
		"user_id": userID,         // Owner
		"cash_id": entry.ID,       // New record ID
		"amount":  value.String(), // Amount added
	}).Info("Cash entry created")
	return entry, nil
}

// CreateExpense validates and persists a new expense for the user.
// Symmetric to CreateCash; the description is the required field here.
func CreateExpense(db *gorm.DB, userID uint, description, amount string) (*domain.Expense, error) {
	description = strings.TrimSpace(description) // Required free text
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "is required"}
	}
	value, err := ParseAmount(amount) // Exact decimal parse and range check
	if err != nil {
		return nil, err // ValidationError from ParseAmount
	}
	expense := &domain.Expense{
		UserID:      userID,      // Ownership is fixed at creation
		Description: description, // What the money was spent on
		Amount:      value,       // Validated positive amount
	}
	if err := db.Create(expense).Error; err != nil {
		return nil, err // Propagate storage errors
	}
	// Log the mutation with context
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,         // Owner
		"expense_id": expense.ID,     // New record ID
		"amount":     value.String(), // Amount spent
	}).Info("Expense created")
	return expense, nil
}

// GetCash fetches a single cash entry owned by the user. Absent rows and
// rows owned by someone else both come back as NotFoundError.
func GetCash(db *gorm.DB, userID, id uint) (*domain.AddCash, error) {
	var entry domain.AddCash // The requested entry
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "cash entry", ID: id} // Never leaks other users' rows
	}
	if err != nil {
		return nil, err // Propagate storage errors
	}
	return &entry, nil
}

// GetExpense fetches a single expense owned by the user
func GetExpense(db *gorm.DB, userID, id uint) (*domain.Expense, error) {
	var expense domain.Expense // The requested expense
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "expense", ID: id} // Never leaks other users' rows
	}
	if err != nil {
		return nil, err // Propagate storage errors
	}
	return &expense, nil
}

// DeleteCash removes a cash entry owned by the user. Ownership check and
// delete run as a single scoped DELETE inside a transaction, so a concurrent
// delete of the same row fails cleanly as NotFound instead of corrupting
// state. No soft delete, no undo.
func DeleteCash(db *gorm.DB, userID, id uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		// Ownership scoping is part of the DELETE itself
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.AddCash{})
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: "cash entry", ID: id} // Absent or other-owned
		}
		return nil // Commit transaction
	})
	if err != nil {
		return err // NotFoundError or storage error
	}
	// Log the deletion with context
	logrus.WithFields(logrus.Fields{
		"user_id": userID, // Owner
		"cash_id": id,     // Deleted record ID
	}).Info("Cash entry deleted")
	return nil
}

// DeleteExpense removes an expense owned by the user. Symmetric to DeleteCash.
func DeleteExpense(db *gorm.DB, userID, id uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		// Ownership scoping is part of the DELETE itself
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Expense{})
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: "expense", ID: id} // Absent or other-owned
		}
		return nil // Commit transaction
	})
	if err != nil {
		return err // NotFoundError or storage error
	}
	// Log the deletion with context
	logrus.WithFields(logrus.Fields{
		"user_id":    userID, // Owner
		"expense_id": id,     // Deleted record ID
	}).Info("Expense deleted")
	return nil
}
