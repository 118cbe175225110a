package domain

import (
	"time" // Creation timestamps

	"github.com/shopspring/decimal" // Exact decimal amounts
)

// Expense Model
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                      // Primary key
	UserID      uint            `gorm:"index;not null" json:"user_id"`             // Foreign key to the owning User
	Description string          `gorm:"not null" json:"description"`               // What the money was spent on
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"` // Amount spent, always > 0
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`          // Server-assigned, immutable
}
