package domain

import (
	"time" // Creation timestamps

	"github.com/shopspring/decimal" // Exact decimal amounts
)

// AddCash Model
type AddCash struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                    // Primary key
	UserID      uint            `gorm:"index;not null" json:"user_id"`           // Foreign key to the owning User
	Source      string          `gorm:"size:255;not null" json:"source"`         // Where the cash came from
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"` // Amount added, always > 0
	Description string          `json:"description"`                             // Optional free-text description
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`        // Server-assigned, immutable
}
