package ledger

import (
	"strings" // Case-insensitive search patterns

	"cash_management/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact decimal arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

// likeEscaper neutralizes the LIKE metacharacters so a search term always
// matches as a literal substring. '!' is the escape character because it
// means the same thing to MySQL and SQLite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// EscapeLike escapes %, _ and the escape character itself in a user-supplied
// search term. Queries using the result must carry ESCAPE '!'.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// Balance holds the aggregated totals for one user's ledger
type Balance struct {
	TotalAdded decimal.Decimal `json:"total_added"` // Sum of all cash entries
	TotalSpent decimal.Decimal `json:"total_spent"` // Sum of all expenses
	Balance    decimal.Decimal `json:"balance"`     // TotalAdded minus TotalSpent
}

// Aggregates holds sum, count and average over a (possibly filtered) listing
type Aggregates struct {
	Total   decimal.Decimal `json:"total"`   // Sum over the filtered set
	Count   int             `json:"count"`   // Number of rows in the filtered set
	Average decimal.Decimal `json:"average"` // Total / Count, 0 when Count is 0
}

// ComputeBalance recomputes the user's totals from storage. Sums over zero
// rows yield 0, never an error. Amounts are folded in Go as decimals so the
// result is exact regardless of how the driver scans DECIMAL columns.
func ComputeBalance(db *gorm.DB, userID uint) (Balance, error) {
	var cash []domain.AddCash // All cash entries for the user
	if err := db.Where("user_id = ?", userID).Find(&cash).Error; err != nil {
		return Balance{}, err // Propagate storage errors
	}
	var expenses []domain.Expense // All expenses for the user
	if err := db.Where("user_id = ?", userID).Find(&expenses).Error; err != nil {
		return Balance{}, err // Propagate storage errors
	}
	added := decimal.Zero // Running total of cash added
	for _, entry := range cash {
		added = added.Add(entry.Amount) // Exact decimal addition
	}
	spent := decimal.Zero // Running total of cash spent
	for _, e := range expenses {
		spent = spent.Add(e.Amount) // Exact decimal addition
	}
	return Balance{
		TotalAdded: added,             // Sum of cash entries
		TotalSpent: spent,             // Sum of expenses
		Balance:    added.Sub(spent),  // Remaining balance
	}, nil
}

// ListCash returns the user's cash entries ordered most recent first,
// optionally filtered by a case-insensitive substring match over source or
// description, together with sum/count/average over the filtered set.
// An empty search term returns the unfiltered set.
func ListCash(db *gorm.DB, userID uint, search string) ([]domain.AddCash, Aggregates, error) {
	q := db.Where("user_id = ?", userID) // Ownership scoping comes first
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + strings.ToLower(EscapeLike(s)) + "%" // Literal substring pattern
		q = q.Where("LOWER(source) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	var entries []domain.AddCash // Filtered, ordered result set
	// ID breaks ties between rows created in the same instant
	if err := q.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, Aggregates{}, err // Propagate storage errors
	}
	agg := Aggregates{Total: decimal.Zero, Average: decimal.Zero} // Zero-valued aggregates
	for _, entry := range entries {
		agg.Total = agg.Total.Add(entry.Amount) // Exact decimal addition
	}
	agg.Count = len(entries) // Count over the filtered set
	if agg.Count > 0 {
		// Average rounded to cents; zero rows keep the 0 default
		agg.Average = agg.Total.DivRound(decimal.NewFromInt(int64(agg.Count)), 2)
	}
	return entries, agg, nil
}

// ListExpenses is the expense mirror of ListCash. Expenses carry no source
// field, so the search matches the description only.
func ListExpenses(db *gorm.DB, userID uint, search string) ([]domain.Expense, Aggregates, error) {
	q := db.Where("user_id = ?", userID) // Ownership scoping comes first
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + strings.ToLower(EscapeLike(s)) + "%" // Literal substring pattern
		q = q.Where("LOWER(description) LIKE ? ESCAPE '!'", pattern)
	}
	var expenses []domain.Expense // Filtered, ordered result set
	if err := q.Order("created_at DESC, id DESC").Find(&expenses).Error; err != nil {
		return nil, Aggregates{}, err // Propagate storage errors
	}
	agg := Aggregates{Total: decimal.Zero, Average: decimal.Zero} // Zero-valued aggregates
	for _, e := range expenses {
		agg.Total = agg.Total.Add(e.Amount) // Exact decimal addition
	}
	agg.Count = len(expenses) // Count over the filtered set
	if agg.Count > 0 {
		// Average rounded to cents; zero rows keep the 0 default
		agg.Average = agg.Total.DivRound(decimal.NewFromInt(int64(agg.Count)), 2)
	}
	return expenses, agg, nil
}
