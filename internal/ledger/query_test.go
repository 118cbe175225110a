package ledger

import (
	"testing"
	"time"

	"cash_management/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBalanceNoRows(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "empty")

	b, err := ComputeBalance(db, userID)
	require.NoError(t, err)
	assert.True(t, b.TotalAdded.IsZero(), "total added should be 0, got %s", b.TotalAdded)
	assert.True(t, b.TotalSpent.IsZero(), "total spent should be 0, got %s", b.TotalSpent)
	assert.True(t, b.Balance.IsZero(), "balance should be 0, got %s", b.Balance)
}

func TestComputeBalanceSalaryAndRent(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "worker")

	_, err := CreateCash(db, userID, "Salary", "1000.00", "")
	require.NoError(t, err)
	_, err = CreateExpense(db, userID, "Rent", "400.00")
	require.NoError(t, err)

	b, err := ComputeBalance(db, userID)
	require.NoError(t, err)
	assert.True(t, b.TotalAdded.Equal(decimal.RequireFromString("1000.00")), "got %s", b.TotalAdded)
	assert.True(t, b.TotalSpent.Equal(decimal.RequireFromString("400.00")), "got %s", b.TotalSpent)
	assert.True(t, b.Balance.Equal(decimal.RequireFromString("600.00")), "got %s", b.Balance)
}

func TestComputeBalanceDecimalExact(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "precise")

	// 0.10 + 0.20 must be exactly 0.30, not 0.30000000000000004
	_, err := CreateCash(db, userID, "Coins", "0.10", "")
	require.NoError(t, err)
	_, err = CreateCash(db, userID, "Coins", "0.20", "")
	require.NoError(t, err)

	b, err := ComputeBalance(db, userID)
	require.NoError(t, err)
	assert.True(t, b.TotalAdded.Equal(decimal.RequireFromString("0.30")), "got %s", b.TotalAdded)
}

func TestComputeBalanceScopedToUser(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	_, err := CreateCash(db, alice, "Salary", "500.00", "")
	require.NoError(t, err)
	_, err = CreateExpense(db, bob, "Groceries", "80.00")
	require.NoError(t, err)

	b, err := ComputeBalance(db, bob)
	require.NoError(t, err)
	assert.True(t, b.TotalAdded.IsZero(), "bob never added cash, got %s", b.TotalAdded)
	assert.True(t, b.Balance.Equal(decimal.RequireFromString("-80.00")), "got %s", b.Balance)
}

func TestListCashOrderedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "orderly")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, source := range []string{"first", "second", "third"} {
		entry := domain.AddCash{
			UserID:    userID,
			Source:    source,
			Amount:    decimal.RequireFromString("10.00"),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&entry).Error)
	}

	entries, agg, err := ListCash(db, userID, "")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Source)
	assert.Equal(t, "second", entries[1].Source)
	assert.Equal(t, "first", entries[2].Source)
	assert.Equal(t, 3, agg.Count)
	assert.True(t, agg.Total.Equal(decimal.RequireFromString("30.00")), "got %s", agg.Total)
}

func TestListCashSearchCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "searcher")

	_, err := CreateCash(db, userID, "Freelance Work", "250.00", "")
	require.NoError(t, err)
	_, err = CreateCash(db, userID, "Salary", "1000.00", "monthly freelance bonus")
	require.NoError(t, err)
	_, err = CreateCash(db, userID, "Gift", "50.00", "birthday")
	require.NoError(t, err)

	// Matches source on one row and description on another
	entries, agg, err := ListCash(db, userID, "freelance")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, agg.Count)
	assert.True(t, agg.Total.Equal(decimal.RequireFromString("1250.00")), "got %s", agg.Total)
	assert.True(t, agg.Average.Equal(decimal.RequireFromString("625.00")), "got %s", agg.Average)
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{term: "plain", want: "plain"},
		{term: "50%", want: "50!%"},
		{term: "a_c", want: "a!_c"},
		{term: "wow!", want: "wow!!"},
		{term: "100%_!", want: "100!%!_!!"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLike(tt.term), "term %q", tt.term)
	}
}

func TestListCashSearchWildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "literal")

	_, err := CreateCash(db, userID, "abc", "10.00", "")
	require.NoError(t, err)
	_, err = CreateCash(db, userID, "a_c literal", "20.00", "")
	require.NoError(t, err)
	_, err = CreateCash(db, userID, "Sale", "30.00", "50% off voucher")
	require.NoError(t, err)

	// An underscore in the term is a literal character, not a one-char wildcard
	entries, agg, err := ListCash(db, userID, "a_c")
	require.NoError(t, err)
	require.Len(t, entries, 1, "\"a_c\" must not match \"abc\"")
	assert.Equal(t, "a_c literal", entries[0].Source)
	assert.Equal(t, 1, agg.Count)

	// A percent sign in the term is a literal character, not a wildcard
	entries, _, err = ListCash(db, userID, "50%")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sale", entries[0].Source)

	// No stray matches for a percent sign that appears nowhere
	entries, _, err = ListCash(db, userID, "99%")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListExpensesSearchWildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "eliteral")

	_, err := CreateExpense(db, userID, "abc", "10.00")
	require.NoError(t, err)
	_, err = CreateExpense(db, userID, "a_c repair", "20.00")
	require.NoError(t, err)

	expenses, _, err := ListExpenses(db, userID, "a_c")
	require.NoError(t, err)
	require.Len(t, expenses, 1, "\"a_c\" must not match \"abc\"")
	assert.Equal(t, "a_c repair", expenses[0].Description)
}

func TestListCashEmptySearchReturnsAll(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "unfiltered")

	_, err := CreateCash(db, userID, "Salary", "100.00", "")
	require.NoError(t, err)
	_, err = CreateCash(db, userID, "Gift", "20.00", "")
	require.NoError(t, err)

	all, _, err := ListCash(db, userID, "")
	require.NoError(t, err)
	spaced, _, err := ListCash(db, userID, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 2, "empty search must return the unfiltered set")
	assert.Len(t, spaced, 2, "whitespace search must return the unfiltered set")
}

func TestListCashNoMatchesAverageZero(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "nomatch")

	_, err := CreateCash(db, userID, "Salary", "100.00", "")
	require.NoError(t, err)

	entries, agg, err := ListCash(db, userID, "zzz-no-such-entry")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, agg.Count)
	assert.True(t, agg.Total.IsZero(), "got %s", agg.Total)
	assert.True(t, agg.Average.IsZero(), "average over zero rows must be 0, got %s", agg.Average)
}

func TestListExpensesSearchesDescriptionOnly(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "spender")

	_, err := CreateExpense(db, userID, "Rent payment", "400.00")
	require.NoError(t, err)
	_, err = CreateExpense(db, userID, "Groceries", "60.00")
	require.NoError(t, err)

	expenses, agg, err := ListExpenses(db, userID, "RENT")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Rent payment", expenses[0].Description)
	assert.True(t, agg.Average.Equal(decimal.RequireFromString("400.00")), "got %s", agg.Average)
}

func TestListCashOwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "scopealice")
	bob := newTestUser(t, db, "scopebob")

	_, err := CreateCash(db, alice, "Salary", "100.00", "")
	require.NoError(t, err)

	entries, agg, err := ListCash(db, bob, "")
	require.NoError(t, err)
	assert.Empty(t, entries, "bob must never see alice's entries")
	assert.Equal(t, 0, agg.Count)
}
