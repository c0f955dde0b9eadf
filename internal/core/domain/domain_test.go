package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_StockFlags(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		low, out bool
	}{
		{"above minimum", Item{Quantity: 10, MinimumStock: 5}, false, false},
		{"at minimum", Item{Quantity: 5, MinimumStock: 5}, true, false},
		{"below minimum", Item{Quantity: 4, MinimumStock: 5}, true, false},
		{"empty", Item{Quantity: 0, MinimumStock: 5}, true, true},
		{"empty with zero minimum", Item{Quantity: 0, MinimumStock: 0}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.low, tt.item.IsLowStock())
			assert.Equal(t, tt.out, tt.item.IsOutOfStock())
		})
	}
}

func TestItem_HasQuantity(t *testing.T) {
	it := Item{Quantity: 4}
	assert.True(t, it.HasQuantity(4))
	assert.True(t, it.HasQuantity(1))
	assert.False(t, it.HasQuantity(5))
}

func TestIssuance_IsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		rec     Issuance
		overdue bool
	}{
		{"open past due", Issuance{Status: IssuanceStatusIssued, ReturnDate: &past}, true},
		{"open not due", Issuance{Status: IssuanceStatusIssued, ReturnDate: &future}, false},
		{"open without date", Issuance{Status: IssuanceStatusIssued}, false},
		{"returned past date", Issuance{Status: IssuanceStatusReturned, ReturnDate: &past}, false},
		{"lost past date", Issuance{Status: IssuanceStatusLost, ReturnDate: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, tt.rec.IsOverdue(now))
			if tt.overdue {
				assert.Equal(t, IssuanceStatusOverdue, tt.rec.DisplayStatus(now))
			} else {
				assert.Equal(t, tt.rec.Status, tt.rec.DisplayStatus(now))
			}
		})
	}
}

func TestParseIssuanceStatus(t *testing.T) {
	st, err := ParseIssuanceStatus("Returned")
	require.NoError(t, err)
	assert.Equal(t, IssuanceStatusReturned, st)

	_, err = ParseIssuanceStatus("returned")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPageRequest_Normalize(t *testing.T) {
	p := PageRequest{}.Normalize(10)
	assert.Equal(t, PageRequest{Number: 1, Size: 10}, p)
	assert.Equal(t, 0, p.Offset())

	p = PageRequest{Number: 2, Size: 500}.Normalize(10)
	assert.Equal(t, MaxPageSize, p.Size)
	assert.Equal(t, MaxPageSize, p.Offset())

	p = PageRequest{Number: math.MaxInt / 2, Size: MaxPageSize}.Normalize(10)
	assert.Equal(t, MaxPageNumber, p.Number)
	assert.Positive(t, p.Offset())
	assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
}

func TestPage_TotalPages(t *testing.T) {
	assert.Equal(t, 2, Page[Item]{TotalCount: 15, Size: 10}.TotalPages())
	assert.Equal(t, 1, Page[Item]{TotalCount: 10, Size: 10}.TotalPages())
	assert.Equal(t, 0, Page[Item]{TotalCount: 0, Size: 10}.TotalPages())
}

func TestValidate(t *testing.T) {
	err := Validate(ItemInput{Name: "", Quantity: -1, CategoryID: 1})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "quantity")
	assert.NotContains(t, verr.Fields, "category_id")
	assert.ErrorIs(t, err, ErrValidation)

	assert.NoError(t, Validate(ItemInput{Name: "Projector", Quantity: 0, CategoryID: 3}))
}

func TestValidate_IssueRequest(t *testing.T) {
	err := Validate(IssueRequest{ItemID: 1, UserID: "u-1", Quantity: 0})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at least 1", verr.Fields["quantity"])
}

func TestErrorTaxonomy(t *testing.T) {
	assert.ErrorIs(t, ErrItemNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrIssuanceNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrItemHasIssuances, ErrConflict)
	assert.ErrorIs(t, ErrCategoryHasItems, ErrConflict)
	assert.ErrorIs(t, ErrVersionConflict, ErrConflict)
	assert.NotErrorIs(t, ErrInsufficientStock, ErrConflict)
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "category_id", fieldName("CategoryID"))
	assert.Equal(t, "expected_return_date", fieldName("ExpectedReturnDate"))
	assert.Equal(t, "name", fieldName("Name"))
}
