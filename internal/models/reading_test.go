package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pump-backend/internal/models"
)

func TestDailyReading_Recompute_DerivesSale(t *testing.T) {
	// GIVEN: opening 1000, closing 1500, price 105.50
	// WHEN: recomputing
	// THEN: 500 liters and 52750.00 total

	r := &models.DailyReading{
		OpeningReading: 1000,
		ClosingReading: 1500,
		PricePerLiter:  105.50,
	}
	r.Recompute()

	assert.Equal(t, 500.0, r.LitersSold)
	assert.Equal(t, 52750.0, r.TotalAmount)
}

func TestDailyReading_Recompute_ZeroDelta(t *testing.T) {
	r := &models.DailyReading{
		OpeningReading: 1000,
		ClosingReading: 1000,
		PricePerLiter:  105.50,
	}
	r.Recompute()

	assert.Equal(t, 0.0, r.LitersSold)
	assert.Equal(t, 0.0, r.TotalAmount)
}

func TestDailyReading_Recompute_NegativeDelta_KeepsPrior(t *testing.T) {
	// GIVEN: derived fields from an earlier valid recompute
	// WHEN: closing drops below opening and Recompute runs again
	// THEN: the prior derived values survive

	r := &models.DailyReading{
		OpeningReading: 1000,
		ClosingReading: 1500,
		PricePerLiter:  105.50,
	}
	r.Recompute()

	r.OpeningReading = 1500
	r.ClosingReading = 1200
	r.Recompute()

	assert.Equal(t, 500.0, r.LitersSold)
	assert.Equal(t, 52750.0, r.TotalAmount)
}
