package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
)

func TestPeriodSummary_MonthBoundaries(t *testing.T) {
	snap := inventory.Snapshot{
		Categories: []entity.Category{{ID: "c1", Name: "Jeans"}},
		Purchases: []entity.Purchase{
			purchase("last-day", "c1", day(2025, time.January, 31), 10, "1000", "150"),
			purchase("first-day", "c1", day(2025, time.January, 1), 2, "200", "150"),
			purchase("next-month", "c1", day(2025, time.February, 1), 5, "700", "150"),
			purchase("prev-year", "c1", day(2024, time.January, 15), 5, "9999", "150"),
		},
		Sales: []entity.Sale{
			sale("s-in", "c1", day(2025, time.January, 31), 3, "150"),
			sale("s-out", "c1", day(2024, time.December, 31), 3, "150"),
		},
	}

	got := snap.PeriodSummary(inventory.Period{Year: 2025, Month: time.January})

	assert.True(t, got.Outcome.Equal(dec("1200")), "outcome = %s", got.Outcome)
	assert.True(t, got.Income.Equal(dec("450")), "income = %s", got.Income)
	assert.True(t, got.Profit.Equal(dec("-750")))
	assert.Equal(t, 2, got.PurchaseCount)
	assert.Equal(t, 1, got.SalesCount)
}

func TestPeriodSummary_EmptyPeriodIsZero(t *testing.T) {
	snap := tshirtSnapshot()

	got := snap.PeriodSummary(inventory.Period{Year: 2030, Month: time.July})

	assert.True(t, got.IsEmpty())
	assert.True(t, got.Profit.IsZero())
	assert.True(t, got.Profit.Equal(got.Income.Sub(got.Outcome)))
	assert.True(t, got.MarginPct().IsZero())
	assert.True(t, got.AverageSaleValue().IsZero())
	require.Len(t, got.Breakdown, 1, "las categorías sin movimiento se incluyen en cero")
	assert.False(t, got.Breakdown[0].Active())
	assert.Empty(t, got.ActiveBreakdown())
}

// Dos categorías en el mismo mes, una con ganancia y otra con pérdida.
func TestPeriodSummary_BestCategoryAndNegativeBreakdown(t *testing.T) {
	may := func(d int) time.Time { return day(2025, time.May, d) }
	snap := inventory.Snapshot{
		Categories: []entity.Category{{ID: "loss", Name: "Abrigos"}, {ID: "win", Name: "Camisetas"}},
		Purchases: []entity.Purchase{
			purchase("p1", "loss", may(2), 10, "5000", "600"),
			purchase("p2", "win", may(3), 10, "1000", "300"),
		},
		Sales: []entity.Sale{
			sale("s1", "loss", may(5), 2, "600"),
			sale("s2", "win", may(6), 8, "300"),
		},
	}

	got := snap.PeriodSummary(inventory.Period{Year: 2025, Month: time.May})

	require.NotNil(t, got.Best)
	assert.Equal(t, "win", got.Best.CategoryID)
	assert.True(t, got.Best.Profit.Equal(dec("1400")))

	require.Len(t, got.Breakdown, 2)
	assert.Equal(t, "loss", got.Breakdown[0].CategoryID)
	assert.True(t, got.Breakdown[0].Profit.Equal(dec("-3800")), "la pérdida se reporta con su valor real")
	assert.Equal(t, 2, got.Breakdown[0].QuantitySold)
	assert.Len(t, got.ActiveBreakdown(), 2)

	assert.True(t, got.Income.Equal(dec("3600")))
	assert.True(t, got.Outcome.Equal(dec("6000")))
	assert.True(t, got.MarginPct().Equal(dec("-40")))
	assert.True(t, got.AverageSaleValue().Equal(dec("1800")))
}

func TestPeriodSummary_BestTieKeepsFirst(t *testing.T) {
	snap := inventory.Snapshot{
		Categories: []entity.Category{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
	}
	got := snap.PeriodSummary(inventory.Period{Year: 2025, Month: time.May})
	require.NotNil(t, got.Best)
	assert.Equal(t, "a", got.Best.CategoryID)
}

func TestPeriodSummary_NoCategoriesHasNoBest(t *testing.T) {
	snap := inventory.Snapshot{
		Sales: []entity.Sale{sale("orphan", "gone", day(2025, time.May, 1), 1, "10")},
	}
	got := snap.PeriodSummary(inventory.Period{Year: 2025, Month: time.May})
	assert.Nil(t, got.Best)
	assert.True(t, got.Income.Equal(dec("10")), "los registros huérfanos cuentan en los totales del período")
}

func TestPeriodSummary_ProfitShareIsCapped(t *testing.T) {
	snap := inventory.Snapshot{
		Categories: []entity.Category{{ID: "a", Name: "A"}},
		Purchases:  []entity.Purchase{purchase("p", "a", day(2025, time.May, 1), 1, "5000", "10")},
		Sales:      []entity.Sale{sale("s", "a", day(2025, time.May, 1), 1, "100")},
	}
	got := snap.PeriodSummary(inventory.Period{Year: 2025, Month: time.May})
	assert.True(t, got.ProfitShare(got.Breakdown[0]).Equal(dec("100")))

	empty := inventory.Snapshot{Categories: snap.Categories}.PeriodSummary(got.Period)
	assert.True(t, empty.ProfitShare(empty.Breakdown[0]).IsZero())
}

func TestPeriod_Validation(t *testing.T) {
	_, err := inventory.NewPeriod(2025, 13)
	assert.Error(t, err)
	_, err = inventory.NewPeriod(0, time.May)
	assert.Error(t, err)

	p, err := inventory.NewPeriod(2026, time.February)
	require.NoError(t, err)
	assert.Equal(t, "2026-02", p.String())
	assert.Equal(t, "Febrero 2026", p.Label())
	assert.Equal(t, p, inventory.PeriodOf(day(2026, time.February, 28)))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		remaining, purchased int
		want                 inventory.StockStatus
	}{
		{11, 20, inventory.StatusHealthy},
		{10, 20, inventory.StatusLowStock},
		{1, 20, inventory.StatusLowStock},
		{0, 20, inventory.StatusOutOfStock},
		{0, 0, inventory.StatusNeverPurchased},
		{-1, 20, inventory.StatusOversold},
		{-3, 0, inventory.StatusOversold},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inventory.Classify(tc.remaining, tc.purchased), "remaining=%d purchased=%d", tc.remaining, tc.purchased)
	}
	assert.True(t, inventory.StatusLowStock.IsAlert())
	assert.False(t, inventory.StatusNeverPurchased.IsAlert())
}
