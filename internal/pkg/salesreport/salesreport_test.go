package salesreport

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/affideck/affideck/internal/pkg/shopify"
)

func order(number, total, code string) shopify.Order {
	return shopify.Order{
		Number:       number,
		CreatedAt:    time.Now(),
		CustomerName: "Guest",
		TotalPrice:   decimal.RequireFromString(total),
		DiscountCode: code,
	}
}

func TestBuild(t *testing.T) {
	orders := []shopify.Order{
		order("1001", "50.00", "ALICE"),
		order("1002", "30.00", "ALICE"),
		order("1003", "20.00", ""),
	}
	rates := map[string]decimal.Decimal{"ALICE": decimal.NewFromInt(10)}

	report := Build(orders, rates)

	assert.Len(t, report.Orders, 3)
	assert.True(t, report.GrandTotal.Equal(decimal.NewFromInt(100)), "grand total %s", report.GrandTotal)

	assert.Len(t, report.PerCode, 1)
	stats := report.PerCode[0]
	assert.Equal(t, "ALICE", stats.Code)
	assert.Equal(t, 2, stats.Count)
	assert.True(t, stats.TotalSales.Equal(decimal.NewFromInt(80)), "total sales %s", stats.TotalSales)
	assert.True(t, stats.TotalCommission.Equal(decimal.NewFromInt(8)), "total commission %s", stats.TotalCommission)

	assert.True(t, report.Orders[0].Commission.Equal(decimal.NewFromInt(5)))
	assert.True(t, report.Orders[2].Commission.IsZero())
}

func TestBuildUnknownCodeCountsTowardGrandTotalOnly(t *testing.T) {
	orders := []shopify.Order{order("2001", "40.00", "GHOST")}

	report := Build(orders, map[string]decimal.Decimal{})

	assert.True(t, report.GrandTotal.Equal(decimal.NewFromInt(40)))
	assert.Len(t, report.PerCode, 1)
	assert.True(t, report.PerCode[0].TotalCommission.IsZero())
}

func TestBuildSortsCodes(t *testing.T) {
	orders := []shopify.Order{
		order("1", "10.00", "ZOE"),
		order("2", "10.00", "ANNA"),
		order("3", "10.00", "MIKE"),
	}

	report := Build(orders, nil)

	assert.Equal(t, "ANNA", report.PerCode[0].Code)
	assert.Equal(t, "MIKE", report.PerCode[1].Code)
	assert.Equal(t, "ZOE", report.PerCode[2].Code)
}

func TestEndOfDayIsInclusive(t *testing.T) {
	day, err := ParseDay("2024-03-10")
	assert.NoError(t, err)

	bound := EndOfDay(day)
	lateOrder := time.Date(2024, 3, 10, 23, 59, 59, int(500*time.Millisecond), time.UTC)

	assert.False(t, lateOrder.After(bound), "an order placed at %s must fall inside the window", lateOrder)
	assert.Equal(t, 10, bound.Day())
}

func TestWindow(t *testing.T) {
	from, to, err := Window("2024-03-01", "2024-03-10")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, 23, to.Hour())

	from, to, err = Window("", "")
	assert.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = Window("03/01/2024", "")
	assert.Error(t, err)
}
