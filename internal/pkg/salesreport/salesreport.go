package salesreport

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/affideck/affideck/internal/pkg/commission"
	"github.com/affideck/affideck/internal/pkg/shopify"
)

const dayLayout = "2006-01-02"

// AttributedOrder is one remote order annotated with its commission.
type AttributedOrder struct {
	shopify.Order
	Commission decimal.Decimal `json:"commission"`
}

// CodeStats aggregates the orders of one discount code.
type CodeStats struct {
	Code            string          `json:"code"`
	Count           int             `json:"count"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

// Report is the sales report for one date window.
type Report struct {
	Orders     []AttributedOrder `json:"orders"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
	PerCode    []CodeStats       `json:"per_code"`
}

// Build attributes every order and aggregates per-code statistics. Orders
// without a discount code contribute to the grand total only.
func Build(orders []shopify.Order, rates map[string]decimal.Decimal) Report {
	report := Report{
		Orders:     make([]AttributedOrder, 0, len(orders)),
		GrandTotal: decimal.Zero,
	}

	perCode := make(map[string]*CodeStats)
	for _, o := range orders {
		comm := commission.Attribute(o.TotalPrice, o.DiscountCode, rates)
		report.Orders = append(report.Orders, AttributedOrder{Order: o, Commission: comm})
		report.GrandTotal = report.GrandTotal.Add(o.TotalPrice)

		if !o.HasDiscountCode() {
			continue
		}
		stats, ok := perCode[o.DiscountCode]
		if !ok {
			stats = &CodeStats{
				Code:            o.DiscountCode,
				TotalSales:      decimal.Zero,
				TotalCommission: decimal.Zero,
			}
			perCode[o.DiscountCode] = stats
		}
		stats.Count++
		stats.TotalSales = stats.TotalSales.Add(o.TotalPrice)
		stats.TotalCommission = stats.TotalCommission.Add(comm)
	}

	report.PerCode = make([]CodeStats, 0, len(perCode))
	for _, stats := range perCode {
		report.PerCode = append(report.PerCode, *stats)
	}
	sort.Slice(report.PerCode, func(i, j int) bool {
		return report.PerCode[i].Code < report.PerCode[j].Code
	})
	return report
}

// ParseDay parses a YYYY-MM-DD query value.
func ParseDay(value string) (time.Time, error) {
	return time.Parse(dayLayout, value)
}

// EndOfDay widens a date to the last millisecond of its calendar day, so an
// end bound filters inclusively through 23:59:59.999.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Window resolves the optional start/end query values into the bounds handed
// to the orders listing.
func Window(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := ParseDay(start)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if end != "" {
		t, err := ParseDay(end)
		if err != nil {
			return nil, nil, err
		}
		eod := EndOfDay(t)
		to = &eod
	}
	return from, to, nil
}
