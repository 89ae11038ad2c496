package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsPeriod selects the look-back window of the admin dashboard.
type AnalyticsPeriod string

const (
	PeriodDay     AnalyticsPeriod = "day"
	PeriodWeek    AnalyticsPeriod = "week"
	PeriodMonth   AnalyticsPeriod = "month"
	PeriodQuarter AnalyticsPeriod = "quarter"
	PeriodYear    AnalyticsPeriod = "year"
	PeriodAll     AnalyticsPeriod = "all"
)

// IsValid reports whether p is a recognized period.
func (p AnalyticsPeriod) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear, PeriodAll:
		return true
	}
	return false
}

// Since returns the start of the window ending at now, or nil for an
// unbounded period. Unknown periods are unbounded.
func (p AnalyticsPeriod) Since(now time.Time) *time.Time {
	var start time.Time
	switch p {
	case PeriodDay:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = now.AddDate(0, -1, 0)
	case PeriodQuarter:
		start = now.AddDate(0, -3, 0)
	case PeriodYear:
		start = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &start
}

type BestCustomer struct {
	Name       string          `json:"name"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Percentage int64           `json:"percentage"`
}

type TrendPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type ProductSales struct {
	Name  string          `json:"name"`
	Sales decimal.Decimal `json:"sales"`
}

// Analytics is the admin dashboard summary over a period.
type Analytics struct {
	Revenue         decimal.Decimal `json:"revenue"`
	TotalSales      int64           `json:"totalSales"`
	TotalClients    int64           `json:"totalClients"`
	NewClients      int64           `json:"newClients"`
	BestCustomer    *BestCustomer   `json:"bestCustomer"`
	TopProduct      string          `json:"topProduct"`
	RevenueTrend    []TrendPoint    `json:"revenueTrend"`
	NewClientsTrend []TrendPoint    `json:"newClientsTrend"`
	TopProducts     []ProductSales  `json:"topProducts"`
}
