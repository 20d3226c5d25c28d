package services

import (
	"fmt"
	"strings"
	"time"

	"homechef/pkg/models"

	"github.com/shopspring/decimal"
)

// Earnings are the summed totals of a chef's delivered orders.
type Earnings struct {
	AllTime   decimal.Decimal `json:"allTime"`
	ThisMonth decimal.Decimal `json:"thisMonth"`
}

// ParseTotal extracts an amount from a free-text total such as "₹180" by
// dropping everything but digits and dots. Anything that still does not
// parse counts as zero.
func ParseTotal(total string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, total)
	if cleaned == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// FormatAmount renders an amount the way totals are displayed.
func FormatAmount(d decimal.Decimal) string {
	return currencySymbol + d.StringFixed(2)
}

// ComputeEarnings sums the chef's delivered orders overall and for the
// calendar month containing now.
func (s *OrderService) ComputeEarnings(chef *models.User, now time.Time) (*Earnings, error) {
	if err := requireChef(chef); err != nil {
		return nil, err
	}

	var rows []struct {
		Total     string
		CreatedAt time.Time
	}
	err := s.db.Model(&models.Order{}).
		Select("total, created_at").
		Where("chef_id = ? AND status = ?", chef.ID, models.OrderStatusDelivered).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load delivered orders of chef %d: %w", chef.ID, err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	e := &Earnings{AllTime: decimal.Zero, ThisMonth: decimal.Zero}
	for _, row := range rows {
		amount := ParseTotal(row.Total)
		e.AllTime = e.AllTime.Add(amount)
		created := row.CreatedAt.In(now.Location())
		if !created.Before(monthStart) && created.Before(monthEnd) {
			e.ThisMonth = e.ThisMonth.Add(amount)
		}
	}
	return e, nil
}

// Earnings is ComputeEarnings against the service clock.
func (s *OrderService) Earnings(chef *models.User) (*Earnings, error) {
	return s.ComputeEarnings(chef, s.now())
}
