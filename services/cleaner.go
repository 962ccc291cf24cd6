package services

import (
	"regexp"
	"strconv"
	"strings"

	"studio-finder/models"

	"github.com/shopspring/decimal"
)

var (
	nonPriceChars = regexp.MustCompile(`[^\d.]`)
	trailingClock = regexp.MustCompile(`(\d{2}:\d{2})$`)
	leadingNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// CleanRate normalizes the pricing part of a raw row. It never fails:
// unusable values come back empty (or invalid, for the price) and the
// catalog builder decides whether the rule is kept.
func CleanRate(r models.RawRow) models.RateRule {
	days := r.DaysOfWeek.Trim()
	if days == "" {
		days = models.EveryDay
	}
	return models.RateRule{
		RateName:   r.RateName.Trim(),
		DaysOfWeek: days,
		StartTime:  cleanClock(r.StartTime),
		EndTime:    cleanClock(r.EndTime),
		MinPrice:   parsePrice(string(r.MinPrice)),
	}
}

// parsePrice keeps digits and dots only, so "¥1,500~" reads as 1500.
// Nothing left means no price, never zero.
func parsePrice(raw string) decimal.NullDecimal {
	digits := nonPriceChars.ReplaceAllString(raw, "")
	if digits == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// cleanClock extracts a trailing HH:MM (e.g. from "1899-12-30 18:00"),
// otherwise passes the trimmed value through unchanged
func cleanClock(t models.Text) string {
	s := t.Trim()
	if m := trailingClock.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return s
}

// parseMeasure reads the first number out of strings like "25", "25㎡" or
// "1,200". Empty, zero or number-free input is absent.
func parseMeasure(t models.Text) *float64 {
	s := strings.ReplaceAll(t.Trim(), ",", "")
	if s == "" {
		return nil
	}
	m := leadingNumber.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}
