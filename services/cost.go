package services

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"studio-finder/models"

	"github.com/shopspring/decimal"
)

const sliceMinutes = 60

var (
	everyDayTokens = []string{models.EveryDay, "毎日", "全日"}
	dayAliases     = map[models.DayClass][]string{
		models.Weekday:  {"平日"},
		models.Saturday: {"土曜", "土日"},
		models.Sunday:   {"日曜", "土日", "日祝"},
	}
	nightMarkers = []string{"night", "深夜", "ナイトパック"}
)

// ClassifyDay maps a calendar date to its pricing class. Holidays are not
// recognised.
func ClassifyDay(date time.Time) models.DayClass {
	switch date.Weekday() {
	case time.Sunday:
		return models.Sunday
	case time.Saturday:
		return models.Saturday
	default:
		return models.Weekday
	}
}

// ClockMinutes parses "HH:MM" into minutes after midnight; "24:00" is 1440
func ClockMinutes(hhmm string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}

// DayMatches reports whether a days_of_week value applies to the day class
func DayMatches(daysOfWeek string, day models.DayClass) bool {
	days := strings.ToLower(daysOfWeek)
	for _, tok := range everyDayTokens {
		if strings.Contains(days, tok) {
			return true
		}
	}
	if strings.Contains(days, strings.ToLower(string(day))) {
		return true
	}
	for _, alias := range dayAliases[day] {
		if strings.Contains(days, alias) {
			return true
		}
	}
	return false
}

// IsNightPack reports whether the rate name marks a flat overnight pack
func IsNightPack(rateName string) bool {
	name := strings.ToLower(rateName)
	for _, m := range nightMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// covers reports whether rule applies to an hour slice starting at minute
func covers(rule models.RateRule, minute int, day models.DayClass) bool {
	if IsNightPack(rule.RateName) || !DayMatches(rule.DaysOfWeek, day) {
		return false
	}
	start, ok := ClockMinutes(rule.StartTime)
	if !ok {
		return false
	}
	end, ok := ClockMinutes(rule.EndTime)
	if !ok {
		return false
	}
	return start <= minute && minute < end
}

// TotalCost prices [startMinute, endMinute) hour by hour. Each slice is
// billed at the first rule (in list order) covering its start; a trailing
// partial hour is billed in full. Any uncovered slice, or an empty window,
// makes the whole interval unpriced. The label lists the rate names used.
func TotalCost(rates []models.RateRule, startMinute, endMinute int, day models.DayClass) (decimal.NullDecimal, string) {
	if endMinute <= startMinute {
		return decimal.NullDecimal{}, ""
	}

	total := decimal.Zero
	var names []string
	for slice := startMinute; slice < endMinute; slice += sliceMinutes {
		var matched *models.RateRule
		for i := range rates {
			if covers(rates[i], slice, day) {
				matched = &rates[i]
				break
			}
		}
		if matched == nil || !matched.MinPrice.Valid {
			return decimal.NullDecimal{}, ""
		}
		total = total.Add(matched.MinPrice.Decimal)
		if !slices.Contains(names, matched.RateName) {
			names = append(names, matched.RateName)
		}
	}
	return decimal.NewNullDecimal(total), strings.Join(names, " + ")
}

// NightPackCost returns the flat price of a night pack applicable on day.
// The pack price is the whole charge, not an hourly figure.
func NightPackCost(rate models.RateRule, day models.DayClass) (decimal.NullDecimal, bool) {
	if !IsNightPack(rate.RateName) || !DayMatches(rate.DaysOfWeek, day) || !rate.MinPrice.Valid {
		return decimal.NullDecimal{}, false
	}
	return rate.MinPrice, true
}
