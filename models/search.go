package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SearchMode selects hourly or flat night-pack pricing
type SearchMode string

const (
	ModeDay   SearchMode = "day"
	ModeNight SearchMode = "night"
)

// DayClass is the pricing class of a calendar date
type DayClass string

const (
	Weekday  DayClass = "weekday"
	Saturday DayClass = "Saturday"
	Sunday   DayClass = "Sunday"
)

// SearchParams are the validated user inputs of one search.
// StartTime and EndTime are "HH:MM" and only used in day mode.
type SearchParams struct {
	Date           time.Time
	StartTime      string
	EndTime        string
	MaxPrice       decimal.NullDecimal // invalid means unlimited
	PartyHeadcount int
	Mode           SearchMode
}

// SearchResult is one matching room (day mode) or pack rate (night mode)
type SearchResult struct {
	Studio           *Studio             `json:"-"`
	Room             *Room               `json:"-"`
	Rate             *RateRule           `json:"-"` // night mode only
	TotalCost        decimal.NullDecimal `json:"total_cost"`
	MatchedRateLabel string              `json:"matched_rate"`
}

// CostPerPerson splits the total across the party, rounded to whole yen.
// It is invalid when the total is unknown or the party is empty.
func (r SearchResult) CostPerPerson(headcount int) decimal.NullDecimal {
	if !r.TotalCost.Valid || headcount <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(r.TotalCost.Decimal.Div(decimal.NewFromInt(int64(headcount))).Round(0))
}

// Summary echoes the search figures a renderer shows above the results
type Summary struct {
	Headcount     int        `json:"headcount"`
	RequiredArea  float64    `json:"required_area"`
	Mode          SearchMode `json:"mode"`
	DayLabel      DayClass   `json:"day"`
	DurationHours float64    `json:"duration_hours,omitempty"`
	Count         int        `json:"count"`
}

// InsightReport holds overview figures of a built catalog
type InsightReport struct {
	TotalStudios    int
	TotalRooms      int
	PricedRooms     int
	TotalRates      int
	NightPacks      int
	RoomsWithArea   int
	MinHourlyPrice  decimal.NullDecimal
	MaxHourlyPrice  decimal.NullDecimal
	LargestRoom     *Room
	LargestStudio   *Studio
	RoomsByCapacity map[int]int // recommended_max -> room count
}
