package models

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Text is a loosely typed input field. Any JSON scalar decodes into its
// textual form; null and missing both decode to "".
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		// numbers are kept in plain decimal form so 1.5e4 reads as 15000
		if d, err := decimal.NewFromString(string(b)); err == nil {
			*t = Text(d.String())
			return nil
		}
		*t = Text(b)
	}
	return nil
}

// Trim returns the field with surrounding whitespace removed
func (t Text) Trim() string {
	return strings.TrimSpace(string(t))
}

// RawRow is one unprocessed row of the studio rate sheet
type RawRow struct {
	StudioID       Text `json:"studio_id"`
	StudioName     Text `json:"studio_name"`
	OfficialURL    Text `json:"official_url"`
	RoomID         Text `json:"room_id"`
	RoomName       Text `json:"room_name"`
	AreaSqm        Text `json:"area_sqm"`
	RecommendedMax Text `json:"recommended_max"`
	Notes          Text `json:"notes"`
	RateName       Text `json:"rate_name"`
	DaysOfWeek     Text `json:"days_of_week"`
	StartTime      Text `json:"start_time"`
	EndTime        Text `json:"end_time"`
	MinPrice       Text `json:"min_price"`
}

// EveryDay is the days_of_week value of a rate that applies on all days
const EveryDay = "every day"

// RateRule is a cleaned pricing rule. MinPrice is invalid when the source
// carried no usable price.
type RateRule struct {
	RateName   string              `json:"rate_name"`
	DaysOfWeek string              `json:"days_of_week"`
	StartTime  string              `json:"start_time"`
	EndTime    string              `json:"end_time"`
	MinPrice   decimal.NullDecimal `json:"min_price"`
}

// Complete reports whether the rule carries enough data to price anything
func (r RateRule) Complete() bool {
	return r.RateName != "" && r.StartTime != "" && r.MinPrice.Valid
}

// Room is a rentable space within a studio
type Room struct {
	ID             string     `json:"id"`
	RoomName       string     `json:"room_name"`
	AreaSqm        *float64   `json:"area_sqm"`
	RecommendedMax *float64   `json:"recommended_max"`
	Notes          string     `json:"notes"`
	Rates          []RateRule `json:"rates"`
}

// Studio is a venue with one or more rooms, in first-seen order
type Studio struct {
	ID          string `json:"id"`
	StudioName  string `json:"studio_name"`
	OfficialURL string `json:"official_url"`
	Rooms       []Room `json:"rooms"`
}
