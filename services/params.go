package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"studio-finder/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidParams wraps every rejection of raw search input
var ErrInvalidParams = errors.New("invalid search parameters")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		m, ok := ClockMinutes(fl.Field().String())
		return ok && m <= 24*60
	})
	return v
}

// ParamsInput is search input as typed by a user (query string or flags)
type ParamsInput struct {
	Date     string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	Start    string `form:"start" validate:"omitempty,clock"`
	End      string `form:"end" validate:"omitempty,clock"`
	MaxPrice string `form:"price" validate:"omitempty,numeric,excludes=-"`
	People   int    `form:"people"`
	Mode     string `form:"mode" validate:"omitempty,oneof=day night"`
}

// Resolve validates the input and fills defaults: today, 00:00, a one hour
// window capped at 24:00, no budget cap, day mode. A party of zero or less is
// valid and simply matches nothing.
func (in ParamsInput) Resolve(now time.Time) (models.SearchParams, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Start = strings.TrimSpace(in.Start)
	in.End = strings.TrimSpace(in.End)
	in.MaxPrice = strings.TrimSpace(in.MaxPrice)
	in.Mode = strings.TrimSpace(in.Mode)

	if err := validate.Struct(in); err != nil {
		return models.SearchParams{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	p := models.SearchParams{
		Date:           now,
		StartTime:      in.Start,
		EndTime:        in.End,
		PartyHeadcount: in.People,
		Mode:           models.SearchMode(in.Mode),
	}
	if p.Mode == "" {
		p.Mode = models.ModeDay
	}
	if in.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", in.Date, now.Location())
		if err != nil {
			return models.SearchParams{}, fmt.Errorf("%w: date: %v", ErrInvalidParams, err)
		}
		p.Date = d
	}
	if in.MaxPrice != "" {
		d, err := decimal.NewFromString(in.MaxPrice)
		if err != nil {
			return models.SearchParams{}, fmt.Errorf("%w: price: %v", ErrInvalidParams, err)
		}
		p.MaxPrice = decimal.NewNullDecimal(d)
	}

	if p.StartTime == "" {
		p.StartTime = "00:00"
	}
	start, _ := ClockMinutes(p.StartTime)
	if p.EndTime == "" {
		end := min(start+60, 24*60)
		p.EndTime = fmt.Sprintf("%02d:%02d", end/60, end%60)
	}
	if p.Mode == models.ModeDay {
		if end, _ := ClockMinutes(p.EndTime); end <= start {
			return models.SearchParams{}, fmt.Errorf("%w: end %s must be after start %s", ErrInvalidParams, p.EndTime, p.StartTime)
		}
	}
	return p, nil
}
