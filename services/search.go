package services

import (
	"sort"

	"studio-finder/models"
	"studio-finder/utils"

	"github.com/shopspring/decimal"
)

// AreaPerPerson is the floor area (㎡) each member of the party needs
const AreaPerPerson = 5

// RequiredArea is the minimum room area for a party
func RequiredArea(headcount int) float64 {
	return float64(headcount * AreaPerPerson)
}

// SearchEngine filters and prices a catalog against search parameters
type SearchEngine struct {
	logger *utils.Logger
}

// NewSearchEngine creates a new SearchEngine
func NewSearchEngine(logger *utils.Logger) *SearchEngine {
	return &SearchEngine{logger: logger}
}

// Search returns matching rooms (day mode) or pack rates (night mode),
// cheapest first. Results point into catalog. Equal costs keep catalog order.
func (e *SearchEngine) Search(catalog []models.Studio, p models.SearchParams) []models.SearchResult {
	if p.PartyHeadcount <= 0 {
		return nil
	}

	required := RequiredArea(p.PartyHeadcount)
	day := ClassifyDay(p.Date)

	startMin, okStart := ClockMinutes(p.StartTime)
	endMin, okEnd := ClockMinutes(p.EndTime)
	if p.Mode != models.ModeNight && (!okStart || !okEnd) {
		e.logger.Warn("Unreadable time window %q-%q, nothing can be priced", p.StartTime, p.EndTime)
		return nil
	}

	var results []models.SearchResult
	for si := range catalog {
		studio := &catalog[si]
		for ri := range studio.Rooms {
			room := &studio.Rooms[ri]
			if room.AreaSqm == nil || *room.AreaSqm < required {
				continue
			}

			if p.Mode == models.ModeNight {
				for ki := range room.Rates {
					rate := &room.Rates[ki]
					cost, ok := NightPackCost(*rate, day)
					if !ok || !withinBudget(cost, p.MaxPrice) {
						continue
					}
					results = append(results, models.SearchResult{
						Studio:           studio,
						Room:             room,
						Rate:             rate,
						TotalCost:        cost,
						MatchedRateLabel: rate.RateName,
					})
				}
				continue
			}

			cost, label := TotalCost(room.Rates, startMin, endMin, day)
			if !cost.Valid || !withinBudget(cost, p.MaxPrice) {
				continue
			}
			results = append(results, models.SearchResult{
				Studio:           studio,
				Room:             room,
				TotalCost:        cost,
				MatchedRateLabel: label,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return costLess(results[i].TotalCost, results[j].TotalCost)
	})

	e.logger.Debug("Search (%s, %s, %d people): %d results", p.Mode, day, p.PartyHeadcount, len(results))
	return results
}

// NewSummary echoes the figures a renderer prints next to the results
func NewSummary(p models.SearchParams, results []models.SearchResult) models.Summary {
	s := models.Summary{
		Headcount: p.PartyHeadcount,
		Mode:      p.Mode,
		DayLabel:  ClassifyDay(p.Date),
		Count:     len(results),
	}
	if p.PartyHeadcount > 0 {
		s.RequiredArea = RequiredArea(p.PartyHeadcount)
	}
	if p.Mode != models.ModeNight {
		start, okStart := ClockMinutes(p.StartTime)
		end, okEnd := ClockMinutes(p.EndTime)
		if okStart && okEnd && end > start {
			s.DurationHours = float64(end-start) / 60
		}
	}
	return s
}

func withinBudget(cost, max decimal.NullDecimal) bool {
	return !max.Valid || !cost.Decimal.GreaterThan(max.Decimal)
}

// costLess orders unknown costs after every known one
func costLess(a, b decimal.NullDecimal) bool {
	switch {
	case !a.Valid:
		return false
	case !b.Valid:
		return true
	default:
		return a.Decimal.LessThan(b.Decimal)
	}
}
