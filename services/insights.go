package services

import (
	"studio-finder/models"
	"studio-finder/utils"

	"github.com/shopspring/decimal"
)

// InsightService computes overview figures from a built catalog
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate walks the catalog once. Hourly price bounds ignore night packs.
func (s *InsightService) Generate(catalog []models.Studio) *models.InsightReport {
	report := &models.InsightReport{
		RoomsByCapacity: make(map[int]int),
	}

	if len(catalog) == 0 {
		s.logger.Warn("No studios to generate insights from")
		return report
	}

	for si := range catalog {
		studio := &catalog[si]
		report.TotalStudios++

		for ri := range studio.Rooms {
			room := &studio.Rooms[ri]
			report.TotalRooms++
			if len(room.Rates) > 0 {
				report.PricedRooms++
			}

			if room.AreaSqm != nil {
				report.RoomsWithArea++
				if report.LargestRoom == nil || *room.AreaSqm > *report.LargestRoom.AreaSqm {
					report.LargestRoom = room
					report.LargestStudio = studio
				}
			}
			if room.RecommendedMax != nil {
				report.RoomsByCapacity[int(*room.RecommendedMax)]++
			}

			for _, rate := range room.Rates {
				report.TotalRates++
				if IsNightPack(rate.RateName) {
					report.NightPacks++
					continue
				}
				report.MinHourlyPrice = minPrice(report.MinHourlyPrice, rate.MinPrice)
				report.MaxHourlyPrice = maxPrice(report.MaxHourlyPrice, rate.MinPrice)
			}
		}
	}

	return report
}

func minPrice(cur, p decimal.NullDecimal) decimal.NullDecimal {
	if !cur.Valid || p.Decimal.LessThan(cur.Decimal) {
		return p
	}
	return cur
}

func maxPrice(cur, p decimal.NullDecimal) decimal.NullDecimal {
	if !cur.Valid || p.Decimal.GreaterThan(cur.Decimal) {
		return p
	}
	return cur
}
