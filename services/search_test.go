package services

import (
	"testing"
	"time"

	"studio-finder/models"
	"studio-finder/utils"

	"github.com/shopspring/decimal"
)

func area(v float64) *float64 { return &v }

func weekdayParams(start, end string, people int) models.SearchParams {
	return models.SearchParams{
		Date:           time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), // Wednesday
		StartTime:      start,
		EndTime:        end,
		PartyHeadcount: people,
		Mode:           models.ModeDay,
	}
}

func flatRoom(id string, sqm *float64, price int64) models.Room {
	return models.Room{
		ID:       id,
		RoomName: id,
		AreaSqm:  sqm,
		Rates:    []models.RateRule{rate("通常", models.EveryDay, "00:00", "24:00", price)},
	}
}

func TestSearch_AreaThreshold(t *testing.T) {
	catalog := []models.Studio{{ID: "s", Rooms: []models.Room{
		flatRoom("small", area(24), 1000),
		flatRoom("exact", area(25), 1000),
		flatRoom("unknown", nil, 1000),
		flatRoom("zero", area(0), 1000),
	}}}

	results := NewSearchEngine(utils.NewNopLogger()).Search(catalog, weekdayParams("18:00", "19:00", 5))

	if len(results) != 1 || results[0].Room.ID != "exact" {
		t.Fatalf("Expected only room 'exact', got %d results", len(results))
	}
}

func TestSearch_PriceFilterAndSort(t *testing.T) {
	catalog := []models.Studio{
		{ID: "s1", Rooms: []models.Room{flatRoom("pricey", area(50), 3000), flatRoom("mid-a", area(50), 2000)}},
		{ID: "s2", Rooms: []models.Room{flatRoom("cheap", area(50), 1000), flatRoom("mid-b", area(50), 2000)}},
	}
	p := weekdayParams("18:00", "20:00", 2)
	p.MaxPrice = decimal.NewNullDecimal(decimal.NewFromInt(4000))

	results := NewSearchEngine(utils.NewNopLogger()).Search(catalog, p)

	want := []string{"cheap", "mid-a", "mid-b"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, id := range want {
		if results[i].Room.ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, results[i].Room.ID)
		}
	}
	if !results[0].TotalCost.Decimal.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected cheapest total 2000, got %s", results[0].TotalCost.Decimal)
	}
	if results[1].Studio.ID != "s1" {
		t.Errorf("Expected result to reference its studio, got %s", results[1].Studio.ID)
	}
}

func TestSearch_BudgetIsInclusive(t *testing.T) {
	catalog := []models.Studio{{ID: "s", Rooms: []models.Room{flatRoom("r", area(50), 2500)}}}
	p := weekdayParams("18:00", "19:00", 1)
	p.MaxPrice = decimal.NewNullDecimal(decimal.NewFromInt(2500))

	if got := NewSearchEngine(utils.NewNopLogger()).Search(catalog, p); len(got) != 1 {
		t.Errorf("Expected total equal to budget to match, got %d results", len(got))
	}
}

func TestSearch_UncoveredWindowExcluded(t *testing.T) {
	room := models.Room{ID: "r", AreaSqm: area(50), Rates: []models.RateRule{
		rate("昼", models.EveryDay, "00:00", "19:00", 1000),
	}}
	catalog := []models.Studio{{ID: "s", Rooms: []models.Room{room}}}

	if got := NewSearchEngine(utils.NewNopLogger()).Search(catalog, weekdayParams("18:00", "20:00", 1)); len(got) != 0 {
		t.Errorf("Expected no results, got %d", len(got))
	}
}

func TestSearch_NightMode(t *testing.T) {
	room := models.Room{ID: "r", AreaSqm: area(50), Rates: []models.RateRule{
		rate("通常", models.EveryDay, "00:00", "24:00", 1000),
		rate("ナイトパック", models.EveryDay, "23:00", "05:00", 8000),
		rate("深夜パック 土曜", "Saturday", "23:00", "06:00", 6000),
		rate("深夜パック 平日", "weekday", "23:00", "06:00", 7000),
	}}
	catalog := []models.Studio{{ID: "s", Rooms: []models.Room{room}}}
	p := weekdayParams("", "", 3)
	p.Mode = models.ModeNight

	results := NewSearchEngine(utils.NewNopLogger()).Search(catalog, p)

	if len(results) != 2 {
		t.Fatalf("Expected 2 pack results, got %d", len(results))
	}
	if results[0].MatchedRateLabel != "深夜パック 平日" || !results[0].TotalCost.Decimal.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("Expected weekday pack at 7000 first, got %s %s", results[0].MatchedRateLabel, results[0].TotalCost.Decimal)
	}
	if results[1].Rate == nil || !results[1].TotalCost.Decimal.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected flat 8000 pack second, got %+v", results[1])
	}
}

func TestSearch_NightPackMatchesAnyDate(t *testing.T) {
	room := models.Room{ID: "r", AreaSqm: area(50), Rates: []models.RateRule{
		rate("ナイトパック", models.EveryDay, "23:00", "05:00", 8000),
	}}
	catalog := []models.Studio{{ID: "s", Rooms: []models.Room{room}}}
	engine := NewSearchEngine(utils.NewNopLogger())

	for day := 1; day <= 7; day++ {
		p := models.SearchParams{
			Date:           time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
			PartyHeadcount: 1,
			Mode:           models.ModeNight,
		}
		got := engine.Search(catalog, p)
		if len(got) != 1 || !got[0].TotalCost.Decimal.Equal(decimal.NewFromInt(8000)) {
			t.Errorf("2024-06-%02d: expected one 8000 result, got %d", day, len(got))
		}
	}
}

func TestSearch_ZeroHeadcount(t *testing.T) {
	catalog := []models.Studio{{ID: "s", Rooms: []models.Room{flatRoom("r", area(50), 1000)}}}

	for _, mode := range []models.SearchMode{models.ModeDay, models.ModeNight} {
		p := weekdayParams("18:00", "19:00", 0)
		p.Mode = mode
		if got := NewSearchEngine(utils.NewNopLogger()).Search(catalog, p); len(got) != 0 {
			t.Errorf("%s: expected empty result for headcount 0, got %d", mode, len(got))
		}
	}
}

func TestCostLess_UnknownSortsLast(t *testing.T) {
	known := decimal.NewNullDecimal(decimal.NewFromInt(5))
	unknown := decimal.NullDecimal{}

	if !costLess(known, unknown) {
		t.Errorf("Expected known cost before unknown")
	}
	if costLess(unknown, known) || costLess(unknown, unknown) {
		t.Errorf("Expected unknown cost never to sort first")
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(weekdayParams("18:00", "20:30", 4), make([]models.SearchResult, 3))

	if s.RequiredArea != 20 {
		t.Errorf("Expected required area 20, got %v", s.RequiredArea)
	}
	if s.DurationHours != 2.5 {
		t.Errorf("Expected duration 2.5h, got %v", s.DurationHours)
	}
	if s.DayLabel != models.Weekday || s.Count != 3 || s.Headcount != 4 {
		t.Errorf("Unexpected summary %+v", s)
	}

	night := weekdayParams("18:00", "20:30", 4)
	night.Mode = models.ModeNight
	if got := NewSummary(night, nil).DurationHours; got != 0 {
		t.Errorf("Expected no duration in night mode, got %v", got)
	}
}

func TestCostPerPerson(t *testing.T) {
	r := models.SearchResult{TotalCost: decimal.NewNullDecimal(decimal.NewFromInt(5000))}

	if got := r.CostPerPerson(3); !got.Valid || got.Decimal.String() != "1667" {
		t.Errorf("Expected 1667, got %v", got)
	}
	if got := r.CostPerPerson(0); got.Valid {
		t.Errorf("Expected no per-person cost for empty party")
	}
}
