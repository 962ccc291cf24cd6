package services

import (
	"testing"

	"studio-finder/models"
	"studio-finder/utils"
)

func TestBuild_GroupsAndKeepsOrder(t *testing.T) {
	rows := []models.RawRow{
		{StudioID: "s2", StudioName: "Beta", RoomName: "B1", AreaSqm: "30", RateName: "通常", StartTime: "10:00", EndTime: "22:00", MinPrice: "2000"},
		{StudioID: "s1", StudioName: "Alpha", OfficialURL: "https://alpha.example", RoomID: "a", RoomName: "A-1", AreaSqm: "20", RecommendedMax: "4", Notes: " mirror ", RateName: "昼", StartTime: "10:00", EndTime: "17:00", MinPrice: "1000"},
		{StudioID: "s1", StudioName: "Alpha renamed", RoomID: "a", RoomName: "A-1 big", AreaSqm: "99", RateName: "夜", StartTime: "17:00", EndTime: "24:00", MinPrice: "1500"},
		{StudioID: "s1", RoomID: "b", RoomName: "A-2", RateName: "昼", StartTime: "10:00", EndTime: "17:00", MinPrice: "800"},
	}

	studios := NewCatalogBuilder(utils.NewNopLogger()).Build(rows)

	if len(studios) != 2 {
		t.Fatalf("Expected 2 studios, got %d", len(studios))
	}
	if studios[0].ID != "s2" || studios[1].ID != "s1" {
		t.Errorf("Expected first-seen order [s2 s1], got [%s %s]", studios[0].ID, studios[1].ID)
	}

	alpha := studios[1]
	if alpha.StudioName != "Alpha" || alpha.OfficialURL != "https://alpha.example" {
		t.Errorf("Expected first row to fix studio fields, got %q %q", alpha.StudioName, alpha.OfficialURL)
	}
	if len(alpha.Rooms) != 2 || alpha.Rooms[0].ID != "a" || alpha.Rooms[1].ID != "b" {
		t.Fatalf("Expected rooms [a b], got %+v", alpha.Rooms)
	}

	a := alpha.Rooms[0]
	if a.RoomName != "A-1" || *a.AreaSqm != 20 || *a.RecommendedMax != 4 || a.Notes != "mirror" {
		t.Errorf("Expected first row to fix room fields, got %+v", a)
	}
	if len(a.Rates) != 2 || a.Rates[0].RateName != "昼" || a.Rates[1].RateName != "夜" {
		t.Errorf("Expected rates in row order [昼 夜], got %+v", a.Rates)
	}
	if alpha.Rooms[1].AreaSqm != nil {
		t.Errorf("Expected absent area for room b, got %v", *alpha.Rooms[1].AreaSqm)
	}
}

func TestBuild_KeyFallbacksAndDrops(t *testing.T) {
	rows := []models.RawRow{
		{RoomName: "orphan", RateName: "x", StartTime: "10:00", MinPrice: "1"},
		{StudioName: "  Named Only ", RoomName: " Room X ", RateName: "x", StartTime: "10:00", MinPrice: "1"},
		{StudioName: "Named Only", RateName: "y", StartTime: "11:00", MinPrice: "1"},
	}

	studios := NewCatalogBuilder(utils.NewNopLogger()).Build(rows)

	if len(studios) != 1 {
		t.Fatalf("Expected 1 studio, got %d", len(studios))
	}
	s := studios[0]
	if s.ID != "Named Only" || s.StudioName != "Named Only" {
		t.Errorf("Expected studio keyed by trimmed name, got id=%q name=%q", s.ID, s.StudioName)
	}
	if len(s.Rooms) != 1 || s.Rooms[0].ID != "Room X" {
		t.Fatalf("Expected single room keyed by trimmed name, got %+v", s.Rooms)
	}
	if len(s.Rooms[0].Rates) != 1 {
		t.Errorf("Expected row without room key to add no rate, got %d rates", len(s.Rooms[0].Rates))
	}
}

func TestBuild_RateNeedsNameStartAndPrice(t *testing.T) {
	base := models.RawRow{StudioID: "s", RoomID: "r", AreaSqm: "40"}
	noName, noStart, noPrice, ok := base, base, base, base
	noName.StartTime, noName.MinPrice = "10:00", "1000"
	noStart.RateName, noStart.MinPrice = "昼", "1000"
	noPrice.RateName, noPrice.StartTime = "昼", "10:00"
	ok.RateName, ok.StartTime, ok.MinPrice = "昼", "10:00", "0"

	studios := NewCatalogBuilder(utils.NewNopLogger()).Build([]models.RawRow{noName, noStart, noPrice, ok})

	rates := studios[0].Rooms[0].Rates
	if len(rates) != 1 {
		t.Fatalf("Expected only the complete rate, got %d", len(rates))
	}
	if !rates[0].MinPrice.Valid || !rates[0].MinPrice.Decimal.IsZero() {
		t.Errorf("Expected explicit zero price to be kept, got %+v", rates[0].MinPrice)
	}
}

func TestBuild_ZeroAreaIsAbsent(t *testing.T) {
	rows := []models.RawRow{
		{StudioID: "s", RoomID: "zero", AreaSqm: "0", RecommendedMax: "0"},
		{StudioID: "s", RoomID: "none", AreaSqm: ""},
	}
	rooms := NewCatalogBuilder(utils.NewNopLogger()).Build(rows)[0].Rooms

	if rooms[0].AreaSqm != nil || rooms[0].RecommendedMax != nil {
		t.Errorf("Expected zero area and capacity to be absent, got %v / %v", rooms[0].AreaSqm, rooms[0].RecommendedMax)
	}
	if rooms[1].AreaSqm != nil {
		t.Errorf("Expected empty area to be absent, got %v", *rooms[1].AreaSqm)
	}
}
