package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"studio-finder/models"
	"studio-finder/storage"
	"studio-finder/utils"
)

type fakeSource struct {
	rows  []models.RawRow
	err   error
	calls int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchRows(context.Context) ([]models.RawRow, error) {
	f.calls++
	return f.rows, f.err
}

func sampleRows() []models.RawRow {
	return []models.RawRow{
		{StudioID: "1", StudioName: "Studio One", RoomID: "A", RoomName: "A st", AreaSqm: "30", RateName: "通常", DaysOfWeek: "every day", StartTime: "00:00", EndTime: "24:00", MinPrice: "1,000円"},
		{StudioID: "1", RoomID: "A", RateName: "ナイトパック", StartTime: "23:00", EndTime: "05:00", MinPrice: "8000"},
		{StudioID: "2", StudioName: "Studio Two", RoomID: "B", RoomName: "B st", AreaSqm: "60", RateName: "平日", DaysOfWeek: "weekday", StartTime: "10:00", EndTime: "22:00", MinPrice: "¥800"},
	}
}

func TestFind_DayPipeline(t *testing.T) {
	src := &fakeSource{rows: sampleRows()}
	p := weekdayParams("18:00", "20:00", 5)

	out, err := NewFinder(src, utils.NewNopLogger()).Find(context.Background(), p)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(out.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(out.Results))
	}
	if out.Results[0].Studio.StudioName != "Studio Two" || out.Results[0].TotalCost.Decimal.IntPart() != 1600 {
		t.Errorf("Expected Studio Two at 1600 first, got %s at %s", out.Results[0].Studio.StudioName, out.Results[0].TotalCost.Decimal)
	}
	if out.Summary.RequiredArea != 25 || out.Summary.DurationHours != 2 || out.Summary.Count != 2 {
		t.Errorf("Unexpected summary %+v", out.Summary)
	}
}

func TestFind_NightPipeline(t *testing.T) {
	src := &fakeSource{rows: sampleRows()}
	p := models.SearchParams{Date: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), PartyHeadcount: 2, Mode: models.ModeNight}

	out, err := NewFinder(src, utils.NewNopLogger()).Find(context.Background(), p)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].TotalCost.Decimal.IntPart() != 8000 {
		t.Fatalf("Expected a single 8000 pack, got %+v", out.Results)
	}
	if out.Summary.DayLabel != models.Saturday {
		t.Errorf("Expected Saturday, got %s", out.Summary.DayLabel)
	}
}

func TestFind_ZeroHeadcountSkipsFetch(t *testing.T) {
	src := &fakeSource{err: errors.New("must not be called")}

	out, err := NewFinder(src, utils.NewNopLogger()).Find(context.Background(), weekdayParams("18:00", "19:00", 0))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(out.Results) != 0 || src.calls != 0 {
		t.Errorf("Expected empty outcome without fetching, got %d results and %d fetches", len(out.Results), src.calls)
	}
}

func TestFind_SourceFailureIsDistinguishable(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("%w: boom", storage.ErrSourceUnavailable)}

	_, err := NewFinder(src, utils.NewNopLogger()).Find(context.Background(), weekdayParams("18:00", "19:00", 2))

	if !errors.Is(err, storage.ErrSourceUnavailable) {
		t.Errorf("Expected ErrSourceUnavailable, got %v", err)
	}
}
