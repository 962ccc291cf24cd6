package services

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"studio-finder/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var yenPrinter = message.NewPrinter(language.Japanese)

// PrintSearchReport writes the summary line and one card per result
func PrintSearchReport(w io.Writer, o *Outcome) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)
	s := o.Summary

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("STUDIO SEARCH RESULTS", 55))
	fmt.Fprintf(w, "╚%s╝\n", border)

	modeName := "Day (hourly)"
	if s.Mode == models.ModeNight {
		modeName = "Night pack"
	}
	fmt.Fprintf(w, "\n  Matches        : %d\n", s.Count)
	fmt.Fprintf(w, "  Mode           : %s (%s)\n", modeName, s.DayLabel)
	fmt.Fprintf(w, "  Party          : %d people\n", s.Headcount)
	fmt.Fprintf(w, "  Required area  : %s㎡\n", strconv.FormatFloat(s.RequiredArea, 'f', -1, 64))
	if s.DurationHours > 0 {
		fmt.Fprintf(w, "  Duration       : %sh\n", strconv.FormatFloat(s.DurationHours, 'f', -1, 64))
	}

	if len(o.Results) == 0 {
		fmt.Fprintf(w, "\n  No studio matched. Try another time, budget or party size.\n")
		fmt.Fprintf(w, "\n%s\n\n", border)
		return
	}

	for i, r := range o.Results {
		fmt.Fprintf(w, "\n %d. %s / %s\n%s\n", i+1, truncate(r.Studio.StudioName, 30), truncate(r.Room.RoomName, 20), thin)
		if s.Mode == models.ModeNight {
			fmt.Fprintf(w, "  Pack price     : %s (%s)\n", FormatYen(r.TotalCost), r.MatchedRateLabel)
			if r.Rate != nil {
				fmt.Fprintf(w, "  Pack hours     : %s-%s\n", dash(r.Rate.StartTime), dash(r.Rate.EndTime))
			}
		} else {
			fmt.Fprintf(w, "  Total          : %s (%s)\n", FormatYen(r.TotalCost), r.MatchedRateLabel)
		}
		fmt.Fprintf(w, "  Per person     : %s\n", FormatYen(r.CostPerPerson(s.Headcount)))
		fmt.Fprintf(w, "  Area           : %s㎡\n", floatOr(r.Room.AreaSqm, "-"))
		fmt.Fprintf(w, "  Recommended max: %s\n", floatOr(r.Room.RecommendedMax, "-"))
		notes := r.Room.Notes
		if notes == "" {
			notes = "none"
		}
		fmt.Fprintf(w, "  Notes          : %s\n", truncate(notes, 60))
		if r.Studio.OfficialURL != "" {
			fmt.Fprintf(w, "  URL            : %s\n", r.Studio.OfficialURL)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

// PrintInsightReport formats the catalog overview
func PrintInsightReport(w io.Writer, report *models.InsightReport) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("STUDIO CATALOG INSIGHTS", 55))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Studios               : %d\n", report.TotalStudios)
	fmt.Fprintf(w, "  Rooms                 : %d\n", report.TotalRooms)
	fmt.Fprintf(w, "  Rooms with prices     : %d\n", report.PricedRooms)
	fmt.Fprintf(w, "  Rooms with area       : %d\n", report.RoomsWithArea)
	fmt.Fprintf(w, "  Rate rules            : %d\n", report.TotalRates)
	fmt.Fprintf(w, "  Night packs           : %d\n", report.NightPacks)
	fmt.Fprintf(w, "  Cheapest hourly rate  : %s\n", FormatYen(report.MinHourlyPrice))
	fmt.Fprintf(w, "  Priciest hourly rate  : %s\n", FormatYen(report.MaxHourlyPrice))

	if report.LargestRoom != nil {
		fmt.Fprintf(w, "\n LARGEST ROOM\n%s\n", thin)
		fmt.Fprintf(w, "  Studio : %s\n", report.LargestStudio.StudioName)
		fmt.Fprintf(w, "  Room   : %s\n", report.LargestRoom.RoomName)
		fmt.Fprintf(w, "  Area   : %s㎡ (fits %d people)\n",
			floatOr(report.LargestRoom.AreaSqm, "-"), int(*report.LargestRoom.AreaSqm)/AreaPerPerson)
	}

	if len(report.RoomsByCapacity) > 0 {
		fmt.Fprintf(w, "\n ROOMS PER RECOMMENDED MAX\n%s\n", thin)
		caps := make([]int, 0, len(report.RoomsByCapacity))
		for c := range report.RoomsByCapacity {
			caps = append(caps, c)
		}
		sort.Ints(caps)
		for _, c := range caps {
			n := report.RoomsByCapacity[c]
			fmt.Fprintf(w, "  %-10s %3d  %s\n", fmt.Sprintf("%d ppl:", c), n, strings.Repeat("▓", n))
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

// FormatYen renders ¥12,345, or a placeholder when there is no price
func FormatYen(p decimal.NullDecimal) string {
	if !p.Valid {
		return "not priced"
	}
	n := p.Decimal.Round(0).IntPart()
	if n < 0 {
		return yenPrinter.Sprintf("-¥%d", -n)
	}
	return yenPrinter.Sprintf("¥%d", n)
}

func floatOr(v *float64, def string) string {
	if v == nil {
		return def
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func dash(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
