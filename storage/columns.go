package storage

import "studio-finder/models"

// rowColumns is the canonical field order used by CSV and postgres
var rowColumns = []string{
	"studio_id", "studio_name", "official_url",
	"room_id", "room_name", "area_sqm", "recommended_max", "notes",
	"rate_name", "days_of_week", "start_time", "end_time", "min_price",
}

func rowFields(r *models.RawRow) []*models.Text {
	return []*models.Text{
		&r.StudioID, &r.StudioName, &r.OfficialURL,
		&r.RoomID, &r.RoomName, &r.AreaSqm, &r.RecommendedMax, &r.Notes,
		&r.RateName, &r.DaysOfWeek, &r.StartTime, &r.EndTime, &r.MinPrice,
	}
}
