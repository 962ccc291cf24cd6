package services

import (
	"studio-finder/models"
	"studio-finder/utils"
)

// CatalogBuilder groups raw rows into the studio -> room -> rate hierarchy
type CatalogBuilder struct {
	logger *utils.Logger
}

// NewCatalogBuilder creates a new CatalogBuilder
func NewCatalogBuilder(logger *utils.Logger) *CatalogBuilder {
	return &CatalogBuilder{logger: logger}
}

type studioAcc struct {
	studio    models.Studio
	rooms     []*models.Room
	roomIndex map[string]*models.Room
}

// Build converts raw rows into studios. Studios and rooms keep first-seen
// order and the descriptive fields of their first row; rates keep row order.
func (b *CatalogBuilder) Build(rows []models.RawRow) []models.Studio {
	var order []*studioAcc
	index := make(map[string]*studioAcc)
	rates := 0

	for i, r := range rows {
		sid := firstNonEmpty(r.StudioID, r.StudioName)
		if sid == "" {
			b.logger.Debug("Row %d: no studio id or name, skipped", i)
			continue
		}

		acc, ok := index[sid]
		if !ok {
			acc = &studioAcc{
				studio: models.Studio{
					ID:          sid,
					StudioName:  r.StudioName.Trim(),
					OfficialURL: r.OfficialURL.Trim(),
				},
				roomIndex: make(map[string]*models.Room),
			}
			index[sid] = acc
			order = append(order, acc)
		}

		rid := firstNonEmpty(r.RoomID, r.RoomName)
		if rid == "" {
			b.logger.Debug("Row %d: studio %q has no room id or name, skipped", i, sid)
			continue
		}

		room, ok := acc.roomIndex[rid]
		if !ok {
			room = &models.Room{
				ID:             rid,
				RoomName:       r.RoomName.Trim(),
				AreaSqm:        parseMeasure(r.AreaSqm),
				RecommendedMax: parseMeasure(r.RecommendedMax),
				Notes:          r.Notes.Trim(),
			}
			acc.roomIndex[rid] = room
			acc.rooms = append(acc.rooms, room)
		}

		rate := CleanRate(r)
		if !rate.Complete() {
			b.logger.Debug("Row %d: rate %q of %s/%s incomplete, metadata only", i, rate.RateName, sid, rid)
			continue
		}
		room.Rates = append(room.Rates, rate)
		rates++
	}

	studios := make([]models.Studio, 0, len(order))
	for _, acc := range order {
		s := acc.studio
		s.Rooms = make([]models.Room, 0, len(acc.rooms))
		for _, room := range acc.rooms {
			s.Rooms = append(s.Rooms, *room)
		}
		studios = append(studios, s)
	}

	b.logger.Info("Built catalog: %d studios, %d rates from %d rows", len(studios), rates, len(rows))
	return studios
}

func firstNonEmpty(vals ...models.Text) string {
	for _, v := range vals {
		if s := v.Trim(); s != "" {
			return s
		}
	}
	return ""
}
