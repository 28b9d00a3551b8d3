package api

import (
	"time"

	"railcheck/internal/catalog"
	"railcheck/internal/plans"
	"railcheck/internal/store"
)

// FromRecord converts a store record into its DTO.
func FromRecord(rec *store.Record) Record {
	if rec == nil {
		return Record{}
	}
	photos := rec.Photos
	if photos == nil {
		photos = []string{}
	}
	return Record{
		ID:        rec.ID,
		Inspector: rec.Inspector,
		Trainset:  rec.Trainset,
		Carriage:  rec.Carriage,
		Level:     rec.Level,
		Zone:      rec.Zone,
		Comment:   rec.Comment,
		Photos:    photos,
		Title:     catalog.Title(rec.Carriage, catalog.Level(rec.Level), rec.Zone),
		CreatedAt: formatTime(rec.CreatedAt),
		UpdatedAt: formatTime(rec.UpdatedAt),
	}
}

// FromRecords converts a slice of store records.
func FromRecords(records []*store.Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		out = append(out, FromRecord(rec))
	}
	return out
}

// FromAttachments converts stored photos, dropping their content.
func FromAttachments(atts []*store.Attachment) []Attachment {
	out := make([]Attachment, 0, len(atts))
	for _, att := range atts {
		if att == nil {
			continue
		}
		out = append(out, Attachment{
			ID:          att.ID,
			RecordID:    att.RecordID,
			Name:        att.Name,
			ContentType: att.ContentType,
			Size:        att.Size,
			CreatedAt:   formatTime(att.CreatedAt),
		})
	}
	return out
}

// FromPlan converts a resolved plan.
func FromPlan(p plans.Plan) Plan {
	return Plan{
		ID:            p.ID,
		Image:         p.Image,
		MapID:         p.MapID,
		Title:         p.Title,
		NaturalWidth:  p.NaturalWidth,
		NaturalHeight: p.NaturalHeight,
		Regions:       p.Regions,
	}
}

// FromPlans converts a plan list.
func FromPlans(list []plans.Plan) []Plan {
	out := make([]Plan, 0, len(list))
	for _, p := range list {
		out = append(out, FromPlan(p))
	}
	return out
}

// BuildCatalog describes the whole train for selection screens.
func BuildCatalog() Catalog {
	ids := catalog.Carriages()
	out := Catalog{
		Train: Plan{
			ID:    catalog.TrainPlan.ID,
			Image: catalog.TrainPlan.Image,
			MapID: catalog.TrainPlan.MapID,
			Title: catalog.TrainPlan.Title,
		},
		Carriages: make([]CatalogCarriage, 0, len(ids)),
	}
	for _, id := range ids {
		levels, _ := catalog.Levels(id)
		car := CatalogCarriage{
			ID:           id,
			PowerCar:     catalog.IsPowerCar(id),
			ZoneRequired: catalog.IsPowerCar(id),
			Levels:       make([]CatalogLevel, 0, len(levels)),
		}
		for _, level := range levels {
			zones, _ := catalog.Zones(id, level)
			entry := CatalogLevel{
				Level: string(level),
				Title: catalog.Title(id, level, ""),
				Note:  catalog.Note(id, level),
				Zones: zones,
			}
			if ref, ok := catalog.Plan(id, level); ok {
				entry.Plan = ref.ID
			}
			car.Levels = append(car.Levels, entry)
		}
		out.Carriages = append(out.Carriages, car)
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
