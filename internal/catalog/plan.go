package catalog

import "fmt"

// PlanRef locates the floor plan image of a level and the region map drawn
// over it.
type PlanRef struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	MapID string `json:"map_id"`
	Title string `json:"title"`
}

// TrainPlan is the schematic of the whole train set used to pick a carriage.
var TrainPlan = PlanRef{ID: "train", Image: "train.jpg", MapID: "train-map", Title: "Rame"}

// Plan returns the floor plan for a saloon level. Exterior and power car
// levels have no plan and report false.
func Plan(carriageID string, level Level) (PlanRef, bool) {
	if level != LevelUpper && level != LevelLower {
		return PlanRef{}, false
	}
	if err := CheckLevel(carriageID, level); err != nil {
		return PlanRef{}, false
	}
	id, _ := NormalizeCarriage(carriageID)
	if id == barCar {
		return PlanRef{ID: barCar, Image: "plans/R4.jpg", MapID: "map-R4-haut", Title: "R4 - Salle (consommation)"}, true
	}
	return PlanRef{
		ID:    fmt.Sprintf("%s_%s", id, level),
		Image: fmt.Sprintf("plans/%s_%s.jpg", id, level),
		MapID: fmt.Sprintf("map-%s-%s", id, level),
		Title: fmt.Sprintf("%s - Salle %s", id, level),
	}, true
}

// Plans lists every plan including the train schematic, in train order.
func Plans() []PlanRef {
	plans := []PlanRef{TrainPlan}
	for _, c := range composition {
		for _, level := range c.levels {
			if ref, ok := Plan(c.id, level); ok {
				plans = append(plans, ref)
			}
		}
	}
	return plans
}
