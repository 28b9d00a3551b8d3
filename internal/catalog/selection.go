package catalog

import (
	"fmt"
	"strings"
)

// Selection is the carriage, level and zone a remark is being written for.
type Selection struct {
	Carriage string `json:"carriage"`
	Level    Level  `json:"level"`
	Zone     string `json:"zone"`
}

// SelectCarriage starts a new selection on a carriage. A power car has a
// single level, so it is chosen at once.
func (s Selection) SelectCarriage(id string) (Selection, error) {
	canonical, err := NormalizeCarriage(id)
	if err != nil {
		return s, err
	}
	next := Selection{Carriage: canonical}
	if IsPowerCar(canonical) {
		next.Level = LevelPowerCar
	}
	return next, nil
}

// SelectLevel picks a level of the current carriage and clears the zone. The
// exterior level has one zone, which is selected immediately.
func (s Selection) SelectLevel(level Level) (Selection, error) {
	if s.Carriage == "" {
		return s, fmt.Errorf("select level: %w", ErrUnknownCarriage)
	}
	if err := CheckLevel(s.Carriage, level); err != nil {
		return s, err
	}
	next := Selection{Carriage: s.Carriage, Level: level}
	if level == LevelExterior {
		next.Zone = ExteriorZone
	}
	return next, nil
}

// SelectZone sets the zone from a list choice or a clicked plan label. A
// label matching one of the level's zones is replaced by that zone; anything
// else is kept as typed.
func (s Selection) SelectZone(zone string) Selection {
	zone = strings.TrimSpace(zone)
	if zones, err := Zones(s.Carriage, s.Level); err == nil {
		if matched, ok := MatchZone(zones, zone); ok {
			zone = matched
		}
	}
	s.Zone = zone
	return s
}

// Reset clears the selection when the remark form closes.
func (s Selection) Reset() Selection {
	return Selection{}
}

// Validate checks the selection is complete enough to save a remark.
func (s Selection) Validate() error {
	if _, err := NormalizeCarriage(s.Carriage); err != nil {
		return err
	}
	if s.Level == "" {
		return fmt.Errorf("%w: no level selected for %s", ErrLevelNotApplicable, s.Carriage)
	}
	if err := CheckLevel(s.Carriage, s.Level); err != nil {
		return err
	}
	if IsPowerCar(s.Carriage) && strings.TrimSpace(s.Zone) == "" {
		return fmt.Errorf("%w: power car %s", ErrZoneRequired, s.Carriage)
	}
	return nil
}

// Title formats the selection as a form heading.
func (s Selection) Title() string {
	return Title(s.Carriage, s.Level, s.Zone)
}

// Plan returns the floor plan of the selected level, if it has one.
func (s Selection) Plan() (PlanRef, bool) {
	return Plan(s.Carriage, s.Level)
}
