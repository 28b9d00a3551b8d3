package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"railcheck/internal/textutil"
)

// Level identifies one inspectable part of a carriage.
type Level string

const (
	LevelUpper    Level = "haut"
	LevelLower    Level = "bas"
	LevelExterior Level = "exterieur"
	// LevelPowerCar is the only level of a power car.
	LevelPowerCar Level = "motrice"
)

// ExteriorZone is the single zone of the exterior level, also offered for
// power cars.
const ExteriorZone = "Extérieur"

var (
	ErrUnknownCarriage    = errors.New("unknown carriage")
	ErrUnknownLevel       = errors.New("unknown level")
	ErrLevelNotApplicable = errors.New("level not applicable to carriage")
	ErrZoneRequired       = errors.New("zone required")
)

type carriage struct {
	id       string
	powerCar bool
	levels   []Level
}

var composition = []carriage{
	{id: "M1", powerCar: true, levels: []Level{LevelPowerCar}},
	{id: "R1", levels: []Level{LevelUpper, LevelLower, LevelExterior}},
	{id: "R2", levels: []Level{LevelUpper, LevelLower, LevelExterior}},
	{id: "R3", levels: []Level{LevelUpper, LevelLower, LevelExterior}},
	{id: "R4", levels: []Level{LevelUpper, LevelExterior}},
	{id: "R5", levels: []Level{LevelUpper, LevelLower, LevelExterior}},
	{id: "R6", levels: []Level{LevelUpper, LevelLower, LevelExterior}},
	{id: "R7", levels: []Level{LevelUpper, LevelLower, LevelExterior}},
	{id: "R8", levels: []Level{LevelUpper, LevelLower, LevelExterior}},
	{id: "M2", powerCar: true, levels: []Level{LevelPowerCar}},
}

var (
	powerCarZones = []string{ExteriorZone, "Local technique", "Cabine de conduite"}
	barCarZones   = []string{"Espace bar", "Office ASCT", "Rangée droite", "Face droite", "Rangée gauche", "Face gauche"}
	upperZones    = []string{"Rangée gauche", "Face gauche", "Rangée droite", "Face droite", "Plateforme haute", "WC", "Espace bagages"}
	lowerZones    = []string{"Rangée gauche", "Face gauche", "Rangée droite", "Face droite", "Plateforme basse", "WC", "Espace bagages"}
)

const barCar = "R4"

var byID map[string]*carriage

func init() {
	byID = make(map[string]*carriage, len(composition))
	for i := range composition {
		byID[composition[i].id] = &composition[i]
	}
}

func lookup(id string) (*carriage, error) {
	c, ok := byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCarriage, id)
	}
	return c, nil
}

// Carriages lists carriage ids in train order.
func Carriages() []string {
	ids := make([]string, len(composition))
	for i, c := range composition {
		ids[i] = c.id
	}
	return ids
}

// NormalizeCarriage returns the canonical id of a carriage.
func NormalizeCarriage(id string) (string, error) {
	c, err := lookup(id)
	if err != nil {
		return "", err
	}
	return c.id, nil
}

// IsPowerCar reports whether id names a power car.
func IsPowerCar(id string) bool {
	c, err := lookup(id)
	return err == nil && c.powerCar
}

// ParseLevel maps a level keyword to a Level. Matching ignores case and
// accents, so "Extérieur" is accepted.
func ParseLevel(raw string) (Level, error) {
	switch textutil.Fold(raw) {
	case "haut":
		return LevelUpper, nil
	case "bas":
		return LevelLower, nil
	case "exterieur":
		return LevelExterior, nil
	case "motrice":
		return LevelPowerCar, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, raw)
	}
}

// Levels returns the levels offered by a carriage.
func Levels(carriageID string) ([]Level, error) {
	c, err := lookup(carriageID)
	if err != nil {
		return nil, err
	}
	return append([]Level(nil), c.levels...), nil
}

// CheckLevel returns ErrLevelNotApplicable when the carriage does not offer
// the level.
func CheckLevel(carriageID string, level Level) error {
	c, err := lookup(carriageID)
	if err != nil {
		return err
	}
	for _, l := range c.levels {
		if l == level {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s", ErrLevelNotApplicable, c.id, level)
}

// Zones returns the zones a remark can be filed against on a level.
func Zones(carriageID string, level Level) ([]string, error) {
	if err := CheckLevel(carriageID, level); err != nil {
		return nil, err
	}
	c, _ := lookup(carriageID)
	var zones []string
	switch {
	case level == LevelPowerCar:
		zones = powerCarZones
	case level == LevelExterior:
		zones = []string{ExteriorZone}
	case c.id == barCar && level == LevelUpper:
		zones = barCarZones
	case level == LevelUpper:
		zones = upperZones
	default:
		zones = lowerZones
	}
	return append([]string(nil), zones...), nil
}

// Note returns the orientation hint shown next to a level's zone list.
func Note(carriageID string, level Level) string {
	c, err := lookup(carriageID)
	if err != nil {
		return ""
	}
	switch {
	case c.id == barCar && level == LevelUpper:
		return "Gauche et droite dans le sens d'entrée dans la salle"
	case level == LevelUpper:
		return "Gauche et droite dans le sens d'entrée dans la salle haute"
	case level == LevelLower:
		return "Gauche et droite dans le sens d'entrée dans la salle basse"
	default:
		return ""
	}
}

// MatchZone finds the option that matches a label clicked on a plan. Either
// string may contain the other; case and accents are ignored. The first
// matching option wins.
func MatchZone(options []string, clicked string) (string, bool) {
	for _, opt := range options {
		if textutil.ContainsFold(opt, clicked) {
			return opt, true
		}
	}
	return "", false
}

var levelTitle = cases.Title(language.French)

// Title formats the heading of a remark form, for example
// "R1 - Haut - Rangée gauche" or "M1 - Cabine de conduite". Missing parts are
// left out.
func Title(carriageID string, level Level, zone string) string {
	parts := make([]string, 0, 3)
	if id := strings.TrimSpace(carriageID); id != "" {
		if canonical, err := NormalizeCarriage(id); err == nil {
			id = canonical
		}
		parts = append(parts, id)
	}
	if level != "" && level != LevelPowerCar {
		parts = append(parts, levelTitle.String(string(level)))
	}
	if zone = strings.TrimSpace(zone); zone != "" {
		parts = append(parts, zone)
	}
	return strings.Join(parts, " - ")
}
