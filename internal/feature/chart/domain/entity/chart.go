package entity

// HouseCount is the number of houses in a rasi chart.
const HouseCount = 12

// HouseSlot is one house of a chart with its sign and the planets drawn in it.
type HouseSlot struct {
	Number  int            `json:"number" bson:"number"`
	Sign    ZodiacSign     `json:"sign" bson:"sign"`
	Planets []PlanetSymbol `json:"planets" bson:"planets"`
}

// ExtractedChart is the structured view of one provider chart.
// It is built once per chart request and never mutated afterwards.
type ExtractedChart struct {
	AscendantSign string                `json:"ascendant" bson:"ascendant"`
	Houses        [HouseCount]HouseSlot `json:"houses" bson:"houses"`
	RawMarkup     string                `json:"-" bson:"-"`
}

// HouseOf returns the house number holding the planet, or 0 when the planet was not placed.
func (c ExtractedChart) HouseOf(p PlanetSymbol) int {
	for _, h := range c.Houses {
		for _, q := range h.Planets {
			if q == p {
				return h.Number
			}
		}
	}
	return 0
}

// ExtractionReport records where extraction fell back to defaults.
// It is diagnostic only and never changes the chart.
type ExtractionReport struct {
	AscendantFound bool
	Unplaced       []PlanetSymbol
}

// Degraded reports whether any default was applied.
func (r ExtractionReport) Degraded() bool {
	return !r.AscendantFound || len(r.Unplaced) > 0
}
