package entity

// Coordinates is a birth location in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Window is a single start/end range as reported by the provider.
type Window struct {
	Start string
	End   string
}

// Period is a named almanac period with one or more windows.
type Period struct {
	Name    string
	Windows []Window
}

// Panchang holds the auspicious and inauspicious periods of a day.
type Panchang struct {
	AuspiciousPeriods   []Period
	InauspiciousPeriods []Period
}

// Find returns the first period with the given name from the list.
func Find(periods []Period, name string) (Period, bool) {
	for _, p := range periods {
		if p.Name == name {
			return p, true
		}
	}
	return Period{}, false
}
