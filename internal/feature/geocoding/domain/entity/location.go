// Package entity defines the domain entities for the geocoding feature.
package entity

// Location is a named place resolved to coordinates.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
}
