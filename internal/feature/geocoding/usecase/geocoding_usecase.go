// Package usecase implements city/state to coordinate lookup.
package usecase

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"soulbuddy_backend/internal/feature/geocoding/domain/entity"
)

// DefaultLocation は一致する都市・州がない場合に使う地点です。
const DefaultLocation = "Mumbai"

// knownLocations はインドの主要都市と州の代表座標です。
var knownLocations = map[string]entity.Location{
	"Mumbai":      {Name: "Mumbai", Latitude: 19.0760, Longitude: 72.8777},
	"Delhi":       {Name: "Delhi", Latitude: 28.6139, Longitude: 77.2090},
	"Bangalore":   {Name: "Bangalore", Latitude: 12.9716, Longitude: 77.5946},
	"Chennai":     {Name: "Chennai", Latitude: 13.0827, Longitude: 80.2707},
	"Kolkata":     {Name: "Kolkata", Latitude: 22.5726, Longitude: 88.3639},
	"Hyderabad":   {Name: "Hyderabad", Latitude: 17.3850, Longitude: 78.4867},
	"Pune":        {Name: "Pune", Latitude: 18.5204, Longitude: 73.8567},
	"Ahmedabad":   {Name: "Ahmedabad", Latitude: 23.0225, Longitude: 72.5714},
	"Thane":       {Name: "Thane", Latitude: 19.2183, Longitude: 72.9781},
	"Surat":       {Name: "Surat", Latitude: 21.1702, Longitude: 72.8311},
	"Maharashtra": {Name: "Maharashtra", Latitude: 19.7515, Longitude: 75.7139}, // 州の中心
}

// GeocodingUsecase は都市名・州名から座標を解決します。
type GeocodingUsecase struct {
	locations map[string]entity.Location
}

// NewGeocodingUsecase は組み込みの座標表を使うGeocodingUsecaseを生成します。
func NewGeocodingUsecase() *GeocodingUsecase {
	return &GeocodingUsecase{locations: knownLocations}
}

// Lookup は都市、州の順に座標表を引き、どちらもなければムンバイを返します。
// 入力は単語ごとに先頭大文字・残り小文字へ正規化してから照合します。
func (u *GeocodingUsecase) Lookup(city, state string) entity.Location {
	cleanCity := TitleCase(city)
	if loc, ok := u.locations[cleanCity]; ok {
		slog.Debug("geocode matched city", "city", cleanCity)
		return loc
	}

	cleanState := TitleCase(state)
	if loc, ok := u.locations[cleanState]; ok {
		slog.Debug("geocode fell back to state", "city", cleanCity, "state", cleanState)
		return loc
	}

	slog.Debug("geocode fell back to default", "city", cleanCity, "state", cleanState)
	return u.locations[DefaultLocation]
}

// TitleCase は空白で区切った各単語を先頭大文字・残り小文字にします。
func TitleCase(s string) string {
	words := strings.Split(strings.TrimSpace(s), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
