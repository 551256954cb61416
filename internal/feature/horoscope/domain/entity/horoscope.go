// Package entity はhoroscopeフィーチャーのドメインモデルを定義します。
// Horoscopeはユーザーレコードにネストして保存されるドキュメントです。
package entity

import (
	"time"

	chartentity "soulbuddy_backend/internal/feature/chart/domain/entity"
)

// PlanetPosition は天体が位置するサインです。度数はチャートSVGからは得られないため常に0です。
type PlanetPosition struct {
	Sign   chartentity.ZodiacSign `json:"sign" bson:"sign"`
	Degree float64                `json:"degree" bson:"degree"`
}

// MangalDosha はパンチャンから判定したマンガル・ドーシャの結果です。
type MangalDosha struct {
	HasDosha            bool     `json:"hasDosha" bson:"hasDosha"`
	Intensity           string   `json:"intensity" bson:"intensity"`
	Remedies            []string `json:"remedies" bson:"remedies"`
	AuspiciousPeriods   []string `json:"auspiciousPeriods" bson:"auspiciousPeriods"`
	InauspiciousPeriods []string `json:"inauspiciousPeriods" bson:"inauspiciousPeriods"`
}

// Interpretations は定型の解釈文です。
type Interpretations struct {
	Career        string `json:"career" bson:"career"`
	Relationships string `json:"relationships" bson:"relationships"`
	Personality   string `json:"personality" bson:"personality"`
}

// Recommendations は宝石・マントラ・レメディの推奨です。
type Recommendations struct {
	Gemstones []string `json:"gemstones" bson:"gemstones"`
	Mantras   []string `json:"mantras" bson:"mantras"`
	Remedies  []string `json:"remedies" bson:"remedies"`
}

// Horoscope はユーザーに保存される最新のホロスコープです。
type Horoscope struct {
	BirthChart      chartentity.ExtractedChart `json:"birthChart" bson:"birthChart"`
	ChartSVG        string                     `json:"chartSVG" bson:"chartSVG"`
	PlanetPositions map[string]PlanetPosition  `json:"planetPositions" bson:"planetPositions"`
	MangalDosha     MangalDosha                `json:"mangalDosha" bson:"mangalDosha"`
	Interpretations Interpretations            `json:"interpretations" bson:"interpretations"`
	Recommendations Recommendations            `json:"recommendations" bson:"recommendations"`
	LastUpdated     time.Time                  `json:"lastUpdated" bson:"lastUpdated"`
}

// Snapshot は履歴ストアに追記されるホロスコープの要約です。
type Snapshot struct {
	ID              string
	UserID          string
	Interpretations Interpretations
	Recommendations Recommendations
	MangalDosha     MangalDosha
	LastUpdated     time.Time
}

// SnapshotOf はHoroscopeから履歴用の要約を作ります。
func SnapshotOf(id, userID string, h Horoscope) Snapshot {
	return Snapshot{
		ID:              id,
		UserID:          userID,
		Interpretations: h.Interpretations,
		Recommendations: h.Recommendations,
		MangalDosha:     h.MangalDosha,
		LastUpdated:     h.LastUpdated,
	}
}
