package usecase

import (
	"fmt"

	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
)

const (
	intensityNone     = "None"
	intensityModerate = "Moderate"
)

// timingRemedy はパンチャンの時間帯に紐づくレメディです。
type timingRemedy struct {
	text       string
	period     string
	auspicious bool
}

var timingRemedies = []timingRemedy{
	{text: "Perform meditation during Brahma Muhurat", period: "Brahma Muhurat", auspicious: true},
	{text: "Conduct spiritual practices during Abhijit Muhurat", period: "Abhijit Muhurat", auspicious: true},
	{text: "Avoid important activities during Rahu Kaal", period: "Rahu", auspicious: false},
	{text: "Plan activities during Amrit Kaal", period: "Amrit Kaal", auspicious: true},
}

// AnalyzeMangalDosha はパンチャンからマンガル・ドーシャを判定します。
// 凶の時間帯が1つでもあればModerate、なければNoneです。
func AnalyzeMangalDosha(p *entity.Panchang) entity.MangalDosha {
	d := entity.MangalDosha{
		HasDosha:            false,
		Intensity:           intensityNone,
		Remedies:            []string{},
		AuspiciousPeriods:   []string{},
		InauspiciousPeriods: []string{},
	}
	if p == nil || len(p.InauspiciousPeriods) == 0 {
		return d
	}

	d.HasDosha = true
	d.Intensity = intensityModerate
	for _, period := range p.AuspiciousPeriods {
		d.AuspiciousPeriods = append(d.AuspiciousPeriods, formatPeriod(period))
	}
	for _, period := range p.InauspiciousPeriods {
		d.InauspiciousPeriods = append(d.InauspiciousPeriods, formatPeriod(period))
	}
	for _, r := range timingRemedies {
		list := p.InauspiciousPeriods
		if r.auspicious {
			list = p.AuspiciousPeriods
		}
		period, ok := entity.Find(list, r.period)
		if !ok || len(period.Windows) == 0 {
			d.Remedies = append(d.Remedies, r.text)
			continue
		}
		d.Remedies = append(d.Remedies, fmt.Sprintf("%s (%s)", r.text, period.Windows[0].Start))
	}
	return d
}

// formatPeriod は最初の時間帯を"name: start to end"の形式で表します。
func formatPeriod(p entity.Period) string {
	if len(p.Windows) == 0 {
		return p.Name
	}
	return fmt.Sprintf("%s: %s to %s", p.Name, p.Windows[0].Start, p.Windows[0].End)
}
