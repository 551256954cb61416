package usecase

import (
	"fmt"

	chartentity "soulbuddy_backend/internal/feature/chart/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
)

const (
	careerInterpretation = "Your career path shows great potential for leadership and innovation. " +
		"The placement of Jupiter suggests opportunities in fields requiring creativity and strategic thinking. " +
		"Saturn's position indicates long-term success through disciplined effort."
	relationshipsInterpretation = "Venus's placement in your chart suggests a harmonious approach to relationships. " +
		"You value deep emotional connections and loyalty. " +
		"The Moon's position indicates a nurturing nature and strong intuition about others' feelings."
	personalityTemplate = "Your ascendant in %s gives you a naturally balanced and diplomatic personality. " +
		"The Sun's position shows strong leadership qualities, while Mercury's placement indicates excellent communication skills."
)

var (
	gemstones = []string{
		"Blue Sapphire - To strengthen Saturn's influence",
		"Red Coral - For Mars energy balance",
		"Pearl - To enhance Moon's positive effects",
		"Yellow Sapphire - For Jupiter's wisdom and growth",
	}
	mantras = []string{
		"Om Namah Shivaya - For overall spiritual growth",
		"Om Gam Ganapataye Namaha - For removing obstacles",
		"Om Namo Narayanaya - For protection and peace",
		"Om Aim Hreem Kleem - For divine wisdom",
	}
)

// Interpret はチャートから定型の解釈文を組み立てます。
func Interpret(chart chartentity.ExtractedChart) entity.Interpretations {
	return entity.Interpretations{
		Career:        careerInterpretation,
		Relationships: relationshipsInterpretation,
		Personality:   fmt.Sprintf(personalityTemplate, chart.AscendantSign),
	}
}

// Recommend は宝石・マントラとドーシャのレメディをまとめます。
func Recommend(dosha entity.MangalDosha) entity.Recommendations {
	remedies := make([]string, len(dosha.Remedies))
	copy(remedies, dosha.Remedies)
	return entity.Recommendations{
		Gemstones: append([]string(nil), gemstones...),
		Mantras:   append([]string(nil), mantras...),
		Remedies:  remedies,
	}
}

// PlanetPositions はチャートに配置された各天体のサインを返します。配置できなかった天体は含みません。
func PlanetPositions(chart chartentity.ExtractedChart) map[string]entity.PlanetPosition {
	out := make(map[string]entity.PlanetPosition)
	for _, h := range chart.Houses {
		for _, p := range h.Planets {
			out[string(p)] = entity.PlanetPosition{Sign: h.Sign, Degree: 0}
		}
	}
	return out
}
