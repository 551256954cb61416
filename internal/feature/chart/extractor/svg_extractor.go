// Package extractor はプロバイダーが返すチャートSVGから構造化データを取り出します。
//
// SVGはDOMとしては解析せず、テキスト要素を正規表現で走査します。
// 入力が壊れていても失敗せず、既定値（アセンダントはAries、天体なし）にフォールバックします。
package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"soulbuddy_backend/internal/feature/chart/domain/entity"
)

var (
	// ascendantPattern はアセンダントのラベル（例: "Asc Leo"）に一致します。
	ascendantPattern = regexp.MustCompile(`Asc[^<]+`)
	// textElementPattern は<text ...>label</text>要素の属性部とラベルを取り出します。
	textElementPattern = regexp.MustCompile(`<text\b([^>]*)>([^<]+)</text>`)
	xAttrPattern       = regexp.MustCompile(`(?:^|\s)x\s*=\s*"([^"]*)"`)
	yAttrPattern       = regexp.MustCompile(`(?:^|\s)y\s*=\s*"([^"]*)"`)
	leadingNumber      = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// textLabel はSVG内の1つのテキスト要素です。
type textLabel struct {
	label string
	x, y  float64
}

// SVGExtractor はチャートSVGを正規表現で走査するChartFactExtractor実装です。
// 状態を持たないため、複数のgoroutineから同時に使用できます。
type SVGExtractor struct{}

// NewSVGExtractor はSVGExtractorの新しいインスタンスを生成します。
func NewSVGExtractor() *SVGExtractor {
	return &SVGExtractor{}
}

// Extract はチャートSVGからアセンダント、12ハウスのサイン、各天体のハウスを取り出します。
// 失敗することはなく、既定値を適用した箇所はExtractionReportに記録されます。
func (e *SVGExtractor) Extract(markup string) (entity.ExtractedChart, entity.ExtractionReport) {
	var report entity.ExtractionReport

	chart := entity.ExtractedChart{RawMarkup: markup}
	chart.AscendantSign, report.AscendantFound = findAscendant(markup)

	// ハウスのサインはアセンダントに関係なくAriesから固定で割り当てる
	for i := range chart.Houses {
		chart.Houses[i] = entity.HouseSlot{
			Number:  i + 1,
			Sign:    entity.SignForHouse(i + 1),
			Planets: []entity.PlanetSymbol{},
		}
	}

	labels := scanTextLabels(markup)
	// 同じ天体のラベルが複数あっても最初の1つだけを扱う
	seen := make(map[entity.PlanetSymbol]bool)
	for _, l := range labels {
		planet, ok := entity.PlanetFromAbbreviation(l.label)
		if !ok || seen[planet] {
			continue
		}
		seen[planet] = true
		house := nearestHouse(l.x, l.y, labels)
		if house == 0 {
			report.Unplaced = append(report.Unplaced, planet)
			continue
		}
		slot := &chart.Houses[house-1]
		slot.Planets = append(slot.Planets, planet)
	}

	return chart, report
}

// findAscendant は最初の"Asc..."ラベルからサイン名を返します。
// 見つからない場合やラベルが空の場合はAriesを返します。
func findAscendant(markup string) (string, bool) {
	m := ascendantPattern.FindString(markup)
	if m == "" {
		return string(entity.Aries), false
	}
	sign := strings.TrimSpace(strings.TrimPrefix(m, "Asc"))
	if sign == "" {
		return string(entity.Aries), false
	}
	return sign, true
}

// scanTextLabels はSVG内のテキスト要素を文書順に取り出します。
func scanTextLabels(markup string) []textLabel {
	matches := textElementPattern.FindAllStringSubmatch(markup, -1)
	out := make([]textLabel, 0, len(matches))
	for _, m := range matches {
		out = append(out, textLabel{
			label: strings.TrimSpace(m[2]),
			x:     coordinate(xAttrPattern, m[1]),
			y:     coordinate(yAttrPattern, m[1]),
		})
	}
	return out
}

// coordinate は属性値の先頭にある数値を読み取ります。
// 属性がなければ0、数値として読めなければNaNを返します。
func coordinate(attr *regexp.Regexp, attrs string) float64 {
	m := attr.FindStringSubmatch(attrs)
	if m == nil {
		return 0
	}
	num := leadingNumber.FindString(strings.TrimSpace(m[1]))
	if num == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// nearestHouse はユークリッド距離で最も近いハウス番号ラベルを返します。
// 距離が等しい場合は文書順で先に現れたラベルを採用します。候補がなければ0を返します。
func nearestHouse(x, y float64, labels []textLabel) int {
	best := 0
	minDist := math.Inf(1)
	for _, l := range labels {
		n, err := strconv.Atoi(l.label)
		if err != nil || n < 1 || n > entity.HouseCount {
			continue
		}
		d := math.Hypot(x-l.x, y-l.y)
		if d < minDist {
			minDist = d
			best = n
		}
	}
	return best
}
