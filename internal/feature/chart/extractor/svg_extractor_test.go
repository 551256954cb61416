package extractor

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulbuddy_backend/internal/feature/chart/domain/entity"
)

// text はテスト用の<text>要素を組み立てます。
func text(x, y, label string) string {
	return fmt.Sprintf(`<text x="%s" y="%s">%s</text>`, x, y, label)
}

// assertFixedRotation は12ハウスすべてがAries始まりの固定順で埋まっていることを検証します。
func assertFixedRotation(t *testing.T, chart entity.ExtractedChart) {
	t.Helper()

	require.Len(t, chart.Houses, 12)
	for i, h := range chart.Houses {
		assert.Equal(t, i+1, h.Number, "house number")
		assert.Equal(t, entity.ZodiacSigns[i], h.Sign, "sign of house %d", i+1)
		assert.NotNil(t, h.Planets, "planets of house %d should not be nil", i+1)
	}
}

func TestSVGExtractor_Extract_Ascendant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		markup    string
		expected  string
		wantFound bool
	}{
		{
			name:      "asc label with sign",
			markup:    text("10", "10", "Asc Leo"),
			expected:  "Leo",
			wantFound: true,
		},
		{
			name:      "no asc substring defaults to Aries",
			markup:    `<svg>` + text("1", "1", "Su") + `</svg>`,
			expected:  "Aries",
			wantFound: false,
		},
		{
			name:      "empty markup defaults to Aries",
			markup:    "",
			expected:  "Aries",
			wantFound: false,
		},
		{
			name:      "first asc label wins",
			markup:    text("1", "1", "Asc Virgo") + text("2", "2", "Asc Libra"),
			expected:  "Virgo",
			wantFound: true,
		},
		{
			name:      "surrounding whitespace is trimmed",
			markup:    "<text>Asc   Capricorn  </text>",
			expected:  "Capricorn",
			wantFound: true,
		},
		{
			name:      "asc label without a sign defaults to Aries",
			markup:    "<text>Asc   </text>",
			expected:  "Aries",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chart, report := NewSVGExtractor().Extract(tt.markup)

			assert.Equal(t, tt.expected, chart.AscendantSign)
			assert.Equal(t, tt.wantFound, report.AscendantFound)
			assertFixedRotation(t, chart)
		})
	}
}

// TestSVGExtractor_Extract_HouseSignsIgnoreAscendant はハウスのサインがアセンダントに依存しないことを検証します。
func TestSVGExtractor_Extract_HouseSignsIgnoreAscendant(t *testing.T) {
	t.Parallel()

	for _, sign := range entity.ZodiacSigns {
		chart, _ := NewSVGExtractor().Extract(text("0", "0", "Asc "+string(sign)))

		assert.Equal(t, string(sign), chart.AscendantSign)
		assertFixedRotation(t, chart)
	}
}

func TestSVGExtractor_Extract_EmptyMarkup(t *testing.T) {
	t.Parallel()

	chart, report := NewSVGExtractor().Extract("")

	assert.Equal(t, "Aries", chart.AscendantSign)
	assertFixedRotation(t, chart)
	for _, h := range chart.Houses {
		assert.Empty(t, h.Planets)
	}
	assert.True(t, report.Degraded())
}

func TestSVGExtractor_Extract_MalformedMarkup(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<svg><text x=",
		"not svg at all",
		"<text>Su</text",
		`<text x="abc" y="def">Su</text><text x="1" y="1">3</text>`,
		strings.Repeat("<", 1000),
	}

	for _, in := range inputs {
		chart, _ := NewSVGExtractor().Extract(in)
		assertFixedRotation(t, chart)
	}
}

func TestSVGExtractor_Extract_PlanetPlacement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		markup       string
		expected     map[int][]entity.PlanetSymbol
		wantUnplaced []entity.PlanetSymbol
	}{
		{
			name:     "nearer house wins",
			markup:   text("0", "0", "Su") + text("1", "0", "5") + text("100", "100", "7"),
			expected: map[int][]entity.PlanetSymbol{5: {entity.Sun}},
		},
		{
			name:     "equidistant candidates resolve to earliest in document order",
			markup:   text("0", "0", "Mo") + text("3", "0", "9") + text("-3", "0", "2"),
			expected: map[int][]entity.PlanetSymbol{9: {entity.Moon}},
		},
		{
			name:         "no numeric labels drops the planet",
			markup:       text("0", "0", "Ma") + text("5", "5", "Asc Leo"),
			expected:     map[int][]entity.PlanetSymbol{},
			wantUnplaced: []entity.PlanetSymbol{entity.Mars},
		},
		{
			name:         "out of range numbers are not house labels",
			markup:       text("0", "0", "Ju") + text("1", "1", "13") + text("2", "2", "0"),
			expected:     map[int][]entity.PlanetSymbol{},
			wantUnplaced: []entity.PlanetSymbol{entity.Jupiter},
		},
		{
			name: "planets keep document order within a house",
			markup: text("10", "10", "1") +
				text("11", "10", "Ve") +
				text("12", "10", "Sa") +
				text("200", "200", "4") +
				text("199", "200", "Ke"),
			expected: map[int][]entity.PlanetSymbol{
				1: {entity.Venus, entity.Saturn},
				4: {entity.Ketu},
			},
		},
		{
			name:     "missing coordinates count as zero",
			markup:   `<text>Ra</text>` + text("0", "0", "6") + text("50", "50", "8"),
			expected: map[int][]entity.PlanetSymbol{6: {entity.Rahu}},
		},
		{
			name:     "labels are trimmed",
			markup:   text("0", "0", " Me ") + text("1", "1", " 11 "),
			expected: map[int][]entity.PlanetSymbol{11: {entity.Mercury}},
		},
		{
			name:     "unknown abbreviations are ignored",
			markup:   text("0", "0", "Pl") + text("1", "1", "3"),
			expected: map[int][]entity.PlanetSymbol{},
		},
		{
			name:     "repeated planet is placed once",
			markup:   text("0", "0", "Su") + text("1", "0", "2") + text("100", "0", "Su") + text("101", "0", "10"),
			expected: map[int][]entity.PlanetSymbol{2: {entity.Sun}},
		},
		{
			name:         "repeated unplaceable planet is reported once",
			markup:       text("0", "0", "Su") + text("10", "10", "Su") + text("20", "20", "Su"),
			expected:     map[int][]entity.PlanetSymbol{},
			wantUnplaced: []entity.PlanetSymbol{entity.Sun},
		},
		{
			name:     "numeric unit suffix is tolerated",
			markup:   `<text x="40px" y="0">Su</text>` + text("41", "0", "12") + text("0", "0", "1"),
			expected: map[int][]entity.PlanetSymbol{12: {entity.Sun}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chart, report := NewSVGExtractor().Extract(tt.markup)

			assertFixedRotation(t, chart)
			for _, h := range chart.Houses {
				want := tt.expected[h.Number]
				if want == nil {
					assert.Empty(t, h.Planets, "house %d", h.Number)
					continue
				}
				assert.Equal(t, want, h.Planets, "house %d", h.Number)
			}
			assert.Equal(t, tt.wantUnplaced, report.Unplaced)
		})
	}
}

func TestExtractedChart_HouseOf(t *testing.T) {
	t.Parallel()

	chart, _ := NewSVGExtractor().Extract(text("0", "0", "Sa") + text("1", "0", "10"))

	assert.Equal(t, 10, chart.HouseOf(entity.Saturn))
	assert.Equal(t, 0, chart.HouseOf(entity.Moon))
}

func TestCoordinate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, coordinate(xAttrPattern, ` y="3"`))
	assert.Equal(t, 12.5, coordinate(xAttrPattern, ` x="12.5"`))
	assert.Equal(t, -4.0, coordinate(xAttrPattern, ` x="-4"`))
	assert.True(t, math.IsNaN(coordinate(xAttrPattern, ` x="abc"`)))
	// dx は x として扱わない
	assert.Equal(t, 0.0, coordinate(xAttrPattern, ` dx="7"`))
}

// TestSVGExtractor_Extract_Concurrent は複数goroutineからの同時呼び出しで結果が変わらないことを検証します。
func TestSVGExtractor_Extract_Concurrent(t *testing.T) {
	t.Parallel()

	ex := NewSVGExtractor()
	markup := text("0", "0", "Asc Leo") + text("0", "0", "Su") + text("1", "0", "5")
	want, _ := ex.Extract(markup)

	var wg sync.WaitGroup
	results := make([]entity.ExtractedChart, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ex.Extract(markup)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
