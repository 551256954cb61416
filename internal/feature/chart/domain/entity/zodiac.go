// Package entity はchartフィーチャーのドメインモデルを定義します。
package entity

// ZodiacSign は黄道十二宮のサインです。並び順は循環します（Piscesの次はAries）。
type ZodiacSign string

const (
	Aries       ZodiacSign = "Aries"
	Taurus      ZodiacSign = "Taurus"
	Gemini      ZodiacSign = "Gemini"
	Cancer      ZodiacSign = "Cancer"
	Leo         ZodiacSign = "Leo"
	Virgo       ZodiacSign = "Virgo"
	Libra       ZodiacSign = "Libra"
	Scorpio     ZodiacSign = "Scorpio"
	Sagittarius ZodiacSign = "Sagittarius"
	Capricorn   ZodiacSign = "Capricorn"
	Aquarius    ZodiacSign = "Aquarius"
	Pisces      ZodiacSign = "Pisces"
)

// ZodiacSigns はAriesから始まる固定順序のサイン一覧です。
var ZodiacSigns = [12]ZodiacSign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

// SignForHouse はハウス番号(1-12)に対応するサインを返します。
// 範囲外の番号も12で循環させて扱います。
func SignForHouse(house int) ZodiacSign {
	i := (house - 1) % 12
	if i < 0 {
		i += 12
	}
	return ZodiacSigns[i]
}

// PlanetSymbol はチャート上に描画される天体です。
type PlanetSymbol string

const (
	Sun     PlanetSymbol = "Sun"
	Moon    PlanetSymbol = "Moon"
	Mars    PlanetSymbol = "Mars"
	Mercury PlanetSymbol = "Mercury"
	Jupiter PlanetSymbol = "Jupiter"
	Venus   PlanetSymbol = "Venus"
	Saturn  PlanetSymbol = "Saturn"
	Rahu    PlanetSymbol = "Rahu"
	Ketu    PlanetSymbol = "Ketu"
)

// planetAbbreviations はプロバイダーのSVGに現れる2文字略号と天体の対応表です。
var planetAbbreviations = map[string]PlanetSymbol{
	"Su": Sun,
	"Mo": Moon,
	"Ma": Mars,
	"Me": Mercury,
	"Ju": Jupiter,
	"Ve": Venus,
	"Sa": Saturn,
	"Ra": Rahu,
	"Ke": Ketu,
}

// PlanetFromAbbreviation は2文字略号から天体を引きます。大文字小文字は区別します。
func PlanetFromAbbreviation(abbr string) (PlanetSymbol, bool) {
	p, ok := planetAbbreviations[abbr]
	return p, ok
}
