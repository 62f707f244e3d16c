package physics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Lang selects the language of formatted output.
type Lang string

const (
	LangFR Lang = "fr"
	LangEN Lang = "en"
)

// ParseLang maps a user supplied language to a supported one (French by default).
func ParseLang(s string) Lang {
	if strings.HasPrefix(strings.ToLower(s), "en") {
		return LangEN
	}
	return LangFR
}

type unitNames struct {
	second, minute, hour, day, month, year string
	monthPlural                                      string
	solarMasses, earthMasses, solarRadii, earthRadii string
}

var units = map[Lang]unitNames{
	LangFR: {
		second: "seconde", minute: "minute", hour: "heure", day: "jour", month: "mois", year: "an",
		monthPlural: "mois",
		solarMasses: "masses solaires", earthMasses: "masses terrestres",
		solarRadii: "rayons solaires", earthRadii: "rayons terrestres",
	},
	LangEN: {
		second: "second", minute: "minute", hour: "hour", day: "day", month: "month", year: "year",
		monthPlural: "months",
		solarMasses: "solar masses", earthMasses: "Earth masses",
		solarRadii: "solar radii", earthRadii: "Earth radii",
	},
}

// Formatter renders physical quantities for humans.
type Formatter struct {
	Lang Lang
}

// NewFormatter returns a formatter for lang.
func NewFormatter(lang Lang) Formatter {
	if _, ok := units[lang]; !ok {
		lang = LangFR
	}
	return Formatter{Lang: lang}
}

func (f Formatter) names() unitNames {
	if n, ok := units[f.Lang]; ok {
		return n
	}
	return units[LangFR]
}

// Number formats v with a fixed number of decimals.
func (f Formatter) Number(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// VelocityFraction formats a velocity as a percentage of c.
func (f Formatter) VelocityFraction(velocity float64) string {
	return f.Number(velocity/SpeedOfLight*100, 4) + "%"
}

// VelocityKmS formats a velocity in km/s with locale digit grouping.
func (f Formatter) VelocityKmS(velocity, gamma float64) string {
	if gamma >= MaxGamma {
		return f.Grouped(math.Floor(SpeedOfLight))
	}
	return f.Grouped(velocity)
}

// Grouped formats v with no decimals and thousands grouping.
func (f Formatter) Grouped(v float64) string {
	if f.Lang == LangEN {
		return humanize.FormatFloat("#,###.", v)
	}
	return humanize.FormatFloat("#\u202f###,", v)
}

// Duration formats seconds as the two most significant calendar units.
func (f Formatter) Duration(seconds float64) string {
	n := f.names()

	switch {
	case seconds < 60:
		return fmt.Sprintf("%s %ss", f.Number(seconds, 2), n.second)
	case seconds < Hour:
		minutes := math.Floor(seconds / 60)
		secs := math.Round(math.Mod(seconds, 60))
		return fmt.Sprintf("%.0f %s %.0f %s", minutes, f.major(n.minute, minutes), secs, minor(n.second, secs))
	case seconds < Day:
		hours := math.Floor(seconds / Hour)
		minutes := math.Floor(math.Mod(seconds, Hour) / 60)
		return fmt.Sprintf("%.0f %s %.0f %s", hours, f.major(n.hour, hours), minutes, minor(n.minute, minutes))
	case seconds < Month:
		days := math.Floor(seconds / Day)
		hours := math.Floor(math.Mod(seconds, Day) / Hour)
		return fmt.Sprintf("%.0f %s %.0f %s", days, f.major(n.day, days), hours, minor(n.hour, hours))
	case seconds < Year:
		months := math.Floor(seconds / Month)
		days := math.Floor(math.Mod(seconds, Month) / Day)
		return fmt.Sprintf("%.0f %s %.0f %s", months, f.monthWord(months), days, minor(n.day, days))
	default:
		years := math.Floor(seconds / Year)
		months := math.Floor(math.Mod(seconds, Year) / Month)
		return fmt.Sprintf("%.0f %s %.0f %s", years, f.major(n.year, years), months, f.monthWord(months))
	}
}

// major pluralises the leading unit: French keeps the singular for 0 and 1.
func (f Formatter) major(word string, count float64) string {
	if f.Lang == LangEN {
		return minor(word, count)
	}
	if count > 1 {
		return word + "s"
	}
	return word
}

// minor pluralises the trailing unit unless the count is exactly one.
func minor(word string, count float64) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

func (f Formatter) monthWord(count float64) string {
	n := f.names()
	if f.Lang == LangEN && count != 1 {
		return n.monthPlural
	}
	return n.month
}

// Mass formats kilograms in solar or Earth masses when large enough.
func (f Formatter) Mass(mass float64) string {
	n := f.names()
	switch {
	case mass >= SolarMass:
		return fmt.Sprintf("%s %s", f.Number(mass/SolarMass, 2), n.solarMasses)
	case mass >= EarthMass:
		return fmt.Sprintf("%s %s", f.Number(mass/EarthMass, 2), n.earthMasses)
	default:
		return Exponential(mass, 2) + " kg"
	}
}

// Radius formats kilometres in solar or Earth radii when large enough.
func (f Formatter) Radius(radius float64) string {
	n := f.names()
	switch {
	case radius >= SolarRadius:
		return fmt.Sprintf("%s %s", f.Number(radius/SolarRadius, 2), n.solarRadii)
	case radius >= EarthRadius:
		return fmt.Sprintf("%s %s", f.Number(radius/EarthRadius, 2), n.earthRadii)
	default:
		return f.Grouped(radius) + " km"
	}
}

var densityBands = []struct {
	scale float64
	label string
}{
	{1e18, "10¹⁸"},
	{1e15, "10¹⁵"},
	{1e9, "10⁹"},
	{1e6, "10⁶"},
	{1e3, "10³"},
}

// Density formats kg/m³ against the largest fitting power of ten.
func (f Formatter) Density(density float64) string {
	for _, b := range densityBands {
		if density >= b.scale {
			return fmt.Sprintf("%s × %s kg/m³", f.Number(density/b.scale, 2), b.label)
		}
	}
	return f.Number(density, 2) + " kg/m³"
}

// SchwarzschildRadius formats Rs in km, switching to thousands of km above 1000.
func (f Formatter) SchwarzschildRadius(rs float64) string {
	if rs < 1000 {
		return f.Number(rs, 3) + " km"
	}
	return f.Number(rs/1000, 2) + " × 10³ km"
}

// Exponential formats v like 5.97e+24, without zero padding in the exponent.
func Exponential(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'e', decimals, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
