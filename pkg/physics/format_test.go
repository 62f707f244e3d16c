package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatterDuration(t *testing.T) {
	fr := NewFormatter(LangFR)
	en := NewFormatter(LangEN)

	tests := []struct {
		seconds float64
		fr, en  string
	}{
		{12.3456, "12.35 secondes", "12.35 seconds"},
		{61, "1 minute 1 seconde", "1 minute 1 second"},
		{150, "2 minutes 30 secondes", "2 minutes 30 seconds"},
		{3600, "1 heure 0 minutes", "1 hour 0 minutes"},
		{Day, "1 jour 0 heures", "1 day 0 hours"},
		{2*Day + 3*Hour, "2 jours 3 heures", "2 days 3 hours"},
		{Month + Day, "1 mois 1 jour", "1 month 1 day"},
		{Year, "1 an 0 mois", "1 year 0 months"},
		{3*Year + 2*Month, "3 ans 2 mois", "3 years 2 months"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fr, fr.Duration(tt.seconds))
		assert.Equal(t, tt.en, en.Duration(tt.seconds))
	}
}

func TestFormatterMassRadius(t *testing.T) {
	fr := NewFormatter(LangFR)
	en := NewFormatter(LangEN)

	assert.Equal(t, "1.40 masses solaires", fr.Mass(1.4*SolarMass))
	assert.Equal(t, "317.82 masses terrestres", fr.Mass(JupiterMass))
	assert.Equal(t, "7.35e+22 kg", fr.Mass(7.346e22))
	assert.Equal(t, "1.00 Earth masses", en.Mass(EarthMass))

	assert.Equal(t, "1.00 rayons solaires", fr.Radius(SolarRadius))
	assert.Equal(t, "10.97 Earth radii", en.Radius(JupiterRadius))
	assert.Equal(t, "5\u202f000 km", fr.Radius(5000))
	assert.Equal(t, "5,000 km", en.Radius(5000))
	assert.Equal(t, "10 km", fr.Radius(10))
}

func TestFormatterVelocity(t *testing.T) {
	fr := NewFormatter(LangFR)

	assert.Equal(t, "60.0000%", fr.VelocityFraction(0.6*SpeedOfLight))
	assert.Equal(t, "299\u202f792", fr.VelocityKmS(SpeedOfLight, MaxGamma))
	assert.Equal(t, "150\u202f000", fr.VelocityKmS(150000, 1.15))
	assert.Equal(t, "150,000", NewFormatter(LangEN).VelocityKmS(150000, 1.15))
}

func TestFormatterDensity(t *testing.T) {
	f := NewFormatter(LangFR)

	assert.Equal(t, "5.51 × 10³ kg/m³", f.Density(5513.26))
	assert.Equal(t, "999.00 kg/m³", f.Density(999))
	assert.Equal(t, "2.00 × 10⁶ kg/m³", f.Density(2e6))
	assert.Equal(t, "1.50 × 10⁹ kg/m³", f.Density(1.5e9))
	assert.Equal(t, "400.00 × 10¹⁵ kg/m³", f.Density(4e17))
	assert.Equal(t, "3.00 × 10¹⁸ kg/m³", f.Density(3e18))
}

func TestFormatterSchwarzschildRadius(t *testing.T) {
	f := NewFormatter(LangEN)

	assert.Equal(t, "2.954 km", f.SchwarzschildRadius(SchwarzschildRadius(SolarMass)))
	assert.Equal(t, "12.00 × 10³ km", f.SchwarzschildRadius(12000))
}

func TestExponential(t *testing.T) {
	assert.Equal(t, "5.97e+24", Exponential(5.972e24, 2))
	assert.Equal(t, "1.00e+5", Exponential(1e5, 2))
	assert.Equal(t, "2.50e-3", Exponential(0.0025, 2))
	assert.Equal(t, "0.00e+0", Exponential(0, 2))
}

func TestParseLang(t *testing.T) {
	assert.Equal(t, LangEN, ParseLang("en-US"))
	assert.Equal(t, LangFR, ParseLang("fr"))
	assert.Equal(t, LangFR, ParseLang("de"))
	assert.Equal(t, LangFR, NewFormatter(Lang("xx")).Lang)
}
