package lasgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWKTUnitsHorizontalOnly(t *testing.T) {
	wkt := `PROJCS["WGS 84",GEOGCS["WGS 84"],UNIT["metre",1.0]]`
	h, v := parseWKTUnits(wkt)
	assert.Equal(t, "metre", h)
	assert.Equal(t, "", v)
}

func TestParseWKTUnitsHorizontalAndVertical(t *testing.T) {
	wkt := `COMPD_CS["NAVD88",PROJCS["X",UNIT["foot",0.3048]],VERT_CS["NAVD88 height",VERT_DATUM["North American Vertical Datum 1988",2005],UNIT["metre",1.0]]]`
	h, v := parseWKTUnits(wkt)
	assert.Equal(t, "foot", h)
	assert.Equal(t, "metre", v)
}

func TestParseWKTUnitsNoMatch(t *testing.T) {
	h, v := parseWKTUnits("not a wkt string at all")
	assert.Equal(t, "", h)
	assert.Equal(t, "", v)
}

func TestFirstUnitNameMissingQuote(t *testing.T) {
	assert.Equal(t, "", firstUnitName(`UNIT[metre,1.0]`))
}

func TestUnitToMetres(t *testing.T) {
	tests := []struct {
		name    string
		unit    string
		want    float64
		wantOk  bool
	}{
		{"metre exact", "metre", 1.0, true},
		{"meter spelling", "Meter", 1.0, true},
		{"us survey foot", "foot", 0.3048006096012192, true},
		{"international foot", "foot_international", 0.3048, true},
		{"unknown", "furlong", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := unitToMetres(tt.unit)
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
