package lasgo

import "strings"

// parseWKTUnits extracts the horizontal and vertical linear unit names from
// an OGC WKT string without a full WKT parser (spec §9 "Unit conversion"):
// it looks for UNIT["name",factor] clauses, using the first one found as
// the horizontal unit and, if the string also contains a VERT_CS/vertical
// coordinate system section, the UNIT clause within it as the vertical
// unit. Returns empty strings when nothing is found, mirroring the "or
// return None" fallback the spec allows when no full parser is available.
func parseWKTUnits(wkt string) (horizontal, vertical string) {
	horizontal = firstUnitName(wkt)

	if idx := strings.Index(wkt, "VERT_CS"); idx >= 0 {
		vertical = firstUnitName(wkt[idx:])
	}
	return horizontal, vertical
}

// firstUnitName returns the name inside the first UNIT["name",...] clause in s.
func firstUnitName(s string) string {
	const marker = "UNIT["
	idx := strings.Index(s, marker)
	if idx < 0 {
		return ""
	}
	rest := s[idx+len(marker):]

	start := strings.IndexByte(rest, '"')
	if start < 0 {
		return ""
	}
	rest = rest[start+1:]

	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// unitToMetres maps a small set of common linear unit names to their metre
// conversion factor. Unrecognised names return (0, false); callers should
// then leave coordinates unconverted.
func unitToMetres(name string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "metre", "meter", "m":
		return 1.0, true
	case "foot", "foot_us", "us survey foot", "ft":
		return 0.3048006096012192, true
	case "foot_international", "international foot":
		return 0.3048, true
	default:
		return 0, false
	}
}
