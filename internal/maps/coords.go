package maps

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"freightquote/internal/types"
)

var (
	coordPattern = regexp.MustCompile(`^(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)$`)
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
)

// ParseCoordinates recognises a literal "lat,lng" endpoint.
func ParseCoordinates(s string) (types.Point, bool) {
	m := coordPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return types.Point{}, false
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return types.Point{}, false
	}
	p := types.Point{Lat: lat, Lng: lng}
	return p, p.Valid()
}

func latLngParam(p types.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// plainText strips the markup Directions puts in step instructions.
func plainText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(tagPattern.ReplaceAllString(s, " "))), " ")
}
