package heritage

import (
	"fmt"
	"regexp"
	"strconv"
)

// CoordinateSRID is the spatial reference of register coordinates:
// New Zealand Map Grid (EPSG:27200). Values are passed through unprojected.
const CoordinateSRID = 27200

var coordinateRe = regexp.MustCompile(`(?is)easting:\s*(\d+).*?northing:\s*(\d+)`)

// Coordinate is a projected easting/northing pair.
type Coordinate struct {
	Easting  int `json:"gps_x"`
	Northing int `json:"gps_y"`
}

// WKT returns the coordinate as a well-known-text point.
func (c Coordinate) WKT() string {
	return fmt.Sprintf("POINT(%d %d)", c.Easting, c.Northing)
}

// ExtractCoordinate finds an "Easting: ### ... Northing: ###" reference in
// text. The markers are case-insensitive and may be separated by any text,
// newlines included. Returns false when there is no such reference; that is
// the common case and not an error.
func ExtractCoordinate(text string) (Coordinate, bool) {
	m := coordinateRe.FindStringSubmatch(text)
	if m == nil {
		return Coordinate{}, false
	}
	easting, err := strconv.Atoi(m[1])
	if err != nil {
		return Coordinate{}, false
	}
	northing, err := strconv.Atoi(m[2])
	if err != nil {
		return Coordinate{}, false
	}
	return Coordinate{Easting: easting, Northing: northing}, true
}
