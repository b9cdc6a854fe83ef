package meshio

import (
	"io"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/osuushi/cdt"
	"github.com/pkg/errors"
)

// Read constraint polylines from the <polyline> and <polygon> elements of an
// SVG document. This is not a full SVG reader: transforms and every other
// element are ignored, and coordinates are used as they are, with y pointing
// down. Polygons are closed by repeating their first point. Ids are sequential,
// polylines first.
func ReadSVGConstraints(r io.Reader) ([]cdt.Polyline, error) {
	root, err := svgparser.Parse(r, true)
	if err != nil {
		return nil, errors.Wrap(err, "parsing SVG")
	}

	var polylines []cdt.Polyline
	for _, tag := range []string{"polyline", "polygon"} {
		for _, element := range root.FindAll(tag) {
			points, err := parseSVGPoints(element.Attributes["points"])
			if err != nil {
				return nil, errors.Wrapf(err, "<%s> %d", tag, len(polylines))
			}
			polyline := cdt.Polyline{ID: len(polylines), Points: points}
			if tag == "polygon" {
				polyline = polyline.Closed()
			}
			polylines = append(polylines, polyline)
		}
	}
	return polylines, nil
}

// Parse an SVG points attribute. Coordinates may be separated by commas,
// whitespace, or both, so "1,2 3,4" and "1 2 3 4" are the same.
func parseSVGPoints(attribute string) ([]cdt.Point, error) {
	fields := strings.Fields(strings.ReplaceAll(attribute, ",", " "))
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in %q", attribute)
	}
	points := make([]cdt.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid x value %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid y value %q", fields[i+1])
		}
		points = append(points, cdt.Point{X: x, Y: y})
	}
	return points, nil
}
