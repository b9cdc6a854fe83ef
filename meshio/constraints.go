package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/osuushi/cdt"
	"github.com/pkg/errors"
)

// Read constraint polylines from text. Each line is a point in the form
// "x y", and a blank line ends the current polyline. A polyline still open at
// the end of the input is kept. Lines starting with # are ignored. Polylines
// get sequential ids starting from zero.
func ReadConstraints(r io.Reader) ([]cdt.Polyline, error) {
	var polylines []cdt.Polyline
	var points []cdt.Point
	flush := func() {
		if len(points) > 0 {
			polylines = append(polylines, cdt.Polyline{ID: len(polylines), Points: points})
			points = nil
		}
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		// If it's empty, and we collected any points, this is the end of the polyline
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		point, err := parsePoint(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading constraints")
	}

	// Handle trailing polyline if any
	flush()
	return polylines, nil
}

func parsePoint(line string) (cdt.Point, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return cdt.Point{}, errors.Errorf("expected \"x y\", got %q", line)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return cdt.Point{}, errors.Wrap(err, "bad x")
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return cdt.Point{}, errors.Wrap(err, "bad y")
	}
	return cdt.Point{X: x, Y: y}, nil
}

// Write polylines in the format ReadConstraints accepts. Ids are not written,
// so they are renumbered on reading.
func WriteConstraints(w io.Writer, polylines []cdt.Polyline) error {
	buffered := bufio.NewWriter(w)
	for i, polyline := range polylines {
		if i > 0 {
			fmt.Fprintln(buffered)
		}
		for _, p := range polyline.Points {
			fmt.Fprintf(buffered, "%s %s\n", formatFloat(p.X), formatFloat(p.Y))
		}
	}
	return errors.Wrap(buffered.Flush(), "writing constraints")
}
