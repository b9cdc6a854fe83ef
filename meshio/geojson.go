package meshio

import (
	"io"

	"github.com/osuushi/cdt"
	"github.com/pkg/errors"
	geojson "github.com/paulmach/go.geojson"
)

// Write a triangulation as a GeoJSON feature collection: one Polygon feature
// per face, with a "face" property, then one LineString feature per
// constrained edge, with a "constraints" property listing its ids.
func WriteGeoJSON(w io.Writer, t *cdt.Triangulation) error {
	positions := t.VertexPositions()
	coordinate := func(v int) []float64 {
		return []float64{positions[v].X, positions[v].Y}
	}

	collection := geojson.NewFeatureCollection()
	for _, face := range t.Faces() {
		a, b, c := face.Vertices[0], face.Vertices[1], face.Vertices[2]
		feature := geojson.NewPolygonFeature([][][]float64{{
			coordinate(a), coordinate(b), coordinate(c), coordinate(a),
		}})
		feature.SetProperty("face", face.ID)
		collection.AddFeature(feature)
	}
	for _, edge := range t.ConstrainedEdges() {
		feature := geojson.NewLineStringFeature([][]float64{coordinate(edge.A), coordinate(edge.B)})
		feature.SetProperty("constraints", edge.Constraints.Sorted())
		collection.AddFeature(feature)
	}

	data, err := collection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encoding GeoJSON")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing GeoJSON")
}
