package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/osuushi/cdt"
	"github.com/osuushi/cdt/meshio"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Insert constraint polylines into a triangle mesh and write the result. The
// mesh is read from an OBJ file. Constraints are read from an SVG file (its
// polyline and polygon elements), or from text with one "x y" point per line
// and a blank line between polylines.
var (
	app = kingpin.New("cdt", "Insert constraint polylines into a triangle mesh, keeping it constrained Delaunay.")

	meshPath        = app.Arg("mesh", "Input mesh (OBJ).").Required().ExistingFile()
	constraintsPath = app.Arg("constraints", "Constraint polylines (.svg, or text).").Required().ExistingFile()
	outputPath      = app.Arg("output", "Output mesh (OBJ). Standard output if omitted.").String()

	configPath = app.Flag("config", "YAML config file. Flags override it.").Short('c').ExistingFile()
	seed       = app.Flag("seed", "Seed for point location sampling.").Int64()
	locator    = app.Flag("locator", "Point location strategy.").Enum(string(cdt.WalkLocator), string(cdt.ScanLocator))
	maxFlips   = app.Flag("max-flips", "Fail if one legalization pass needs more flips than this.").Int()
	strict     = app.Flag("strict", "Fail on constraints outside the mesh, instead of dropping them.").Bool()
	delaunize  = app.Flag("delaunize", "Make the input mesh Delaunay before inserting constraints.").Bool()
	check      = app.Flag("check", "Validate the mesh after every operation.").Bool()
	pngPath    = app.Flag("png", "Render the result to a PNG file.").String()
	scale      = app.Flag("scale", "Pixels per mesh unit when rendering.").Float64()
	preview    = app.Flag("imgcat", "Render the result to the terminal (iTerm only).").Bool()
	dump       = app.Flag("dump", "Dump the resulting mesh topology to standard error.").Bool()
	geojsonOut = app.Flag("geojson", "Also write the result as GeoJSON.").String()
	verbose    = app.Flag("verbose", "Log every flip and split.").Short('v').Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := newLogger(*verbose)
	kingpin.FatalIfError(err, "creating logger")
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("cdt failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func run(logger *zap.Logger) error {
	config, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	applyFlags(&config)

	mesh, err := readMesh(*meshPath)
	if err != nil {
		return err
	}
	polylines, err := readConstraints(*constraintsPath)
	if err != nil {
		return err
	}
	logger.Info("read input",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Triangles)/3),
		zap.Int("constraints", len(polylines)))

	options := config.Options(logger)
	triangulation, err := cdt.Build(mesh.Vertices, mesh.Triangles, &options)
	if err != nil {
		return errors.Wrap(err, "building mesh")
	}
	if err := triangulation.InsertConstraints(polylines); err != nil {
		return errors.Wrap(err, "inserting constraints")
	}
	stats := triangulation.Stats()
	logger.Info("inserted constraints",
		zap.Int("flips", stats.Flips),
		zap.Int("edge_splits", stats.EdgeSplits),
		zap.Int("face_splits", stats.FaceSplits),
		zap.Int("skipped_points", stats.SkippedPoints),
		zap.Int("skipped_segments", stats.SkippedSegments))

	return writeOutputs(triangulation, config.Output)
}

// Flags override the config file wherever they are given.
func applyFlags(config *Config) {
	if *seed != 0 {
		config.Seed = *seed
	}
	if *locator != "" {
		config.Locator = *locator
	}
	if *maxFlips != 0 {
		config.MaxFlips = *maxFlips
	}
	config.Strict = config.Strict || *strict
	config.Delaunize = config.Delaunize || *delaunize
	config.CheckInvariants = config.CheckInvariants || *check
	if *pngPath != "" {
		config.Output.PNG = *pngPath
	}
	if *scale != 0 {
		config.Output.Scale = *scale
	}
	if *geojsonOut != "" {
		config.Output.GeoJSON = *geojsonOut
	}
	config.Output.Dump = config.Output.Dump || *dump
}

func readMesh(path string) (*meshio.Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening mesh")
	}
	defer file.Close()
	mesh, err := meshio.ReadOBJ(file)
	return mesh, errors.Wrapf(err, "reading %s", path)
}

func readConstraints(path string) ([]cdt.Polyline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening constraints")
	}
	defer file.Close()
	var polylines []cdt.Polyline
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		polylines, err = meshio.ReadSVGConstraints(file)
	} else {
		polylines, err = meshio.ReadConstraints(file)
	}
	return polylines, errors.Wrapf(err, "reading %s", path)
}

func writeOutputs(triangulation *cdt.Triangulation, output Output) error {
	var out io.Writer = os.Stdout
	if *outputPath != "" {
		file, err := os.Create(*outputPath)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer file.Close()
		out = file
	}
	if err := meshio.WriteTriangulation(out, triangulation); err != nil {
		return err
	}

	if output.GeoJSON != "" {
		file, err := os.Create(output.GeoJSON)
		if err != nil {
			return errors.Wrap(err, "creating GeoJSON output")
		}
		defer file.Close()
		if err := meshio.WriteGeoJSON(file, triangulation); err != nil {
			return err
		}
	}

	drawOptions := cdt.DrawOptions{Scale: output.Scale, LabelVertices: true}
	if drawOptions.Scale == 0 {
		drawOptions.Scale = 50
	}
	if output.PNG != "" {
		if err := triangulation.DrawPNG(output.PNG, drawOptions); err != nil {
			return err
		}
	}
	if *preview {
		if err := triangulation.Imgcat(drawOptions); err != nil {
			return err
		}
	}
	if output.Dump {
		triangulation.Dump(os.Stderr)
	}
	return nil
}
