package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/akmonengine/mercator"
	"github.com/akmonengine/mercator/projection"
	"github.com/akmonengine/mercator/svg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newRenderCmd(conf *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the map to an SVG file",
		Long: `
render draws the polygons of --data on a --width × --height chart. With --drag x0,y0,x1,y1
the sphere is first dragged from pixel (x0, y0) to pixel (x1, y1).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(conf)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runRender(cmd, conf, logger)
		},
	}

	flags := cmd.Flags()
	flags.Float64("width", 600, "Viewport width, in pixels.")
	flags.Float64("height", 600, "Viewport height, in pixels.")
	flags.String("drag", "", "Drag gesture x0,y0,x1,y1 in pixels, applied before writing.")
	flags.StringP("out", "o", "-", "Output file, - for stdout.")

	return cmd
}

func runRender(cmd *cobra.Command, conf *viper.Viper, logger *zap.Logger) error {
	polygons, err := loadPolygons(conf)
	if err != nil {
		return err
	}

	width, height := conf.GetFloat64("width"), conf.GetFloat64("height")
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid viewport %vx%v", width, height)
	}

	var gesture []float64
	if s := conf.GetString("drag"); s != "" {
		if gesture, err = parseDrag(s); err != nil {
			return err
		}
	}

	doc := svg.NewDocument()
	doc.SetAttribute("xmlns", "http://www.w3.org/2000/svg")

	m := mercator.New(polygons, doc, mapConfig(conf))
	m.Events.Subscribe(mercator.RENDERED, func(event mercator.Event) {
		rendered := event.(mercator.RenderedEvent)
		logger.Debug("rendered",
			zap.Int("polygons", rendered.Polygons),
			zap.Int("crossing", rendered.Crossing),
			zap.Int("fullWrap", rendered.FullWrap),
			zap.Int("edgeTouching", rendered.EdgeTouching))
	})
	m.SetBounds(width, height)

	if gesture != nil {
		var element projection.Rect
		m.OnDown(gesture[0], gesture[1], element)
		m.OnMove(gesture[2], gesture[3], element)
		m.OnUp()
	}

	out := conf.GetString("out")
	if out == "-" || out == "" {
		return writeDocument(cmd.OutOrStdout(), doc)
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "creating %s", out)
	}
	if err := writeDocument(f, doc); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", out)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", out)
	}

	logger.Info("map written", zap.String("out", out), zap.Int("polygons", m.PolygonCount()))
	return nil
}

func writeDocument(w io.Writer, doc *svg.Document) error {
	_, err := io.WriteString(w, doc.String()+"\n")
	return err
}

// parseDrag parses "x0,y0,x1,y1"
func parseDrag(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, errors.Errorf("--drag wants x0,y0,x1,y1, got %q", s)
	}

	gesture := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "--drag value %q", part)
		}
		gesture[i] = v
	}
	return gesture, nil
}
