package main

import (
	"os"
	"strings"

	"github.com/akmonengine/mercator"
	"github.com/akmonengine/mercator/geodata"
	"github.com/akmonengine/mercator/projection"
	"github.com/akmonengine/mercator/stitch"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "MERCATOR"

// newRootCmd builds the command tree. Every call returns fresh commands bound to their own
// configuration, so tests can run them side by side.
func newRootCmd() *cobra.Command {
	conf := viper.New()

	root := &cobra.Command{
		Use:   "mercator",
		Short: "Rotatable Mercator world map rendered as SVG",
		Long: `
mercator draws polygons on a Mercator chart whose sphere can be rotated by dragging.
Values are read from flags, then MERCATOR_* environment variables (a .env file in the
working directory is loaded first), then the --config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(conf, cmd)
		},
	}

	defaults := mercator.DefaultConfig()
	earth := projection.DefaultEarthWindow()

	flags := root.PersistentFlags()
	flags.String("config", "", "Configuration file (yaml, json or toml).")
	flags.String("log-level", "info", "Log level: debug, info, warn or error.")
	flags.String("data", "", "Polygon file: fixed-point JSON arrays or GeoJSON.")
	flags.String("format", "auto", "Polygon file format: auto, fixed or geojson.")
	flags.Float64("scale", defaults.Scale, "Chart units per screen pixel.")
	flags.Float64("earth-top", earth.Top, "Latitude at the top edge of the chart, in degrees.")
	flags.Float64("earth-left", earth.Left, "Longitude at the left edge of the chart, in degrees.")
	flags.Float64("collar-latitude", stitch.DEFAULT_COLLAR_LATITUDE, "Latitude antimeridian wraps are routed along, in degrees.")
	flags.Float64("extra-longitude", stitch.DEFAULT_EXTRA_LONGITUDE, "Longitude wraps extend past the chart edge, in degrees.")
	flags.Int("workers", mercator.DEFAULT_WORKERS, "Goroutines rendering the polygons of a frame.")
	flags.Float64("long", 0, "Initial view rotation about the polar axis, in degrees.")
	flags.Float64("lat", 0, "Initial view tilt, in degrees.")

	root.AddCommand(newRenderCmd(conf), newServeCmd(conf))

	return root
}

// loadConfig merges .env, environment, config file and flags into conf
func loadConfig(conf *viper.Viper, cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "loading .env")
	}

	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	if err := conf.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "binding flags")
	}

	if path := conf.GetString("config"); path != "" {
		conf.SetConfigFile(path)
		if err := conf.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", path)
		}
	}

	return nil
}

// mapConfig returns the Map configuration held by conf
func mapConfig(conf *viper.Viper) mercator.Config {
	cfg := mercator.DefaultConfig()
	cfg.Scale = conf.GetFloat64("scale")
	cfg.EarthTop = conf.GetFloat64("earth-top")
	cfg.EarthLeft = conf.GetFloat64("earth-left")
	cfg.CollarLatitude = conf.GetFloat64("collar-latitude")
	cfg.ExtraLongitude = conf.GetFloat64("extra-longitude")
	cfg.Workers = conf.GetInt("workers")
	cfg.InitialLong = conf.GetFloat64("long")
	cfg.InitialLat = conf.GetFloat64("lat")

	return cfg
}

// loadPolygons reads the --data file
func loadPolygons(conf *viper.Viper) ([]geodata.Polygon, error) {
	path := conf.GetString("data")
	if path == "" {
		return nil, errors.New("--data is required")
	}

	format, err := geodata.ParseFormat(conf.GetString("format"))
	if err != nil {
		return nil, err
	}

	return geodata.Load(path, format)
}

func newLogger(conf *viper.Viper) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.GetString("log-level"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing log level")
	}

	zapConf := zap.NewProductionConfig()
	zapConf.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConf.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger, nil
}
