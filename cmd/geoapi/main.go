package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/manzanit0/geoapi/pkg/env"
	"github.com/manzanit0/geoapi/pkg/geoapi"
	"github.com/manzanit0/geoapi/pkg/geocode"
	"github.com/manzanit0/geoapi/pkg/logger"
	"github.com/manzanit0/geoapi/pkg/whttp"
)

const usage = `geoapi - query the GeoAPI search service.

Usage:
  geoapi [options] simple LAT LON
  geoapi [options] keyword QUERY
  geoapi [options] entity GUID QUERY
  geoapi [options] geocode ADDRESS
  geoapi [options] reverse LAT LON
  geoapi methods

Options:
`

var errUsage = errors.New("invalid usage")

type config struct {
	apiKey  string
	baseURL string
	limit   int
	typ     string
	radius  int
	parents bool
	format  string
	timeout time.Duration
	debug   bool
	osm     bool
}

func main() {
	env.LoadDotEnv()
	slog.SetDefault(slog.New(logger.NewContextJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	os.Exit(exitCode(os.Stderr, run(os.Stdout, os.Args[1:])))
}

// exitCode reports err on w and maps it to the process exit status. A bare
// errUsage means the usage text was already printed.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	if err != errUsage {
		fmt.Fprintln(w, err)
	}

	if errors.Is(err, errUsage) {
		return 2
	}

	return 1
}

func run(out io.Writer, args []string) error {
	cfg, rest, err := parseFlags(out, args)
	if err != nil {
		return err
	}

	if cfg.debug {
		slog.SetDefault(slog.New(logger.NewContextJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	client := geoapi.New(cfg.apiKey,
		geoapi.WithBaseURL(cfg.baseURL),
		geoapi.WithHTTPClient(whttp.NewLoggingClient(cfg.timeout, cfg.debug)))

	command, params := rest[0], rest[1:]
	if command == "methods" {
		RenderMethods(out, client)
		return nil
	}

	if cfg.apiKey == "" {
		return fmt.Errorf("missing api key: pass -key or set GEOAPI_API_KEY")
	}

	switch command {
	case "simple":
		if len(params) != 2 {
			return fmt.Errorf("simple expects LAT LON: %w", errUsage)
		}

		lat, lon, err := parseCoordinates(params[0], params[1])
		if err != nil {
			return err
		}

		opts := cfg.searchOptions()
		if cfg.radius > 0 {
			opts = append(opts, geoapi.Radius(cfg.radius))
		}

		resp, err := client.Search.Simple(lat, lon, opts...)
		if err != nil {
			return fmt.Errorf("simple search: %w", err)
		}

		return cfg.print(out, resp)

	case "keyword":
		if len(params) != 1 {
			return fmt.Errorf("keyword expects QUERY: %w", errUsage)
		}

		resp, err := client.Search.KeywordGlobal(params[0], cfg.searchOptions()...)
		if err != nil {
			return fmt.Errorf("keyword search: %w", err)
		}

		return cfg.print(out, resp)

	case "entity":
		if len(params) != 2 {
			return fmt.Errorf("entity expects GUID QUERY: %w", errUsage)
		}

		resp, err := client.Search.KeywordEntity(params[0], params[1], cfg.searchOptions()...)
		if err != nil {
			return fmt.Errorf("entity search: %w", err)
		}

		return cfg.print(out, resp)

	case "geocode":
		if len(params) != 1 {
			return fmt.Errorf("geocode expects ADDRESS: %w", errUsage)
		}

		loc, err := cfg.geocoder(client).Geocode(params[0])
		if err != nil {
			return fmt.Errorf("geocode: %w", err)
		}

		return cfg.printLocation(out, loc)

	case "reverse":
		if len(params) != 2 {
			return fmt.Errorf("reverse expects LAT LON: %w", errUsage)
		}

		lat, lon, err := parseCoordinates(params[0], params[1])
		if err != nil {
			return err
		}

		loc, err := cfg.geocoder(client).ReverseGeocode(lat, lon)
		if err != nil {
			return fmt.Errorf("reverse geocode: %w", err)
		}

		return cfg.printLocation(out, loc)

	default:
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}
}

func parseFlags(out io.Writer, args []string) (*config, []string, error) {
	timeout, err := env.HTTPTimeout()
	if err != nil {
		return nil, nil, err
	}

	cfg := &config{}
	fs := flag.NewFlagSet("geoapi", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.apiKey, "key", os.Getenv("GEOAPI_API_KEY"), "GeoAPI key. Defaults to $GEOAPI_API_KEY.")
	fs.StringVar(&cfg.baseURL, "base", env.GeoAPIBaseURL(), "Base URL of the GeoAPI service.")
	fs.IntVar(&cfg.limit, "limit", 0, "Maximum number of results. 0 leaves it to the service.")
	fs.StringVar(&cfg.typ, "type", "", "Only return entities of this type.")
	fs.IntVar(&cfg.radius, "radius", 0, "Search radius in meters (simple only).")
	fs.BoolVar(&cfg.parents, "parents", false, "Include the parents of each result.")
	fs.StringVar(&cfg.format, "format", "table", "Output format: 'table' or 'json'.")
	fs.DurationVar(&cfg.timeout, "timeout", timeout, "HTTP timeout.")
	fs.BoolVar(&cfg.osm, "osm", false, "Geocode through OpenStreetMap instead of GeoAPI.")
	fs.BoolVar(&cfg.debug, "debug", env.Debug(), "Log outbound requests and bodies to stderr.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, errUsage
		}
		return nil, nil, fmt.Errorf("%s: %w", err.Error(), errUsage)
	}

	if cfg.format != "table" && cfg.format != "json" {
		return nil, nil, fmt.Errorf("invalid format %q: must be 'table' or 'json': %w", cfg.format, errUsage)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return nil, nil, errUsage
	}

	return cfg, fs.Args(), nil
}

func (c *config) searchOptions() []geoapi.SearchOption {
	var opts []geoapi.SearchOption
	if c.limit > 0 {
		opts = append(opts, geoapi.Limit(c.limit))
	}

	if c.typ != "" {
		opts = append(opts, geoapi.Type(c.typ))
	}

	if c.parents {
		opts = append(opts, geoapi.IncludeParents())
	}

	return opts
}

func (c *config) print(out io.Writer, resp any) error {
	if c.format == "json" {
		return printJSON(out, resp)
	}

	RenderPlaces(out, geoapi.Places(resp))
	return nil
}

func (c *config) printLocation(out io.Writer, loc *geocode.Location) error {
	if c.format == "json" {
		return printJSON(out, loc)
	}

	RenderLocation(out, loc)
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseCoordinates(rawLat, rawLon string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", rawLat, errUsage)
	}

	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", rawLon, errUsage)
	}

	return lat, lon, nil
}

func (c *config) geocoder(client *geoapi.Client) geocode.Client {
	if c.osm {
		return geocode.NewOpenstreetmapClient()
	}

	g := geocode.NewGeoAPIGeocoder(client.Search)
	if env.OSMFallback() {
		return geocode.NewChainedClient(g)
	}

	return geocode.NewClient(g)
}
