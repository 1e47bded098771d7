package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/manzanit0/geoapi/pkg/geoapi"
)

const response = `{"result": [
	{
		"guid": "mit-cambridge",
		"type": "POI",
		"meta": {"name": "Massachusetts Institute of Technology", "geom": {"type": "Point", "coordinates": [-71.0942, 42.3601]}},
		"parents": [{"guid": "cambridge-ma", "type": "City", "meta": {"name": "Cambridge"}}]
	}
]}`

func TestRenderPlaces(t *testing.T) {
	testCases := []struct {
		desc   string
		places []geoapi.Place
		want   []string
	}{
		{
			desc:   "when there are no places, a friendly message is printed",
			places: nil,
			want:   []string{msgNoResults},
		},
		{
			desc: "places without a point geometry get placeholders",
			places: []geoapi.Place{
				{GUID: "boston-ma", Name: "Boston", Type: "City", Lat: 42.3601, Lon: -71.0589, HasPoint: true},
				{GUID: "back-bay-boston", Name: "Back Bay", Type: "Neighborhood", Parents: []geoapi.Place{{Name: "Boston"}, {Name: "Massachusetts"}}},
			},
			want: []string{"GUID", "Longitude", "boston-ma", "42.36010", "-71.05890", "back-bay-boston", " - ", "Boston, Massachusetts"},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			var b bytes.Buffer
			RenderPlaces(&b, tC.places)

			for _, w := range tC.want {
				if !strings.Contains(b.String(), w) {
					t.Errorf("output doesn't contain %q:\n%s", w, b.String())
				}
			}
		})
	}
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "demo" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, response)
	}))
	defer srv.Close()

	testCases := []struct {
		desc    string
		args    []string
		want    []string
		wantErr error
	}{
		{
			desc: "entity search renders a table",
			args: []string{"entity", "cambridge-ma", "MIT"},
			want: []string{"mit-cambridge", "Massachusetts Institute of Technology", "Cambridge"},
		},
		{
			desc: "keyword search can print json",
			args: []string{"-format", "json", "-limit", "1", "keyword", "MIT"},
			want: []string{`"guid": "mit-cambridge"`},
		},
		{
			desc: "simple search accepts coordinates",
			args: []string{"-radius", "100", "simple", "42.36", "-71.09"},
			want: []string{"mit-cambridge"},
		},
		{
			desc: "geocode prints the first located place",
			args: []string{"geocode", "MIT"},
			want: []string{"42.36010", "-71.09420"},
		},
		{
			desc:    "unknown commands are a usage error",
			args:    []string{"view", "x"},
			wantErr: errUsage,
		},
		{
			desc:    "bad coordinates are a usage error",
			args:    []string{"simple", "north", "-71.09"},
			wantErr: errUsage,
		},
		{
			desc:    "invalid formats are a usage error",
			args:    []string{"-format", "xml", "keyword", "MIT"},
			wantErr: errUsage,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Setenv("GEOCODE_OSM_FALLBACK", "")

			var out bytes.Buffer
			args := append([]string{"-key", "demo", "-base", srv.URL + "/v1/"}, tC.args...)

			err := run(&out, args)
			if tC.wantErr != nil {
				if !errors.Is(err, tC.wantErr) {
					t.Errorf("got %v, expected %v", err, tC.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			for _, w := range tC.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output doesn't contain %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestRunMethods(t *testing.T) {
	t.Setenv("GEOAPI_API_KEY", "")

	var out bytes.Buffer
	if err := run(&out, []string{"-base", "http://localhost/v1/", "methods"}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	for _, w := range []string{
		"search.simple",
		"search.keyword_global",
		"search.keyword_entity",
		"lat (float)",
		"radius? (int)",
		"http://localhost/v1/keyword-search",
		"computed from guid",
	} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output doesn't contain %q:\n%s", w, out.String())
		}
	}
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		desc       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{desc: "success", err: nil, wantCode: 0, wantStderr: ""},
		{desc: "usage already printed", err: errUsage, wantCode: 2, wantStderr: ""},
		{desc: "unknown command", err: fmt.Errorf("unknown command %q: %w", "bogus", errUsage), wantCode: 2, wantStderr: `unknown command "bogus"`},
		{desc: "invalid latitude", err: fmt.Errorf("invalid latitude %q: %w", "abc", errUsage), wantCode: 2, wantStderr: `invalid latitude "abc"`},
		{desc: "runtime failure", err: errors.New("keyword search: boom"), wantCode: 1, wantStderr: "keyword search: boom"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := exitCode(&stderr, tC.err); got != tC.wantCode {
				t.Errorf("got exit code %d, expected %d", got, tC.wantCode)
			}

			if tC.wantStderr == "" && stderr.Len() > 0 {
				t.Errorf("expected no output, got %q", stderr.String())
			}

			if !strings.Contains(stderr.String(), tC.wantStderr) {
				t.Errorf("stderr %q doesn't contain %q", stderr.String(), tC.wantStderr)
			}
		})
	}
}

func TestUsageErrorsAreReported(t *testing.T) {
	testCases := []struct {
		desc string
		args []string
		want string
	}{
		{desc: "unknown command", args: []string{"bogus"}, want: `unknown command "bogus"`},
		{desc: "bad latitude", args: []string{"simple", "abc", "1"}, want: `invalid latitude "abc"`},
		{desc: "missing longitude", args: []string{"simple", "1"}, want: "simple expects LAT LON"},
		{desc: "bad format", args: []string{"-format", "xml", "keyword", "q"}, want: `invalid format "xml"`},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			var out, stderr bytes.Buffer
			err := run(&out, append([]string{"-key", "x"}, tC.args...))

			if code := exitCode(&stderr, err); code != 2 {
				t.Errorf("got exit code %d, expected 2", code)
			}

			if !strings.Contains(stderr.String(), tC.want) {
				t.Errorf("stderr %q doesn't contain %q", stderr.String(), tC.want)
			}
		})
	}
}

func TestRunRequiresAPIKey(t *testing.T) {
	t.Setenv("GEOAPI_API_KEY", "")

	var out bytes.Buffer
	if err := run(&out, []string{"keyword", "MIT"}); err == nil {
		t.Error("expected an error without api key")
	}
}
