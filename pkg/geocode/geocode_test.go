package geocode_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/manzanit0/geoapi/pkg/geoapi"
	"github.com/manzanit0/geoapi/pkg/geocode"
)

const keywordResponse = `{"result": [
	{"guid": "boston-ma-area", "type": "Neighborhood", "meta": {"name": "Greater Boston"}},
	{"guid": "boston-ma", "type": "City", "meta": {"name": "Boston", "geom": {"type": "Point", "coordinates": [-71.0589, 42.3601]}}}
]}`

const simpleResponse = `{"result": [
	{
		"guid": "faneuil-hall-boston",
		"type": "POI",
		"meta": {"name": "Faneuil Hall", "geom": {"type": "Point", "coordinates": [-71.0562, 42.3600]}},
		"parents": [
			{"guid": "boston-ma", "type": "City", "meta": {"name": "Boston"}},
			{"guid": "massachusetts", "type": "State", "meta": {"name": "Massachusetts"}},
			{"guid": "united-states", "type": "Country", "meta": {"name": "United States"}}
		]
	}
]}`

func newSearch(t *testing.T, keyword, simple string) *geoapi.SearchProxy {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/keyword-search":
			fmt.Fprint(w, keyword)
		case "/v1/search":
			if r.URL.Query().Get("include_parents") != "1" {
				t.Errorf("reverse geocoding should ask for parents, got %s", r.URL.RawQuery)
			}
			fmt.Fprint(w, simple)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return geoapi.New("demo", geoapi.WithBaseURL(srv.URL+"/v1/")).Search
}

func TestGeocode(t *testing.T) {
	c := geocode.NewClient(geocode.NewGeoAPIGeocoder(newSearch(t, keywordResponse, simpleResponse)))

	got, err := c.Geocode("Boston, MA")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := &geocode.Location{Latitude: 42.3601, Longitude: -71.0589, Name: "Boston, MA"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("location mismatch (-want +got):\n%s", diff)
	}
}

func TestReverseGeocode(t *testing.T) {
	c := geocode.NewClient(geocode.NewGeoAPIGeocoder(newSearch(t, keywordResponse, simpleResponse)))

	got, err := c.ReverseGeocode(42.36, -71.056)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := &geocode.Location{
		Latitude:  42.36,
		Longitude: -71.056,
		Name:      "Faneuil Hall",
		City:      "Boston",
		State:     "Massachusetts",
		Country:   "United States",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("location mismatch (-want +got):\n%s", diff)
	}
}

func TestNoMatches(t *testing.T) {
	empty := `{"result": []}`
	g := geocode.NewGeoAPIGeocoder(newSearch(t, empty, empty))

	t.Run("the geo-golang provider returns nil without error", func(t *testing.T) {
		loc, err := g.Geocode("Atlantis")
		if loc != nil || err != nil {
			t.Errorf("got %v, %v", loc, err)
		}

		addr, err := g.ReverseGeocode(0, 0)
		if addr != nil || err != nil {
			t.Errorf("got %v, %v", addr, err)
		}
	})

	t.Run("the client turns it into an error", func(t *testing.T) {
		c := geocode.NewClient(g)

		if _, err := c.Geocode("Atlantis"); err == nil {
			t.Error("expected an error")
		}

		if _, err := c.ReverseGeocode(0, 0); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestReverseGeocodeUnnamedPlaces(t *testing.T) {
	testCases := []struct {
		desc     string
		response string
		want     string
	}{
		{
			desc:     "when only parents are known, they name the place",
			response: `{"result": [{"guid": "x", "type": "POI", "parents": [{"guid": "boston-ma", "type": "City", "meta": {"name": "Boston"}}, {"guid": "united-states", "type": "Country", "meta": {"name": "United States"}}]}]}`,
			want:     "Boston, United States",
		},
		{
			desc:     "when only the country is known, it names the place",
			response: `{"result": [{"guid": "x", "type": "POI", "parents": [{"guid": "united-states", "type": "Country", "meta": {"name": "United States"}}]}]}`,
			want:     "United States",
		},
		{
			desc:     "when nothing is known, the coordinates name the place",
			response: `{"result": [{"guid": "x", "type": "POI"}]}`,
			want:     "42.36000, -71.05600",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := geocode.NewClient(geocode.NewGeoAPIGeocoder(newSearch(t, keywordResponse, tC.response)))

			got, err := c.ReverseGeocode(42.36, -71.056)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if got.Name != tC.want {
				t.Errorf("got name %q, expected %q", got.Name, tC.want)
			}
		})
	}
}
