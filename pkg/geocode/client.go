package geocode

import (
	"fmt"
	"strings"

	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/chained"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

// NewClient wraps any geo-golang provider. Unlike the providers themselves,
// the returned client reports "no match" as an error.
func NewClient(geocoder geo.Geocoder) Client {
	return &client{geocoder: geocoder}
}

func NewOpenstreetmapClient() Client {
	return NewClient(openstreetmap.Geocoder())
}

// NewChainedClient asks primary first and falls back to OpenStreetMap when
// primary fails or finds nothing.
func NewChainedClient(primary geo.Geocoder) Client {
	return NewClient(chained.Geocoder(primary, openstreetmap.Geocoder()))
}

type client struct {
	geocoder geo.Geocoder
}

var _ Client = (*client)(nil)

func (c *client) Geocode(query string) (*Location, error) {
	location, err := c.geocoder.Geocode(query)
	if err != nil {
		return nil, err
	}

	if location == nil {
		return nil, fmt.Errorf("unable to geocode address")
	}

	return &Location{
		Latitude:  location.Lat,
		Longitude: location.Lng,
		Name:      query,
	}, nil
}

func (c *client) ReverseGeocode(lat, lon float64) (*Location, error) {
	address, err := c.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		return nil, err
	}

	if address == nil {
		return nil, fmt.Errorf("unable to reverse geocode location")
	}

	name := address.FormattedAddress
	if name == "" {
		name = describe(lat, lon, address.City, address.Country)
	}

	return &Location{
		Latitude:    lat,
		Longitude:   lon,
		Name:        name,
		City:        address.City,
		State:       address.State,
		Country:     address.Country,
		CountryCode: address.CountryCode,
	}, nil
}

// describe names an unnamed place by its city and country, or by its
// coordinates when neither is known.
func describe(lat, lon float64, parts ...string) string {
	var known []string
	for _, p := range parts {
		if p != "" {
			known = append(known, p)
		}
	}

	if len(known) == 0 {
		return fmt.Sprintf("%.5f, %.5f", lat, lon)
	}

	return strings.Join(known, ", ")
}
