package geocode

import (
	"fmt"

	"github.com/codingsince1985/geo-golang"
	"github.com/manzanit0/geoapi/pkg/geoapi"
)

// candidates is how many keyword results are inspected for one with a point
// geometry before giving up.
const candidates = 5

type geoapiGeocoder struct {
	search *geoapi.SearchProxy
}

var _ geo.Geocoder = (*geoapiGeocoder)(nil)

// NewGeoAPIGeocoder adapts the GeoAPI search namespace to geo-golang. Like
// every geo-golang provider it returns nil, nil when nothing matches.
func NewGeoAPIGeocoder(search *geoapi.SearchProxy) geo.Geocoder {
	return &geoapiGeocoder{search: search}
}

func (g *geoapiGeocoder) Geocode(address string) (*geo.Location, error) {
	resp, err := g.search.KeywordGlobal(address, geoapi.Limit(candidates))
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	for _, p := range geoapi.Places(resp) {
		if p.HasPoint {
			return &geo.Location{Lat: p.Lat, Lng: p.Lon}, nil
		}
	}

	return nil, nil
}

func (g *geoapiGeocoder) ReverseGeocode(lat, lng float64) (*geo.Address, error) {
	resp, err := g.search.Simple(lat, lng, geoapi.Limit(1), geoapi.IncludeParents())
	if err != nil {
		return nil, fmt.Errorf("simple search: %w", err)
	}

	places := geoapi.Places(resp)
	if len(places) == 0 {
		return nil, nil
	}

	p := places[0]
	address := &geo.Address{FormattedAddress: p.Name}

	if city, ok := p.Parent("City"); ok {
		address.City = city.Name
	} else if p.Type == "City" {
		address.City = p.Name
	}

	if state, ok := p.Parent("State"); ok {
		address.State = state.Name
	}

	if country, ok := p.Parent("Country"); ok {
		address.Country = country.Name
	}

	return address, nil
}
