package geoapi

import (
	"encoding/json"
	"strings"
)

// Place is the part of a search result most callers care about.
type Place struct {
	GUID     string
	Name     string
	Type     string
	Lat      float64
	Lon      float64
	HasPoint bool

	// Parents holds the enclosing places when the call was made with
	// IncludeParents.
	Parents []Place
}

// Places extracts the entries of the "result" list of a decoded response.
// It never fails: anything that doesn't look like a place is skipped.
func Places(resp any) []Place {
	root, ok := resp.(map[string]any)
	if !ok {
		return nil
	}

	entries, ok := root["result"].([]any)
	if !ok {
		return nil
	}

	return places(entries)
}

// Parent returns the closest enclosing place of the given type.
func (p Place) Parent(placeType string) (Place, bool) {
	for _, parent := range p.Parents {
		if strings.EqualFold(parent.Type, placeType) {
			return parent, true
		}
	}

	return Place{}, false
}

func places(entries []any) []Place {
	out := make([]Place, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}

		p := Place{GUID: str(m["guid"]), Type: str(m["type"])}
		if meta, ok := m["meta"].(map[string]any); ok {
			p.Name = str(meta["name"])
			p.Lat, p.Lon, p.HasPoint = point(meta["geom"])
		}

		if parents, ok := m["parents"].([]any); ok {
			p.Parents = places(parents)
		}

		out = append(out, p)
	}

	return out
}

// point reads a GeoJSON Point, whose coordinates are ordered [lon, lat].
func point(geom any) (lat, lon float64, ok bool) {
	g, isMap := geom.(map[string]any)
	if !isMap || str(g["type"]) != "Point" {
		return 0, 0, false
	}

	coords, isList := g["coordinates"].([]any)
	if !isList || len(coords) < 2 {
		return 0, 0, false
	}

	lon, okLon := number(coords[0])
	lat, okLat := number(coords[1])
	if !okLon || !okLat {
		return 0, 0, false
	}

	return lat, lon, true
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// number accepts both json.Number, as decoded by Client, and float64 for
// trees produced by a plain json.Unmarshal.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	default:
		return 0, false
	}
}
