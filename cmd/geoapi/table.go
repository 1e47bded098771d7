package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/manzanit0/geoapi/pkg/geoapi"
	"github.com/manzanit0/geoapi/pkg/geocode"
	"github.com/olekukonko/tablewriter"
)

const msgNoResults = "no results ¯\\_(ツ)_/¯"

func RenderPlaces(w io.Writer, places []geoapi.Place) {
	if len(places) == 0 {
		fmt.Fprintln(w, msgNoResults)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"GUID", "Name", "Type", "Latitude", "Longitude", "Parents"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, p := range places {
		lat, lon := "-", "-"
		if p.HasPoint {
			lat, lon = fmt.Sprintf("%.5f", p.Lat), fmt.Sprintf("%.5f", p.Lon)
		}

		var parents string
		for i, parent := range p.Parents {
			if i > 0 {
				parents += ", "
			}
			parents += parent.Name
		}

		table.Append([]string{p.GUID, p.Name, p.Type, lat, lon, parents})
	}

	table.Render()
}

func RenderLocation(w io.Writer, loc *geocode.Location) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Latitude", "Longitude", "City", "State", "Country"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	table.Append([]string{
		loc.Name,
		fmt.Sprintf("%.5f", loc.Latitude),
		fmt.Sprintf("%.5f", loc.Longitude),
		loc.City,
		loc.State,
		loc.Country,
	})

	table.Render()
}

// RenderMethods lists every method the client knows with its parameters.
// Optional parameters are suffixed with "?".
func RenderMethods(w io.Writer, client *geoapi.Client) {
	r := client.Registry()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Method", "Parameters", "URL"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, ns := range r.Namespaces() {
		proxy := client.Namespace(ns)
		for _, name := range r.Methods(proxy.Name()) {
			spec, _ := r.Lookup(proxy.Name(), name)

			params := make([]string, 0, len(spec.Params))
			for _, p := range spec.Params {
				name := p.Name
				if p.Optional {
					name += "?"
				}
				params = append(params, fmt.Sprintf("%s (%s)", name, p.Type))
			}

			target := r.Base() + spec.URL.String()
			if spec.URL.IsComputed() {
				target = "computed from " + strings.Join(pathParams(spec), ", ")
			}

			table.Append([]string{spec.ID(), strings.Join(params, ", "), target})
		}
	}

	table.Render()
}

func pathParams(spec geoapi.MethodSpec) []string {
	var names []string
	for _, p := range spec.Params {
		if p.InPath {
			names = append(names, p.Name)
		}
	}

	return names
}
