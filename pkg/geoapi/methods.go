package geoapi

import (
	"fmt"
	"net/url"
)

const DefaultBaseURL = "http://api.geoapi.com/v1/"

const (
	NamespaceSearch = "search"

	MethodSimple        = "simple"
	MethodKeywordGlobal = "keyword_global"
	MethodKeywordEntity = "keyword_entity"
)

// jsoncallback is deliberately not declared: a JSONP wrapper would break
// response decoding.
func searchMethods() []MethodSpec {
	return []MethodSpec{
		{
			Namespace: NamespaceSearch,
			Name:      MethodSimple,
			Params: []ParamSpec{
				Required("lat", Float),
				Required("lon", Float),
				Optional("radius", Int),
				Optional("type", String),
				Optional("include_parents", Int),
				Optional("limit", Int),
				Optional("pretty", Int),
			},
			URL: Literal("search"),
		},
		{
			Namespace: NamespaceSearch,
			Name:      MethodKeywordGlobal,
			Params: []ParamSpec{
				Required("q", String),
				Optional("limit", Int),
				Optional("include_parents", Int),
				Optional("type", String),
				Optional("pretty", Int),
			},
			URL: Literal("keyword-search"),
		},
		{
			Namespace: NamespaceSearch,
			Name:      MethodKeywordEntity,
			Params: []ParamSpec{
				PathParam("guid", String),
				Required("q", String),
				Optional("limit", Int),
				Optional("include_parents", Int),
				Optional("type", String),
				Optional("pretty", Int),
			},
			URL: Computed(func(args Args) string {
				return fmt.Sprintf("e/%s/keyword-search", url.PathEscape(fmt.Sprint(args["guid"])))
			}),
		},
	}
}

// DefaultRegistry returns the GeoAPI method table rooted at base. An empty
// base means DefaultBaseURL.
func DefaultRegistry(base string) *Registry {
	if base == "" {
		base = DefaultBaseURL
	}

	r, err := NewRegistry(base, searchMethods()...)
	if err != nil {
		panic(fmt.Errorf("invalid builtin method table: %w", err))
	}

	return r
}
