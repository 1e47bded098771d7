package geoapi

// Proxy groups the methods of one namespace.
type Proxy struct {
	client    *Client
	namespace string
}

func (c *Client) Namespace(name string) *Proxy {
	return &Proxy{client: c, namespace: name}
}

func (p *Proxy) Name() string {
	return p.namespace
}

func (p *Proxy) Call(method string, args Args) (any, error) {
	return p.client.Call(p.namespace, method, args)
}

// SearchProxy exposes the search namespace with typed entry points.
type SearchProxy struct {
	Proxy
}

// SearchOption sets one optional parameter. Options a method does not
// declare make the call fail with UnknownParameterError.
type SearchOption func(Args)

// Radius limits simple searches to the given distance in meters.
func Radius(meters int) SearchOption {
	return func(a Args) { a["radius"] = meters }
}

func Type(t string) SearchOption {
	return func(a Args) { a["type"] = t }
}

func IncludeParents() SearchOption {
	return func(a Args) { a["include_parents"] = 1 }
}

func Limit(n int) SearchOption {
	return func(a Args) { a["limit"] = n }
}

func Pretty() SearchOption {
	return func(a Args) { a["pretty"] = 1 }
}

func (s *SearchProxy) Simple(lat, lon float64, opts ...SearchOption) (any, error) {
	return s.Call(MethodSimple, withOptions(Args{"lat": lat, "lon": lon}, opts))
}

func (s *SearchProxy) KeywordGlobal(q string, opts ...SearchOption) (any, error) {
	return s.Call(MethodKeywordGlobal, withOptions(Args{"q": q}, opts))
}

func (s *SearchProxy) KeywordEntity(guid, q string, opts ...SearchOption) (any, error) {
	return s.Call(MethodKeywordEntity, withOptions(Args{"guid": guid, "q": q}, opts))
}

func withOptions(args Args, opts []SearchOption) Args {
	for _, o := range opts {
		o(args)
	}

	return args
}
