package geoapi

// Args maps parameter names to the values of a single call. It is built per
// invocation and never shared between calls.
type Args map[string]any

type ParamType int

const (
	Float ParamType = iota
	Int
	String
	JSON
)

func (t ParamType) String() string {
	switch t {
	case Float:
		return "float"
	case Int:
		return "int"
	case String:
		return "string"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

type ParamSpec struct {
	Name       string
	Type       ParamType
	Optional   bool
	HasDefault bool
	Default    any

	// InPath marks parameters the URL template interpolates. They must be
	// scalars.
	InPath bool
}

func Required(name string, t ParamType) ParamSpec {
	return ParamSpec{Name: name, Type: t}
}

func Optional(name string, t ParamType) ParamSpec {
	return ParamSpec{Name: name, Type: t, Optional: true}
}

// PathParam declares a required parameter that is also part of the URL.
func PathParam(name string, t ParamType) ParamSpec {
	return ParamSpec{Name: name, Type: t, InPath: true}
}

// Defaulted declares a parameter that is sent with value v whenever the
// caller leaves it out.
func Defaulted(name string, t ParamType, v any) ParamSpec {
	return ParamSpec{Name: name, Type: t, Optional: true, HasDefault: true, Default: v}
}

// URLTemplate is either a literal path or a function of the resolved
// arguments. Paths are relative to the registry base URL.
type URLTemplate struct {
	literal string
	compute func(Args) string
}

func Literal(path string) URLTemplate {
	return URLTemplate{literal: path}
}

func Computed(fn func(Args) string) URLTemplate {
	return URLTemplate{compute: fn}
}

func (u URLTemplate) IsComputed() bool {
	return u.compute != nil
}

func (u URLTemplate) String() string {
	if u.compute != nil {
		return "<computed>"
	}

	return u.literal
}

func (u URLTemplate) path(args Args) string {
	if u.compute != nil {
		return u.compute(args)
	}

	return u.literal
}

type MethodSpec struct {
	Namespace string
	Name      string
	Params    []ParamSpec
	URL       URLTemplate
}

// ID is the dotted identifier used in logs and errors, e.g. "search.simple".
func (m MethodSpec) ID() string {
	return m.Namespace + "." + m.Name
}

func (m MethodSpec) param(name string) (ParamSpec, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p, true
		}
	}

	return ParamSpec{}, false
}
