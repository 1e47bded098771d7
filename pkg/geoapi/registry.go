package geoapi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Registry is the immutable table of remote methods. It is built once and
// safe to share between goroutines.
type Registry struct {
	base    string
	methods map[string]map[string]MethodSpec
}

func NewRegistry(base string, specs ...MethodSpec) (*Registry, error) {
	if base == "" {
		return nil, fmt.Errorf("registry base url is empty")
	}

	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	r := &Registry{base: base, methods: map[string]map[string]MethodSpec{}}
	for _, s := range specs {
		if s.Namespace == "" || s.Name == "" {
			return nil, fmt.Errorf("method spec %q has an empty namespace or name", s.ID())
		}

		ns, ok := r.methods[s.Namespace]
		if !ok {
			ns = map[string]MethodSpec{}
			r.methods[s.Namespace] = ns
		}

		if _, dup := ns[s.Name]; dup {
			return nil, fmt.Errorf("method %s declared twice", s.ID())
		}

		seen := map[string]bool{}
		for _, p := range s.Params {
			if p.Name == "" {
				return nil, fmt.Errorf("method %s declares a parameter without name", s.ID())
			}

			if seen[p.Name] {
				return nil, fmt.Errorf("method %s declares parameter %s twice", s.ID(), p.Name)
			}

			seen[p.Name] = true
		}

		s.Params = append([]ParamSpec(nil), s.Params...)
		ns[s.Name] = s
	}

	return r, nil
}

func (r *Registry) Base() string {
	return r.base
}

func (r *Registry) Lookup(namespace, method string) (MethodSpec, bool) {
	s, ok := r.methods[namespace][method]
	if !ok {
		return MethodSpec{}, false
	}

	s.Params = append([]ParamSpec(nil), s.Params...)
	return s, true
}

func (r *Registry) Namespaces() []string {
	names := make([]string, 0, len(r.methods))
	for ns := range r.methods {
		names = append(names, ns)
	}

	sort.Strings(names)
	return names
}

func (r *Registry) Methods(namespace string) []string {
	names := make([]string, 0, len(r.methods[namespace]))
	for m := range r.methods[namespace] {
		names = append(names, m)
	}

	sort.Strings(names)
	return names
}

// Resolve validates the supplied arguments against the method's parameter
// list and returns the target URL together with the arguments to send.
// Nothing is coerced here; that happens when the query string is encoded.
func (r *Registry) Resolve(namespace, method string, supplied Args) (string, Args, error) {
	spec, ok := r.methods[namespace][method]
	if !ok {
		return "", nil, &UnknownMethodError{Namespace: namespace, Method: method}
	}

	for name := range supplied {
		if _, declared := spec.param(name); !declared {
			return "", nil, &UnknownParameterError{Method: spec.ID(), Param: name}
		}
	}

	args := Args{}
	for _, p := range spec.Params {
		v, present := supplied[p.Name]
		if present && v == nil {
			present = false
		}

		switch {
		case present:
			if p.InPath && isComposite(v) {
				return "", nil, &InvalidParameterError{Method: spec.ID(), Param: p.Name, Reason: "must be a single value"}
			}
			if p.Type == JSON && isComposite(v) {
				v = jsonValue{v: v}
			}
			args[p.Name] = v
		case p.HasDefault:
			args[p.Name] = p.Default
		case p.Optional:
			// left out of the query entirely
		default:
			return "", nil, &MissingParameterError{Method: spec.ID(), Param: p.Name}
		}
	}

	return r.base + spec.URL.path(args), args, nil
}

func isComposite(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	default:
		return false
	}
}
