package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/cisim/internal/methods"
	"github.com/san-kum/cisim/internal/sim"
)

type Registry struct {
	methods map[methods.Kind]func() sim.Method
}

func NewRegistry() *Registry {
	r := &Registry{
		methods: make(map[methods.Kind]func() sim.Method),
	}

	r.methods[methods.KindZSigma] = func() sim.Method { return methods.NewZSigma() }

	return r
}

// GetMethod resolves a method by name. Loose spellings accepted by
// methods.ParseKind work here too.
func (r *Registry) GetMethod(name string) (sim.Method, error) {
	kind, err := methods.ParseKind(name)
	if err != nil {
		return nil, err
	}
	fn, ok := r.methods[kind]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMethods() []string {
	names := make([]string, 0, len(r.methods))
	for kind := range r.methods {
		names = append(names, string(kind))
	}
	sort.Strings(names)
	return names
}
