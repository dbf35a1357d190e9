package builtins

import (
	"sort"

	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/values"
)

// Registry is the immutable builtin catalog. Each name maps to one
// implementation per fixed arity.
type Registry struct {
	entries map[string]map[int]channel.Builtin
}

// Catalog builds the default catalog. It is constructed once at process
// start and shared through the execution context.
func Catalog() *Registry {
	r := &Registry{entries: make(map[string]map[int]channel.Builtin)}
	r.register("argv", 0, argvAll)
	r.register("argv", 1, argvNth)
	r.register("each", 1, each)
	r.register("empty", 0, empty)
	r.register("explode", 0, explode)
	r.register("false", 0, constant(values.Boolean{Value: false}))
	r.register("true", 0, constant(values.Boolean{Value: true}))
	r.register("null", 0, constant(values.Null{}))
	r.register("for", 2, fold(true))
	r.register("implode", 0, implode)
	r.register("isMain", 0, isMain)
	r.register("nth", 1, nth)
	r.register("range", 0, rangeBuiltin)
	r.register("reduce", 2, fold(false))
	r.register("uuid", 0, uuidBuiltin)
	return r
}

func (r *Registry) register(name string, arity int, b channel.Builtin) {
	if r.entries[name] == nil {
		r.entries[name] = make(map[int]channel.Builtin)
	}
	r.entries[name][arity] = b
}

func (r *Registry) Lookup(name string, numArgs int) (channel.Builtin, bool) {
	b, ok := r.entries[name][numArgs]
	return b, ok
}

func (r *Registry) Has(name string) bool {
	return len(r.entries[name]) > 0
}

func (r *Registry) Arities(name string) []int {
	arities := make([]int, 0, len(r.entries[name]))
	for a := range r.entries[name] {
		arities = append(arities, a)
	}
	sort.Ints(arities)
	return arities
}
