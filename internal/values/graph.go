package values

import (
	"slices"

	"bennypowers.dev/stylenorm/internal/collections"
	"bennypowers.dev/stylenorm/internal/style"
)

// ReferenceGraph is the directed graph of "@name" references between
// property reference entries
type ReferenceGraph struct {
	// name -> names its value references, in order of appearance
	dependencies map[string][]string
	// name -> names whose values reference it
	dependents map[string][]string
	nodes      []string
}

// BuildReferenceGraph builds the reference graph of refs. Nodes are sorted by
// name so cycle reports are stable.
func BuildReferenceGraph(refs map[string]any) *ReferenceGraph {
	g := &ReferenceGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
	}
	for name := range refs {
		g.nodes = append(g.nodes, name)
	}
	slices.Sort(g.nodes)

	for _, name := range g.nodes {
		for _, dep := range referencedNames(refs[name]) {
			if slices.Contains(g.dependencies[name], dep) {
				continue
			}
			g.dependencies[name] = append(g.dependencies[name], dep)
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}
	return g
}

func referencedNames(v any) []string {
	var names []string
	switch t := v.(type) {
	case string:
		for _, ref := range FindReferences(t) {
			names = append(names, ref.Name)
		}
	case []any:
		for _, item := range t {
			names = append(names, referencedNames(item)...)
		}
	}
	return names
}

// Dependencies returns the names referenced by name's value
func (g *ReferenceGraph) Dependencies(name string) []string {
	return g.dependencies[name]
}

// Dependents returns the names whose values reference name
func (g *ReferenceGraph) Dependents(name string) []string {
	return g.dependents[name]
}

// Missing returns referenced names that have no entry, sorted
func (g *ReferenceGraph) Missing() []string {
	nodes := collections.NewSet(g.nodes...)
	var missing []string
	for dep := range g.dependents {
		if !nodes.Has(dep) {
			missing = append(missing, dep)
		}
	}
	slices.Sort(missing)
	return missing
}

// FindCycle returns the first reference cycle as a token chain such as
// ["@a", "@b", "@a"], or nil
func (g *ReferenceGraph) FindCycle() []string {
	visited := collections.NewSet[string]()
	for _, node := range g.nodes {
		if cycle := g.findCycleDFS(node, visited, collections.NewTrail[string]()); cycle != nil {
			return refTokens(cycle)
		}
	}
	return nil
}

func (g *ReferenceGraph) findCycleDFS(node string, visited collections.Set[string], path *collections.Trail[string]) []string {
	if path.Has(node) {
		return path.Loop(node)
	}
	if visited.Has(node) {
		return nil
	}

	visited.Add(node)
	path.Push(node)
	defer path.Pop()

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, path); cycle != nil {
			return cycle
		}
	}
	return nil
}

// refTokens writes names out as "@name" reference tokens
func refTokens(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = "@" + name
	}
	return out
}

// Check reports the first problem in the reference set: a cycle, or a
// reference to a missing entry. References are otherwise only checked when a
// value uses them; Check lets callers fail before normalizing anything.
func (g *ReferenceGraph) Check() error {
	if cycle := g.FindCycle(); cycle != nil {
		return style.NewCircularReferenceError(cycle)
	}
	if missing := g.Missing(); len(missing) > 0 {
		name := missing[0]
		return style.NewPropertyReferenceNotFoundError("@"+name, []string{"@" + g.dependents[name][0]})
	}
	return nil
}
