package recipe

import (
	"fmt"
	"sort"
)

// Graph is the directed acyclic dependency graph of a recipe set. Edges run
// from a dependency to its dependents.
type Graph struct {
	recipes    map[string]Recipe
	dependents map[string][]string // dependency -> dependents
	depends    map[string][]string // dependent -> dependencies
}

// NewGraph builds a graph from a recipe set, resolving alternative
// dependency slots. When several alternatives could satisfy a slot, one that
// is already part of the set wins; otherwise the first alternative is chosen
// and must be supplied by the toolchain's own recipes.
func NewGraph(recipes []Recipe) (*Graph, error) {
	g := &Graph{
		recipes:    make(map[string]Recipe, len(recipes)),
		dependents: make(map[string][]string),
		depends:    make(map[string][]string),
	}

	for _, r := range recipes {
		if _, dup := g.recipes[r.Name]; dup {
			return nil, fmt.Errorf("duplicate recipe %q", r.Name)
		}
		g.recipes[r.Name] = r
		g.dependents[r.Name] = []string{}
		g.depends[r.Name] = []string{}
	}

	for _, r := range recipes {
		for _, dep := range r.Depends {
			chosen := g.choose(dep)
			if chosen == r.Name {
				return nil, fmt.Errorf("recipe %q depends on itself", r.Name)
			}
			// Dependencies outside the set are built by the toolchain's
			// bundled recipes and do not constrain our ordering.
			if _, known := g.recipes[chosen]; !known {
				continue
			}
			g.addEdge(chosen, r.Name)
		}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, fmt.Errorf("recipe dependency cycle: %v", cycle)
	}
	return g, nil
}

func (g *Graph) choose(dep Dependency) string {
	for _, alt := range dep.Alternatives {
		if _, ok := g.recipes[alt]; ok {
			return alt
		}
	}
	return dep.Alternatives[0]
}

func (g *Graph) addEdge(dependency, dependent string) {
	if !contains(g.dependents[dependency], dependent) {
		g.dependents[dependency] = append(g.dependents[dependency], dependent)
	}
	if !contains(g.depends[dependent], dependency) {
		g.depends[dependent] = append(g.depends[dependent], dependency)
	}
}

// Recipe returns a recipe by name.
func (g *Graph) Recipe(name string) (Recipe, bool) {
	r, ok := g.recipes[name]
	return r, ok
}

// DependenciesOf returns the in-set dependencies of a recipe.
func (g *Graph) DependenciesOf(name string) []string {
	return g.depends[name]
}

// DependentsOf returns the in-set dependents of a recipe.
func (g *Graph) DependentsOf(name string) []string {
	return g.dependents[name]
}

// BuildOrder returns the recipe names with every dependency before its
// dependents. The order is deterministic for a given set.
func (g *Graph) BuildOrder() []string {
	names := make([]string, 0, len(g.recipes))
	for name := range g.recipes {
		names = append(names, name)
	}
	sort.Strings(names)

	visited := make(map[string]bool, len(names))
	order := make([]string, 0, len(names))

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, dep := range g.depends[name] {
			visit(dep)
		}
		order = append(order, name)
	}

	for _, name := range names {
		visit(name)
	}
	return order
}

// findCycle returns a dependency cycle if one exists.
func (g *Graph) findCycle() []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	cameFrom := make(map[string]string)

	var cycle []string
	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		onStack[name] = true

		for _, next := range g.dependents[name] {
			if !visited[next] {
				cameFrom[next] = name
				if dfs(next) {
					return true
				}
			} else if onStack[next] {
				cycle = []string{next}
				for cur := name; cur != next; cur = cameFrom[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{next}, cycle...)
				return true
			}
		}

		onStack[name] = false
		return false
	}

	names := make([]string, 0, len(g.recipes))
	for name := range g.recipes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] && dfs(name) {
			return cycle
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
