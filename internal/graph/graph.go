package graph

// Graph is a directed dependency graph. Edges point from a node to the nodes
// it depends on. Nodes keep their insertion order so every traversal is
// deterministic.
type Graph struct {
	order []string
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
	}
}

// AddNode inserts id or replaces its dependencies if it already exists.
func (g *Graph) AddNode(id string, dependencies []string) {
	if _, exists := g.edges[id]; !exists {
		g.order = append(g.order, id)
	}
	deps := make([]string, len(dependencies))
	copy(deps, dependencies)
	g.edges[id] = deps
}

func (g *Graph) HasNode(id string) bool {
	_, exists := g.edges[id]
	return exists
}

func (g *Graph) GetDependencies(id string) []string {
	deps, exists := g.edges[id]
	if !exists {
		return nil
	}

	result := make([]string, len(deps))
	copy(result, deps)
	return result
}

func (g *Graph) GetDependents(id string) []string {
	var dependents []string
	for _, nodeID := range g.order {
		for _, dep := range g.edges[nodeID] {
			if dep == id {
				dependents = append(dependents, nodeID)
				break
			}
		}
	}
	return dependents
}

func (g *Graph) Nodes() []string {
	nodes := make([]string, len(g.order))
	copy(nodes, g.order)
	return nodes
}

func (g *Graph) Size() int {
	return len(g.order)
}
