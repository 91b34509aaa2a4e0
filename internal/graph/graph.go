// Package graph aggregates the flat edge list into user- and company-level
// digraphs and exports them as GEXF.
package graph

import (
	"fmt"
	"sort"

	"github.com/sodaslab/ghmarket/internal/edgelist"
)

// Counts holds per-action interaction totals for one directed pair.
type Counts struct {
	Follows int `json:"follows"`
	Stars   int `json:"stars"`
	Watches int `json:"watches"`
	Forks   int `json:"forks"`
}

func (c *Counts) Add(action string, n int) {
	switch action {
	case edgelist.ActionFollows:
		c.Follows += n
	case edgelist.ActionStars:
		c.Stars += n
	case edgelist.ActionWatches:
		c.Watches += n
	case edgelist.ActionForks:
		c.Forks += n
	}
}

// For returns the count for a single action.
func (c Counts) For(action string) int {
	switch action {
	case edgelist.ActionFollows:
		return c.Follows
	case edgelist.ActionStars:
		return c.Stars
	case edgelist.ActionWatches:
		return c.Watches
	case edgelist.ActionForks:
		return c.Forks
	}
	return 0
}

// Restrict zeroes the counts of actions outside the given set.
func (c Counts) Restrict(actions []string) Counts {
	var out Counts
	for _, action := range actions {
		out.Add(action, c.For(action))
	}
	return out
}

// Total sums all four action counts.
func (c Counts) Total() int {
	return c.Follows + c.Stars + c.Watches + c.Forks
}

func pairKey(source, target string) string {
	return fmt.Sprintf("%s|%s", source, target)
}

// UserNode is one resolved user in the user graph.
type UserNode struct {
	Login   string
	Company string
}

// UserEdge is the collapsed directed pair: it exists once regardless of
// how many interactions back it, with the multiplicity kept in Counts.
type UserEdge struct {
	Source string
	Target string
	Counts Counts
	Intra  bool
}

// Weight is always 1: a user edge records existence, not volume.
func (e *UserEdge) Weight() int {
	return 1
}

// UserGraph is the directed user-to-user graph.
type UserGraph struct {
	Nodes map[string]*UserNode
	Edges map[string]*UserEdge
}

func NewUserGraph() *UserGraph {
	return &UserGraph{
		Nodes: make(map[string]*UserNode),
		Edges: make(map[string]*UserEdge),
	}
}

func (g *UserGraph) addNode(login, company string) {
	if _, ok := g.Nodes[login]; !ok {
		g.Nodes[login] = &UserNode{Login: login, Company: company}
	}
}

func (g *UserGraph) addInteraction(e edgelist.Edge) {
	key := pairKey(e.Src, e.Target)
	edge, ok := g.Edges[key]
	if !ok {
		edge = &UserEdge{
			Source: e.Src,
			Target: e.Target,
			Intra:  e.DIntra == 1,
		}
		g.Edges[key] = edge
	}
	edge.Counts.Add(e.Action, 1)
}

func (g *UserGraph) NodeCount() int { return len(g.Nodes) }
func (g *UserGraph) EdgeCount() int { return len(g.Edges) }

// CompanyNode is one company in the aggregated graph, carrying the
// analyst-assigned category. Users counts the resolved accounts behind it.
type CompanyNode struct {
	Name     string
	Category int
	Label    string
	Users    int
}

// CompanyEdge is a directed company pair. Weight is the number of distinct
// user-to-user edges that collapsed onto the pair; Counts keeps the raw
// interaction totals for the action subset the graph was built with.
type CompanyEdge struct {
	Source string
	Target string
	Weight int
	Counts Counts
}

// CompanyGraph is the directed company-to-company graph, including
// companies that attracted no qualifying edges.
type CompanyGraph struct {
	Nodes map[string]*CompanyNode
	Edges map[string]*CompanyEdge
}

func NewCompanyGraph() *CompanyGraph {
	return &CompanyGraph{
		Nodes: make(map[string]*CompanyNode),
		Edges: make(map[string]*CompanyEdge),
	}
}

func (g *CompanyGraph) NodeCount() int { return len(g.Nodes) }
func (g *CompanyGraph) EdgeCount() int { return len(g.Edges) }

// Density is the standard directed graph density m/(n*(n-1)). Self-loop
// edges (intra-company) count toward m, so values above 1 are possible in
// degenerate graphs.
func (g *CompanyGraph) Density() float64 {
	n := len(g.Nodes)
	if n < 2 {
		return 0
	}
	return float64(len(g.Edges)) / float64(n*(n-1))
}

// sortedKeys drives deterministic export order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
