package graph

import (
	"github.com/sodaslab/ghmarket/internal/edgelist"
)

// BuildUserGraph collapses edge-list rows into the user digraph: one node
// per login, one edge per ordered (src, target) pair with per-action
// interaction counts.
func BuildUserGraph(edges []edgelist.Edge) *UserGraph {
	g := NewUserGraph()
	for _, e := range edges {
		g.addNode(e.Src, e.SrcCompany)
		g.addNode(e.Target, e.TargetCompany)
		g.addInteraction(e)
	}
	return g
}

// AggregateCompanies projects the user graph onto companies for one action
// subset. A company-pair edge's weight is the number of distinct user-pair
// edges that collapsed onto it and carry at least one action in the subset;
// its counts are the summed interaction totals restricted to that subset.
// Every company seen on a user node becomes a node, so companies whose
// users only interact outside the subset still appear, isolated.
func AggregateCompanies(ug *UserGraph, actions []string, categories map[string]int) *CompanyGraph {
	g := NewCompanyGraph()

	for _, node := range ug.Nodes {
		company := g.Nodes[node.Company]
		if company == nil {
			category := categories[node.Company]
			company = &CompanyNode{
				Name:     node.Company,
				Category: category,
				Label:    edgelist.LabelFor(category),
			}
			g.Nodes[node.Company] = company
		}
		company.Users++
	}

	for _, edge := range ug.Edges {
		counts := edge.Counts.Restrict(actions)
		if counts.Total() == 0 {
			continue
		}
		src := ug.Nodes[edge.Source].Company
		target := ug.Nodes[edge.Target].Company

		key := pairKey(src, target)
		companyEdge, ok := g.Edges[key]
		if !ok {
			companyEdge = &CompanyEdge{Source: src, Target: target}
			g.Edges[key] = companyEdge
		}
		companyEdge.Weight++
		companyEdge.Counts.Add(edgelist.ActionFollows, counts.Follows)
		companyEdge.Counts.Add(edgelist.ActionStars, counts.Stars)
		companyEdge.Counts.Add(edgelist.ActionWatches, counts.Watches)
		companyEdge.Counts.Add(edgelist.ActionForks, counts.Forks)
	}

	return g
}
