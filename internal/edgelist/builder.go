package edgelist

import (
	"fmt"

	"github.com/sodaslab/ghmarket/internal/scrape"
)

// Lookup maps logins to their resolved company and companies to their
// category. Only unambiguous records participate; an ambiguous record
// contributes its resolution-log decision or nothing at all.
type Lookup struct {
	userCompany map[string]string
	categories  map[string]int
}

// NewLookup indexes resolved companies once for the whole edge build.
// Resolutions collapse ambiguous inferred sets; records still ambiguous
// after that stay unresolved and their edges are dropped.
func NewLookup(records map[string]*scrape.UserRecord, resolutions map[string]string, categories map[string]int) *Lookup {
	userCompany := make(map[string]string, len(records))
	for login, rec := range records {
		if company, ok := resolutions[login]; ok && company != "" {
			userCompany[login] = company
			continue
		}
		if company, ok := rec.Company(); ok {
			userCompany[login] = company
		}
	}
	if categories == nil {
		categories = make(map[string]int)
	}
	return &Lookup{userCompany: userCompany, categories: categories}
}

// UserCompany returns the resolved company for a login, if any.
func (l *Lookup) UserCompany(login string) (string, bool) {
	company, ok := l.userCompany[login]
	return company, ok
}

// CompanyCategory returns the side-table category for a company, reporting
// whether the company is mapped at all.
func (l *Lookup) CompanyCategory(company string) (int, bool) {
	category, ok := l.categories[company]
	return category, ok
}

// Builder expands user records into the flat directed edge list.
type Builder struct {
	lookup *Lookup
}

func NewBuilder(lookup *Lookup) *Builder {
	return &Builder{lookup: lookup}
}

// Build walks every record's eight interaction lists. Inbound entries
// become counterpart→self edges, outbound entries self→counterpart.
// Interactions touching a login with no resolved company are silently
// dropped, bounding the graph to the crawled and inferred population.
// Repeated identical interactions stay: deduplication belongs to the
// graph aggregator.
func (b *Builder) Build(records []*scrape.UserRecord) []Edge {
	var edges []Edge
	for _, rec := range records {
		relations := rec.Relations()
		for _, action := range AllActions {
			for _, direction := range []string{"in", "out"} {
				for _, item := range relations[action][direction] {
					src, target := rec.Login, item.OwnerLogin
					if direction == "in" {
						src, target = item.OwnerLogin, rec.Login
					}
					if src == "" || target == "" {
						continue
					}
					if edge, ok := b.edge(src, target, action, item); ok {
						edges = append(edges, edge)
					}
				}
			}
		}
	}
	return edges
}

func (b *Builder) edge(src, target, action string, item scrape.Interaction) (Edge, bool) {
	srcCompany, ok := b.lookup.UserCompany(src)
	if !ok {
		return Edge{}, false
	}
	targetCompany, ok := b.lookup.UserCompany(target)
	if !ok {
		return Edge{}, false
	}

	intra, inter := 0, 1
	if srcCompany == targetCompany {
		intra, inter = 1, 0
	}

	var edgeRepo string
	if item.RepoName != "" {
		edgeRepo = fmt.Sprintf("%s/%s", item.RepoName, src)
	}

	srcCategory, srcLabel := categoryOf(b.lookup, srcCompany)
	targetCategory, targetLabel := categoryOf(b.lookup, targetCompany)

	return Edge{
		Src:            src,
		Target:         target,
		SrcCompany:     srcCompany,
		TargetCompany:  targetCompany,
		SrcCategory:    srcCategory,
		SrcLabel:       srcLabel,
		TargetCategory: targetCategory,
		TargetLabel:    targetLabel,
		DIntra:         intra,
		DInter:         inter,
		EdgeRepo:       edgeRepo,
		Action:         action,
		CreatedAt:      item.CreatedAt,
	}, true
}

func categoryOf(lookup *Lookup, company string) (*int, string) {
	category, ok := lookup.CompanyCategory(company)
	if !ok {
		return nil, LabelFor(0)
	}
	return &category, LabelFor(category)
}

// Filter narrows an edge list to the edges touching a company (or a
// specific company pair), optionally restricted by direction and with
// intra-company self-loops excluded. Used by the appendix-table consumers.
func Filter(edges []Edge, company, altCompany, direction string, excludeSelfLoops bool) ([]Edge, error) {
	if direction != "in" && direction != "out" && direction != "all" {
		return nil, fmt.Errorf("invalid direction %q: use 'in', 'out', or 'all'", direction)
	}

	var filtered []Edge
	for _, edge := range edges {
		if company != "" && altCompany == "" {
			if edge.SrcCompany != company && edge.TargetCompany != company {
				continue
			}
		} else if company != "" && altCompany != "" {
			pair := (edge.SrcCompany == company && edge.TargetCompany == altCompany) ||
				(edge.SrcCompany == altCompany && edge.TargetCompany == company)
			if !pair {
				continue
			}
		}
		if excludeSelfLoops && edge.SrcCompany == edge.TargetCompany {
			continue
		}
		if direction == "out" && edge.SrcCompany != company {
			continue
		}
		if direction == "in" && edge.TargetCompany != company {
			continue
		}
		filtered = append(filtered, edge)
	}
	return filtered, nil
}
