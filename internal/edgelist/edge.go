// Package edgelist expands scraped user records into a flat list of
// directed interaction edges annotated with each party's resolved company
// and category.
package edgelist

// Action kinds. Follows, stars and watches are low-effort attention
// signals; forks are the higher-effort collaboration signal.
const (
	ActionFollows = "follows"
	ActionStars   = "stars"
	ActionWatches = "watches"
	ActionForks   = "forks"
)

var (
	AllActions           = []string{ActionFollows, ActionStars, ActionWatches, ActionForks}
	AttentionActions     = []string{ActionFollows, ActionStars, ActionWatches}
	CollaborationActions = []string{ActionForks}
)

// CategoryLabels translates the analyst-assigned ordinal company category
// into the label used in figures and appendix tables.
var CategoryLabels = map[int]string{
	1: "1 Digital and marketing consultancies",
	2: "2 Bespoke app companies",
	3: "3 Data-broker- and infrastructure companies",
	4: "4 Companies with specific digital part/app as part of service/product",
}

// LabelFor returns the display label for a category, "NA" when the
// category is unmapped.
func LabelFor(category int) string {
	if label, ok := CategoryLabels[category]; ok {
		return label
	}
	return "NA"
}

// Edge is one directed interaction instance between two resolved users.
// DIntra and DInter are mutually exclusive; the constructor only emits
// edges where both companies resolved, so exactly one of them is 1.
// Category pointers are nil for companies absent from the side table,
// serializing as JSON null rather than a fake ordinal.
type Edge struct {
	Src            string `json:"src"`
	Target         string `json:"target"`
	SrcCompany     string `json:"src_company"`
	TargetCompany  string `json:"target_company"`
	SrcCategory    *int   `json:"src_company_category"`
	SrcLabel       string `json:"src_company_label"`
	TargetCategory *int   `json:"target_company_category"`
	TargetLabel    string `json:"target_company_label"`
	DIntra         int    `json:"d_intra_level"`
	DInter         int    `json:"d_inter_level"`
	EdgeRepo       string `json:"edge_repo,omitempty"`
	Action         string `json:"action"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// Subset keeps the edges whose action is in the given set.
func Subset(edges []Edge, actions []string) []Edge {
	keep := make(map[string]bool, len(actions))
	for _, action := range actions {
		keep[action] = true
	}
	var subset []Edge
	for _, edge := range edges {
		if keep[edge.Action] {
			subset = append(subset, edge)
		}
	}
	return subset
}
