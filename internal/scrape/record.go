package scrape

// Interaction is a single entry of a relation list: the counterpart login,
// the repository the interaction happened on (empty for follows), and a
// date. Field names match the append-only log schema.
type Interaction struct {
	RepoName   string `json:"repo_name,omitempty"`
	OwnerLogin string `json:"owner_login"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// UserRecord is one accepted user: the raw profile fields, the inference
// evidence, and the eight interaction lists. Records are immutable once
// assembled; the only later mutation is the one-time collapse of an
// ambiguous inferred-company set during manual resolution.
type UserRecord struct {
	Login                 string              `json:"user_login"`
	SearchLabel           string              `json:"search_with_company"`
	ListedCompany         string              `json:"listed_company"`
	InferredCompany       []string            `json:"inferred_company"`
	MatchedCompanyStrings map[string][]string `json:"matched_company_strings"`
	UserType              string              `json:"usertype"`
	Email                 string              `json:"email"`
	Location              string              `json:"github_location"`
	MatchedLocation       []string            `json:"matched_location"`
	Bio                   string              `json:"bio"`
	Blog                  string              `json:"blog"`
	RepoNames             []string            `json:"repo_names"`
	FollowsIn             []Interaction       `json:"follows_in"`
	FollowsOut            []Interaction       `json:"follows_out"`
	WatchesIn             []Interaction       `json:"watches_in"`
	WatchesOut            []Interaction       `json:"watches_out"`
	StarsIn               []Interaction       `json:"stars_in"`
	StarsOut              []Interaction       `json:"stars_out"`
	ForksIn               []Interaction       `json:"forks_in"`
	ForksOut              []Interaction       `json:"forks_out"`
}

// Ambiguous reports whether the inferred-company set still needs manual
// resolution.
func (r *UserRecord) Ambiguous() bool {
	return len(r.InferredCompany) > 1
}

// Company returns the single resolved company, if there is one.
func (r *UserRecord) Company() (string, bool) {
	if len(r.InferredCompany) == 1 {
		return r.InferredCompany[0], true
	}
	return "", false
}

// Relations returns the eight interaction lists keyed by action and
// direction, the shape the edge-list constructor consumes.
func (r *UserRecord) Relations() map[string]map[string][]Interaction {
	return map[string]map[string][]Interaction{
		"follows": {"in": r.FollowsIn, "out": r.FollowsOut},
		"stars":   {"in": r.StarsIn, "out": r.StarsOut},
		"watches": {"in": r.WatchesIn, "out": r.WatchesOut},
		"forks":   {"in": r.ForksIn, "out": r.ForksOut},
	}
}
