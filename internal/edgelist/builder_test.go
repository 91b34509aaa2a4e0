package edgelist

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sodaslab/ghmarket/internal/scrape"
)

func testLookup() *Lookup {
	records := map[string]*scrape.UserRecord{
		"alice": {Login: "alice", InferredCompany: []string{"trifork"}},
		"bob":   {Login: "bob", InferredCompany: []string{"netcompany"}},
		"carol": {Login: "carol", InferredCompany: []string{"trifork", "netcompany"}},
	}
	resolutions := map[string]string{"carol": "trifork"}
	categories := map[string]int{"trifork": 2, "netcompany": 3}
	return NewLookup(records, resolutions, categories)
}

func TestLookupResolution(t *testing.T) {
	lookup := testLookup()

	tests := []struct {
		login   string
		company string
		ok      bool
	}{
		{"alice", "trifork", true},
		{"bob", "netcompany", true},
		{"carol", "trifork", true}, // ambiguous, collapsed by resolution log
		{"dave", "", false},
	}
	for _, tt := range tests {
		company, ok := lookup.UserCompany(tt.login)
		if company != tt.company || ok != tt.ok {
			t.Errorf("UserCompany(%q) = %q, %v; want %q, %v", tt.login, company, ok, tt.company, tt.ok)
		}
	}
}

func TestBuildDirectionsAndAnnotations(t *testing.T) {
	rec := &scrape.UserRecord{
		Login:           "alice",
		InferredCompany: []string{"trifork"},
		StarsIn: []scrape.Interaction{
			{RepoName: "toolkit", OwnerLogin: "bob", CreatedAt: "2023-04-01"},
		},
		FollowsOut: []scrape.Interaction{
			{OwnerLogin: "carol", CreatedAt: "2022-01-15"},
		},
	}

	edges := NewBuilder(testLookup()).Build([]*scrape.UserRecord{rec})
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}

	follow := edges[0]
	if follow.Action != ActionFollows || follow.Src != "alice" || follow.Target != "carol" {
		t.Errorf("outbound follow = %+v", follow)
	}
	if follow.DIntra != 1 || follow.DInter != 0 {
		t.Errorf("trifork->trifork follow: d_intra=%d d_inter=%d, want 1, 0", follow.DIntra, follow.DInter)
	}
	if follow.EdgeRepo != "" {
		t.Errorf("follow edge carries repo %q, want none", follow.EdgeRepo)
	}

	star := edges[1]
	if star.Src != "bob" || star.Target != "alice" {
		t.Errorf("inbound star src=%q target=%q, want bob -> alice", star.Src, star.Target)
	}
	if star.DIntra != 0 || star.DInter != 1 {
		t.Errorf("netcompany->trifork star: d_intra=%d d_inter=%d, want 0, 1", star.DIntra, star.DInter)
	}
	if star.EdgeRepo != "toolkit/bob" {
		t.Errorf("edge_repo = %q, want toolkit/bob", star.EdgeRepo)
	}
	if star.SrcCategory == nil || *star.SrcCategory != 3 {
		t.Errorf("src category = %v, want 3", star.SrcCategory)
	}
	if star.TargetCategory == nil || *star.TargetCategory != 2 {
		t.Errorf("target category = %v, want 2", star.TargetCategory)
	}
	if star.TargetLabel != CategoryLabels[2] {
		t.Errorf("target label = %q", star.TargetLabel)
	}
}

func TestBuildDropsUnresolvedEndpoints(t *testing.T) {
	rec := &scrape.UserRecord{
		Login:           "alice",
		InferredCompany: []string{"trifork"},
		FollowsIn: []scrape.Interaction{
			{OwnerLogin: "stranger", CreatedAt: "2021-06-01"},
			{OwnerLogin: "bob", CreatedAt: "2021-07-01"},
		},
	}

	edges := NewBuilder(testLookup()).Build([]*scrape.UserRecord{rec})
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1 (stranger has no resolved company)", len(edges))
	}
	if edges[0].Src != "bob" {
		t.Errorf("surviving edge src = %q, want bob", edges[0].Src)
	}
}

func TestBuildUnmappedCategoryDefaultsToNA(t *testing.T) {
	records := map[string]*scrape.UserRecord{
		"alice": {Login: "alice", InferredCompany: []string{"unlisted"}},
		"bob":   {Login: "bob", InferredCompany: []string{"unlisted"}},
	}
	lookup := NewLookup(records, nil, nil)
	rec := records["alice"]
	rec.FollowsOut = []scrape.Interaction{{OwnerLogin: "bob"}}

	edges := NewBuilder(lookup).Build([]*scrape.UserRecord{rec})
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	if edges[0].SrcCategory != nil || edges[0].SrcLabel != "NA" {
		t.Errorf("unmapped company: category=%v label=%q, want nil, NA", edges[0].SrcCategory, edges[0].SrcLabel)
	}

	// Unmapped categories serialize as null, not a fake ordinal.
	line, err := json.Marshal(edges[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(line), `"src_company_category":null`) {
		t.Errorf("serialized edge = %s, want null src category", line)
	}
}

func TestFilter(t *testing.T) {
	edges := []Edge{
		{Src: "a", Target: "b", SrcCompany: "trifork", TargetCompany: "netcompany"},
		{Src: "b", Target: "a", SrcCompany: "netcompany", TargetCompany: "trifork"},
		{Src: "a", Target: "c", SrcCompany: "trifork", TargetCompany: "trifork"},
		{Src: "c", Target: "d", SrcCompany: "uber", TargetCompany: "netcompany"},
	}

	got, err := Filter(edges, "trifork", "", "all", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("company filter: got %d edges, want 3", len(got))
	}

	got, err = Filter(edges, "trifork", "", "out", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Target != "b" {
		t.Errorf("out filter without self-loops: %+v", got)
	}

	got, err = Filter(edges, "trifork", "netcompany", "all", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("pair filter: got %d edges, want 2", len(got))
	}

	if _, err := Filter(edges, "trifork", "", "sideways", false); err == nil {
		t.Error("invalid direction accepted")
	}
}
