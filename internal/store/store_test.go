package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sodaslab/ghmarket/internal/edgelist"
	"github.com/sodaslab/ghmarket/internal/scrape"
)

func TestLoadUsersMissingFile(t *testing.T) {
	users, err := LoadUsers(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 0 {
		t.Errorf("users = %v, want empty", users)
	}
}

func TestUserRoundTripLaterLinesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.jsonl")

	first := &scrape.UserRecord{
		Login:           "jane",
		SearchLabel:     "trifork",
		InferredCompany: []string{"trifork"},
		FollowsIn:       []scrape.Interaction{{OwnerLogin: "bob", CreatedAt: "2019-03-04"}},
	}
	second := &scrape.UserRecord{
		Login:           "jane",
		SearchLabel:     "trifork",
		InferredCompany: []string{"trifork", "netcompany"},
	}
	for _, rec := range []*scrape.UserRecord{first, second} {
		if err := AppendUser(path, rec); err != nil {
			t.Fatal(err)
		}
	}

	users, err := LoadUsers(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	if !reflect.DeepEqual(users["jane"].InferredCompany, []string{"trifork", "netcompany"}) {
		t.Errorf("reload kept the earlier record: %+v", users["jane"])
	}
}

func TestAttemptAndCompanySets(t *testing.T) {
	dir := t.TempDir()
	attempts := filepath.Join(dir, "attempted.jsonl")
	companies := filepath.Join(dir, "companies.jsonl")

	for _, login := range []string{"jane", "bob", "jane"} {
		if err := AppendAttempt(attempts, login); err != nil {
			t.Fatal(err)
		}
	}
	if err := AppendCompany(companies, "trifork"); err != nil {
		t.Fatal(err)
	}

	gotAttempts, err := LoadAttempts(attempts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotAttempts, map[string]bool{"jane": true, "bob": true}) {
		t.Errorf("attempts = %v", gotAttempts)
	}

	gotCompanies, err := LoadCompanies(companies)
	if err != nil {
		t.Fatal(err)
	}
	if !gotCompanies["trifork"] {
		t.Errorf("companies = %v", gotCompanies)
	}
}

func TestResolutionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolved.jsonl")

	if err := AppendResolution(path, Resolution{UserLogin: "jane", ResolvedCompany: "trifork"}); err != nil {
		t.Fatal(err)
	}
	if err := AppendResolution(path, Resolution{UserLogin: "jane", ResolvedCompany: "netcompany"}); err != nil {
		t.Fatal(err)
	}

	resolved, err := LoadResolutions(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved["jane"] != "netcompany" {
		t.Errorf("resolved = %v, want the later decision", resolved)
	}
}

func TestLoadCategoriesAcceptsBothKeySpellings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.jsonl")
	lines := `{"company":"trifork","category":2}
{"søgeord":"netcompany","new_company_category":"3"}
{"company":"","category":1}
`
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}

	categories, err := LoadCategories(path)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"trifork": 2, "netcompany": 3}
	if !reflect.DeepEqual(categories, want) {
		t.Errorf("categories = %v, want %v", categories, want)
	}
}

func TestEdgesRoundTripAndRebuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edgelist.jsonl")

	edges := []edgelist.Edge{
		{Src: "a", Target: "b", SrcCompany: "trifork", TargetCompany: "netcompany",
			DInter: 1, Action: edgelist.ActionStars, EdgeRepo: "toolkit/a", CreatedAt: "2022-02-03"},
		{Src: "b", Target: "a", SrcCompany: "netcompany", TargetCompany: "trifork",
			DInter: 1, Action: edgelist.ActionFollows},
	}
	if err := WriteEdges(path, edges); err != nil {
		t.Fatal(err)
	}

	got, err := LoadEdges(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, edges) {
		t.Errorf("edges = %+v, want %+v", got, edges)
	}

	// WriteEdges replaces: rebuilding with fewer edges must not leave stale lines.
	if err := WriteEdges(path, edges[:1]); err != nil {
		t.Fatal(err)
	}
	got, err = LoadEdges(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d edges after rebuild, want 1", len(got))
	}
}
