package resolve

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sodaslab/ghmarket/internal/scrape"
	"github.com/sodaslab/ghmarket/internal/store"
)

// scriptedDecider replays canned answers and records which logins it saw.
type scriptedDecider struct {
	answers []string
	seen    []string
}

func (d *scriptedDecider) Decide(rec *scrape.UserRecord) (string, error) {
	d.seen = append(d.seen, rec.Login)
	if len(d.answers) == 0 {
		return "", ErrInterrupted
	}
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer, nil
}

func writeUserLog(t *testing.T, records ...*scrape.UserRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.jsonl")
	for _, rec := range records {
		if err := store.AppendUser(path, rec); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestRunSkipsUnambiguousRecords(t *testing.T) {
	usersPath := writeUserLog(t,
		&scrape.UserRecord{Login: "alice", InferredCompany: []string{"trifork"}},
		&scrape.UserRecord{Login: "bob", InferredCompany: []string{"trifork", "uber"}},
	)
	resolutionPath := filepath.Join(t.TempDir(), "resolved.jsonl")

	decider := &scriptedDecider{answers: []string{"uber"}}
	summary, err := NewRunner(decider).Run(usersPath, resolutionPath)
	if err != nil {
		t.Fatal(err)
	}

	if len(decider.seen) != 1 || decider.seen[0] != "bob" {
		t.Errorf("decider saw %v, want only bob", decider.seen)
	}
	if summary.Resolved != 1 || summary.AutoSkipped != 1 {
		t.Errorf("summary = %+v", summary)
	}

	resolved, err := store.LoadResolutions(resolutionPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved["bob"] != "uber" {
		t.Errorf("resolutions = %v", resolved)
	}
}

func TestRunResumesAfterInterrupt(t *testing.T) {
	usersPath := writeUserLog(t,
		&scrape.UserRecord{Login: "alice", InferredCompany: []string{"trifork", "uber"}},
		&scrape.UserRecord{Login: "bob", InferredCompany: []string{"lego", "maersk"}},
		&scrape.UserRecord{Login: "carol", InferredCompany: []string{"zendesk", "unity"}},
	)
	resolutionPath := filepath.Join(t.TempDir(), "resolved.jsonl")

	// First session: one decision, then the annotator quits.
	first := &scriptedDecider{answers: []string{"trifork"}}
	summary, err := NewRunner(first).Run(usersPath, resolutionPath)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Resolved != 1 || summary.Remaining != 2 {
		t.Errorf("first session summary = %+v", summary)
	}

	// Second session resumes past alice without prompting for her.
	second := &scriptedDecider{answers: []string{"lego", "unity"}}
	summary, err = NewRunner(second).Run(usersPath, resolutionPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(second.seen, ",") != "bob,carol" {
		t.Errorf("second session saw %v, want bob then carol", second.seen)
	}
	if summary.Resolved != 2 || summary.AutoSkipped != 1 {
		t.Errorf("second session summary = %+v", summary)
	}

	resolved, err := store.LoadResolutions(resolutionPath)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"alice": "trifork", "bob": "lego", "carol": "unity"}
	for login, company := range want {
		if resolved[login] != company {
			t.Errorf("resolved[%s] = %q, want %q", login, resolved[login], company)
		}
	}
}

func TestRunEmptyAnswerSkipsWithoutRecording(t *testing.T) {
	usersPath := writeUserLog(t,
		&scrape.UserRecord{Login: "alice", InferredCompany: []string{"trifork", "uber"}},
	)
	resolutionPath := filepath.Join(t.TempDir(), "resolved.jsonl")

	decider := &scriptedDecider{answers: []string{""}}
	summary, err := NewRunner(decider).Run(usersPath, resolutionPath)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 1 || summary.Resolved != 0 {
		t.Errorf("summary = %+v", summary)
	}

	resolved, err := store.LoadResolutions(resolutionPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(resolved) != 0 {
		t.Errorf("skip must not write a resolution, got %v", resolved)
	}
}

func TestPrompterAcceptsNumberAndName(t *testing.T) {
	rec := &scrape.UserRecord{
		Login:           "alice",
		InferredCompany: []string{"trifork", "uber"},
		MatchedCompanyStrings: map[string][]string{
			"trifork": {"trifork"},
			"uber":    {"uber"},
		},
	}

	tests := []struct {
		name    string
		input   string
		company string
		wantErr error
	}{
		{"candidate number", "2\n", "uber", nil},
		{"free text", "netcompany\n", "netcompany", nil},
		{"out of range skips", "9\n", "", nil},
		{"blank skips", "\n", "", nil},
		{"quit", "q\n", "", ErrInterrupted},
		{"eof", "", "", ErrInterrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			p := NewPrompter(strings.NewReader(tt.input), &out)
			company, err := p.Decide(rec)
			if company != tt.company || err != tt.wantErr {
				t.Errorf("Decide() = %q, %v; want %q, %v", company, err, tt.company, tt.wantErr)
			}
			if !strings.Contains(out.String(), "[alice] has multiple company matches") {
				t.Error("prompt header missing")
			}
		})
	}
}
