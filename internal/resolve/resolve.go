// Package resolve collapses ambiguous inferred-company sets into a single
// company per user, recording each decision in an append-only JSONL log so
// an interrupted session resumes where it left off.
package resolve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sodaslab/ghmarket/internal/scrape"
	"github.com/sodaslab/ghmarket/internal/store"
)

// ErrInterrupted signals that the annotator quit; everything decided so
// far is already on disk.
var ErrInterrupted = errors.New("resolution interrupted")

// Decider picks the company for one ambiguous record. Returning an empty
// company skips the record; returning ErrInterrupted ends the session.
type Decider interface {
	Decide(rec *scrape.UserRecord) (string, error)
}

// Runner drives one resolution session over a user log.
type Runner struct {
	decider Decider
}

func NewRunner(decider Decider) *Runner {
	return &Runner{decider: decider}
}

// Summary reports what a session did.
type Summary struct {
	Resolved    int
	AutoSkipped int
	Skipped     int
	Remaining   int
}

// Run walks the user log in stable login order. Records already covered by
// the resolution log or holding at most one inferred company are passed
// over; the rest go to the decider, and each decision is appended to the
// log before the next prompt. A decider interrupt ends the walk cleanly.
func (r *Runner) Run(usersPath, resolutionPath string) (*Summary, error) {
	records, err := store.LoadUsers(usersPath)
	if err != nil {
		return nil, fmt.Errorf("loading user log: %w", err)
	}
	resolved, err := store.LoadResolutions(resolutionPath)
	if err != nil {
		return nil, fmt.Errorf("loading resolution log: %w", err)
	}

	logins := make([]string, 0, len(records))
	for login := range records {
		logins = append(logins, login)
	}
	sort.Strings(logins)

	summary := &Summary{}
	for _, login := range logins {
		rec := records[login]
		if _, done := resolved[login]; done {
			summary.AutoSkipped++
			continue
		}
		if !rec.Ambiguous() {
			summary.AutoSkipped++
			continue
		}

		company, err := r.decider.Decide(rec)
		if errors.Is(err, ErrInterrupted) {
			summary.Remaining = remaining(logins[indexOf(logins, login):], records, resolved)
			return summary, nil
		}
		if err != nil {
			return summary, err
		}
		if company == "" {
			summary.Skipped++
			continue
		}

		if err := store.AppendResolution(resolutionPath, store.Resolution{
			UserLogin:       login,
			ResolvedCompany: company,
		}); err != nil {
			return summary, fmt.Errorf("recording resolution for %s: %w", login, err)
		}
		resolved[login] = company
		summary.Resolved++
	}
	return summary, nil
}

func indexOf(logins []string, login string) int {
	for i, l := range logins {
		if l == login {
			return i
		}
	}
	return len(logins)
}

func remaining(logins []string, records map[string]*scrape.UserRecord, resolved map[string]string) int {
	n := 0
	for _, login := range logins {
		if _, done := resolved[login]; done {
			continue
		}
		if records[login].Ambiguous() {
			n++
		}
	}
	return n
}
