package resolve

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/sodaslab/ghmarket/internal/scrape"
)

// Prompter is the interactive Decider: it prints the record's inference
// evidence and reads the annotator's answer from in.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Decide shows the candidates and profile context, then accepts either a
// candidate number, a free-text company name, an empty line to skip, or
// "q" to end the session.
func (p *Prompter) Decide(rec *scrape.UserRecord) (string, error) {
	fmt.Fprintln(p.out, strings.Repeat("=", 50))
	color.New(color.FgCyan, color.Bold).Fprintf(p.out, "[%s] has multiple company matches:\n", rec.Login)

	for i, company := range rec.InferredCompany {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, company)
	}

	if len(rec.MatchedCompanyStrings) > 0 {
		fmt.Fprintln(p.out, "\nMatched strings:")
		companies := make([]string, 0, len(rec.MatchedCompanyStrings))
		for company := range rec.MatchedCompanyStrings {
			companies = append(companies, company)
		}
		sort.Strings(companies)
		for _, company := range companies {
			fmt.Fprintf(p.out, "  %s: %s\n", company, strings.Join(rec.MatchedCompanyStrings[company], ", "))
		}
	}

	fmt.Fprintln(p.out, "\nProfile:")
	for _, field := range []struct{ name, value string }{
		{"search_with_company", rec.SearchLabel},
		{"usertype", rec.UserType},
		{"listed_company", rec.ListedCompany},
		{"email", rec.Email},
		{"bio", rec.Bio},
		{"blog", rec.Blog},
	} {
		fmt.Fprintf(p.out, "  %s: %s\n", field.name, field.value)
	}

	fmt.Fprint(p.out, "\nCompany number or name (Enter to skip, q to quit): ")
	if !p.in.Scan() {
		return "", ErrInterrupted
	}
	answer := strings.TrimSpace(p.in.Text())

	switch answer {
	case "":
		color.Yellow("Skipped. No changes saved for this user.")
		return "", nil
	case "q", "Q":
		return "", ErrInterrupted
	}

	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(rec.InferredCompany) {
			color.Red("No candidate %d, skipping.", n)
			return "", nil
		}
		return rec.InferredCompany[n-1], nil
	}
	return answer, nil
}
