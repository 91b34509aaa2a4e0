package identity

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

// Fields bundles the free-text profile fields inference runs on.
type Fields struct {
	Login    string
	Company  string
	Email    string
	Bio      string
	Blog     string
	Location string
}

// Match is the evidence a user was accepted on: which Danish location
// keywords (or geocoded tokens) matched, and for each candidate company the
// literal substrings that matched it.
type Match struct {
	LocationEvidence []string
	CompanyMatches   map[string][]string
}

// Companies lists the candidate company keys of a match.
func (m *Match) Companies() []string {
	if m == nil || len(m.CompanyMatches) == 0 {
		return nil
	}
	companies := make([]string, 0, len(m.CompanyMatches))
	for company := range m.CompanyMatches {
		companies = append(companies, company)
	}
	return companies
}

// Resolver classifies profile text as Danish-located and employed by a
// known company. Location inference runs first and short-circuits: with no
// Danish evidence the company dictionary is never consulted.
type Resolver struct {
	geo Geocoder
}

func NewResolver(geo Geocoder) *Resolver {
	compileOnce.Do(compilePatterns)
	return &Resolver{geo: geo}
}

// Resolve returns nil unless the user both shows Danish location evidence
// and matches at least one company pattern.
func (r *Resolver) Resolve(ctx context.Context, f Fields) *Match {
	corpus := corpusOf(f)

	location := r.LocationEvidence(ctx, corpus, f.Location)
	if len(location) == 0 {
		return nil
	}

	companies := r.CompanyMatches(corpus)
	if len(companies) == 0 {
		return nil
	}

	return &Match{LocationEvidence: location, CompanyMatches: companies}
}

// LocationOnly runs the location stage alone and, when it passes, the
// company dictionary without requiring a hit: the company map may be empty.
// Used when company membership is established by other means.
func (r *Resolver) LocationOnly(ctx context.Context, f Fields) ([]string, map[string][]string) {
	corpus := corpusOf(f)
	location := r.LocationEvidence(ctx, corpus, f.Location)
	if len(location) == 0 {
		return nil, nil
	}
	return location, r.CompanyMatches(corpus)
}

// LocationEvidence matches the Danish keyword whitelist against the corpus
// plus the location field, falling back to per-token geocoding of the
// location field when no keyword hits. A failed lookup for one token is
// swallowed; the token simply contributes no evidence.
func (r *Resolver) LocationEvidence(ctx context.Context, corpus []string, location string) []string {
	combined := strings.Join(append(append([]string{}, corpus...), strings.ToLower(location)), " ")
	if keywords := findAllGroup(locationRe, combined); len(keywords) > 0 {
		return keywords
	}

	if strings.TrimSpace(location) == "" || r.geo == nil {
		return nil
	}

	var evidence []string
	for _, token := range strings.Fields(location) {
		token = strings.Trim(token, ",")
		if token == "" || isNumeric(token) {
			continue
		}
		inDK, err := r.geo.InDenmark(ctx, token)
		if err != nil {
			continue
		}
		if inDK {
			evidence = append(evidence, token)
		}
	}
	return evidence
}

// CompanyMatches tests every company pattern against every corpus field and
// records, per company, the literal substring matched in each field that hit.
func (r *Resolver) CompanyMatches(corpus []string) map[string][]string {
	matches := make(map[string][]string)
	for company, re := range compiledCompany {
		for _, field := range corpus {
			// A guard-rejected occurrence does not disqualify the field;
			// scanning continues past it for a later legitimate mention.
			offset := 0
			for offset <= len(field) {
				idx := re.FindStringSubmatchIndex(field[offset:])
				if idx == nil || idx[3] <= idx[2] {
					break
				}
				start, end := offset+idx[2], offset+idx[3]
				if company == "ørsted" && orstedNamesakePrefix.MatchString(field[:start]) {
					offset = end
					continue
				}
				matches[company] = append(matches[company], field[start:end])
				break
			}
		}
	}
	if len(matches) == 0 {
		return nil
	}
	return matches
}

// corpusOf lowercases and collects the non-empty searchable fields. The
// location field is handled separately by the location stage.
func corpusOf(f Fields) []string {
	var corpus []string
	for _, field := range []string{f.Login, f.Company, f.Email, f.Bio, f.Blog} {
		if field != "" {
			corpus = append(corpus, strings.ToLower(field))
		}
	}
	return corpus
}

// findAllGroup collects every occurrence of the pattern's first capture
// group. Scanning resumes at the end of the captured group, not the full
// match, so a boundary character shared by two adjacent keywords serves
// both matches.
func findAllGroup(re *regexp.Regexp, text string) []string {
	var found []string
	pos := 0
	for pos <= len(text) {
		idx := re.FindStringSubmatchIndex(text[pos:])
		if idx == nil || idx[2] < 0 || idx[3] <= idx[2] {
			break
		}
		found = append(found, text[pos+idx[2]:pos+idx[3]])
		pos += idx[3]
	}
	return found
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
