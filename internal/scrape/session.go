package scrape

// Session carries the crawl bookkeeping the caller owns and inspects:
// counters plus the already-seen sets reloaded from the append-only logs.
// It replaces hidden package-level counters so concurrent scrapes of
// different sessions cannot bleed into each other.
type Session struct {
	UsersAttempted   int
	UsersScraped     int
	CompaniesScraped int

	attempted map[string]bool
	scraped   map[string]bool
	companies map[string]bool
}

// NewSession seeds a session from the sets reloaded on restart; any of the
// maps may be nil.
func NewSession(attempted, scraped, companies map[string]bool) *Session {
	if attempted == nil {
		attempted = make(map[string]bool)
	}
	if scraped == nil {
		scraped = make(map[string]bool)
	}
	if companies == nil {
		companies = make(map[string]bool)
	}
	return &Session{
		UsersAttempted:   len(attempted),
		UsersScraped:     len(scraped),
		CompaniesScraped: len(companies),
		attempted:        attempted,
		scraped:          scraped,
		companies:        companies,
	}
}

func (s *Session) AlreadyAttempted(login string) bool {
	return s.attempted[login]
}

func (s *Session) MarkAttempted(login string) {
	if !s.attempted[login] {
		s.attempted[login] = true
		s.UsersAttempted++
	}
}

func (s *Session) MarkScraped(login string) {
	if !s.scraped[login] {
		s.scraped[login] = true
		s.UsersScraped++
	}
}

func (s *Session) CompanyDone(company string) bool {
	return s.companies[company]
}

func (s *Session) MarkCompany(company string) {
	if !s.companies[company] {
		s.companies[company] = true
		s.CompaniesScraped++
	}
}
