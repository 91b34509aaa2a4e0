// Package service drives the crawl: one pass over the company queries,
// searching, scraping and persisting one user at a time.
package service

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/sodaslab/ghmarket/internal/config"
	"github.com/sodaslab/ghmarket/internal/github"
	"github.com/sodaslab/ghmarket/internal/scrape"
	"github.com/sodaslab/ghmarket/internal/store"
)

type Orchestrator struct {
	client         *github.Client
	scraper        *scrape.Scraper
	paths          config.Paths
	locationFilter bool
	companyFilter  bool
}

func NewOrchestrator(client *github.Client, scraper *scrape.Scraper, cfg *config.CrawlConfig) *Orchestrator {
	return &Orchestrator{
		client:         client,
		scraper:        scraper,
		paths:          cfg.Paths,
		locationFilter: cfg.LocationFilter,
		companyFilter:  cfg.CompanyFilter,
	}
}

// Run crawls each company query in order. Companies already marked done
// and users already attempted in an earlier run are skipped, so a crawl
// interrupted anywhere resumes from its logs. Every persisted line is
// appended before the next user is touched.
func (o *Orchestrator) Run(ctx context.Context, companies []string) error {
	session := o.scraper.Session()

	for _, company := range companies {
		if session.CompanyDone(company) {
			color.Blue("Skipping %s: already crawled", company)
			continue
		}

		if err := o.crawlCompany(ctx, company); err != nil {
			return fmt.Errorf("crawling %s: %w", company, err)
		}

		session.MarkCompany(company)
		if err := store.AppendCompany(o.paths.Companies(), company); err != nil {
			return fmt.Errorf("recording company %s: %w", company, err)
		}
	}

	color.Green("\nDone: %d users attempted, %d accepted, %d companies",
		session.UsersAttempted, session.UsersScraped, session.CompaniesScraped)
	o.client.DisplayRate(ctx)
	return nil
}

func (o *Orchestrator) crawlCompany(ctx context.Context, company string) error {
	color.Cyan("Searching users for: %s", company)

	hits, err := o.client.SearchUsers(ctx, company, o.locationFilter)
	if err != nil {
		return fmt.Errorf("searching users: %w", err)
	}
	if len(hits) == 0 {
		color.Yellow("No users found for %s", company)
		return nil
	}

	bar := progressbar.NewOptions(len(hits),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(10),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Scraping %s[reset]", company)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]#[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	session := o.scraper.Session()
	for _, hit := range hits {
		bar.Add(1)

		login := hit.GetLogin()
		if login == "" || session.AlreadyAttempted(login) {
			continue
		}

		// Search results only carry a login; the detail fetch fills in
		// location, company, bio and the rest.
		user, err := o.client.GetUser(ctx, login)
		if err != nil {
			color.Yellow("Skipping %s: %v", login, err)
			continue
		}

		rec := o.scraper.UserInfo(ctx, user, company, o.companyFilter)
		if err := store.AppendAttempt(o.paths.Attempts(), login); err != nil {
			return fmt.Errorf("recording attempt for %s: %w", login, err)
		}
		if rec == nil {
			continue
		}
		if err := store.AppendUser(o.paths.Users(), rec); err != nil {
			return fmt.Errorf("recording user %s: %w", login, err)
		}
	}

	fmt.Fprintln(os.Stderr)
	return nil
}
