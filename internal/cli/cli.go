// Package cli assembles the ghmarket command tree.
package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/sodaslab/ghmarket/internal/config"
	"github.com/sodaslab/ghmarket/internal/edgelist"
	"github.com/sodaslab/ghmarket/internal/github"
	"github.com/sodaslab/ghmarket/internal/graph"
	"github.com/sodaslab/ghmarket/internal/identity"
	"github.com/sodaslab/ghmarket/internal/resolve"
	"github.com/sodaslab/ghmarket/internal/scrape"
	"github.com/sodaslab/ghmarket/internal/service"
	"github.com/sodaslab/ghmarket/internal/store"
	"github.com/sodaslab/ghmarket/internal/utils"
)

func NewApp() *cli.App {
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Directory holding the crawl logs and graph artifacts",
		Value:   "data",
	}

	return &cli.App{
		Name:    "ghmarket",
		Usage:   "Crawl GitHub for Danish software-company employees and build their interaction graphs",
		Version: "v" + utils.Version(),
		Commands: []*cli.Command{
			{
				Name:      "crawl",
				Usage:     "Search company queries and scrape matching Danish users",
				ArgsUsage: "[company query ...]",
				Flags: []cli.Flag{
					outputFlag,
					&cli.StringFlag{
						Name:    "token",
						Aliases: []string{"t"},
						Usage:   "GitHub personal access token",
						EnvVars: []string{"GHMARKET_TOKEN"},
					},
					&cli.StringFlag{
						Name:  "tokens",
						Usage: "File with one GitHub token per line, rotated when rate limited",
					},
					&cli.StringFlag{
						Name:    "companies",
						Aliases: []string{"c"},
						Usage:   "File with one company search query per line",
					},
					&cli.IntFlag{
						Name:  "repo-limit",
						Usage: "Skip accounts with more public repositories than this",
						Value: 300,
					},
					&cli.BoolFlag{
						Name:  "no-location-filter",
						Usage: "Search without the Danish location qualifiers",
					},
					&cli.BoolFlag{
						Name:  "location-only",
						Usage: "Accept users on location evidence alone, without a company match",
					},
					&cli.DurationFlag{
						Name:  "buffer",
						Usage: "Extra wait past the rate-limit reset time",
						Value: 90 * time.Second,
					},
				},
				Action: runCrawl,
			},
			{
				Name:   "resolve",
				Usage:  "Interactively collapse ambiguous company matches",
				Flags:  []cli.Flag{outputFlag},
				Action: runResolve,
			},
			{
				Name:  "graph",
				Usage: "Build the edge list and company graph from the crawl logs",
				Flags: []cli.Flag{
					outputFlag,
					&cli.StringFlag{
						Name:  "categories",
						Usage: "JSONL side table mapping companies to analyst categories",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Action subset: all, attention or collaboration",
						Value: "all",
					},
				},
				Action: runGraph,
			},
		},
	}
}

func runCrawl(c *cli.Context) error {
	cfg, err := config.ParseCrawlConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Paths.Ensure(); err != nil {
		return err
	}

	tokens, err := github.CollectTokens(c)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return fmt.Errorf("no GitHub tokens: set --token, --tokens or GHMARKET_TOKENS")
	}
	client := github.NewClient(tokens, cfg.Buffer)
	color.Blue("Using %d token(s)", client.Size())

	attempted, err := store.LoadAttempts(cfg.Paths.Attempts())
	if err != nil {
		return err
	}
	users, err := store.LoadUsers(cfg.Paths.Users())
	if err != nil {
		return err
	}
	scraped := make(map[string]bool, len(users))
	for login := range users {
		scraped[login] = true
	}
	companies, err := store.LoadCompanies(cfg.Paths.Companies())
	if err != nil {
		return err
	}

	session := scrape.NewSession(attempted, scraped, companies)
	resolver := identity.NewResolver(identity.NewGeoClient())
	scraper := scrape.NewScraper(client, resolver, cfg.RepoLimit, session)

	return service.NewOrchestrator(client, scraper, cfg).Run(c.Context, cfg.Companies)
}

func runResolve(c *cli.Context) error {
	paths := config.NewPaths(c.String("output"))

	runner := resolve.NewRunner(resolve.NewPrompter(os.Stdin, os.Stdout))
	summary, err := runner.Run(paths.Users(), paths.Resolutions())
	if err != nil {
		return err
	}

	color.Green("Resolved %d user(s), skipped %d", summary.Resolved, summary.Skipped)
	if summary.Remaining > 0 {
		color.Yellow("%d ambiguous user(s) remaining: rerun to continue", summary.Remaining)
	}
	return nil
}

func runGraph(c *cli.Context) error {
	cfg, err := config.ParseGraphConfig(c)
	if err != nil {
		return err
	}

	records, err := store.LoadUsers(cfg.Paths.Users())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no users in %s: run crawl first", cfg.Paths.Users())
	}
	resolutions, err := store.LoadResolutions(cfg.Paths.Resolutions())
	if err != nil {
		return err
	}

	var categories map[string]int
	if cfg.Categories != "" {
		categories, err = store.LoadCategories(cfg.Categories)
		if err != nil {
			return err
		}
	}

	logins := make([]string, 0, len(records))
	for login := range records {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	ordered := make([]*scrape.UserRecord, 0, len(records))
	for _, login := range logins {
		ordered = append(ordered, records[login])
	}

	lookup := edgelist.NewLookup(records, resolutions, categories)
	edges := edgelist.NewBuilder(lookup).Build(ordered)
	if err := store.WriteEdges(cfg.Paths.Edges(), edges); err != nil {
		return err
	}
	color.Blue("Wrote %d edges to %s", len(edges), cfg.Paths.Edges())

	userGraph := graph.BuildUserGraph(edges)
	companyGraph := graph.AggregateCompanies(userGraph, actionsFor(cfg.Kind), categories)

	gexfPath := cfg.Paths.GEXF(cfg.Kind)
	f, err := os.Create(gexfPath)
	if err != nil {
		return err
	}
	defer f.Close()
	description := fmt.Sprintf("Company interaction graph (%s actions)", cfg.Kind)
	if err := graph.WriteCompanyGEXF(f, companyGraph, description); err != nil {
		return err
	}

	color.Green("User graph: %d nodes, %d edges", userGraph.NodeCount(), userGraph.EdgeCount())
	color.Green("Company graph: %d nodes, %d edges, density %.4f",
		companyGraph.NodeCount(), companyGraph.EdgeCount(), companyGraph.Density())
	color.Green("Wrote %s", gexfPath)
	return nil
}

func actionsFor(kind string) []string {
	switch kind {
	case "attention":
		return edgelist.AttentionActions
	case "collaboration":
		return edgelist.CollaborationActions
	}
	return edgelist.AllActions
}
