// Package config turns CLI flags into the typed configuration the
// subcommands run on, and fixes the layout of the crawl output directory.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// Paths is the fixed file layout inside the output directory. Every
// subcommand reads and writes the same names so crawl, resolve and graph
// compose without extra flags.
type Paths struct {
	Dir string
}

func NewPaths(dir string) Paths {
	return Paths{Dir: dir}
}

func (p Paths) Users() string       { return filepath.Join(p.Dir, "users.jsonl") }
func (p Paths) Attempts() string    { return filepath.Join(p.Dir, "attempted_users.jsonl") }
func (p Paths) Companies() string   { return filepath.Join(p.Dir, "scraped_companies.jsonl") }
func (p Paths) Resolutions() string { return filepath.Join(p.Dir, "resolved_companies.jsonl") }
func (p Paths) Edges() string       { return filepath.Join(p.Dir, "edgelist.jsonl") }

func (p Paths) GEXF(kind string) string {
	return filepath.Join(p.Dir, fmt.Sprintf("companies_%s.gexf", kind))
}

// Ensure creates the output directory if missing.
func (p Paths) Ensure() error {
	return os.MkdirAll(p.Dir, 0o755)
}

// CrawlConfig is the parsed configuration of the crawl subcommand.
type CrawlConfig struct {
	Companies      []string
	Paths          Paths
	RepoLimit      int
	LocationFilter bool
	CompanyFilter  bool
	Buffer         time.Duration
}

// ParseCrawlConfig reads company queries from the --companies file or the
// positional arguments, whichever is given.
func ParseCrawlConfig(c *cli.Context) (*CrawlConfig, error) {
	companies := c.Args().Slice()
	if file := c.String("companies"); file != "" {
		fromFile, err := readCompanyFile(file)
		if err != nil {
			return nil, err
		}
		companies = append(companies, fromFile...)
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("no company queries: pass them as arguments or via --companies")
	}

	return &CrawlConfig{
		Companies:      companies,
		Paths:          NewPaths(c.String("output")),
		RepoLimit:      c.Int("repo-limit"),
		LocationFilter: !c.Bool("no-location-filter"),
		CompanyFilter:  !c.Bool("location-only"),
		Buffer:         c.Duration("buffer"),
	}, nil
}

// GraphConfig is the parsed configuration of the graph subcommand.
type GraphConfig struct {
	Paths      Paths
	Categories string
	Kind       string
}

func ParseGraphConfig(c *cli.Context) (*GraphConfig, error) {
	kind := c.String("type")
	switch kind {
	case "all", "attention", "collaboration":
	default:
		return nil, fmt.Errorf("invalid --type %q: use all, attention or collaboration", kind)
	}
	return &GraphConfig{
		Paths:      NewPaths(c.String("output")),
		Categories: c.String("categories"),
		Kind:       kind,
	}, nil
}

func readCompanyFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening company file: %w", err)
	}
	defer f.Close()

	var companies []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		companies = append(companies, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading company file: %w", err)
	}
	return companies, nil
}
