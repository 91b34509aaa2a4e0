package scrape

import (
	"context"
	"sort"

	"github.com/fatih/color"
	gh "github.com/google/go-github/v57/github"

	"github.com/sodaslab/ghmarket/internal/identity"
)

const dateLayout = "2006-01-02"

// API is the slice of the platform client the scraper needs. The concrete
// implementation is the rate-gated client; tests stub it.
type API interface {
	ListFollowers(ctx context.Context, login string) ([]*gh.User, error)
	ListFollowing(ctx context.Context, login string) ([]*gh.User, error)
	ListRepos(ctx context.Context, login string) ([]*gh.Repository, error)
	ListForks(ctx context.Context, owner, repo string) ([]*gh.Repository, error)
	ListStargazers(ctx context.Context, owner, repo string) ([]*gh.Stargazer, error)
	ListSubscribers(ctx context.Context, owner, repo string) ([]*gh.User, error)
	ListStarred(ctx context.Context, login string) ([]*gh.StarredRepository, error)
	ListWatched(ctx context.Context, login string) ([]*gh.Repository, error)
	GetRepo(ctx context.Context, owner, repo string) (*gh.Repository, error)
}

// Scraper assembles UserRecords for users the identity resolver accepts.
// Only two conditions abort a user: the public-repo ceiling and resolver
// rejection. Any other per-relation failure degrades to an empty list for
// that relation.
type Scraper struct {
	api       API
	resolver  *identity.Resolver
	repoLimit int
	session   *Session
}

func NewScraper(api API, resolver *identity.Resolver, repoLimit int, session *Session) *Scraper {
	if repoLimit <= 0 {
		repoLimit = 300
	}
	return &Scraper{api: api, resolver: resolver, repoLimit: repoLimit, session: session}
}

func (s *Scraper) Session() *Session {
	return s.session
}

// UserInfo builds the record for one user, or returns nil when the user is
// excluded. With companyFilter set, both Danish location and a company
// match are required; without it only location is required and company
// matches may be empty.
func (s *Scraper) UserInfo(ctx context.Context, user *gh.User, searchLabel string, companyFilter bool) *UserRecord {
	login := user.GetLogin()
	s.session.MarkAttempted(login)

	if user.GetPublicRepos() > s.repoLimit {
		// Methodological exclusion bounding API cost per user.
		color.Yellow("[scrape] %s has %d public repos (limit %d), skipping",
			login, user.GetPublicRepos(), s.repoLimit)
		return nil
	}

	fields := identity.Fields{
		Login:    login,
		Company:  user.GetCompany(),
		Email:    user.GetEmail(),
		Bio:      user.GetBio(),
		Blog:     user.GetBlog(),
		Location: user.GetLocation(),
	}

	var (
		matchedLocation []string
		companyMatches  map[string][]string
	)
	if companyFilter {
		match := s.resolver.Resolve(ctx, fields)
		if match == nil {
			return nil
		}
		matchedLocation = match.LocationEvidence
		companyMatches = match.CompanyMatches
	} else {
		matchedLocation, companyMatches = s.resolver.LocationOnly(ctx, fields)
		if len(matchedLocation) == 0 {
			return nil
		}
	}

	repos, err := s.api.ListRepos(ctx, login)
	if err != nil {
		color.Yellow("[scrape] repos for %s: %v", login, err)
		repos = nil
	}
	repoNames := make([]string, 0, len(repos))
	for _, repo := range repos {
		repoNames = append(repoNames, repo.GetFullName())
	}

	inferred := make([]string, 0, len(companyMatches))
	for company := range companyMatches {
		inferred = append(inferred, company)
	}
	sort.Strings(inferred)

	record := &UserRecord{
		Login:                 login,
		SearchLabel:           searchLabel,
		ListedCompany:         user.GetCompany(),
		InferredCompany:       inferred,
		MatchedCompanyStrings: companyMatches,
		UserType:              user.GetType(),
		Email:                 user.GetEmail(),
		Location:              user.GetLocation(),
		MatchedLocation:       matchedLocation,
		Bio:                   user.GetBio(),
		Blog:                  user.GetBlog(),
		RepoNames:             repoNames,
		FollowsIn:             s.followsIn(ctx, login),
		FollowsOut:            s.followsOut(ctx, login),
		WatchesIn:             s.watchesIn(ctx, login, repos),
		WatchesOut:            s.watchesOut(ctx, login),
		StarsIn:               s.starsIn(ctx, login, repos),
		StarsOut:              s.starsOut(ctx, login),
		ForksIn:               s.forksIn(ctx, login, repos),
		ForksOut:              s.forksOut(ctx, login, repos),
	}

	s.session.MarkScraped(login)
	return record
}

func (s *Scraper) followsIn(ctx context.Context, login string) []Interaction {
	users, err := s.api.ListFollowers(ctx, login)
	if err != nil {
		color.Yellow("[follows_in] %s: %v", login, err)
		return nil
	}
	return userInteractions(users, "")
}

func (s *Scraper) followsOut(ctx context.Context, login string) []Interaction {
	users, err := s.api.ListFollowing(ctx, login)
	if err != nil {
		color.Yellow("[follows_out] %s: %v", login, err)
		return nil
	}
	return userInteractions(users, "")
}

// starsIn collects the stargazers of every non-fork repo, excluding the
// user's own stars on their own repos. The timestamp is the star event
// itself, which the API exposes per repo-starrer pair.
func (s *Scraper) starsIn(ctx context.Context, login string, repos []*gh.Repository) []Interaction {
	var interactions []Interaction
	for _, repo := range repos {
		if repo.GetFork() {
			continue
		}
		stargazers, err := s.api.ListStargazers(ctx, login, repo.GetName())
		if err != nil {
			color.Yellow("[stars_in] %s/%s: %v", login, repo.GetName(), err)
			continue
		}
		for _, star := range stargazers {
			starrer := star.GetUser().GetLogin()
			if starrer == "" || starrer == login {
				continue
			}
			interactions = append(interactions, Interaction{
				RepoName:   repo.GetName(),
				OwnerLogin: starrer,
				CreatedAt:  star.GetStarredAt().Time.Format(dateLayout),
			})
		}
	}
	return interactions
}

func (s *Scraper) starsOut(ctx context.Context, login string) []Interaction {
	starred, err := s.api.ListStarred(ctx, login)
	if err != nil {
		color.Yellow("[stars_out] %s: %v", login, err)
		return nil
	}
	var interactions []Interaction
	for _, star := range starred {
		repo := star.GetRepository()
		interactions = append(interactions, Interaction{
			RepoName:   repo.GetName(),
			OwnerLogin: repo.GetOwner().GetLogin(),
			CreatedAt:  star.GetStarredAt().Time.Format(dateLayout),
		})
	}
	return interactions
}

func (s *Scraper) watchesIn(ctx context.Context, login string, repos []*gh.Repository) []Interaction {
	var interactions []Interaction
	for _, repo := range repos {
		subscribers, err := s.api.ListSubscribers(ctx, login, repo.GetName())
		if err != nil {
			color.Yellow("[watches_in] %s/%s: %v", login, repo.GetName(), err)
			continue
		}
		for _, watcher := range subscribers {
			if watcher.GetLogin() == "" || watcher.GetLogin() == login {
				continue
			}
			interactions = append(interactions, Interaction{
				RepoName:   repo.GetName(),
				OwnerLogin: watcher.GetLogin(),
				CreatedAt:  watcher.GetCreatedAt().Time.Format(dateLayout),
			})
		}
	}
	return interactions
}

func (s *Scraper) watchesOut(ctx context.Context, login string) []Interaction {
	watched, err := s.api.ListWatched(ctx, login)
	if err != nil {
		color.Yellow("[watches_out] %s: %v", login, err)
		return nil
	}
	var interactions []Interaction
	for _, repo := range watched {
		interactions = append(interactions, Interaction{
			RepoName:   repo.GetName(),
			OwnerLogin: repo.GetOwner().GetLogin(),
			CreatedAt:  repo.GetCreatedAt().Time.Format(dateLayout),
		})
	}
	return interactions
}

func (s *Scraper) forksIn(ctx context.Context, login string, repos []*gh.Repository) []Interaction {
	var interactions []Interaction
	for _, repo := range repos {
		if repo.GetFork() {
			continue
		}
		forks, err := s.api.ListForks(ctx, login, repo.GetName())
		if err != nil {
			color.Yellow("[forks_in] %s/%s: %v", login, repo.GetName(), err)
			continue
		}
		for _, fork := range forks {
			interactions = append(interactions, Interaction{
				RepoName:   repo.GetName(),
				OwnerLogin: fork.GetOwner().GetLogin(),
				CreatedAt:  fork.GetCreatedAt().Time.Format(dateLayout),
			})
		}
	}
	return interactions
}

// forksOut resolves the upstream owner of every fork the user keeps. List
// payloads omit the parent, so each fork costs one extra repo fetch.
func (s *Scraper) forksOut(ctx context.Context, login string, repos []*gh.Repository) []Interaction {
	var interactions []Interaction
	for _, repo := range repos {
		if !repo.GetFork() {
			continue
		}
		full, err := s.api.GetRepo(ctx, login, repo.GetName())
		if err != nil {
			color.Yellow("[forks_out] %s/%s: %v", login, repo.GetName(), err)
			continue
		}
		parent := full.GetParent()
		if parent == nil {
			continue
		}
		interactions = append(interactions, Interaction{
			RepoName:   repo.GetName(),
			OwnerLogin: parent.GetOwner().GetLogin(),
			CreatedAt:  repo.GetCreatedAt().Time.Format(dateLayout),
		})
	}
	return interactions
}

func userInteractions(users []*gh.User, repoName string) []Interaction {
	var interactions []Interaction
	for _, u := range users {
		if u.GetLogin() == "" {
			continue
		}
		interactions = append(interactions, Interaction{
			RepoName:   repoName,
			OwnerLogin: u.GetLogin(),
			CreatedAt:  u.GetCreatedAt().Time.Format(dateLayout),
		})
	}
	return interactions
}
