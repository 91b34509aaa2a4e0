package github

import (
	"context"

	gh "github.com/google/go-github/v57/github"

	"github.com/sodaslab/ghmarket/internal/identity"
)

// SearchUsers pages through user search results for a query, optionally
// narrowed by the fixed Danish location-filter clause. Search tops out at
// 1000 results per query on the platform side; that cap is a data-source
// property, not an error.
func (c *Client) SearchUsers(ctx context.Context, query string, locationFilter bool) ([]*gh.User, error) {
	if locationFilter {
		query = query + " " + identity.LocationFilterClause()
	}

	var users []*gh.User
	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	for {
		c.gate()
		result, resp, err := c.current().Search.Users(ctx, query, opts)
		c.observe(resp)
		if err != nil {
			return users, err
		}
		users = append(users, result.Users...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return users, nil
}

// GetUser fetches the full profile for a login.
func (c *Client) GetUser(ctx context.Context, login string) (*gh.User, error) {
	c.gate()
	user, resp, err := c.current().Users.Get(ctx, login)
	c.observe(resp)
	return user, err
}

// GetRepo fetches a single repository, including its fork parent, which
// list payloads omit.
func (c *Client) GetRepo(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	c.gate()
	repository, resp, err := c.current().Repositories.Get(ctx, owner, repo)
	c.observe(resp)
	return repository, err
}

// ListFollowers returns every follower of a user.
func (c *Client) ListFollowers(ctx context.Context, login string) ([]*gh.User, error) {
	var followers []*gh.User
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		c.gate()
		users, resp, err := c.current().Users.ListFollowers(ctx, login, opts)
		c.observe(resp)
		if err != nil {
			return followers, err
		}
		followers = append(followers, users...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return followers, nil
}

// ListFollowing returns every user a user follows.
func (c *Client) ListFollowing(ctx context.Context, login string) ([]*gh.User, error) {
	var following []*gh.User
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		c.gate()
		users, resp, err := c.current().Users.ListFollowing(ctx, login, opts)
		c.observe(resp)
		if err != nil {
			return following, err
		}
		following = append(following, users...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return following, nil
}

// ListRepos returns all repositories of a user, forks included.
func (c *Client) ListRepos(ctx context.Context, login string) ([]*gh.Repository, error) {
	var repos []*gh.Repository
	opts := &gh.RepositoryListByUserOptions{
		Type:        "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	for {
		c.gate()
		page, resp, err := c.current().Repositories.ListByUser(ctx, login, opts)
		c.observe(resp)
		if err != nil {
			return repos, err
		}
		repos = append(repos, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

// ListForks returns the forks of a repository.
func (c *Client) ListForks(ctx context.Context, owner, repo string) ([]*gh.Repository, error) {
	var forks []*gh.Repository
	opts := &gh.RepositoryListForksOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	for {
		c.gate()
		page, resp, err := c.current().Repositories.ListForks(ctx, owner, repo, opts)
		c.observe(resp)
		if err != nil {
			return forks, err
		}
		forks = append(forks, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return forks, nil
}

// ListStargazers returns the stargazers of a repository with their
// per-star timestamps.
func (c *Client) ListStargazers(ctx context.Context, owner, repo string) ([]*gh.Stargazer, error) {
	var stargazers []*gh.Stargazer
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		c.gate()
		page, resp, err := c.current().Activity.ListStargazers(ctx, owner, repo, opts)
		c.observe(resp)
		if err != nil {
			return stargazers, err
		}
		stargazers = append(stargazers, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return stargazers, nil
}

// ListSubscribers returns the watchers of a repository.
func (c *Client) ListSubscribers(ctx context.Context, owner, repo string) ([]*gh.User, error) {
	var subscribers []*gh.User
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		c.gate()
		page, resp, err := c.current().Activity.ListWatchers(ctx, owner, repo, opts)
		c.observe(resp)
		if err != nil {
			return subscribers, err
		}
		subscribers = append(subscribers, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return subscribers, nil
}

// ListStarred returns every repository a user has starred, with star
// timestamps.
func (c *Client) ListStarred(ctx context.Context, login string) ([]*gh.StarredRepository, error) {
	var starred []*gh.StarredRepository
	opts := &gh.ActivityListStarredOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	for {
		c.gate()
		page, resp, err := c.current().Activity.ListStarred(ctx, login, opts)
		c.observe(resp)
		if err != nil {
			return starred, err
		}
		starred = append(starred, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return starred, nil
}

// ListWatched returns every repository a user subscribes to.
func (c *Client) ListWatched(ctx context.Context, login string) ([]*gh.Repository, error) {
	var watched []*gh.Repository
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		c.gate()
		page, resp, err := c.current().Activity.ListWatched(ctx, login, opts)
		c.observe(resp)
		if err != nil {
			return watched, err
		}
		watched = append(watched, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return watched, nil
}
