package github

import (
	"context"
	"time"

	"github.com/fatih/color"
	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const perPage = 100

type credential struct {
	token string
	gh    *gh.Client
	rate  gh.Rate
}

// Client wraps every outbound GitHub call behind a rate gate over an
// ordered credential pool. Rotation is an explicit round-robin index, so
// rotation order is deterministic. Single-threaded sequential use is
// assumed; the gate is not safe for concurrent callers.
type Client struct {
	creds     []*credential
	idx       int
	cycleUsed int
	threshold int
	buffer    time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient builds a client over the given tokens. With no tokens it runs a
// single unauthenticated credential; callers that require auth check
// Authenticated themselves. A non-positive buffer selects the default.
func NewClient(tokens []string, buffer time.Duration) *Client {
	if buffer <= 0 {
		buffer = defaultSleepBuffer
	}

	c := &Client{
		buffer: buffer,
		now:    time.Now,
		sleep:  time.Sleep,
	}

	if len(tokens) == 0 {
		c.creds = []*credential{{gh: gh.NewClient(nil)}}
		return c
	}

	for _, token := range tokens {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tc := oauth2.NewClient(context.Background(), ts)
		c.creds = append(c.creds, &credential{token: token, gh: gh.NewClient(tc)})
	}
	return c
}

// Size reports the number of credentials in the pool.
func (c *Client) Size() int {
	return len(c.creds)
}

// Rate returns the last observed rate snapshot for the active credential.
func (c *Client) Rate() gh.Rate {
	return c.creds[c.idx].rate
}

func (c *Client) current() *gh.Client {
	return c.creds[c.idx].gh
}

// observe records the rate-limit headers of a completed call against the
// credential that issued it.
func (c *Client) observe(resp *gh.Response) {
	if resp == nil {
		return
	}
	c.creds[c.idx].rate = resp.Rate
}

// DisplayRate prints the live rate-limit state of every credential.
func (c *Client) DisplayRate(ctx context.Context) {
	for i, cred := range c.creds {
		limits, _, err := cred.gh.RateLimit.Get(ctx)
		if err != nil {
			color.Yellow("  credential %d: could not fetch rate limit: %v", i+1, err)
			continue
		}
		core := limits.GetCore()
		color.Cyan("  credential %d: %d/%d, resets %s",
			i+1, core.Remaining, core.Limit, core.Reset.Format("15:04:05"))
	}
}
