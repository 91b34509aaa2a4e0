package github

import (
	"time"

	"github.com/fatih/color"
)

const (
	// defaultSleepBuffer pads the advertised reset time before waking up;
	// the reset header routinely lags the real window by a little.
	defaultSleepBuffer = 90 * time.Second

	thresholdUnauthenticated = 5
	thresholdAuthenticated   = 300
	thresholdFallback        = 200
)

// thresholdFor maps the ceiling advertised by the API to the operating
// threshold the gate keeps in reserve: the unauthenticated tier gets a
// small one, the standard authenticated tier a larger one, anything else a
// conservative default.
func thresholdFor(ceiling int) int {
	switch ceiling {
	case 60:
		return thresholdUnauthenticated
	case 5000:
		return thresholdAuthenticated
	default:
		return thresholdFallback
	}
}

// gate runs before every wrapped call. While the active credential's
// remaining budget sits below the threshold it rotates to the next
// credential if any is still unused this cycle, and otherwise sleeps until
// the advertised reset plus the buffer. The gate only logs; it never
// fails, and wrapped-call errors propagate unchanged after it passes.
func (c *Client) gate() {
	for {
		cur := c.creds[c.idx]
		if cur.rate.Limit == 0 {
			// No snapshot yet for this credential; let the call through and
			// learn the budget from its response headers.
			return
		}

		threshold := thresholdFor(cur.rate.Limit)
		if threshold != c.threshold {
			c.threshold = threshold
			color.Yellow("[rate] threshold set to %d (ceiling %d)", threshold, cur.rate.Limit)
		}

		if cur.rate.Remaining >= threshold {
			c.cycleUsed = 0
			return
		}

		if c.cycleUsed < len(c.creds)-1 {
			c.cycleUsed++
			c.idx = (c.idx + 1) % len(c.creds)
			color.Yellow("[rate] %d requests left, rotating to credential %d", cur.rate.Remaining, c.idx+1)
			continue
		}

		wake := cur.rate.Reset.Time.Add(c.buffer)
		wait := wake.Sub(c.now())
		if wait > 0 {
			color.Yellow("[rate] %d requests left, sleeping %s until %s",
				cur.rate.Remaining, wait.Round(time.Second), wake.Format("15:04:05"))
			c.sleep(wait)
		} else {
			color.Yellow("[rate] reset passed %s ago, continuing", (-wait).Round(time.Second))
		}

		// The window has reset for every credential in the pool.
		for _, cred := range c.creds {
			if cred.rate.Limit > 0 {
				cred.rate.Remaining = cred.rate.Limit
			}
		}
		c.cycleUsed = 0
		return
	}
}
