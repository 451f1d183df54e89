package health

import (
	"context"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-center/internal/platform/logging"
)

var ErrUnreachable = crerr.New("backing service unreachable")

// ProbeFunc is the opaque liveness probe for one upstream source.
type ProbeFunc func(ctx context.Context) error

// Checker tracks best-effort liveness for one source: a single healthy flag
// plus the instant it was last checked. Writers are the heartbeat and any
// gated call that fails its probe; last-write-wins is fine here because the
// flag is advisory only.
type Checker struct {
	name   string
	probe  ProbeFunc
	logger *logging.Logger

	healthy     atomic.Bool
	lastChecked atomic.Int64
}

func NewChecker(name string, probe ProbeFunc, logger *logging.Logger) *Checker {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Checker{
		name:   name,
		probe:  probe,
		logger: logger,
	}
	// Until the first probe answers, assume reachable so boot does not
	// degrade every source to empty.
	c.healthy.Store(true)
	return c
}

// Check runs the probe and records the outcome.
func (c *Checker) Check(ctx context.Context) error {
	c.lastChecked.Store(time.Now().UnixNano())
	if c.probe == nil {
		c.healthy.Store(true)
		return nil
	}

	if err := c.probe(ctx); err != nil {
		c.healthy.Store(false)
		c.logger.WarnContext(ctx, "liveness probe failed", "source", c.name, "error", err)
		return crerr.Join(ErrUnreachable, err)
	}

	c.healthy.Store(true)
	return nil
}

// Gate runs the probe ahead of a substantive request. A failed probe saves
// the round trip; callers translate the error into their degrade policy.
func (c *Checker) Gate(ctx context.Context) error {
	return c.Check(ctx)
}

func (c *Checker) Healthy() bool {
	return c.healthy.Load()
}

func (c *Checker) LastChecked() time.Time {
	nanos := c.lastChecked.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

func (c *Checker) Name() string {
	return c.name
}
