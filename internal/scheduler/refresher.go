package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/live"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/health"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/usecase"
)

const (
	DefaultHeartbeatInterval = 5 * time.Minute
	DefaultLivePollInterval  = 12 * time.Second
)

type Config struct {
	HeartbeatInterval time.Duration
	LivePollInterval  time.Duration
	WindowDays        int
	// Location anchors the day-boundary refresh. Midnight in this zone is
	// the domain boundary; a fixed 24h interval would drift across DST.
	Location *time.Location
}

func (c Config) withDefaults() Config {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.LivePollInterval <= 0 {
		c.LivePollInterval = DefaultLivePollInterval
	}
	if c.WindowDays <= 0 {
		c.WindowDays = usecase.DefaultWindowDays
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

type UpdateKind string

const (
	UpdateUpcoming UpdateKind = "upcoming"
	UpdateLive     UpdateKind = "live"
)

// Update is published to subscribers whenever a snapshot is replaced.
type Update struct {
	Kind     UpdateKind
	Upcoming map[match.League][]match.Game
	Live     *live.Snapshot
}

// Status mirrors the recent health of the refresh loops.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the refresher has warmed data and is not failing
// repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// Refresher owns the three refresh cadences and is the sole owner of the
// "current snapshot" state. Heartbeat probes sources, the live poll tracks
// one observed game, and a one-shot midnight timer re-fetches the upcoming
// window then rearms itself for the following midnight.
type Refresher struct {
	cfg      Config
	matches  *usecase.MatchService
	provider map[match.League]usecase.ScoreboardProvider
	checkers []*health.Checker
	logger   *logging.Logger
	now      func() time.Time

	mu       sync.RWMutex
	upcoming map[match.League][]match.Game
	liveSnap *live.Snapshot
	watched  *watchTarget
	subs     []func(Update)
	status   Status

	tick    atomic.Uint64
	stopped atomic.Bool

	startMu  sync.Mutex
	started  bool
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type watchTarget struct {
	league match.League
	gameID string
	done   chan struct{}
}

func New(
	cfg Config,
	matches *usecase.MatchService,
	providers map[match.League]usecase.ScoreboardProvider,
	checkers []*health.Checker,
	logger *logging.Logger,
) *Refresher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Refresher{
		cfg:      cfg.withDefaults(),
		matches:  matches,
		provider: providers,
		checkers: checkers,
		logger:   logger,
		now:      time.Now,
		upcoming: make(map[match.League][]match.Game),
		done:     make(chan struct{}),
	}
}

// Start launches the heartbeat and day-boundary loops and performs one
// warming refresh of the upcoming window. Idempotent.
func (r *Refresher) Start(ctx context.Context) {
	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.startMu.Unlock()

	r.logger.Info("refresher started",
		"heartbeat_interval", r.cfg.HeartbeatInterval.String(),
		"live_poll_interval", r.cfg.LivePollInterval.String(),
		"window_days", r.cfg.WindowDays,
	)

	r.refreshUpcoming(ctx)

	r.wg.Add(2)
	go r.heartbeatLoop(ctx)
	go r.midnightLoop(ctx)
}

// Stop clears every timer synchronously. Network calls already in flight may
// still complete but their results are discarded, never written.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		close(r.done)
		r.Unwatch()
	})
	r.wg.Wait()
	r.logger.Info("refresher stopped")
}

// Subscribe registers a callback invoked on every snapshot replacement.
// Register before Start; the subscriber list is not guarded afterwards.
func (r *Refresher) Subscribe(fn func(Update)) {
	if fn == nil {
		return
	}
	r.subs = append(r.subs, fn)
}

// Upcoming returns the latest published upcoming-window snapshot.
func (r *Refresher) Upcoming() map[match.League][]match.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[match.League][]match.Game, len(r.upcoming))
	for league, games := range r.upcoming {
		out[league] = games
	}
	return out
}

// Live returns the latest snapshot for the watched game, or nil.
func (r *Refresher) Live() *live.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.liveSnap
}

// Status returns a copy of the refresher's recent health.
func (r *Refresher) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Watch starts the live-poll cadence for one game. Watching a new game
// replaces the previous watch and clears its snapshot.
func (r *Refresher) Watch(ctx context.Context, league match.League, gameID string) {
	if r.stopped.Load() || gameID == "" {
		return
	}

	r.mu.Lock()
	if r.watched != nil {
		close(r.watched.done)
	}
	target := &watchTarget{league: league, gameID: gameID, done: make(chan struct{})}
	r.watched = target
	r.liveSnap = nil
	r.mu.Unlock()

	r.logger.Info("live poll started", "league", string(league), "game_id", gameID)

	r.wg.Add(1)
	go r.livePollLoop(ctx, target)
}

// Unwatch stops the live-poll cadence, leaving no timer behind.
func (r *Refresher) Unwatch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watched != nil {
		close(r.watched.done)
		r.watched = nil
	}
}

func (r *Refresher) heartbeatLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.heartbeat(ctx)
		}
	}
}

// heartbeat probes every source. Failures are logged and recorded on the
// health flag; they never surface further and never halt the ticker.
func (r *Refresher) heartbeat(ctx context.Context) {
	for _, checker := range r.checkers {
		if err := checker.Check(ctx); err != nil {
			r.logger.WarnContext(ctx, "heartbeat probe failed",
				"source", checker.Name(),
				"error", err,
			)
		}
	}
}

func (r *Refresher) midnightLoop(ctx context.Context) {
	defer r.wg.Done()

	for {
		now := r.now().In(r.cfg.Location)
		timer := time.NewTimer(NextMidnight(now).Sub(now))

		select {
		case <-r.done:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			r.refreshUpcoming(ctx)
		}
	}
}

// NextMidnight returns the first instant of the following day in now's
// location.
func NextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}

// refreshUpcoming re-fetches and re-filters the upcoming window across all
// leagues and replaces the stored snapshot. The window is evaluated fresh
// here; nothing from the prior cycle is reused.
func (r *Refresher) refreshUpcoming(ctx context.Context) {
	start := r.now()
	r.recordAttempt(start)

	upcoming, err := r.matches.ListAllUpcoming(ctx, r.cfg.WindowDays)
	if err != nil {
		r.logger.ErrorContext(ctx, "upcoming refresh failed", "error", err)
		r.recordFailure(err, start)
		return
	}
	if r.stopped.Load() {
		return
	}

	r.mu.Lock()
	r.upcoming = upcoming
	r.mu.Unlock()
	r.recordSuccess(start)

	total := 0
	for _, games := range upcoming {
		total += len(games)
	}
	r.logger.InfoContext(ctx, "upcoming snapshot replaced",
		"games", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	r.publish(Update{Kind: UpdateUpcoming, Upcoming: upcoming})
}

func (r *Refresher) livePollLoop(ctx context.Context, target *watchTarget) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.LivePollInterval)
	defer ticker.Stop()

	r.livePollOnce(ctx, target)

	for {
		select {
		case <-r.done:
			return
		case <-target.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.livePollOnce(ctx, target)
		}
	}
}

// livePollOnce fetches the current board, locates the tracked game, and
// replaces the snapshot wholesale. If the game is absent from the payload
// the previous snapshot is retained; a game briefly dropping off the board
// must not regress to UPCOMING. Each poll carries a tick counter so a slow
// older poll resolving late can never overwrite a newer snapshot.
func (r *Refresher) livePollOnce(ctx context.Context, target *watchTarget) {
	provider, ok := r.provider[target.league]
	if !ok {
		return
	}

	tick := r.tick.Add(1)
	board, err := provider.LiveBoard(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "live poll failed",
			"league", string(target.league),
			"game_id", target.gameID,
			"error", err,
		)
		return
	}

	var next *live.Snapshot
	for i := range board {
		if board[i].GameID == target.gameID {
			next = &board[i]
			break
		}
	}
	if next == nil {
		r.logger.Debug("tracked game absent from board, snapshot retained",
			"league", string(target.league),
			"game_id", target.gameID,
		)
		return
	}
	next.Tick = tick

	if r.stopped.Load() {
		return
	}

	r.mu.Lock()
	if r.watched != target {
		r.mu.Unlock()
		return
	}
	if !next.Supersedes(r.liveSnap) {
		r.mu.Unlock()
		return
	}
	r.liveSnap = next
	r.mu.Unlock()

	r.publish(Update{Kind: UpdateLive, Live: next})
}

func (r *Refresher) publish(update Update) {
	for _, fn := range r.subs {
		fn(update)
	}
}

func (r *Refresher) recordAttempt(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.LastAttempt = at
}

func (r *Refresher) recordSuccess(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.ConsecutiveFailures = 0
	r.status.LastError = ""
	r.status.LastSuccess = at
}

func (r *Refresher) recordFailure(err error, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.ConsecutiveFailures++
	if err != nil {
		r.status.LastError = err.Error()
	}
	r.status.LastAttempt = at
}
