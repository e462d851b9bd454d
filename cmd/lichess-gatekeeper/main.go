package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/okhara/lichess-gatekeeper/internal/archive"
	appcfg "github.com/okhara/lichess-gatekeeper/internal/config"
	"github.com/okhara/lichess-gatekeeper/internal/domain"
	"github.com/okhara/lichess-gatekeeper/internal/journal"
	"github.com/okhara/lichess-gatekeeper/internal/lichess"
	"github.com/okhara/lichess-gatekeeper/internal/msgcat"
	"github.com/okhara/lichess-gatekeeper/internal/obslog"
	"github.com/okhara/lichess-gatekeeper/internal/queue"
	"github.com/okhara/lichess-gatekeeper/internal/ratelimit"
	"github.com/okhara/lichess-gatekeeper/pkg/lichessdto"
)

func main() {
	cfgPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Parse()

	cfg, err := appcfg.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	catalog, err := msgcat.New(cfg.MessageOverrideDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	client := lichess.NewClient(cfg.APIBaseURL, cfg.Token)

	actx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	acct, err := client.Account(actx)
	cancel()
	if err != nil {
		log.Fatalf("account fetch error: %v", err)
	}
	obslog.L().Info("logged_in", zap.String("username", acct.Username), zap.String("title", acct.Title))

	tracker := ratelimit.NewTracker(cfg.Challenge.RecentWindow())
	pending := queue.New()
	games := &gameTable{games: make(map[string]*domain.Game)}

	var verdicts *journal.Store
	if cfg.RedisURL != "" {
		verdicts, err = journal.NewStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("verdict journal init error: %v", err)
		}
	}
	var repo *archive.Repository
	if cfg.DatabaseURL != "" {
		repo, err = archive.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("game archive init error: %v", err)
		}
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.EnsureSchema(sctx); err != nil {
			scancel()
			log.Fatalf("game archive schema error: %v", err)
		}
		scancel()
	}

	gk := &gatekeeper{
		cfg:      cfg,
		client:   client,
		catalog:  catalog,
		tracker:  tracker,
		pending:  pending,
		games:    games,
		verdicts: verdicts,
		repo:     repo,
		username: acct.Username,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream := lichess.NewEventStream(cfg.APIBaseURL, cfg.Token, 0)
	stream.OnEvent(func(ev *lichessdto.Event) { go gk.handleEvent(ctx, ev) })
	stream.Start(ctx)

	go gk.acceptLoop(ctx)
	go gk.sweepLoop(ctx)

	<-ctx.Done()
	obslog.L().Info("shutting_down")

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = stream.Close(cctx)
	ccancel()
	_ = verdicts.Close()
	_ = repo.Close()
	_ = obslog.L().Sync()
	os.Exit(0)
}

type gatekeeper struct {
	cfg      *appcfg.AppConfig
	client   *lichess.Client
	catalog  *msgcat.Catalog
	tracker  *ratelimit.Tracker
	pending  *queue.Queue
	games    *gameTable
	verdicts *journal.Store
	repo     *archive.Repository
	username string
}

func (g *gatekeeper) handleEvent(ctx context.Context, ev *lichessdto.Event) {
	switch ev.Type {
	case lichessdto.EventChallenge:
		g.handleChallenge(ctx, ev.Challenge)
	case lichessdto.EventChallengeCanceled, lichessdto.EventChallengeDeclined:
		if ev.Challenge != nil && g.pending.Remove(ev.Challenge.ID) {
			obslog.L().Info("challenge_withdrawn", zap.String("challenge_id", ev.Challenge.ID), zap.String("event", ev.Type))
		}
	case lichessdto.EventGameStart:
		g.handleGameStart(ev.Game)
	case lichessdto.EventGameFinish:
		g.handleGameFinish(ctx, ev.Game)
	default:
		obslog.L().Debug("event_ignored", zap.String("type", ev.Type))
	}
}

func (g *gatekeeper) handleChallenge(ctx context.Context, info *lichessdto.Challenge) {
	if info == nil {
		return
	}
	ch := domain.NewChallenge(info, g.username)
	if ch.FromSelf {
		// Our own outbound challenge echoes back on the stream; there is
		// nothing to accept on this side.
		return
	}

	accepted, reason := ch.Evaluate(g.cfg.Challenge, g.tracker)
	g.journal(ctx, ch, accepted, reason)

	if !accepted {
		if err := g.client.DeclineChallenge(ctx, ch.ID, reason); err != nil {
			obslog.L().Warn("decline_failed", zap.String("challenge_id", ch.ID), zap.Error(err))
		}
		obslog.L().Info(g.catalog.DeclineText(ch, reason),
			zap.String("challenge_id", ch.ID), zap.String("reason", string(reason)))
		return
	}

	if err := g.pending.Add(ch); err != nil {
		obslog.L().Debug("challenge_duplicate", zap.String("challenge_id", ch.ID))
		return
	}
	obslog.L().Info("challenge_queued",
		zap.String("challenge_id", ch.ID),
		zap.String("challenger", ch.Challenger.String()),
		zap.Int("score", ch.Score()))
}

// acceptLoop fills free game slots from the pending queue, best score
// first. Acceptances of bot challengers are recorded against the rate
// limiter here, at the moment of acceptance.
func (g *gatekeeper) acceptLoop(ctx context.Context) {
	interval := time.Duration(g.cfg.AcceptIntervalSec) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		for g.games.count() < g.cfg.MaxConcurrentGames {
			ch, ok := g.pending.PickBest()
			if !ok {
				break
			}
			if err := g.client.AcceptChallenge(ctx, ch.ID); err != nil {
				obslog.L().Warn("accept_failed", zap.String("challenge_id", ch.ID), zap.Error(err))
				continue
			}
			if ch.Challenger.IsBot {
				g.tracker.Record(ch.Challenger.Name)
			}
			obslog.L().Info("challenge_accepted",
				zap.String("challenge_id", ch.ID),
				zap.String("challenger", ch.Challenger.String()),
				zap.Int("score", ch.Score()))
		}
	}
}

// sweepLoop drops fully-expired tracker keys so challengers who went
// quiet do not pin map entries for the life of the process.
func (g *gatekeeper) sweepLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			g.tracker.Sweep()
		}
	}
}

func (g *gatekeeper) handleGameStart(info *lichessdto.GameRef) {
	game, err := domain.NewGame(info, g.username)
	if err != nil {
		obslog.L().Warn("game_start_unusable", zap.Error(err))
		return
	}
	g.games.add(game)
	obslog.L().Info("game_started",
		zap.String("game_id", game.ID),
		zap.String("variant", game.VariantName),
		zap.String("mode", game.Mode),
		zap.Int("active", g.games.count()))
}

func (g *gatekeeper) handleGameFinish(ctx context.Context, info *lichessdto.GameRef) {
	if info == nil {
		return
	}
	game := g.games.remove(info.ID)
	if game == nil {
		// Finish for a game started before this process; rebuild what we can.
		var err error
		game, err = domain.NewGame(info, g.username)
		if err != nil {
			obslog.L().Warn("game_finish_unusable", zap.Error(err))
			return
		}
	}
	var termination domain.Termination
	if info.Status != nil {
		termination, _ = domain.TerminationFromStatus(info.Status.Name)
	}
	obslog.L().Info("game_finished",
		zap.String("game_id", game.ID),
		zap.String("termination", string(termination)),
		zap.Int("active", g.games.count()))

	if g.repo != nil {
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := g.repo.SaveGame(sctx, game, termination, info.Winner); err != nil {
			obslog.L().Warn("game_archive_failed", zap.String("game_id", game.ID), zap.Error(err))
		}
	}
}

func (g *gatekeeper) journal(ctx context.Context, ch domain.Challenge, accepted bool, reason domain.DeclineReason) {
	if g.verdicts == nil {
		return
	}
	jctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := g.verdicts.Record(jctx, journal.NewVerdict(ch, accepted, reason)); err != nil {
		obslog.L().Warn("verdict_journal_failed", zap.String("challenge_id", ch.ID), zap.Error(err))
	}
}

// gameTable tracks games currently in progress.
type gameTable struct {
	mu    sync.Mutex
	games map[string]*domain.Game
}

func (t *gameTable) add(g *domain.Game) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.games[g.ID] = g
}

func (t *gameTable) remove(id string) *domain.Game {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.games[id]
	delete(t.games, id)
	return g
}

func (t *gameTable) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.games)
}
