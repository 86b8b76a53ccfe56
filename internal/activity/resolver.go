// Package activity resolves a followed account's most recent activity
// timestamp, either from its feed or from its content submissions.
package activity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bilisweep/internal/bili"
	"bilisweep/internal/log"
	"bilisweep/internal/model"
)

// Mode selects the detection strategy.
type Mode string

const (
	// ModeFeed inspects the account's most recent feed posts.
	ModeFeed Mode = "feed"
	// ModeSubmission inspects the account's most recent video, audio, and
	// article submissions.
	ModeSubmission Mode = "submission"
)

// ParseMode validates a detection-mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFeed, ModeSubmission:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown detection mode %q (feed or submission)", s)
	}
}

// API is the per-account activity reads the resolver depends on.
type API interface {
	// RecentFeedItems returns publish timestamps in list order; 0 entries
	// are unparseable upstream timestamps.
	RecentFeedItems(ctx context.Context, mid int64) ([]int64, error)
	// LatestVideo returns unix seconds, 0 when absent.
	LatestVideo(ctx context.Context, mid int64) (int64, error)
	// LatestAudio returns unix milliseconds, 0 when absent.
	LatestAudio(ctx context.Context, mid int64) (int64, error)
	// LatestArticle returns unix seconds, 0 when absent.
	LatestArticle(ctx context.Context, mid int64) (int64, error)
}

// Resolver computes last-active signals.
type Resolver struct {
	api API
}

// New creates a Resolver.
func New(api API) *Resolver {
	return &Resolver{api: api}
}

// LastActive resolves the account's most recent activity under the given
// mode. Transient fetch failures degrade to an empty signal; rate-limit
// errors and context cancellation propagate.
func (r *Resolver) LastActive(ctx context.Context, acct model.Account, mode Mode) (model.ActivitySignal, error) {
	if mode == ModeSubmission {
		return r.fromSubmissions(ctx, acct)
	}
	return r.fromFeed(ctx, acct)
}

// fromFeed takes the larger of the two newest items' publish timestamps.
// List order alone is not trusted: a pinned post appears first even when it
// is older than the post behind it.
func (r *Resolver) fromFeed(ctx context.Context, acct model.Account) (model.ActivitySignal, error) {
	sig := model.ActivitySignal{Source: model.SourceFeed}

	ts, err := r.api.RecentFeedItems(ctx, acct.ID)
	if err != nil {
		if errors.Is(err, bili.ErrRateLimited) || ctx.Err() != nil {
			return sig, err
		}
		log.Warn("feed fetch failed, treating as no activity", "uid", acct.ID, "error", err)
		return sig, nil
	}

	switch len(ts) {
	case 0:
		return sig, nil
	case 1:
		if ts[0] == 0 {
			log.Warn("feed timestamp unparseable", "uid", acct.ID)
			return sig, nil
		}
		sig.Timestamp = ts[0]
		return sig, nil
	default:
		first, second := ts[0], ts[1]
		if first == 0 || second == 0 {
			log.Warn("feed timestamp unparseable, falling back to best available item",
				"uid", acct.ID, "first", first, "second", second)
		}
		sig.Timestamp = max(first, second)
		return sig, nil
	}
}

// fromSubmissions fetches the three content kinds concurrently and takes
// the maximum of whichever succeeded. A failing sub-fetch contributes
// nothing; only a rate-limit error fails the resolution.
func (r *Resolver) fromSubmissions(ctx context.Context, acct model.Account) (model.ActivitySignal, error) {
	sig := model.ActivitySignal{Source: model.SourceSubmission}

	var videoTS, audioMillis, articleTS int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ts, err := r.api.LatestVideo(gctx, acct.ID)
		if err != nil {
			if errors.Is(err, bili.ErrRateLimited) {
				return err
			}
			log.Debug("video fetch failed", "uid", acct.ID, "error", err)
			return nil
		}
		videoTS = ts
		return nil
	})
	g.Go(func() error {
		ts, err := r.api.LatestAudio(gctx, acct.ID)
		if err != nil {
			if errors.Is(err, bili.ErrRateLimited) {
				return err
			}
			log.Debug("audio fetch failed", "uid", acct.ID, "error", err)
			return nil
		}
		audioMillis = ts
		return nil
	})
	g.Go(func() error {
		ts, err := r.api.LatestArticle(gctx, acct.ID)
		if err != nil {
			if errors.Is(err, bili.ErrRateLimited) {
				return err
			}
			log.Debug("article fetch failed", "uid", acct.ID, "error", err)
			return nil
		}
		articleTS = ts
		return nil
	})
	if err := g.Wait(); err != nil {
		return sig, err
	}

	// The audio service reports milliseconds; normalize before comparing.
	sig.Timestamp = max(videoTS, audioMillis/1000, articleTS)
	return sig, nil
}
