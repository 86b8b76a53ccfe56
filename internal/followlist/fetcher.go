// Package followlist enumerates the full follow list through the paginated
// relation endpoint.
package followlist

import (
	"context"
	"errors"

	"bilisweep/internal/bili"
	"bilisweep/internal/log"
	"bilisweep/internal/model"
	"bilisweep/internal/pace"
)

// API is the follow-list read the fetcher depends on.
type API interface {
	FollowPage(ctx context.Context, page, pageSize int) ([]model.Account, error)
}

// Fetcher pages through the follow list, preserving provider ordering.
type Fetcher struct {
	api      API
	pacer    *pace.Pacer
	pageSize int
}

// New creates a Fetcher.
func New(api API, pacer *pace.Pacer, pageSize int) *Fetcher {
	return &Fetcher{api: api, pacer: pacer, pageSize: pageSize}
}

// FetchAll walks pages starting at 1 until an empty page. Ordering is the
// provider's (newest follow first); the skip-most-recent policy depends on
// it downstream.
//
// A page error ends enumeration but keeps what was collected: the partial
// list is returned with incomplete=true. Rate-limit errors and context
// cancellation additionally propagate so the caller can stop the run.
func (f *Fetcher) FetchAll(ctx context.Context) (accounts []model.Account, incomplete bool, err error) {
	for page := 1; ; page++ {
		batch, err := pace.RunValue(ctx, f.pacer, func(ctx context.Context) ([]model.Account, error) {
			return f.api.FollowPage(ctx, page, f.pageSize)
		})
		if err != nil {
			if errors.Is(err, bili.ErrRateLimited) || ctx.Err() != nil {
				return accounts, true, err
			}
			log.Warn("follow page fetch failed, continuing with partial list",
				"page", page, "collected", len(accounts), "error", err)
			return accounts, true, nil
		}
		if len(batch) == 0 {
			log.Info("follow list complete", "accounts", len(accounts), "pages", page-1)
			return accounts, false, nil
		}
		accounts = append(accounts, batch...)
		log.Info("fetched follow page", "page", page, "total", len(accounts))
	}
}
