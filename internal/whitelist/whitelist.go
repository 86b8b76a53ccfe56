// Package whitelist computes the set of account ids protected from
// removal: manually configured ids plus, optionally, the account's mutual
// follows and special-attention group.
package whitelist

import (
	"context"
	"errors"

	"bilisweep/internal/bili"
	"bilisweep/internal/log"
	"bilisweep/internal/model"
	"bilisweep/internal/pace"
)

// Set holds the protected account ids for one run. It is built once at run
// start and read-only thereafter.
type Set map[int64]struct{}

// Contains reports whether id is protected.
func (s Set) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// API is the relation reads the builder depends on.
type API interface {
	MutualFollows(ctx context.Context) ([]model.Account, error)
	SpecialGroupPage(ctx context.Context, page int) ([]int64, error)
}

// Builder assembles whitelist sets.
type Builder struct {
	api   API
	pacer *pace.Pacer
}

// NewBuilder creates a Builder.
func NewBuilder(api API, pacer *pace.Pacer) *Builder {
	return &Builder{api: api, pacer: pacer}
}

// Build unions the manual ids with, when autoEnabled, the mutual-follow and
// special-group relations. Relation fetch failures contribute zero ids and
// never fail the build; rate-limit errors and cancellation propagate so the
// run can stop before doing damage.
func (b *Builder) Build(ctx context.Context, manual []int64, autoEnabled bool) (Set, error) {
	set := make(Set, len(manual))
	for _, id := range manual {
		set[id] = struct{}{}
	}
	if !autoEnabled {
		return set, nil
	}

	mutuals, err := pace.RunValue(ctx, b.pacer, b.api.MutualFollows)
	if err != nil {
		if errors.Is(err, bili.ErrRateLimited) || ctx.Err() != nil {
			return nil, err
		}
		log.Warn("mutual follow fetch failed, contributing no ids", "error", err)
	} else {
		for _, a := range mutuals {
			set[a.ID] = struct{}{}
			log.Info("whitelisting mutual follow", "uid", a.ID, "name", a.Name)
		}
	}

	// The special-group endpoint has no total count; the provider's own
	// convention is to stop when a page is empty or repeats an id already
	// seen at the head of a page.
	seen := make(map[int64]bool)
	for page := 1; ; page++ {
		ids, err := pace.RunValue(ctx, b.pacer, func(ctx context.Context) ([]int64, error) {
			return b.api.SpecialGroupPage(ctx, page)
		})
		if err != nil {
			if errors.Is(err, bili.ErrRateLimited) || ctx.Err() != nil {
				return nil, err
			}
			log.Warn("special group fetch failed, contributing no further ids",
				"page", page, "error", err)
			break
		}
		if len(ids) == 0 || seen[ids[0]] {
			break
		}
		for _, id := range ids {
			seen[id] = true
			set[id] = struct{}{}
			log.Info("whitelisting special-attention account", "uid", id)
		}
	}

	log.Info("whitelist built", "protected", len(set))
	return set, nil
}
