// Package sweep orchestrates one unfollow run: it classifies every followed
// account in list order and removes the inactive ones under pacing.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bilisweep/internal/activity"
	"bilisweep/internal/bili"
	"bilisweep/internal/format"
	"bilisweep/internal/log"
	"bilisweep/internal/model"
	"bilisweep/internal/pace"
	"bilisweep/internal/whitelist"
)

// Config holds the per-run policy knobs. Validation happens in the config
// layer before a run starts; the engine assumes sane values.
type Config struct {
	SkipMostRecent        int
	InactiveThresholdDays int
	Mode                  activity.Mode
	RemoveNoActivity      bool
	RemoveDeactivated     bool
	DryRun                bool
}

// ActivitySource resolves the most recent activity signal for an account.
type ActivitySource interface {
	LastActive(ctx context.Context, acct model.Account, mode activity.Mode) (model.ActivitySignal, error)
}

// Unfollower removes the follow relation to an account.
type Unfollower interface {
	Unfollow(ctx context.Context, mid int64) error
}

// Engine evaluates accounts strictly sequentially. Pacing delays are the
// anti-abuse control; concurrent evaluation would defeat them.
type Engine struct {
	cfg        Config
	resolver   ActivitySource
	unfollower Unfollower
	pacer      *pace.Pacer

	now        func() time.Time
	onDecision func(model.Decision)
}

// New creates an Engine.
func New(cfg Config, resolver ActivitySource, unfollower Unfollower, pacer *pace.Pacer) *Engine {
	return &Engine{
		cfg:        cfg,
		resolver:   resolver,
		unfollower: unfollower,
		pacer:      pacer,
		now:        time.Now,
	}
}

// OnDecision registers a callback invoked for every classified account, in
// order. Used by the CLI to collect decisions for rendering.
func (e *Engine) OnDecision(fn func(model.Decision)) {
	e.onDecision = fn
}

// Run sweeps the account list against the whitelist and returns the run
// report. The report is always returned, even alongside an error: a
// rate-limit abort or external stop finalizes with whatever was counted.
func (e *Engine) Run(ctx context.Context, accounts []model.Account, wl whitelist.Set) (*model.RunReport, error) {
	start := e.now()
	report := &model.RunReport{}
	finish := func(err error) (*model.RunReport, error) {
		report.Finalize(e.now().Sub(start))
		return report, err
	}

	for i, acct := range accounts {
		// Safe abort boundary: between accounts, never mid-account.
		if err := ctx.Err(); err != nil {
			log.Warn("run stopped early, remaining accounts were not evaluated",
				"processed", report.TotalScanned, "remaining", len(accounts)-i)
			return finish(err)
		}

		decision, err := e.classify(ctx, i, acct, wl)
		if err != nil {
			if errors.Is(err, bili.ErrRateLimited) {
				report.RateLimited = true
				log.Error("rate limited by platform, aborting run; remaining accounts were not evaluated",
					"processed", report.TotalScanned, "remaining", len(accounts)-i)
				return finish(fmt.Errorf("run aborted after %d of %d accounts: %w",
					report.TotalScanned, len(accounts), err))
			}
			return finish(err)
		}

		if err := e.act(ctx, report, decision); err != nil {
			if errors.Is(err, bili.ErrRateLimited) {
				report.RateLimited = true
				log.Error("rate limited by platform during unfollow, aborting run; remaining accounts were not evaluated",
					"processed", report.TotalScanned, "remaining", len(accounts)-i)
				return finish(fmt.Errorf("run aborted after %d of %d accounts: %w",
					report.TotalScanned, len(accounts), err))
			}
			return finish(err)
		}

		report.TotalScanned++
		if e.onDecision != nil {
			e.onDecision(decision)
		}
	}

	return finish(nil)
}

// classify runs the per-account state machine up to, but not including, the
// unfollow action.
func (e *Engine) classify(ctx context.Context, index int, acct model.Account, wl whitelist.Set) (model.Decision, error) {
	d := model.Decision{Account: acct, Index: index + 1}

	// Newly-followed accounts have no activity history worth judging yet.
	if index < e.cfg.SkipMostRecent {
		d.Action = model.ActionSkip
		d.Reason = fmt.Sprintf("recently followed (position %d, skipping newest %d)", index+1, e.cfg.SkipMostRecent)
		log.Info("skip", "uid", acct.ID, "name", acct.Name, "reason", d.Reason)
		return d, nil
	}

	// Whitelist short-circuits before any network cost.
	if wl.Contains(acct.ID) {
		d.Action = model.ActionKeep
		d.Reason = "whitelisted"
		log.Info("keep", "uid", acct.ID, "name", acct.Name, "reason", d.Reason)
		return d, nil
	}

	// Deactivated accounts have no activity to check.
	if acct.Name == bili.DeactivatedName {
		if e.cfg.RemoveDeactivated {
			d.Action = model.ActionRemove
			d.Reason = "account deactivated"
		} else {
			d.Action = model.ActionKeep
			d.Reason = "account deactivated (removal disabled)"
		}
		log.Info(string(d.Action), "uid", acct.ID, "reason", d.Reason)
		return d, nil
	}

	sig, err := pace.RunValue(ctx, e.pacer, func(ctx context.Context) (model.ActivitySignal, error) {
		return e.resolver.LastActive(ctx, acct, e.cfg.Mode)
	})
	if err != nil {
		return d, err
	}

	if sig.Empty() {
		if e.cfg.RemoveNoActivity {
			d.Action = model.ActionRemove
			d.Reason = "no discoverable activity"
		} else {
			d.Action = model.ActionKeep
			d.Reason = "no discoverable activity (removal disabled)"
		}
		log.Info(string(d.Action), "uid", acct.ID, "name", acct.Name, "reason", d.Reason)
		return d, nil
	}

	d.LastActive = sig.Timestamp
	d.PastDays = int((e.now().Unix() - sig.Timestamp) / 86400)
	if d.PastDays > e.cfg.InactiveThresholdDays {
		d.Action = model.ActionRemove
		d.Reason = fmt.Sprintf("inactive for %d days (threshold %d)", d.PastDays, e.cfg.InactiveThresholdDays)
	} else {
		d.Action = model.ActionKeep
		d.Reason = fmt.Sprintf("last active %d days ago", d.PastDays)
	}
	log.Info(string(d.Action), "uid", acct.ID, "name", acct.Name, "reason", d.Reason,
		"last_active", format.UnixDate(sig.Timestamp))
	return d, nil
}

// act executes the decision and updates the report. Per-account unfollow
// failures are tallied and the run continues; only a rate-limit failure (or
// cancellation during the paced delay) returns an error.
func (e *Engine) act(ctx context.Context, report *model.RunReport, d model.Decision) error {
	switch d.Action {
	case model.ActionSkip:
		report.Skipped++
	case model.ActionKeep:
		report.Kept++
	case model.ActionRemove:
		if e.cfg.DryRun {
			report.Removed++
			log.Info("dry-run: would unfollow", "uid", d.Account.ID, "name", d.Account.Name, "reason", d.Reason)
			return nil
		}
		err := e.pacer.Run(ctx, func(ctx context.Context) error {
			return e.unfollower.Unfollow(ctx, d.Account.ID)
		})
		switch {
		case err == nil:
			report.Removed++
			log.Info("unfollowed", "uid", d.Account.ID, "name", d.Account.Name, "reason", d.Reason)
		case errors.Is(err, bili.ErrRateLimited) || ctx.Err() != nil:
			return err
		default:
			// Independent and recoverable by re-running later.
			report.Failed++
			log.Error("unfollow failed", "uid", d.Account.ID, "name", d.Account.Name, "error", err)
		}
	}
	return nil
}
