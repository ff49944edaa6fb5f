package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"

	"github.com/affideck/affideck/app/models"
	"github.com/affideck/affideck/app/repository"
	"github.com/affideck/affideck/internal/pkg/shopify"
)

// Upsert is one mirror write derived from a remote price rule.
type Upsert struct {
	Code            string
	DiscountPercent decimal.Decimal
	RemoteRuleID    int64
}

// Plan is the computed difference between the remote rule set and the local
// mirror: rows to delete first, rules to upsert after. The ordering matters:
// a code that disappeared and reappeared under a new remote identifier must
// be treated as delete-then-recreate, which resets its commission percent.
type Plan struct {
	DeleteIDs []uint64
	Upserts   []Upsert
}

// BuildPlan computes the reconciliation plan. Pure; no I/O.
func BuildPlan(remote []shopify.PriceRule, local []models.Affiliate) Plan {
	remoteIDs := make(map[int64]struct{}, len(remote))
	for _, r := range remote {
		remoteIDs[r.ID] = struct{}{}
	}

	var plan Plan
	for _, a := range local {
		if a.RemoteRuleID == nil {
			// Unprovisioned rows are local-only; reconciliation never touches them.
			continue
		}
		if _, ok := remoteIDs[*a.RemoteRuleID]; !ok {
			plan.DeleteIDs = append(plan.DeleteIDs, a.ID)
		}
	}

	for _, r := range remote {
		plan.Upserts = append(plan.Upserts, Upsert{
			Code:            r.Title,
			DiscountPercent: r.DiscountValue(),
			RemoteRuleID:    r.ID,
		})
	}
	return plan
}

// RuleLister is the remote dependency of the engine.
type RuleLister interface {
	ListPriceRules(ctx context.Context) ([]shopify.PriceRule, error)
}

// Engine aligns the mirror table with the remote rule set.
type Engine struct {
	remote            RuleLister
	affiliates        repository.AffiliateRepository
	syncRuns          repository.SyncRunRepository
	defaultCommission decimal.Decimal
}

// NewEngine creates a reconciliation engine.
func NewEngine(remote RuleLister, affiliates repository.AffiliateRepository, syncRuns repository.SyncRunRepository, defaultCommission decimal.Decimal) *Engine {
	return &Engine{
		remote:            remote,
		affiliates:        affiliates,
		syncRuns:          syncRuns,
		defaultCommission: defaultCommission,
	}
}

// Sync runs one reconciliation pass and records it as a SyncRun row.
//
// The pass is not transactional: if the remote listing fails nothing is
// mutated locally, but a failure partway through the local writes leaves the
// already-applied deletes and upserts in place and aborts the remainder.
func (e *Engine) Sync(ctx context.Context) (*models.SyncRun, error) {
	run := &models.SyncRun{StartedAt: time.Now()}
	if e.syncRuns != nil {
		if err := e.syncRuns.Create(run); err != nil {
			log.Warnf("[Sync] could not record sync run: %v", err)
		}
	}

	result, err := e.syncOnce(ctx, run)
	now := time.Now()
	run.FinishedAt = &now
	if err != nil {
		run.Error = err.Error()
	}
	if e.syncRuns != nil && run.ID != 0 {
		if saveErr := e.syncRuns.Update(run); saveErr != nil {
			log.Warnf("[Sync] could not update sync run: %v", saveErr)
		}
	}
	if err != nil {
		return run, err
	}
	log.Infof("[Sync] reconciled mirror: %d deleted, %d upserted", result.deleted, result.upserted)
	return run, nil
}

type syncResult struct {
	deleted  int
	upserted int
}

func (e *Engine) syncOnce(ctx context.Context, run *models.SyncRun) (syncResult, error) {
	var result syncResult

	remote, err := e.remote.ListPriceRules(ctx)
	if err != nil {
		return result, fmt.Errorf("list price rules: %w", err)
	}

	local, err := e.affiliates.GetAll()
	if err != nil {
		return result, fmt.Errorf("load mirror: %w", err)
	}

	plan := BuildPlan(remote, local)

	// Deletions first: a rule already gone remotely gets no remote call,
	// just an unconditional local delete.
	for _, id := range plan.DeleteIDs {
		if err := e.affiliates.Delete(id); err != nil {
			return result, fmt.Errorf("delete orphaned affiliate %d: %w", id, err)
		}
		result.deleted++
		run.Deleted = result.deleted
	}

	for _, u := range plan.Upserts {
		if err := e.affiliates.UpsertByCode(u.Code, e.defaultCommission, u.DiscountPercent, u.RemoteRuleID); err != nil {
			return result, fmt.Errorf("upsert code %q: %w", u.Code, err)
		}
		result.upserted++
		run.Upserted = result.upserted
	}

	return result, nil
}
