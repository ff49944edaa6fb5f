package reconcile

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/affideck/affideck/app/models"
	"github.com/affideck/affideck/internal/pkg/shopify"
)

func remoteRule(id int64, title, value string) shopify.PriceRule {
	return shopify.PriceRule{ID: id, Title: title, Value: decimal.RequireFromString(value)}
}

func mirrorRow(id uint64, code string, remoteRuleID int64, commission string) models.Affiliate {
	return models.Affiliate{
		ID:                id,
		Name:              code,
		Code:              code,
		DiscountPercent:   decimal.NewFromInt(10),
		CommissionPercent: decimal.RequireFromString(commission),
		Status:            models.AffiliateStatusActive,
		RemoteRuleID:      &remoteRuleID,
	}
}

func TestBuildPlanDeletesOrphans(t *testing.T) {
	remote := []shopify.PriceRule{remoteRule(100, "ALICE", "-10.0")}
	local := []models.Affiliate{
		mirrorRow(1, "ALICE", 100, "10"),
		mirrorRow(2, "BOB", 200, "15"),
	}

	plan := BuildPlan(remote, local)

	assert.Equal(t, []uint64{2}, plan.DeleteIDs)
	assert.Len(t, plan.Upserts, 1)
	assert.Equal(t, "ALICE", plan.Upserts[0].Code)
	assert.Equal(t, int64(100), plan.Upserts[0].RemoteRuleID)
	assert.True(t, plan.Upserts[0].DiscountPercent.Equal(decimal.NewFromInt(10)))
}

func TestBuildPlanSkipsUnprovisionedRows(t *testing.T) {
	local := []models.Affiliate{{ID: 5, Code: "PENDING"}}

	plan := BuildPlan(nil, local)

	assert.Empty(t, plan.DeleteIDs)
	assert.Empty(t, plan.Upserts)
}

func TestBuildPlanRecreatedRuleIsDeleteThenUpsert(t *testing.T) {
	// Same code, new remote identifier: the stale row goes, the upsert
	// recreates the code under the new rule id.
	remote := []shopify.PriceRule{remoteRule(999, "ALICE", "-20.0")}
	local := []models.Affiliate{mirrorRow(1, "ALICE", 100, "25")}

	plan := BuildPlan(remote, local)

	assert.Equal(t, []uint64{1}, plan.DeleteIDs)
	assert.Len(t, plan.Upserts, 1)
	assert.Equal(t, int64(999), plan.Upserts[0].RemoteRuleID)
	assert.True(t, plan.Upserts[0].DiscountPercent.Equal(decimal.NewFromInt(20)))
}

// fakeLister serves a canned rule set or a canned failure.
type fakeLister struct {
	rules []shopify.PriceRule
	err   error
}

func (f *fakeLister) ListPriceRules(ctx context.Context) ([]shopify.PriceRule, error) {
	return f.rules, f.err
}

// memoryAffiliates is an in-memory stand-in for the gorm repository.
type memoryAffiliates struct {
	rows      map[uint64]*models.Affiliate
	nextID    uint64
	upsertErr error
}

func newMemoryAffiliates(rows ...models.Affiliate) *memoryAffiliates {
	m := &memoryAffiliates{rows: make(map[uint64]*models.Affiliate), nextID: 1}
	for i := range rows {
		row := rows[i]
		m.rows[row.ID] = &row
		if row.ID >= m.nextID {
			m.nextID = row.ID + 1
		}
	}
	return m
}

func (m *memoryAffiliates) Create(a *models.Affiliate) error {
	a.ID = m.nextID
	m.nextID++
	m.rows[a.ID] = a
	return nil
}

func (m *memoryAffiliates) GetByID(id uint64) (*models.Affiliate, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (m *memoryAffiliates) GetByCode(code string) (*models.Affiliate, error) {
	for _, row := range m.rows {
		if row.Code == code {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryAffiliates) GetAll() ([]models.Affiliate, error) {
	out := make([]models.Affiliate, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryAffiliates) Update(a *models.Affiliate) error {
	m.rows[a.ID] = a
	return nil
}

func (m *memoryAffiliates) Delete(id uint64) error {
	delete(m.rows, id)
	return nil
}

func (m *memoryAffiliates) UpsertByCode(code string, defaultCommission, discountPercent decimal.Decimal, remoteRuleID int64) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for _, row := range m.rows {
		if row.Code == code {
			row.DiscountPercent = discountPercent
			row.RemoteRuleID = &remoteRuleID
			row.Status = models.AffiliateStatusActive
			return nil
		}
	}
	return m.Create(&models.Affiliate{
		Name:              code,
		Code:              code,
		DiscountPercent:   discountPercent,
		CommissionPercent: defaultCommission,
		Status:            models.AffiliateStatusActive,
		RemoteRuleID:      &remoteRuleID,
	})
}

func (m *memoryAffiliates) Count() (int64, error) {
	return int64(len(m.rows)), nil
}

func (m *memoryAffiliates) CodeCommissionMap() (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(m.rows))
	for _, row := range m.rows {
		out[row.Code] = row.CommissionPercent
	}
	return out, nil
}

// memorySyncRuns records runs without a database.
type memorySyncRuns struct {
	runs   []*models.SyncRun
	nextID uint64
}

func (m *memorySyncRuns) Create(run *models.SyncRun) error {
	m.nextID++
	run.ID = m.nextID
	m.runs = append(m.runs, run)
	return nil
}

func (m *memorySyncRuns) Update(run *models.SyncRun) error { return nil }

func (m *memorySyncRuns) GetLatest() (*models.SyncRun, error) {
	if len(m.runs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return m.runs[len(m.runs)-1], nil
}

func TestEngineSyncRemovesOrphansAndRefreshes(t *testing.T) {
	affiliates := newMemoryAffiliates(
		mirrorRow(1, "ALICE", 100, "25"),
		mirrorRow(2, "GONE", 200, "10"),
	)
	lister := &fakeLister{rules: []shopify.PriceRule{
		remoteRule(100, "ALICE", "-15.0"),
		remoteRule(300, "NEW", "-5.0"),
	}}
	engine := NewEngine(lister, affiliates, &memorySyncRuns{}, decimal.NewFromInt(10))

	run, err := engine.Sync(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, run.Deleted)
	assert.Equal(t, 2, run.Upserted)
	assert.NotNil(t, run.FinishedAt)
	assert.True(t, run.Succeeded())

	_, err = affiliates.GetByCode("GONE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	alice, err := affiliates.GetByCode("ALICE")
	assert.NoError(t, err)
	assert.True(t, alice.DiscountPercent.Equal(decimal.NewFromInt(15)))
	// The edited commission survives a refresh of a surviving code.
	assert.True(t, alice.CommissionPercent.Equal(decimal.NewFromInt(25)))

	added, err := affiliates.GetByCode("NEW")
	assert.NoError(t, err)
	assert.True(t, added.CommissionPercent.Equal(decimal.NewFromInt(10)))
}

func TestEngineSyncRecreatedCodeResetsCommission(t *testing.T) {
	affiliates := newMemoryAffiliates(mirrorRow(1, "ALICE", 100, "40"))
	lister := &fakeLister{rules: []shopify.PriceRule{remoteRule(900, "ALICE", "-10.0")}}
	engine := NewEngine(lister, affiliates, &memorySyncRuns{}, decimal.NewFromInt(10))

	_, err := engine.Sync(context.Background())
	assert.NoError(t, err)

	alice, err := affiliates.GetByCode("ALICE")
	assert.NoError(t, err)
	assert.Equal(t, int64(900), *alice.RemoteRuleID)
	assert.True(t, alice.CommissionPercent.Equal(decimal.NewFromInt(10)))
}

func TestEngineSyncRemoteFailureLeavesMirrorUntouched(t *testing.T) {
	affiliates := newMemoryAffiliates(mirrorRow(1, "ALICE", 100, "25"))
	lister := &fakeLister{err: &shopify.APIError{StatusCode: 500, Body: "boom"}}
	runs := &memorySyncRuns{}
	engine := NewEngine(lister, affiliates, runs, decimal.NewFromInt(10))

	run, err := engine.Sync(context.Background())
	assert.Error(t, err)
	assert.NotEmpty(t, run.Error)
	assert.False(t, run.Succeeded())

	all, _ := affiliates.GetAll()
	assert.Len(t, all, 1)
}

func TestEngineSyncAbortsOnWriteFailure(t *testing.T) {
	affiliates := newMemoryAffiliates(mirrorRow(1, "GONE", 200, "10"))
	affiliates.upsertErr = errors.New("write refused")
	lister := &fakeLister{rules: []shopify.PriceRule{remoteRule(300, "NEW", "-5.0")}}
	engine := NewEngine(lister, affiliates, &memorySyncRuns{}, decimal.NewFromInt(10))

	run, err := engine.Sync(context.Background())
	assert.Error(t, err)
	// The applied delete stays; the failed upsert batch is aborted.
	assert.Equal(t, 1, run.Deleted)
	assert.Equal(t, 0, run.Upserted)

	all, _ := affiliates.GetAll()
	assert.Empty(t, all)
}
