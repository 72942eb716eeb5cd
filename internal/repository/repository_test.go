package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritrade/validator/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTrade(tradeID string) *domain.TradeRecord {
	return &domain.TradeRecord{
		ID:             "id-" + tradeID,
		TradeID:        tradeID,
		Counterparty:   "Goldman Sachs International",
		NotionalAmount: 50000000,
		Currency:       "USD",
		TradeType:      "interest_rate_swap",
		FixedRate:      4.75,
		PaymentFreq:    "Quarterly",
		ReferenceRate:  "SOFR",
		LegalEntity:    "Barclays Bank PLC",
		SettlementDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate:   time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:         "active",
		CreatedBy:      "system",
		CreatedAt:      time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
	}
}

func sampleSession(id, tradeID string) *domain.ValidationSession {
	return &domain.ValidationSession{
		ID:          id,
		SessionName: "Validation - " + tradeID,
		TradeID:     tradeID,
		Status:      domain.SessionPending,
		CreatedBy:   "ops.user",
		CreatedAt:   time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
	}
}

func TestTradeRepoRoundTrip(t *testing.T) {
	repo := NewTradeRepo(openTestDB(t))

	trade := sampleTrade("TR-2025-0421")
	require.NoError(t, repo.Insert(trade))

	got, err := repo.GetByTradeID("TR-2025-0421")
	require.NoError(t, err)
	assert.Equal(t, trade.TradeID, got.TradeID)
	assert.Equal(t, trade.Counterparty, got.Counterparty)
	assert.Equal(t, trade.NotionalAmount, got.NotionalAmount)
	assert.Equal(t, trade.FixedRate, got.FixedRate)
	assert.True(t, trade.SettlementDate.Equal(got.SettlementDate))
	assert.Nil(t, got.UpdatedAt)

	_, err = repo.GetByTradeID("TR-9999-0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTradeRepoBulkInsertIgnoresDuplicates(t *testing.T) {
	repo := NewTradeRepo(openTestDB(t))

	trades := []domain.TradeRecord{
		*sampleTrade("TR-2025-0420"),
		*sampleTrade("TR-2025-0421"),
		*sampleTrade("TR-2025-0421"),
	}
	inserted, err := repo.BulkInsert(trades)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTradeRepoListFilters(t *testing.T) {
	repo := NewTradeRepo(openTestDB(t))

	a := sampleTrade("TR-2025-0420")
	b := sampleTrade("TR-2025-0421")
	b.Counterparty = "HSBC Bank plc"
	b.Status = "settled"
	require.NoError(t, repo.Insert(a))
	require.NoError(t, repo.Insert(b))

	trades, total, err := repo.List(TradeFilter{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, trades, 1)
	assert.Equal(t, "TR-2025-0420", trades[0].TradeID)

	trades, total, err = repo.List(TradeFilter{Counterparty: "HSBC Bank plc"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "TR-2025-0421", trades[0].TradeID)
}

func TestSessionRepoLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepo(db)

	sess := sampleSession("sess-1", "TR-2025-0421")
	require.NoError(t, repo.Insert(sess))

	got, err := repo.GetByID("sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionPending, got.Status)
	assert.False(t, got.Validated)
	assert.Nil(t, got.CompletedAt)

	now := time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateStatus("sess-1", domain.SessionProcessing, now))

	got, err = repo.GetByID("sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionProcessing, got.Status)
	assert.Nil(t, got.CompletedAt, "non-terminal states must not stamp completed_at")

	sum := domain.ValidationSummary{
		TotalFields: 5, PassedCount: 3,
		CriticalCount: 1, HighCount: 1, TotalRiskScore: 40,
	}
	require.NoError(t, repo.RecordSummary("sess-1", sum, now))

	got, err = repo.GetByID("sess-1")
	require.NoError(t, err)
	assert.True(t, got.Validated)
	assert.Equal(t, 40, got.TotalRiskScore)
	assert.Equal(t, 1, got.CriticalCount)

	later := now.Add(time.Hour)
	require.NoError(t, repo.UpdateStatus("sess-1", domain.SessionManualReview, later))

	got, err = repo.GetByID("sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionManualReview, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, later.Equal(*got.CompletedAt))
}

func TestSessionRepoUpdateMissingSession(t *testing.T) {
	repo := NewSessionRepo(openTestDB(t))
	err := repo.UpdateStatus("nope", domain.SessionCompleted, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTermSheetRepoRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sessRepo := NewSessionRepo(db)
	require.NoError(t, sessRepo.Insert(sampleSession("sess-1", "TR-2025-0421")))

	repo := NewTermSheetRepo(db)
	ts := &domain.TermSheet{
		ID:        "ts-1",
		SessionID: "sess-1",
		TradeID:   "TR-2025-0421",
		Fields: map[string]domain.ExtractedField{
			"notional_amount": {Value: "52500000", Confidence: 0.9},
			"fixed_rate":      {Value: "4.85", Confidence: 0.9},
		},
		Source:     "regex_pattern",
		Confidence: 0.9,
		CreatedAt:  time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(ts))

	got, err := repo.GetBySessionID("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "TR-2025-0421", got.TradeID)
	assert.Equal(t, "52500000", got.Fields["notional_amount"].Value)
	assert.InDelta(t, 0.9, got.Fields["fixed_rate"].Confidence, 1e-9)

	_, err = repo.GetBySessionID("sess-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func seedDiscrepancies(t *testing.T, repo *DiscrepancyRepo, sessionID string) {
	t.Helper()
	now := time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC)
	discs := []domain.Discrepancy{
		{
			ID: "d-1", SessionID: sessionID, FieldName: "notional_amount",
			Severity: domain.SeverityHigh, RiskScore: 15,
			ReferenceValue: "50000000", ExtractedValue: "52500000",
			Deviation: 5.0, Description: "notional_amount high variance: 5.00% difference",
			Recommendation: "Verify notional amount", DetectedAt: now,
		},
		{
			ID: "d-2", SessionID: sessionID, FieldName: "fixed_rate",
			Severity: domain.SeverityCritical, RiskScore: 25,
			ReferenceValue: "4.75", ExtractedValue: "4.85",
			Deviation: 2.1, Description: "fixed_rate critical variance: 2.11% difference",
			Recommendation: "URGENT: Review fixed rate", DetectedAt: now,
		},
	}
	inserted, err := repo.BulkInsert(discs)
	require.NoError(t, err)
	require.Equal(t, 2, inserted)
}

func TestDiscrepancyRepoSessionQueries(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, NewSessionRepo(db).Insert(sampleSession("sess-1", "TR-2025-0421")))

	repo := NewDiscrepancyRepo(db)
	seedDiscrepancies(t, repo, "sess-1")

	discs, err := repo.GetBySessionID("sess-1")
	require.NoError(t, err)
	require.Len(t, discs, 2)
	// Most severe first.
	assert.Equal(t, domain.SeverityCritical, discs[0].Severity)
	assert.Equal(t, "fixed_rate", discs[0].FieldName)

	require.NoError(t, repo.ClearSession("sess-1"))
	discs, err = repo.GetBySessionID("sess-1")
	require.NoError(t, err)
	assert.Empty(t, discs)
}

func TestDiscrepancyRepoListAndSummary(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, NewSessionRepo(db).Insert(sampleSession("sess-1", "TR-2025-0421")))

	repo := NewDiscrepancyRepo(db)
	seedDiscrepancies(t, repo, "sess-1")

	discs, total, err := repo.List(DiscrepancyFilter{Severity: "critical"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, discs, 1)
	assert.Equal(t, "fixed_rate", discs[0].FieldName)

	summary, err := repo.GetSummary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 1, summary.BySeverity["critical"])
	assert.Equal(t, 1, summary.BySeverity["high"])
	assert.Equal(t, 1, summary.ByField["notional_amount"])
}

func TestDecisionRepoOnePerSession(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, NewSessionRepo(db).Insert(sampleSession("sess-1", "TR-2025-0421")))

	repo := NewDecisionRepo(db)
	first := &domain.Decision{
		ID:        "dec-1",
		SessionID: "sess-1",
		Action:    domain.ActionApprove,
		Reason:    "within tolerance",
		RiskScore: 15,
		Compliance: domain.ComplianceAssessment{
			MiFIDII: domain.VerdictCompliant, FCA: domain.VerdictCompliant,
			SEC: domain.VerdictCompliant, OverallRegulatory: domain.VerdictCompliant,
		},
		TotalDiscrepancies: 1,
		HighIssues:         1,
		DecidedBy:          "ops.reviewer",
		DecidedAt:          time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(first))

	second := *first
	second.ID = "dec-2"
	second.Action = domain.ActionReject
	err := repo.Insert(&second)
	assert.ErrorIs(t, err, domain.ErrDuplicateDecision)

	// The original decision stands untouched.
	got, err := repo.GetBySessionID("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "dec-1", got.ID)
	assert.Equal(t, domain.ActionApprove, got.Action)
	assert.Equal(t, domain.VerdictCompliant, got.Compliance.OverallRegulatory)

	_, err = repo.GetBySessionID("sess-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
