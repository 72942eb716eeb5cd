package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/veritrade/validator/internal/domain"
	"github.com/veritrade/validator/internal/metrics"
	"github.com/veritrade/validator/internal/repository"
	"github.com/veritrade/validator/internal/validation"
)

// Service orchestrates validation sessions: it loads the trusted trade
// record, runs the validation engine over extracted termsheet fields,
// persists the results, and records terminal decisions. The engine itself
// stays pure; all I/O lives here. The caller is responsible for keeping
// at most one run in flight per session.
type Service struct {
	tradeRepo *repository.TradeRepo
	sessRepo  *repository.SessionRepo
	termRepo  *repository.TermSheetRepo
	discRepo  *repository.DiscrepancyRepo
	decRepo   *repository.DecisionRepo
	metrics   *metrics.Metrics
}

func NewService(
	tradeRepo *repository.TradeRepo,
	sessRepo *repository.SessionRepo,
	termRepo *repository.TermSheetRepo,
	discRepo *repository.DiscrepancyRepo,
	decRepo *repository.DecisionRepo,
	m *metrics.Metrics,
) *Service {
	return &Service{
		tradeRepo: tradeRepo,
		sessRepo:  sessRepo,
		termRepo:  termRepo,
		discRepo:  discRepo,
		decRepo:   decRepo,
		metrics:   m,
	}
}

// Create starts a new pending session for a trade.
func (s *Service) Create(sessionName, tradeID, createdBy string) (*domain.ValidationSession, error) {
	if _, err := s.tradeRepo.GetByTradeID(tradeID); err != nil {
		return nil, fmt.Errorf("lookup trade %s: %w", tradeID, err)
	}

	if sessionName == "" {
		sessionName = fmt.Sprintf("Validation - %s - %s", tradeID, time.Now().UTC().Format("20060102_150405"))
	}

	sess := &domain.ValidationSession{
		ID:          uuid.NewString(),
		SessionName: sessionName,
		TradeID:     tradeID,
		Status:      domain.SessionPending,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.sessRepo.Insert(sess); err != nil {
		return nil, err
	}
	log.Printf("[session] Created session %s for trade %s", sess.ID, tradeID)
	return sess, nil
}

// RunResult bundles a completed run with the recommended next action.
type RunResult struct {
	Session           *domain.ValidationSession   `json:"session"`
	Summary           domain.ValidationSummary    `json:"summary"`
	Discrepancies     []domain.Discrepancy        `json:"discrepancies"`
	Compliance        domain.ComplianceAssessment `json:"compliance_assessment"`
	Recommendations   []string                    `json:"recommendations"`
	RecommendedAction domain.DecisionAction       `json:"recommended_action"`
}

// Validate runs the engine for a session against its trade record and
// persists the outcome. A re-run replaces the session's previous
// discrepancies. Policy overrides and engine options are per-run.
func (s *Service) Validate(
	sessionID string,
	termSheet *domain.TermSheet,
	policies map[string]domain.FieldPolicy,
	opts validation.Options,
) (*RunResult, error) {
	sess, err := s.sessRepo.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if dec, err := s.decRepo.GetBySessionID(sessionID); err == nil && dec != nil {
		return nil, fmt.Errorf("session %s already decided: %w", sessionID, domain.ErrDuplicateDecision)
	}

	trade, err := s.tradeRepo.GetByTradeID(sess.TradeID)
	if err != nil {
		return nil, fmt.Errorf("lookup trade %s: %w", sess.TradeID, err)
	}

	now := time.Now().UTC()
	if err := s.sessRepo.UpdateStatus(sessionID, domain.SessionProcessing, now); err != nil {
		return nil, err
	}

	// Persist the term sheet alongside the run for audit.
	termSheet.ID = uuid.NewString()
	termSheet.SessionID = sessionID
	termSheet.TradeID = sess.TradeID
	termSheet.CreatedAt = now
	if err := s.termRepo.Insert(termSheet); err != nil {
		return nil, fmt.Errorf("store term sheet: %w", err)
	}

	result := validation.Evaluate(trade.ReferenceFields(), termSheet.FieldValues(), policies, opts)

	// Stamp and persist the discrepancies.
	if err := s.discRepo.ClearSession(sessionID); err != nil {
		return nil, fmt.Errorf("clear discrepancies: %w", err)
	}
	bySeverity := make(map[string]int)
	for i := range result.Discrepancies {
		d := &result.Discrepancies[i]
		d.ID = uuid.NewString()
		d.SessionID = sessionID
		d.DetectedAt = now
		bySeverity[string(d.Severity)]++
	}
	if len(result.Discrepancies) > 0 {
		if _, err := s.discRepo.BulkInsert(result.Discrepancies); err != nil {
			return nil, fmt.Errorf("insert discrepancies: %w", err)
		}
	}

	if err := s.sessRepo.RecordSummary(sessionID, result.Summary, now); err != nil {
		return nil, fmt.Errorf("record summary: %w", err)
	}

	s.metrics.ObserveRun(bySeverity)

	log.Printf("[session] Validated %s: %d fields, %d critical, %d high, %d minor, risk=%d",
		sessionID, result.Summary.TotalFields, result.Summary.CriticalCount,
		result.Summary.HighCount, result.Summary.MinorCount, result.Summary.TotalRiskScore)

	sess, err = s.sessRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Session:           sess,
		Summary:           result.Summary,
		Discrepancies:     result.Discrepancies,
		Compliance:        result.Compliance,
		Recommendations:   result.Recommendations,
		RecommendedAction: validation.RecommendedAction(result.Summary),
	}, nil
}

// Decide records the terminal decision for a session. The decision
// snapshots the session's current risk score, counts, and compliance
// verdicts. Submitting a second decision fails closed with
// domain.ErrDuplicateDecision; the original stands.
func (s *Service) Decide(sessionID string, action domain.DecisionAction, reason, decidedBy string) (*domain.Decision, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("invalid decision action %q", action)
	}

	sess, err := s.sessRepo.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if !sess.Validated {
		return nil, fmt.Errorf("session %s has not been validated", sessionID)
	}

	summary := domain.ValidationSummary{
		TotalFields:    sess.TotalFields,
		PassedCount:    sess.PassedCount,
		CriticalCount:  sess.CriticalCount,
		HighCount:      sess.HighCount,
		MinorCount:     sess.MinorCount,
		TotalRiskScore: sess.TotalRiskScore,
	}
	compliance := validation.AssessCompliance(sess.CriticalCount, sess.HighCount)

	now := time.Now().UTC()
	dec := validation.BuildDecision(sessionID, action, reason, decidedBy, summary, compliance, now)
	dec.ID = uuid.NewString()

	if err := s.decRepo.Insert(&dec); err != nil {
		if errors.Is(err, domain.ErrDuplicateDecision) {
			return nil, domain.ErrDuplicateDecision
		}
		return nil, err
	}

	if err := s.sessRepo.UpdateStatus(sessionID, action.SessionStatusFor(), now); err != nil {
		return nil, fmt.Errorf("update session status: %w", err)
	}

	s.metrics.ObserveDecision(string(action))

	log.Printf("[session] Decision for %s: %s (risk=%d, critical=%d, high=%d)",
		sessionID, action, dec.RiskScore, dec.CriticalIssues, dec.HighIssues)
	return &dec, nil
}
