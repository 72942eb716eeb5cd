package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/veritrade/validator/internal/domain"
	"github.com/veritrade/validator/internal/repository"
	"github.com/veritrade/validator/internal/validation"
)

// SessionReport is the full audit view of one validation session: the
// trusted trade record, every recorded discrepancy, the compliance
// verdicts, and the decision if one has been taken.
type SessionReport struct {
	GeneratedAt     time.Time                   `json:"generated_at"`
	Session         *domain.ValidationSession   `json:"session"`
	Trade           *domain.TradeRecord         `json:"trade_record"`
	Discrepancies   []domain.Discrepancy        `json:"discrepancies"`
	Summary         domain.ValidationSummary    `json:"summary"`
	Compliance      domain.ComplianceAssessment `json:"compliance_assessment"`
	Recommendations []string                    `json:"recommendations"`
	Decision        *domain.Decision            `json:"decision,omitempty"`
}

// Builder assembles session reports from the persistence layer.
type Builder struct {
	tradeRepo *repository.TradeRepo
	sessRepo  *repository.SessionRepo
	discRepo  *repository.DiscrepancyRepo
	decRepo   *repository.DecisionRepo
}

func NewBuilder(tradeRepo *repository.TradeRepo, sessRepo *repository.SessionRepo, discRepo *repository.DiscrepancyRepo, decRepo *repository.DecisionRepo) *Builder {
	return &Builder{tradeRepo: tradeRepo, sessRepo: sessRepo, discRepo: discRepo, decRepo: decRepo}
}

// Build loads everything recorded for a session. The session must have
// been validated; summary fields are read back from the session row, not
// recomputed, so the report always reflects the run that was persisted.
func (b *Builder) Build(sessionID string) (*SessionReport, error) {
	sess, err := b.sessRepo.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if !sess.Validated {
		return nil, fmt.Errorf("session %s has not been validated", sessionID)
	}

	trade, err := b.tradeRepo.GetByTradeID(sess.TradeID)
	if err != nil {
		return nil, fmt.Errorf("lookup trade %s: %w", sess.TradeID, err)
	}

	discs, err := b.discRepo.GetBySessionID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load discrepancies: %w", err)
	}

	summary := domain.ValidationSummary{
		TotalFields:     sess.TotalFields,
		PassedCount:     sess.PassedCount,
		CriticalCount:   sess.CriticalCount,
		HighCount:       sess.HighCount,
		MinorCount:      sess.MinorCount,
		TotalRiskScore:  sess.TotalRiskScore,
		ComplianceLevel: validation.ComplianceLevelFor(sess.CriticalCount, sess.HighCount),
		OverallStatus:   validation.OverallStatusFor(sess.CriticalCount),
	}

	rep := &SessionReport{
		GeneratedAt:     time.Now().UTC(),
		Session:         sess,
		Trade:           trade,
		Discrepancies:   discs,
		Summary:         summary,
		Compliance:      validation.AssessCompliance(sess.CriticalCount, sess.HighCount),
		Recommendations: validation.Recommendations(discs, summary),
	}

	if dec, err := b.decRepo.GetBySessionID(sessionID); err == nil {
		rep.Decision = dec
	}
	return rep, nil
}

// RenderText formats the report as a plain-text document suitable for
// attaching to a review ticket or printing to a terminal.
func RenderText(r *SessionReport) string {
	var sb strings.Builder
	line := strings.Repeat("=", 72)
	thin := strings.Repeat("-", 72)

	fmt.Fprintf(&sb, "%s\nTRADE VALIDATION REPORT\n%s\n", line, line)
	fmt.Fprintf(&sb, "Generated:      %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&sb, "Session:        %s (%s)\n", r.Session.SessionName, r.Session.ID)
	fmt.Fprintf(&sb, "Status:         %s\n\n", r.Session.Status)

	fmt.Fprintf(&sb, "TRADE RECORD (REFERENCE DATA)\n%s\n", thin)
	fmt.Fprintf(&sb, "Trade ID:       %s\n", r.Trade.TradeID)
	fmt.Fprintf(&sb, "Counterparty:   %s\n", r.Trade.Counterparty)
	fmt.Fprintf(&sb, "Notional:       %s %s\n", formatAmount(r.Trade.NotionalAmount), r.Trade.Currency)
	fmt.Fprintf(&sb, "Fixed Rate:     %.4g%%\n", r.Trade.FixedRate)
	fmt.Fprintf(&sb, "Settlement:     %s\n", r.Trade.SettlementDate.Format(domain.DateFormat))
	fmt.Fprintf(&sb, "Maturity:       %s\n\n", r.Trade.MaturityDate.Format(domain.DateFormat))

	fmt.Fprintf(&sb, "VALIDATION SUMMARY\n%s\n", thin)
	fmt.Fprintf(&sb, "Fields Checked: %d\n", r.Summary.TotalFields)
	fmt.Fprintf(&sb, "Passed:         %d\n", r.Summary.PassedCount)
	fmt.Fprintf(&sb, "Critical:       %d\n", r.Summary.CriticalCount)
	fmt.Fprintf(&sb, "High:           %d\n", r.Summary.HighCount)
	fmt.Fprintf(&sb, "Minor:          %d\n", r.Summary.MinorCount)
	fmt.Fprintf(&sb, "Risk Score:     %d/100\n", r.Summary.TotalRiskScore)
	fmt.Fprintf(&sb, "Compliance:     %s\n", r.Summary.ComplianceLevel)
	fmt.Fprintf(&sb, "Overall Status: %s\n\n", r.Summary.OverallStatus)

	if len(r.Discrepancies) > 0 {
		fmt.Fprintf(&sb, "DISCREPANCIES (%d)\n%s\n", len(r.Discrepancies), thin)
		for i, d := range r.Discrepancies {
			fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, strings.ToUpper(string(d.Severity)), d.FieldName)
			fmt.Fprintf(&sb, "   Expected: %s\n", d.ReferenceValue)
			fmt.Fprintf(&sb, "   Found:    %s\n", d.ExtractedValue)
			fmt.Fprintf(&sb, "   %s\n", d.Description)
			if d.Recommendation != "" {
				fmt.Fprintf(&sb, "   Action:   %s\n", d.Recommendation)
			}
		}
		sb.WriteString("\n")
	} else {
		fmt.Fprintf(&sb, "DISCREPANCIES\n%s\nNone. All fields match within tolerance.\n\n", thin)
	}

	fmt.Fprintf(&sb, "REGULATORY COMPLIANCE\n%s\n", thin)
	fmt.Fprintf(&sb, "MiFID II:       %s\n", r.Compliance.MiFIDII)
	fmt.Fprintf(&sb, "FCA Rules:      %s\n", r.Compliance.FCA)
	fmt.Fprintf(&sb, "SEC:            %s\n", r.Compliance.SEC)
	fmt.Fprintf(&sb, "Overall:        %s\n\n", r.Compliance.OverallRegulatory)

	fmt.Fprintf(&sb, "RECOMMENDATIONS\n%s\n", thin)
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&sb, "- %s\n", rec)
	}
	sb.WriteString("\n")

	if r.Decision != nil {
		fmt.Fprintf(&sb, "DECISION\n%s\n", thin)
		fmt.Fprintf(&sb, "Action:         %s\n", r.Decision.Action)
		fmt.Fprintf(&sb, "Decided By:     %s\n", r.Decision.DecidedBy)
		fmt.Fprintf(&sb, "Decided At:     %s\n", r.Decision.DecidedAt.Format("2006-01-02 15:04:05 UTC"))
		if r.Decision.Reason != "" {
			fmt.Fprintf(&sb, "Reason:         %s\n", r.Decision.Reason)
		}
	}

	sb.WriteString(line + "\n")
	return sb.String()
}

// formatAmount renders a notional with thousands separators.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out) + frac
}
