package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/veritrade/validator/internal/domain"
	"github.com/veritrade/validator/internal/extraction"
	"github.com/veritrade/validator/internal/report"
	"github.com/veritrade/validator/internal/repository"
	"github.com/veritrade/validator/internal/session"
	"github.com/veritrade/validator/internal/validation"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	tradeRepo *repository.TradeRepo
	sessRepo  *repository.SessionRepo
	discRepo  *repository.DiscrepancyRepo
	svc       *session.Service
	reports   *report.Builder
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}

// --- Trades ---

type createTradeRequest struct {
	TradeID        string  `json:"trade_id"`
	Counterparty   string  `json:"counterparty"`
	NotionalAmount float64 `json:"notional_amount"`
	Currency       string  `json:"currency"`
	TradeType      string  `json:"trade_type"`
	FixedRate      float64 `json:"fixed_rate"`
	PaymentFreq    string  `json:"payment_frequency"`
	ReferenceRate  string  `json:"reference_rate"`
	LegalEntity    string  `json:"legal_entity"`
	SettlementDate string  `json:"settlement_date"`
	MaturityDate   string  `json:"maturity_date"`
	CreatedBy      string  `json:"created_by"`
}

func (h *Handlers) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var req createTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.TradeID == "" || req.Counterparty == "" || req.Currency == "" {
		writeError(w, http.StatusBadRequest, "trade_id, counterparty and currency are required")
		return
	}

	settlement, err := parseDate(req.SettlementDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "settlement_date must be YYYY-MM-DD")
		return
	}
	maturity, err := parseDate(req.MaturityDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "maturity_date must be YYYY-MM-DD")
		return
	}

	trade := &domain.TradeRecord{
		ID:             uuid.NewString(),
		TradeID:        req.TradeID,
		Counterparty:   req.Counterparty,
		NotionalAmount: req.NotionalAmount,
		Currency:       req.Currency,
		TradeType:      req.TradeType,
		FixedRate:      req.FixedRate,
		PaymentFreq:    req.PaymentFreq,
		ReferenceRate:  req.ReferenceRate,
		LegalEntity:    req.LegalEntity,
		SettlementDate: settlement,
		MaturityDate:   maturity,
		Status:         "active",
		CreatedBy:      req.CreatedBy,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.tradeRepo.Insert(trade); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, trade)
}

func (h *Handlers) ListTrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TradeFilter{
		Status:       q.Get("status"),
		Counterparty: q.Get("counterparty"),
		Page:         parseIntDefault(q.Get("page"), 1),
		Limit:        parseIntDefault(q.Get("limit"), 50),
	}

	trades, total, err := h.tradeRepo.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trades": trades,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

func (h *Handlers) GetTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "tradeID")

	trade, err := h.tradeRepo.GetByTradeID(tradeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "trade not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

// --- Sessions ---

type createSessionRequest struct {
	SessionName string `json:"session_name"`
	TradeID     string `json:"trade_id"`
	CreatedBy   string `json:"created_by"`
}

func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.TradeID == "" {
		writeError(w, http.StatusBadRequest, "trade_id is required")
		return
	}

	sess, err := h.svc.Create(req.SessionName, req.TradeID, req.CreatedBy)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "trade not found: "+req.TradeID)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.SessionFilter{
		Status:  q.Get("status"),
		TradeID: q.Get("trade_id"),
		Page:    parseIntDefault(q.Get("page"), 1),
		Limit:   parseIntDefault(q.Get("limit"), 50),
	}

	sessions, total, err := h.sessRepo.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := h.sessRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// --- Validation ---

type validateRequest struct {
	// Exactly one of TermsheetText or Fields must be provided. Fields
	// carries values a client extracted itself.
	TermsheetText string            `json:"termsheet_text"`
	Fields        map[string]string `json:"fields"`

	// Optional per-run policy overrides, merged over the built-in registry.
	Policies    []domain.FieldPolicy `json:"policies"`
	FlagMissing bool                 `json:"flag_missing"`
}

func (h *Handlers) ValidateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	var termSheet *domain.TermSheet
	switch {
	case req.TermsheetText != "" && len(req.Fields) > 0:
		writeError(w, http.StatusBadRequest, "provide termsheet_text or fields, not both")
		return
	case req.TermsheetText != "":
		termSheet = extraction.ExtractTermSheet(req.TermsheetText)
		if len(termSheet.Fields) == 0 {
			writeError(w, http.StatusUnprocessableEntity, "no trade fields could be extracted from termsheet_text")
			return
		}
	case len(req.Fields) > 0:
		termSheet = extraction.FromFieldMap(req.Fields, 1.0)
	default:
		writeError(w, http.StatusBadRequest, "termsheet_text or fields is required")
		return
	}

	policies := domain.DefaultPolicies()
	for _, p := range req.Policies {
		if p.FieldName == "" {
			writeError(w, http.StatusBadRequest, "policy override missing field_name")
			return
		}
		policies[p.FieldName] = p
	}

	result, err := h.svc.Validate(id, termSheet, policies, validation.Options{FlagMissing: req.FlagMissing})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrDuplicateDecision):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetSessionDiscrepancies(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.sessRepo.GetByID(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	discs, err := h.discRepo.GetBySessionID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":    id,
		"discrepancies": discs,
		"total":         len(discs),
	})
}

// --- Decisions ---

type decisionRequest struct {
	Decision  string `json:"decision"`
	Reason    string `json:"decision_reason"`
	DecidedBy string `json:"decided_by"`
}

func (h *Handlers) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	action := domain.DecisionAction(req.Decision)
	if !action.Valid() {
		writeError(w, http.StatusBadRequest, "decision must be approve, reject or manual_review")
		return
	}

	dec, err := h.svc.Decide(id, action, req.Reason, req.DecidedBy)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, domain.ErrDuplicateDecision):
			writeError(w, http.StatusConflict, "a decision has already been recorded for this session")
		default:
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, dec)
}

// --- Reports ---

func (h *Handlers) GetSessionReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rep, err := h.reports.Build(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "text") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(report.RenderText(rep))); err != nil {
			log.Printf("[api] write report: %v", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// --- Discrepancies ---

func (h *Handlers) ListDiscrepancies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.DiscrepancyFilter{
		SessionID: q.Get("session_id"),
		Severity:  q.Get("severity"),
		FieldName: q.Get("field_name"),
		Page:      parseIntDefault(q.Get("page"), 1),
		Limit:     parseIntDefault(q.Get("limit"), 50),
	}

	discs, total, err := h.discRepo.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"discrepancies": discs,
		"total":         total,
		"page":          filter.Page,
		"limit":         filter.Limit,
	})
}

func (h *Handlers) GetDiscrepancySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.discRepo.GetSummary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
