package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"refboard/internal/core"
	"refboard/internal/log"
)

// reportPayload is the /api/report response body. Referrals keep the
// legacy fixed-order tuple encoding the frontend renders row by row.
type reportPayload struct {
	User      *core.UserProfile `json:"user"`
	Referrals [][]any           `json:"referrals"`
}

type transactionsPayload struct {
	Transactions []transactionView `json:"transactions"`
}

// transactionView is a TransactionRecord plus the display strings the
// frontend table renders verbatim: dollar amount, percent, DD.MM.YYYY date.
type transactionView struct {
	core.TransactionRecord
	AmountDisplay  string `json:"amountDisplay"`
	PercentDisplay string `json:"percentDisplay"`
	DateDisplay    string `json:"dateDisplay"`
}

func viewTransactions(txs []core.TransactionRecord) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, transactionView{
			TransactionRecord: tx,
			AmountDisplay:     core.FormatCurrency(tx.BonusAmount),
			PercentDisplay:    core.FormatPercent(tx.BonusPercent),
			DateDisplay:       core.FormatDateDisplay(tx.Date),
		})
	}
	return views
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError writes the machine-readable error body. Clients tell the
// error state apart from an empty result by the presence of "error".
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_id", "query parameter 'id' is required")
		return
	}

	if payload, ok := s.reportCache.Get(userID); ok {
		respondJSON(w, http.StatusOK, payload)
		return
	}

	ds, err := s.svc.Load(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrMissingUserID) {
			respondError(w, http.StatusBadRequest, "missing_id", "query parameter 'id' is required")
			return
		}
		s.sl.LogError(r.Context(), "Report load failed", err,
			log.ComponentHTTP, log.OpLoad, log.NewFields().WithUser(userID))
		respondError(w, http.StatusBadGateway, "source_unavailable", "could not load report data")
		return
	}

	payload := reportPayload{
		User:      ds.Profile,
		Referrals: make([][]any, 0, len(ds.Referrals)),
	}
	for _, rec := range ds.Referrals {
		payload.Referrals = append(payload.Referrals, rec.Tuple())
	}

	s.reportCache.Set(userID, payload)
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_id", "query parameter 'id' is required")
		return
	}

	month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_month", "month must be YYYY-MM")
		return
	}

	key := cacheKey(userID, month)
	if txs, ok := s.txCache.Get(key); ok {
		respondJSON(w, http.StatusOK, transactionsPayload{Transactions: viewTransactions(txs)})
		return
	}

	ds, err := s.svc.Load(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrMissingUserID) {
			respondError(w, http.StatusBadRequest, "missing_id", "query parameter 'id' is required")
			return
		}
		s.sl.LogError(r.Context(), "Transaction load failed", err,
			log.ComponentHTTP, log.OpQuery, log.NewFields().WithUser(userID))
		respondError(w, http.StatusBadGateway, "source_unavailable", "could not load transaction data")
		return
	}

	txs := s.svc.Transactions(ds, month)
	if txs == nil {
		txs = []core.TransactionRecord{}
	}

	s.txCache.Set(key, txs)
	respondJSON(w, http.StatusOK, transactionsPayload{Transactions: viewTransactions(txs)})
}

// parseMonth parses an optional YYYY-MM query value. Empty means no
// month filter.
func parseMonth(v string) (*core.Month, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return nil, err
	}
	return &core.Month{Year: t.Year(), Month: int(t.Month())}, nil
}

func cacheKey(userID string, month *core.Month) string {
	if month == nil {
		return userID
	}
	return fmt.Sprintf("%s|%04d-%02d", userID, month.Year, month.Month)
}
