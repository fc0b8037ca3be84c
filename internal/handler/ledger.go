package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/pawnbook/ledger-engine/internal/domain"
	"github.com/pawnbook/ledger-engine/internal/pricefeed"
	"github.com/pawnbook/ledger-engine/internal/service"
	customError "github.com/pawnbook/ledger-engine/pkg/errors"
	"github.com/pawnbook/ledger-engine/pkg/response"
)

type LedgerHandler struct {
	service   service.Service
	feed      pricefeed.Feed
	validator *validator.Validate
}

func NewLedgerHandler(svc service.Service, feed pricefeed.Feed) *LedgerHandler {
	return &LedgerHandler{
		service:   svc,
		feed:      feed,
		validator: validator.New(),
	}
}

func (h *LedgerHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, loan)
}

func (h *LedgerHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	filter := domain.LoanFilter{
		Status:    r.URL.Query().Get("status"),
		Direction: r.URL.Query().Get("direction"),
	}

	loans, err := h.service.ListLoans(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LedgerHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, loan)
}

// GetSummary returns the financial snapshot of a loan as of a date. The
// as_of query parameter is an ISO-8601 date and defaults to today.
func (h *LedgerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, err)
			return
		}
		asOf = parsed
	}

	summary, err := h.service.Summary(r.Context(), loanID, asOf)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, summary)
}

func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	resp, err := h.service.RecordPayment(r.Context(), loanID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, resp)
}

func (h *LedgerHandler) PreviewRedemption(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var req domain.RedeemCollateralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	summary, err := h.service.PreviewRedemption(r.Context(), loanID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, summary)
}

func (h *LedgerHandler) RedeemCollateral(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var req domain.RedeemCollateralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	result, err := h.service.RedeemCollateral(r.Context(), loanID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, result)
}

func (h *LedgerHandler) MarkDefaulted(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	if err := h.service.MarkDefaulted(r.Context(), loanID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"loan_id": loanID,
		"status":  domain.LoanStatusDefaulted,
	})
}

func (h *LedgerHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	metal := mux.Vars(r)["metal"]
	if metal != domain.MetalGold && metal != domain.MetalSilver {
		response.BadRequest(w, errors.New("metal must be gold or silver"))
		return
	}

	price, err := h.feed.Spot(r.Context(), metal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, price)
}

// SetPrice records the operator-entered spot price of the day.
func (h *LedgerHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	metal := mux.Vars(r)["metal"]
	if metal != domain.MetalGold && metal != domain.MetalSilver {
		response.BadRequest(w, errors.New("metal must be gold or silver"))
		return
	}

	var req domain.SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, err)
		return
	}

	price := domain.MarketPrice{
		Metal:             metal,
		PricePerGramPaise: req.PricePerGramPaise,
		AsOf:              time.Now(),
	}

	if err := h.feed.SetSpot(r.Context(), price); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, price)
}

// writeServiceError maps business errors onto HTTP statuses. Validation
// and precondition failures are the client's problem; everything else is a
// server fault.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrLoanNotFound):
		response.NotFound(w, err)
	case errors.Is(err, customError.ErrLoanAlreadyExists),
		errors.Is(err, customError.ErrLoanClosed):
		response.Conflict(w, err)
	case errors.Is(err, customError.ErrInvalidAmount),
		errors.Is(err, customError.ErrNegativeAmount),
		errors.Is(err, customError.ErrNoSelectionOrPayment),
		errors.Is(err, customError.ErrUnknownItem),
		errors.Is(err, customError.ErrInvalidDateRange),
		errors.Is(err, customError.ErrMixedCollateral),
		errors.Is(err, customError.ErrPriceUnavailable):
		response.UnprocessableEntity(w, err)
	default:
		response.InternalServerError(w, err)
	}
}
