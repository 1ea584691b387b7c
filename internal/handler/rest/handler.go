package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/haulage-ledger/internal/export"
	"github.com/sheikh-saqib/haulage-ledger/internal/ledger"
	"github.com/sheikh-saqib/haulage-ledger/internal/models"
	"github.com/sheikh-saqib/haulage-ledger/internal/reports"
)

type LedgerHandler struct {
	ledger   *ledger.Ledger
	reporter *reports.Reporter
	logger   *logrus.Logger
	company  string
	today    func() civil.Date
}

func NewLedgerHandler(l *ledger.Ledger, reporter *reports.Reporter, logger *logrus.Logger, company string) *LedgerHandler {
	return &LedgerHandler{
		ledger:   l,
		reporter: reporter,
		logger:   logger,
		company:  company,
		today:    func() civil.Date { return civil.DateOf(time.Now()) },
	}
}

// Routes mounts the health check and the role-gated finance routes.
func (h *LedgerHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireFinanceRole)

		r.Get("/categories", h.ListCategories)
		r.Post("/journals", h.PostJournal)
		r.Post("/journals/receipt", h.PostReceipt)
		r.Get("/ledger-entries", h.GetLedgerEntries)
		r.Get("/accounts/balance", h.GetBalance)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/statement", h.GetStatement)
			r.Get("/journal", h.GetGeneralJournal)
			r.Get("/balance-sheet", h.GetBalanceSheet)
			r.Get("/profit-loss", h.GetProfitLoss)
			r.Get("/daily", h.GetDaily)
			r.Post("/operations", h.PostOperations)
			r.Get("/export.xlsx", h.ExportWorkbook)
		})
	})
	return r
}

type postJournalRequest struct {
	Flow        string          `json:"flow"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	AccountID   string          `json:"account_id"`
}

func (h *LedgerHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	flow := r.URL.Query().Get("flow")
	if flow == "" {
		writeJSON(w, http.StatusOK, ledger.Chart())
		return
	}
	f, err := models.ParseFlowDirection(flow)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ledger.CategoriesFor(f))
}

func (h *LedgerHandler) PostJournal(w http.ResponseWriter, r *http.Request) {
	var req postJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	posting := models.PostingRequest{
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
		Flow:           models.FlowDirection(strings.ToUpper(strings.TrimSpace(req.Flow))),
		Date:           date,
		Description:    req.Description,
		Amount:         req.Amount,
		Category:       models.Category(strings.ToUpper(strings.TrimSpace(req.Category))),
		AccountID:      req.AccountID,
	}
	h.post(w, r, posting)
}

// PostReceipt posts the pre-filled journal for a scanned receipt.
func (h *LedgerHandler) PostReceipt(w http.ResponseWriter, r *http.Request) {
	var scan ledger.ReceiptScan
	if err := json.NewDecoder(r.Body).Decode(&scan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	posting := ledger.FromReceiptScan(scan, h.today())
	posting.IdempotencyKey = r.Header.Get("Idempotency-Key")
	h.post(w, r, posting)
}

func (h *LedgerHandler) post(w http.ResponseWriter, r *http.Request, posting models.PostingRequest) {
	journal, err := h.ledger.PostJournal(r.Context(), posting)
	if err != nil {
		if ledger.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithField("request_id", middleware.GetReqID(r.Context())).WithError(err).Error("post journal")
		writeError(w, http.StatusInternalServerError, "failed to post journal")
		return
	}
	writeJSON(w, http.StatusCreated, journal)
}

func (h *LedgerHandler) GetLedgerEntries(w http.ResponseWriter, r *http.Request) {
	ledgerEntries, err := h.ledger.GetLedgerEntries(r.Context())
	if err != nil {
		h.serverError(w, r, "list ledger entries", err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerEntries)
}

func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is a mandatory field")
		return
	}

	balance, err := h.ledger.GetBalance(r.Context(), accountID)
	if err != nil {
		h.serverError(w, r, "get balance", err)
		return
	}

	response := struct {
		AccountID string          `json:"account_id"`
		Balance   decimal.Decimal `json:"balance"`
	}{
		AccountID: strings.ToUpper(strings.TrimSpace(accountID)),
		Balance:   balance,
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *LedgerHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	statement, err := h.reporter.Statement(r.Context())
	if err != nil {
		h.serverError(w, r, "statement", err)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}

func (h *LedgerHandler) GetGeneralJournal(w http.ResponseWriter, r *http.Request) {
	journal, err := h.reporter.GeneralJournal(r.Context())
	if err != nil {
		h.serverError(w, r, "general journal", err)
		return
	}
	writeJSON(w, http.StatusOK, journal)
}

func (h *LedgerHandler) GetBalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.reporter.BalanceSheet(r.Context())
	if err != nil {
		h.serverError(w, r, "balance sheet", err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (h *LedgerHandler) GetProfitLoss(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.parseDate(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	buckets, err := h.reporter.ProfitLoss(r.Context(), asOf)
	if err != nil {
		h.serverError(w, r, "profit and loss", err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (h *LedgerHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.parseDate(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	days := reports.DefaultDailyWindow
	if s := r.URL.Query().Get("days"); s != "" {
		days, err = strconv.Atoi(s)
		if err != nil || days <= 0 || days > 366 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 366")
			return
		}
	}
	buckets, err := h.reporter.Daily(r.Context(), asOf, days)
	if err != nil {
		h.serverError(w, r, "daily rollup", err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

type operationsRequest struct {
	Trips    []models.TripLog       `json:"trips"`
	FuelLogs []models.FuelLog       `json:"fuel_logs"`
	Projects []models.ProjectBudget `json:"projects"`
}

type operationsResponse struct {
	Summary          reports.Summary            `json:"summary"`
	FuelEfficiency   []reports.FuelEfficiency   `json:"fuel_efficiency"`
	BudgetAbsorption []reports.BudgetAbsorption `json:"budget_absorption"`
}

// PostOperations combines the ledger with caller-supplied fleet and project
// data into the dashboard figures.
func (h *LedgerHandler) PostOperations(w http.ResponseWriter, r *http.Request) {
	var req operationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entries, err := h.ledger.GetLedgerEntries(r.Context())
	if err != nil {
		h.serverError(w, r, "operations", err)
		return
	}

	resp := operationsResponse{
		Summary:          reports.Summarize(entries, req.Trips),
		FuelEfficiency:   make([]reports.FuelEfficiency, 0, len(req.Trips)),
		BudgetAbsorption: make([]reports.BudgetAbsorption, 0, len(req.Projects)),
	}
	for _, t := range req.Trips {
		resp.FuelEfficiency = append(resp.FuelEfficiency, reports.TripFuelEfficiency(t, req.FuelLogs))
	}
	for _, p := range req.Projects {
		resp.BudgetAbsorption = append(resp.BudgetAbsorption, reports.ProjectAbsorption(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LedgerHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.parseDate(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bundle, err := h.reporter.Bundle(r.Context(), asOf)
	if err != nil {
		h.serverError(w, r, "export", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"laporan_keuangan_%s.xlsx\"", asOf.String()))
	if err := export.WriteWorkbook(w, h.company, bundle); err != nil {
		h.logger.WithError(err).Error("write workbook")
	}
}

// parseDate reads a YYYY-MM-DD date; empty means today.
func (h *LedgerHandler) parseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return h.today(), nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, errors.New("date must be YYYY-MM-DD")
	}
	return d, nil
}

func (h *LedgerHandler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.WithFields(logrus.Fields{
		"op":         op,
		"request_id": middleware.GetReqID(r.Context()),
	}).WithError(err).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
