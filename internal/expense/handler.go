package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/splitbuddy/api/internal/expense/split"
	"github.com/splitbuddy/api/pkg/middleware"
	"github.com/splitbuddy/api/pkg/money"
	"github.com/splitbuddy/api/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/balance", h.BalanceSummary)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	// Group-based listing
	r.Get("/group/{groupId}", h.ListByGroup)

	// Settlement state on individual shares
	r.Post("/participants/{participantId}/pay", h.MarkParticipantPaid)
	r.Post("/participants/{participantId}/unpay", h.MarkParticipantUnpaid)

	return r
}

// Create godoc
// @Summary Create a new expense
// @Description Creates an expense paid by the authenticated user and splits it among the participants according to the split type
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body CreateExpenseRequest true "Expense data"
// @Success 201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		response.ValidationError(w, err)
		return
	}

	expense, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPercentageSum),
			errors.Is(err, ErrCustomAmountSum),
			errors.Is(err, ErrUnknownParticipant),
			errors.Is(err, split.ErrUnknownType),
			errors.Is(err, split.ErrNoParticipants),
			errors.Is(err, split.ErrNegativeAmount),
			errors.Is(err, split.ErrInvalidPolicyForParticipantCount),
			errors.Is(err, split.ErrCurrentUserNotInSplit),
			errors.Is(err, ErrUnknownSource):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "failed to create expense")
		}
		return
	}

	response.JSON(w, http.StatusCreated, expense.ToResponse())
}

// GetByID godoc
// @Summary Get an expense
// @Description Retrieves an expense with all participant shares
// @Tags expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure 404 {object} response.APIResponse
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid expense ID")
		return
	}

	expense, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, "expense not found")
			return
		}
		response.InternalError(w, "failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, expense.ToResponse())
}

// BalanceSummary godoc
// @Summary Get the current user's balance summary
// @Description Recomputes total owed, total owed to you, net balance, and per-counterparty balances from all unpaid shares
// @Tags expenses
// @Produce json
// @Success 200 {object} response.APIResponse{data=BalanceSummaryResponse}
// @Failure 401 {object} response.APIResponse
// @Security BearerAuth
// @Router /expenses/balance [get]
func (h *Handler) BalanceSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	summary, counterparties, err := h.service.BalanceSummary(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to compute balance")
		return
	}

	resp := &BalanceSummaryResponse{
		TotalOwed:             summary.OwedBySubject,
		TotalOwedDisplay:      money.MustFormat(summary.OwedBySubject, "USD"),
		TotalOwedToYou:        summary.OwedToSubject,
		TotalOwedToYouDisplay: money.MustFormat(summary.OwedToSubject, "USD"),
		NetBalance:            summary.Net(),
		Counterparties:        make([]*CounterpartyBalance, 0, len(counterparties)),
	}
	for id, bal := range counterparties {
		resp.Counterparties = append(resp.Counterparties, &CounterpartyBalance{UserID: id, Balance: bal})
	}
	sort.Slice(resp.Counterparties, func(i, j int) bool {
		return resp.Counterparties[i].UserID < resp.Counterparties[j].UserID
	})

	response.JSON(w, http.StatusOK, resp)
}

// ListByGroup godoc
// @Summary List group expenses
// @Description Retrieves expenses for a group with pagination
// @Tags expenses
// @Produce json
// @Param groupId path int true "Group ID"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Security BearerAuth
// @Router /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	expenses, total, err := h.service.ListByGroup(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "failed to list expenses")
		return
	}

	resp := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = e.ToResponse()
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

// MarkParticipantPaid godoc
// @Summary Mark a share as paid
// @Description Marks a participant's share as settled. Allowed for the payer or the participant
// @Tags expenses
// @Produce json
// @Param participantId path int true "Participant ID"
// @Success 200 {object} response.APIResponse{data=ParticipantResponse}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Security BearerAuth
// @Router /expenses/participants/{participantId}/pay [post]
func (h *Handler) MarkParticipantPaid(w http.ResponseWriter, r *http.Request) {
	h.setParticipantPaid(w, r, true)
}

// MarkParticipantUnpaid godoc
// @Summary Mark a share as unpaid
// @Description Reverts a participant's share to unpaid. Allowed for the payer or the participant
// @Tags expenses
// @Produce json
// @Param participantId path int true "Participant ID"
// @Success 200 {object} response.APIResponse{data=ParticipantResponse}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Security BearerAuth
// @Router /expenses/participants/{participantId}/unpay [post]
func (h *Handler) MarkParticipantUnpaid(w http.ResponseWriter, r *http.Request) {
	h.setParticipantPaid(w, r, false)
}

func (h *Handler) setParticipantPaid(w http.ResponseWriter, r *http.Request, paid bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	participantID, err := strconv.ParseInt(chi.URLParam(r, "participantId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid participant ID")
		return
	}

	p, err := h.service.SetParticipantPaid(r.Context(), participantID, userID, paid)
	if err != nil {
		switch {
		case errors.Is(err, ErrParticipantNotFound), errors.Is(err, ErrExpenseNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotInvolved):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "failed to update participant")
		}
		return
	}

	currency := "USD"
	if e, err := h.service.repo.GetByID(r.Context(), p.ExpenseID); err == nil && e != nil {
		currency = e.Currency
	}
	response.JSON(w, http.StatusOK, p.ToResponse(currency))
}

// Delete godoc
// @Summary Delete an expense
// @Description Deletes an expense and all its participant shares. Only the payer may delete
// @Tags expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid expense ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, ErrExpenseNotFound):
			response.NotFound(w, "expense not found")
		case errors.Is(err, ErrNotPayer):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "failed to delete expense")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "expense deleted successfully"})
}
