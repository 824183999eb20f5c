package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/splitbuddy/api/internal/user"
	"github.com/splitbuddy/api/pkg/middleware"
	"github.com/splitbuddy/api/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/pay", h.MarkAsPaid)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/reject", h.Reject)

	return r
}

// Create handles POST /settlements
// @Summary      Open a settlement
// @Description  Opens a settlement clearing the net debt with another user. Direction and amount follow from who owes whom
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "User to settle with"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		response.ValidationError(w, err)
		return
	}

	settlement, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySettled), errors.Is(err, ErrCannotSettleSelf):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrSettlementOpen):
			response.Conflict(w, err.Error())
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "failed to create settlement")
		}
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// List handles GET /settlements
// @Summary      List my settlements
// @Tags         settlements
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Security     BearerAuth
// @Router       /settlements [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	settlements, total, err := h.service.ListByUserID(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "failed to list settlements")
		return
	}

	resp := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		resp[i] = s.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// GetByID handles GET /settlements/{id}
// @Summary      Get a settlement
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.authAndID(w, r)
	if !ok {
		return
	}

	settlement, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		h.respondError(w, err, "failed to get settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// MarkAsPaid handles POST /settlements/{id}/pay
// @Summary      Mark a settlement as paid
// @Description  The payer records that they sent the money
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements/{id}/pay [post]
func (h *Handler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.authAndID(w, r)
	if !ok {
		return
	}

	settlement, err := h.service.MarkAsPaid(r.Context(), id, userID)
	if err != nil {
		h.respondError(w, err, "failed to mark settlement as paid")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Confirm handles POST /settlements/{id}/confirm
// @Summary      Confirm a settlement
// @Description  The receiver confirms the payment arrived; all covered shares are marked paid
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements/{id}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.authAndID(w, r)
	if !ok {
		return
	}

	settlement, err := h.service.Confirm(r.Context(), id, userID)
	if err != nil {
		h.respondError(w, err, "failed to confirm settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Reject handles POST /settlements/{id}/reject
// @Summary      Reject a settlement
// @Description  The receiver disputes the settlement; underlying shares stay unpaid
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.authAndID(w, r)
	if !ok {
		return
	}

	settlement, err := h.service.Reject(r.Context(), id, userID)
	if err != nil {
		h.respondError(w, err, "failed to reject settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

func (h *Handler) authAndID(w http.ResponseWriter, r *http.Request) (userID, id int64, ok bool) {
	userID, authed := middleware.GetUserID(r.Context())
	if !authed {
		response.Unauthorized(w, "authentication required")
		return 0, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid settlement ID")
		return 0, 0, false
	}

	return userID, id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSettlementNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotPayer), errors.Is(err, ErrNotReceiver), errors.Is(err, ErrNotInvolved):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidStatusChange):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
