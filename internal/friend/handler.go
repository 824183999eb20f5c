package friend

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

// Handler handles HTTP requests for friend operations
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new friend handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// Routes returns the router for friend endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListFriends)
	r.Get("/{friendId}/expenses", h.GetFriendExpenses)

	r.Post("/requests", h.SendRequest)
	r.Get("/requests", h.ListIncomingRequests)
	r.Post("/requests/{id}/accept", h.Accept)
	r.Post("/requests/{id}/reject", h.Reject)

	r.Delete("/{id}", h.Unfriend)

	return r
}

// SendRequest godoc
// @Summary Send a friend request
// @Description Sends a friend request to the user registered under the given email
// @Tags friends
// @Accept json
// @Produce json
// @Param request body SendRequestRequest true "Addressee email"
// @Success 201 {object} response.APIResponse{data=FriendshipResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Security BearerAuth
// @Router /friends/requests [post]
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		response.ValidationError(w, err)
		return
	}

	f, err := h.service.SendRequest(r.Context(), userID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, "no user registered under that email")
		case errors.Is(err, ErrCannotFriendSelf):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrAlreadyFriends), errors.Is(err, ErrRequestPending):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "failed to send friend request")
		}
		return
	}

	response.JSON(w, http.StatusCreated, f.ToResponse())
}

// ListIncomingRequests godoc
// @Summary List incoming friend requests
// @Tags friends
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]RequestResponse}
// @Security BearerAuth
// @Router /friends/requests [get]
func (h *Handler) ListIncomingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	requests, err := h.service.ListIncomingRequests(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to list friend requests")
		return
	}

	resp := make([]*RequestResponse, len(requests))
	for i, req := range requests {
		resp[i] = req.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// Accept godoc
// @Summary Accept a friend request
// @Tags friends
// @Produce json
// @Param id path int true "Friendship ID"
// @Success 200 {object} response.APIResponse{data=FriendshipResponse}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Security BearerAuth
// @Router /friends/requests/{id}/accept [post]
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, friendshipID, ok := h.authAndID(w, r, "id")
	if !ok {
		return
	}

	f, err := h.service.Accept(r.Context(), friendshipID, userID)
	if err != nil {
		h.respondError(w, err, "failed to accept friend request")
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}

// Reject godoc
// @Summary Reject a friend request
// @Tags friends
// @Produce json
// @Param id path int true "Friendship ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Security BearerAuth
// @Router /friends/requests/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, friendshipID, ok := h.authAndID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Reject(r.Context(), friendshipID, userID); err != nil {
		h.respondError(w, err, "failed to reject friend request")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "friend request rejected"})
}

// Unfriend godoc
// @Summary Remove a friend
// @Description Removes an accepted friendship. Shared expense history is kept
// @Tags friends
// @Produce json
// @Param id path int true "Friendship ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Security BearerAuth
// @Router /friends/{id} [delete]
func (h *Handler) Unfriend(w http.ResponseWriter, r *http.Request) {
	userID, friendshipID, ok := h.authAndID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Unfriend(r.Context(), friendshipID, userID); err != nil {
		h.respondError(w, err, "failed to remove friend")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "friend removed"})
}

// ListFriends godoc
// @Summary List friends
// @Description Retrieves the user's friends with balances recomputed from unpaid shares
// @Tags friends
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]FriendResponse}
// @Security BearerAuth
// @Router /friends [get]
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	friends, err := h.service.ListFriends(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to list friends")
		return
	}

	resp := make([]*FriendResponse, len(friends))
	for i, f := range friends {
		resp[i] = f.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetFriendExpenses godoc
// @Summary Get expenses shared with a friend
// @Description Retrieves all expenses shared with a friend plus the pairwise totals between you
// @Tags friends
// @Produce json
// @Param friendId path int true "Friend user ID"
// @Success 200 {object} response.APIResponse{data=FriendExpensesResponse}
// @Failure 404 {object} response.APIResponse
// @Security BearerAuth
// @Router /friends/{friendId}/expenses [get]
func (h *Handler) GetFriendExpenses(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.authAndID(w, r, "friendId")
	if !ok {
		return
	}

	result, err := h.service.GetFriendExpenses(r.Context(), userID, friendID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFriends), errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "failed to get friend expenses")
		}
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// authAndID pulls the authenticated user and a numeric URL parameter
func (h *Handler) authAndID(w http.ResponseWriter, r *http.Request, param string) (userID, id int64, ok bool) {
	userID, authed := middleware.GetUserID(r.Context())
	if !authed {
		response.Unauthorized(w, "authentication required")
		return 0, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid ID")
		return 0, 0, false
	}

	return userID, id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrFriendshipNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAddressee), errors.Is(err, ErrNotInvolved):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNotPending):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
