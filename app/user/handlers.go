package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxis-markets/praxis/app/api"
	"github.com/praxis-markets/praxis/models"
)

// Handler handles HTTP requests for user operations
type Handler struct {
	service Service
}

// NewHandler creates a new user handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register creates a new user account.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateEmail):
			api.ConflictResponse(c, err.Error())
		case errors.Is(err, models.ErrPasswordTooShort):
			api.ValidationErrorResponse(c, err.Error())
		default:
			api.InternalErrorResponse(c, "Failed to register user")
		}
		return
	}
	api.CreatedResponse(c, "User registered successfully", resp)
}

// Login authenticates a user and returns an access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrUserInactive):
			api.UnauthorizedResponse(c)
		default:
			api.InternalErrorResponse(c, "Failed to log in")
		}
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	value, exists := c.Get("user_id")
	userID, ok := value.(uuid.UUID)
	if !exists || !ok {
		api.UnauthorizedResponse(c)
		return
	}

	resp, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "User")
			return
		}
		api.InternalErrorResponse(c, "Failed to fetch user")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "User retrieved successfully", resp)
}
