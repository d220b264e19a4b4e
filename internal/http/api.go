// Package http wires the platform's HTTP routes to domain services.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"twinforge/internal/auth"
	"twinforge/internal/domain"
	"twinforge/internal/service"
)

// error kinds surfaced in the machine-readable error envelope.
const (
	kindBadRequest         = "bad_request"
	kindDuplicateEmail     = "duplicate_email"
	kindInvalidCredentials = "invalid_credentials"
	kindUnauthorized       = "unauthorized"
	kindInvalidToken       = "invalid_token"
	kindTokenExpired       = "token_expired"
	kindNotFound           = "not_found"
	kindTwinLimitReached   = "twin_limit_reached"
	kindInvalidTier        = "invalid_tier"
	kindInternal           = "internal_error"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	twins  service.TwinService
	tokens *auth.TokenManager
}

func NewHandler(users service.UserService, twins service.TwinService, tokens *auth.TokenManager) *Handler {
	return &Handler{
		users:  users,
		twins:  twins,
		tokens: tokens,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)
	router.GET("/subscription/tiers", h.listTiers)

	protected := router.Group("/", authMiddleware(h.tokens))
	{
		protected.GET("/user/me", h.me)
		protected.POST("/twins", h.createTwin)
		protected.GET("/twins", h.listTwins)
		protected.GET("/twins/:id", h.getTwin)
		protected.PUT("/twins/:id", h.updateTwin)
		protected.DELETE("/twins/:id", h.deleteTwin)
		protected.POST("/subscription/upgrade", h.upgradeSubscription)
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type upgradeRequest struct {
	Tier string `json:"tier" binding:"required"`
}

type authResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
	Tier   string `json:"tier"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	CreatedAt string `json:"created_at"`
}

type twinResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Config    json.RawMessage `json:"config"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type tierResponse struct {
	Tier     string   `json:"tier"`
	MaxTwins int      `json:"max_twins"`
	Features []string `json:"features"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, kindBadRequest, err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, kindDuplicateEmail, "email already registered")
			return
		}
		respondError(c, http.StatusBadRequest, kindBadRequest, err.Error())
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, kindInternal, "could not issue token")
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		UserID: user.ID,
		Token:  token,
		Tier:   string(user.Tier),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, kindBadRequest, err.Error())
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, kindInvalidCredentials, "invalid credentials")
			return
		}
		respondError(c, http.StatusInternalServerError, kindInternal, "login failed")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, kindInternal, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, authResponse{
		UserID: user.ID,
		Token:  token,
		Tier:   string(user.Tier),
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, kindNotFound, "user not found")
			return
		}
		respondError(c, http.StatusInternalServerError, kindInternal, "lookup failed")
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) createTwin(c *gin.Context) {
	var config json.RawMessage
	if err := c.ShouldBindJSON(&config); err != nil {
		respondError(c, http.StatusBadRequest, kindBadRequest, "request body must be a JSON object")
		return
	}

	twin, err := h.twins.Create(c.Request.Context(), currentUserID(c), config)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, kindNotFound, "user not found")
		case errors.Is(err, service.ErrTwinLimitReached):
			respondError(c, http.StatusForbidden, kindTwinLimitReached, "twin limit reached for current tier")
		default:
			respondError(c, http.StatusInternalServerError, kindInternal, "could not create twin")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"twin_id": twin.ID,
		"status":  "created",
	})
}

func (h *Handler) listTwins(c *gin.Context) {
	twins, err := h.twins.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, kindInternal, "could not list twins")
		return
	}

	resp := make([]twinResponse, len(twins))
	for i := range twins {
		resp[i] = twinToResponse(twins[i])
	}
	c.JSON(http.StatusOK, gin.H{"twins": resp})
}

func (h *Handler) getTwin(c *gin.Context) {
	twin, err := h.twins.Get(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrTwinNotFound) {
			respondError(c, http.StatusNotFound, kindNotFound, "twin not found")
			return
		}
		respondError(c, http.StatusInternalServerError, kindInternal, "could not load twin")
		return
	}

	c.JSON(http.StatusOK, twinToResponse(*twin))
}

func (h *Handler) updateTwin(c *gin.Context) {
	var config json.RawMessage
	if err := c.ShouldBindJSON(&config); err != nil {
		respondError(c, http.StatusBadRequest, kindBadRequest, "request body must be a JSON object")
		return
	}

	twin, err := h.twins.UpdateConfig(c.Request.Context(), c.Param("id"), currentUserID(c), config)
	if err != nil {
		if errors.Is(err, service.ErrTwinNotFound) {
			respondError(c, http.StatusNotFound, kindNotFound, "twin not found")
			return
		}
		respondError(c, http.StatusInternalServerError, kindInternal, "could not update twin")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "updated",
		"twin":   twinToResponse(*twin),
	})
}

func (h *Handler) deleteTwin(c *gin.Context) {
	if err := h.twins.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		if errors.Is(err, service.ErrTwinNotFound) {
			respondError(c, http.StatusNotFound, kindNotFound, "twin not found")
			return
		}
		respondError(c, http.StatusInternalServerError, kindInternal, "could not delete twin")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) listTiers(c *gin.Context) {
	tiers := make(map[string]tierResponse, len(domain.TierTable))
	for tier, limits := range domain.TierTable {
		tiers[string(tier)] = tierResponse{
			Tier:     string(limits.Tier),
			MaxTwins: limits.MaxTwins,
			Features: limits.Features,
		}
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}

func (h *Handler) upgradeSubscription(c *gin.Context) {
	var req upgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, kindBadRequest, err.Error())
		return
	}

	user, err := h.users.UpgradeTier(c.Request.Context(), currentUserID(c), domain.Tier(req.Tier))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTier):
			respondError(c, http.StatusBadRequest, kindInvalidTier, "unknown subscription tier")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, kindNotFound, "user not found")
		default:
			respondError(c, http.StatusInternalServerError, kindInternal, "could not upgrade subscription")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "upgraded",
		"tier":   string(user.Tier),
	})
}

func userToResponse(user *domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Tier:      string(user.Tier),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func twinToResponse(twin domain.Twin) twinResponse {
	return twinResponse{
		ID:        twin.ID,
		OwnerID:   twin.OwnerID,
		Config:    twin.Config,
		CreatedAt: twin.CreatedAt.Format(time.RFC3339),
		UpdatedAt: twin.UpdatedAt.Format(time.RFC3339),
	}
}

func respondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{
		"error":   kind,
		"message": message,
	})
}

func abortError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   kind,
		"message": message,
	})
}
