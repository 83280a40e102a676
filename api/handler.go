// Package api exposes the JSON surface the bot and dashboard frontend call:
// dashboard login (token + access key), session refresh and logout, and the
// order lifecycle operations.
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cargoexpress/cargoexpress/dashboard"
	"github.com/cargoexpress/cargoexpress/domain"
	"github.com/cargoexpress/cargoexpress/logger"
	"github.com/cargoexpress/cargoexpress/order"
	"github.com/cargoexpress/cargoexpress/ratelimit"
)

// Per-IP budget for dashboard login attempts.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Handler wires the managers to echo routes.
type Handler struct {
	access  *dashboard.Manager
	orders  *order.Manager
	limiter ratelimit.Limiter
}

// NewHandler creates an API handler. limiter may be nil to disable login
// rate limiting (tests).
func NewHandler(access *dashboard.Manager, orders *order.Manager, limiter ratelimit.Limiter) *Handler {
	return &Handler{access: access, orders: orders, limiter: limiter}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/dashboard/login", h.HandleDashboardLogin)
	g.POST("/session/refresh", h.HandleSessionRefresh)

	// Protected routes
	protected := g.Group("")
	protected.Use(h.SessionMiddleware)
	protected.POST("/session/logout", h.HandleLogout)
	protected.GET("/session/me", h.HandleWhoAmI)
	protected.GET("/orders/:kind/:id", h.HandleGetOrder)
	protected.POST("/orders/:kind/:id/status", h.HandleTransition)
	protected.POST("/orders/:kind/:id/tracking", h.HandleAttachTracking)
}

// refusalMessages maps token refusal reasons to the human-readable text the
// dashboard shows.
var refusalMessages = map[domain.RefusalReason]string{
	domain.RefusalNotFound:    "This access link is not recognized. Request a new one from the bot.",
	domain.RefusalAlreadyUsed: "This access link was already used. Request a new one from the bot.",
	domain.RefusalExpired:     "This access link has expired. Request a new one from the bot.",
	domain.RefusalKeyMismatch: "The access key does not match. Check it and try again.",
}

// HandleDashboardLogin is the two-phase token flow in one request: validate
// the token and key, consume the token, then mint a web session.
func (h *Handler) HandleDashboardLogin(c echo.Context) error {
	var body struct {
		Token     string `json:"token"`
		AccessKey string `json:"access_key"`
	}
	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if body.Token == "" || body.AccessKey == "" {
		return h.Error(c, http.StatusBadRequest, "token and access_key are required", nil)
	}

	ctx := c.Request().Context()
	ip := c.RealIP()

	if h.limiter != nil {
		allowed, _, err := h.limiter.Allow(ctx, "login:"+ip, loginRateLimit, loginRateWindow)
		if err != nil {
			logger.Log.Warn("login rate limit check failed", zap.Error(err))
		} else if !allowed {
			return h.Error(c, http.StatusTooManyRequests, "Too many attempts, slow down", nil)
		}
	}

	res, err := h.access.Validate(ctx, body.Token, body.AccessKey, ip)
	if err != nil {
		return h.StoreError(c, err)
	}
	if !res.Valid {
		return h.Error(c, http.StatusUnauthorized, refusalMessages[res.Reason], nil)
	}

	if err := h.access.Consume(ctx, body.Token, ip); err != nil {
		return h.StoreError(c, err)
	}

	session, err := h.access.CreateWebSession(ctx, res.AdminID, ip, c.Request().UserAgent())
	if err != nil {
		return h.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"session_id":    session.SessionID,
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_at":    session.ExpiresAt,
	})
}

func (h *Handler) HandleSessionRefresh(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}

	session, err := h.access.RefreshWebSession(c.Request().Context(), body.RefreshToken, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return h.StoreError(c, err)
	}
	if session == nil {
		return h.Error(c, http.StatusUnauthorized, "Refresh token is invalid or expired", nil)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"session_id":    session.SessionID,
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_at":    session.ExpiresAt,
	})
}

// SessionMiddleware authenticates requests by the X-Session-ID header.
func (h *Handler) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := c.Request().Header.Get("X-Session-ID")
		if sessionID == "" {
			return h.Error(c, http.StatusUnauthorized, "X-Session-ID header required", nil)
		}

		res, err := h.access.ValidateWebSession(c.Request().Context(), sessionID)
		if err != nil {
			return h.StoreError(c, err)
		}
		if !res.Valid {
			return h.Error(c, http.StatusUnauthorized, "Session is invalid or expired", nil)
		}

		c.Set("admin", res.Admin)
		c.Set("session", res.Session)
		return next(c)
	}
}

func (h *Handler) HandleLogout(c echo.Context) error {
	session := c.Get("session").(*domain.WebSession)
	if err := h.access.Logout(c.Request().Context(), session.SessionID); err != nil {
		return h.StoreError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) HandleWhoAmI(c echo.Context) error {
	admin := c.Get("admin").(*domain.Admin)
	session := c.Get("session").(*domain.WebSession)
	return c.JSON(http.StatusOK, map[string]any{
		"admin":   admin,
		"session": session,
	})
}

func (h *Handler) HandleGetOrder(c echo.Context) error {
	kind, id, ok := h.orderParams(c)
	if !ok {
		return h.Error(c, http.StatusBadRequest, "Invalid order reference", nil)
	}

	o, err := h.orders.Get(c.Request().Context(), kind, id)
	if err != nil {
		return h.StoreError(c, err)
	}
	if o == nil {
		return h.Error(c, http.StatusNotFound, "Order not found", nil)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) HandleTransition(c echo.Context) error {
	kind, id, ok := h.orderParams(c)
	if !ok {
		return h.Error(c, http.StatusBadRequest, "Invalid order reference", nil)
	}

	var body struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if body.Status == "" {
		return h.Error(c, http.StatusBadRequest, "status is required", nil)
	}

	admin := c.Get("admin").(*domain.Admin)
	o, err := h.orders.Transition(c.Request().Context(), kind, id, domain.OrderStatus(body.Status), body.Comment, &admin.ID)
	if err != nil {
		if errorsIsNotFound(err) {
			return h.Error(c, http.StatusNotFound, "Order not found", nil)
		}
		return h.StoreError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) HandleAttachTracking(c echo.Context) error {
	kind, id, ok := h.orderParams(c)
	if !ok {
		return h.Error(c, http.StatusBadRequest, "Invalid order reference", nil)
	}

	var body struct {
		Tracking string `json:"tracking"`
	}
	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if body.Tracking == "" {
		return h.Error(c, http.StatusBadRequest, "tracking is required", nil)
	}

	err := h.orders.AttachTracking(c.Request().Context(), kind, id, body.Tracking)
	if err != nil {
		if errorsIsNotFound(err) {
			return h.Error(c, http.StatusNotFound, "Order not found", nil)
		}
		return h.StoreError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "tracking attached"})
}

// Error renders the uniform error envelope.
func (h *Handler) Error(c echo.Context, code int, message string, err error) error {
	resp := map[string]any{
		"status": message,
		"code":   code,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.JSON(code, resp)
}

// StoreError is the generic answer for store connectivity failures: log the
// cause, tell the client to retry later.
func (h *Handler) StoreError(c echo.Context, err error) error {
	logger.Log.Error("store failure", zap.Error(err))
	return h.Error(c, http.StatusServiceUnavailable, "Temporary failure, try again later", nil)
}
