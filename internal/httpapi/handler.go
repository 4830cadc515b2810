// Package httpapi exposes the credential subsystem over HTTP: login and
// session lifecycle, access token and target listings, and password reset.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	accesstokensvc "portico/internal/accesstoken/service"
	"portico/internal/audit"
	"portico/internal/authz"
	"portico/internal/authz/engine"
	resetsvc "portico/internal/passwordreset/service"
	"portico/internal/security"
	sessionsvc "portico/internal/session/service"
	targetsvc "portico/internal/target/service"
	"portico/internal/telemetry"
	userrepo "portico/internal/user/repository"
)

// ResetMailer delivers a password reset token to the account's email. The
// token must never appear in the HTTP response.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// Deps bundles the services the HTTP surface is built on. Events and Auditor
// may be nil; the corresponding recording becomes a no-op.
type Deps struct {
	Sessions *sessionsvc.Store
	Cookies  *sessionsvc.CookieCodec
	Users    userrepo.Repository
	Hasher   *security.Hasher
	Resolver *authz.Resolver
	Checker  engine.Checker
	Catalog  *accesstokensvc.Catalog
	Targets  *targetsvc.Service
	Resets   *resetsvc.Service
	Mailer   ResetMailer
	Events   telemetry.EventEmitter
	Auditor  audit.AuditLogger
	Health   http.Handler
}

// Handler carries the wired services behind the HTTP surface.
type Handler struct {
	sessions *sessionsvc.Store
	cookies  *sessionsvc.CookieCodec
	users    userrepo.Repository
	hasher   *security.Hasher
	resolver *authz.Resolver
	checker  engine.Checker
	catalog  *accesstokensvc.Catalog
	targets  *targetsvc.Service
	resets   *resetsvc.Service
	mailer   ResetMailer
	events   telemetry.EventEmitter
	auditor  audit.AuditLogger
	health   http.Handler
}

// NewHandler returns a Handler over the given services.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		sessions: deps.Sessions,
		cookies:  deps.Cookies,
		users:    deps.Users,
		hasher:   deps.Hasher,
		resolver: deps.Resolver,
		checker:  deps.Checker,
		catalog:  deps.Catalog,
		targets:  deps.Targets,
		resets:   deps.Resets,
		mailer:   deps.Mailer,
		events:   deps.Events,
		auditor:  deps.Auditor,
		health:   deps.Health,
	}
}

// emitEvent fires a best-effort auth event. The session id recorded is the
// stored hash, never the raw token.
func (h *Handler) emitEvent(ctx context.Context, eventType, orgID, userID, sessionID string) {
	telemetry.EmitAsync(h.events, ctx, &telemetry.Event{
		OrgID:     orgID,
		UserID:    userID,
		SessionID: sessionID,
		EventType: eventType,
		Source:    "httpapi",
		CreatedAt: time.Now().UTC(),
	})
}

// auditEvent records a durable audit entry. Nil auditor means auditing is off.
func (h *Handler) auditEvent(ctx context.Context, orgID, userID, action, resource, metadata string) {
	if h.auditor == nil {
		return
	}
	h.auditor.LogEvent(ctx, orgID, userID, action, resource, metadata)
}

// Routes returns the full route table with the session middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("POST /api/auth/logout-all", h.handleLogoutAll)
	mux.HandleFunc("GET /api/auth/me", h.handleMe)
	mux.HandleFunc("POST /api/auth/reset-password/request", h.handleResetRequest)
	mux.HandleFunc("POST /api/auth/reset-password", h.handleReset)
	mux.HandleFunc("GET /api/orgs/{orgId}/access-tokens", h.handleListOrgAccessTokens)
	mux.HandleFunc("GET /api/resources/{resourceId}/access-tokens", h.handleListResourceAccessTokens)
	mux.HandleFunc("GET /api/resources/{resourceId}/targets", h.handleListTargets)
	if h.health != nil {
		mux.Handle("GET /healthz", h.health)
	} else {
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	return h.sessionMiddleware(mux)
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userInfo struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
}

type sessionResponse struct {
	ExpiresAt string   `json:"expires_at"`
	User      userInfo `json:"user"`
}

type meResponse struct {
	ExpiresAt string   `json:"expires_at"`
	User      userInfo `json:"user"`
	Resources []int    `json:"resources"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	// Invalid email and invalid password are indistinguishable to the caller.
	if user == nil || h.hasher.Compare(user.PasswordHash, []byte(req.Password)) != nil {
		h.auditEvent(r.Context(), "", "", "login_failure", "session", req.Email)
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	token := security.GenerateSessionToken()
	session, err := h.sessions.Create(r.Context(), token, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	h.emitEvent(r.Context(), "login", user.OrgID, user.ID, session.SessionID)
	h.auditEvent(r.Context(), user.OrgID, user.ID, "login_success", "session", "")
	w.Header().Set("Set-Cookie", h.cookies.Serialize(token))
	writeJSON(w, http.StatusOK, sessionResponse{
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		User: userInfo{
			UserID: user.ID,
			OrgID:  user.OrgID,
			Email:  user.Email,
			RoleID: user.RoleID,
		},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	if err := h.sessions.Invalidate(r.Context(), auth.SessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	h.emitEvent(r.Context(), "logout", auth.Principal.OrgID, auth.Principal.UserID, auth.SessionID)
	h.auditEvent(r.Context(), auth.Principal.OrgID, auth.Principal.UserID, "logout", "session", "")
	w.Header().Set("Set-Cookie", h.cookies.Blank())
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	if err := h.sessions.InvalidateAll(r.Context(), auth.Principal.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	h.emitEvent(r.Context(), "logout_all", auth.Principal.OrgID, auth.Principal.UserID, auth.SessionID)
	h.auditEvent(r.Context(), auth.Principal.OrgID, auth.Principal.UserID, "logout_all", "session", "")
	w.Header().Set("Set-Cookie", h.cookies.Blank())
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out everywhere"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	resources, err := h.resolver.AccessibleResources(r.Context(), auth.Principal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		ExpiresAt: auth.ExpiresAt.Format(time.RFC3339),
		User: userInfo{
			UserID: auth.User.ID,
			OrgID:  auth.User.OrgID,
			Email:  auth.User.Email,
			RoleID: auth.User.RoleID,
		},
		Resources: resources,
	})
}

func (h *Handler) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	token, err := h.resets.Request(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if token != "" {
		if err := h.mailer.SendPasswordReset(r.Context(), req.Email, token); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		h.auditEvent(r.Context(), "", "", "password_reset_request", "user", "")
	}
	// Identical response whether or not the account exists.
	writeJSON(w, http.StatusOK, map[string]string{"message": "if the account exists, a reset email has been sent"})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token and new_password are required")
		return
	}

	if err := h.resets.Reset(r.Context(), req.Token, []byte(req.NewPassword)); err != nil {
		if errors.Is(err, resetsvc.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired reset token")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	h.emitEvent(r.Context(), "password_reset", "", "", "")
	h.auditEvent(r.Context(), "", "", "password_reset", "user", "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

type accessTokenInfo struct {
	AccessTokenID   string  `json:"access_token_id"`
	OrgID           string  `json:"org_id"`
	ResourceID      *int    `json:"resource_id"`
	SessionLengthMS int64   `json:"session_length_ms"`
	ExpiresAt       *string `json:"expires_at"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	CreatedAt       string  `json:"created_at"`
}

type accessTokenPage struct {
	Tokens []accessTokenInfo `json:"tokens"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func (h *Handler) handleListOrgAccessTokens(w http.ResponseWriter, r *http.Request) {
	h.listAccessTokens(w, r, accesstokensvc.Scope{OrgID: r.PathValue("orgId")})
}

func (h *Handler) handleListResourceAccessTokens(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.Atoi(r.PathValue("resourceId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "resourceId must be an integer")
		return
	}
	h.listAccessTokens(w, r, accesstokensvc.Scope{ResourceID: &resourceID})
}

func (h *Handler) listAccessTokens(w http.ResponseWriter, r *http.Request, scope accesstokensvc.Scope) {
	auth, ok := authFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	if !h.requireAction(w, r, authz.ActionListAccessTokens, auth.Principal) {
		return
	}
	page, ok := pageFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.catalog.List(r.Context(), auth.Principal, scope, page)
	if err != nil {
		switch {
		case errors.Is(err, accesstokensvc.ErrInvalidScope):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, accesstokensvc.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "access_denied", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	resp := accessTokenPage{
		Tokens: make([]accessTokenInfo, 0, len(result.Tokens)),
		Total:  result.Total,
		Limit:  result.Limit,
		Offset: result.Offset,
	}
	for _, t := range result.Tokens {
		info := accessTokenInfo{
			AccessTokenID:   t.AccessTokenID,
			OrgID:           t.OrgID,
			ResourceID:      t.ResourceID,
			SessionLengthMS: t.SessionLength.Milliseconds(),
			Title:           t.Title,
			Description:     t.Description,
			CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		}
		if t.ExpiresAt != nil {
			s := t.ExpiresAt.Format(time.RFC3339)
			info.ExpiresAt = &s
		}
		resp.Tokens = append(resp.Tokens, info)
	}
	writeJSON(w, http.StatusOK, resp)
}

type targetInfo struct {
	TargetID   int    `json:"target_id"`
	ResourceID int    `json:"resource_id"`
	IP         string `json:"ip"`
	Method     string `json:"method,omitempty"`
	Port       int    `json:"port"`
	Protocol   string `json:"protocol"`
	Enabled    bool   `json:"enabled"`
}

type targetPage struct {
	Targets []targetInfo `json:"targets"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
}

func (h *Handler) handleListTargets(w http.ResponseWriter, r *http.Request) {
	auth, ok := authFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	if !h.requireAction(w, r, authz.ActionListTargets, auth.Principal) {
		return
	}
	resourceID, err := strconv.Atoi(r.PathValue("resourceId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "resourceId must be an integer")
		return
	}
	page, ok := pageFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.targets.List(r.Context(), auth.Principal, resourceID, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, targetsvc.ErrNotAuthorized) {
			writeError(w, http.StatusForbidden, "access_denied", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	resp := targetPage{
		Targets: make([]targetInfo, 0, len(result.Targets)),
		Total:   result.Total,
		Limit:   result.Limit,
		Offset:  result.Offset,
	}
	for _, t := range result.Targets {
		resp.Targets = append(resp.Targets, targetInfo{
			TargetID:   t.TargetID,
			ResourceID: t.ResourceID,
			IP:         t.IP,
			Method:     t.Method,
			Port:       t.Port,
			Protocol:   t.Protocol,
			Enabled:    t.Enabled,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireAction gates the request on the policy engine. A policy evaluation
// error is a 500, not a deny, so outages are visible rather than silent
// lockouts.
func (h *Handler) requireAction(w http.ResponseWriter, r *http.Request, action authz.Action, p authz.Principal) bool {
	allowed, err := h.checker.Allowed(r.Context(), action, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return false
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "access_denied", "action not permitted")
		return false
	}
	return true
}

func pageFromRequest(w http.ResponseWriter, r *http.Request) (accesstokensvc.Page, bool) {
	var page accesstokensvc.Page
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return page, false
		}
		page.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "offset must be a non-negative integer")
			return page, false
		}
		page.Offset = n
	}
	return page, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
