package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/allowlist"
	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
	auditUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/usecase"
	credentialUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/usecase"
	csrfUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/csrf/usecase"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/httputil"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/metrics"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
	settingsUsecase "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/usecase"
)

// defaultListLimit bounds admin list endpoints when no limit is given.
const defaultListLimit = 100

// Handler carries the use cases behind the HTTP surface.
type Handler struct {
	credentials credentialUsecase.CredentialUseCase
	tokens      csrfUsecase.TokenUseCase
	settings    settingsUsecase.SettingsUseCase
	sink        auditUsecase.EventSink
	metrics     metrics.SecurityMetrics
	logger      *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(
	credentials credentialUsecase.CredentialUseCase,
	tokens csrfUsecase.TokenUseCase,
	settings settingsUsecase.SettingsUseCase,
	sink auditUsecase.EventSink,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		credentials: credentials,
		tokens:      tokens,
		settings:    settings,
		sink:        sink,
		metrics:     securityMetrics,
		logger:      logger,
	}
}

// verifyRequest is the body of POST /api/auth/verify.
type verifyRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

// VerifyPassphrase checks the shared admin passphrase. The response never
// distinguishes wrong passphrase from unconfigured credential.
func (h *Handler) VerifyPassphrase(c *gin.Context) {
	ctx := c.Request.Context()

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	result, err := h.credentials.Check(ctx, req.Passphrase)
	if err != nil {
		h.metrics.RecordCheck(ctx, "credential", "denied")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !result.Valid {
		h.metrics.RecordCheck(ctx, "credential", "denied")
		h.sink.RecordViolation(ctx, auditDomain.ViolationInvalidCredential, clientIP(c),
			map[string]any{"session_id": sessionID(c)})
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	h.metrics.RecordCheck(ctx, "credential", "allowed")
	c.JSON(http.StatusOK, gin.H{
		"authenticated":     true,
		"legacy_credential": result.Legacy,
	})
}

// IssueToken returns the session's anti-forgery token, issuing one when no
// active token exists. Repeated calls within a session reuse the same token.
func (h *Handler) IssueToken(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "missing session identifier"), h.logger)
		return
	}

	token, err := h.tokens.GetOrIssue(c.Request.Context(), session)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"csrf_token": token})
}

// ListAccessLogs returns recent access log entries, newest first.
func (h *Handler) ListAccessLogs(c *gin.Context) {
	entries, err := h.sink.ListAccess(c.Request.Context(), listLimit(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_logs": entries})
}

// ListViolations returns recent violations, newest first.
func (h *Handler) ListViolations(c *gin.Context) {
	violations, err := h.sink.ListViolations(c.Request.Context(), listLimit(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"violations": violations})
}

// GetSetting returns one setting. Sensitive values are redacted.
func (h *Handler) GetSetting(c *gin.Context) {
	setting, err := h.settings.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	value := setting.Value
	if setting.Key == settingsDomain.KeyAdminPassphrase {
		value = settingsDomain.RedactedPlaceholder
	}

	c.JSON(http.StatusOK, gin.H{
		"key":        setting.Key,
		"value":      value,
		"value_type": setting.ValueType,
		"updated_by": setting.UpdatedBy,
		"updated_at": setting.UpdatedAt,
	})
}

// updateSettingRequest is the body of PUT /api/admin/settings/:key.
type updateSettingRequest struct {
	Value     string `json:"value" binding:"required"`
	ValueType string `json:"value_type" binding:"required"`
	UpdatedBy string `json:"updated_by"`
}

// UpdateSetting stores a setting value. Allow-list updates are validated
// entry by entry first; structural errors reject the write, warnings pass
// through to the response.
func (h *Handler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if req.UpdatedBy == "" {
		req.UpdatedBy = "admin"
	}

	valueType := settingsDomain.ValueType(req.ValueType)
	switch valueType {
	case settingsDomain.TypeBool, settingsDomain.TypeString, settingsDomain.TypeStringList:
	default:
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "unknown value type"), h.logger)
		return
	}

	var warnings []string
	if key == settingsDomain.KeyAllowedReferrerDomains {
		result := allowlist.ValidateAllowlist(decodeEntryList(req.Value))
		if !result.Valid {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "bad_request",
				"message":   "allow-list validation failed",
				"errors":    result.Errors,
				"warnings":  result.Warnings,
				"timestamp": httputil.Timestamp(),
			})
			return
		}
		warnings = result.Warnings
	}

	if err := h.settings.Set(c.Request.Context(), key, req.Value, valueType, req.UpdatedBy); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := gin.H{"key": key, "updated": true}
	if len(warnings) > 0 {
		response["warnings"] = warnings
	}
	c.JSON(http.StatusOK, response)
}

// SettingHistory returns the change history for a setting, newest first.
func (h *Handler) SettingHistory(c *gin.Context) {
	changes, err := h.settings.History(c.Request.Context(), c.Param("key"), listLimit(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": changes})
}

// decodeEntryList parses an allow-list value: a JSON array when well formed,
// otherwise a comma-separated fallback matching the environment override
// format.
func decodeEntryList(value string) []string {
	var entries []string
	if err := json.Unmarshal([]byte(value), &entries); err == nil {
		return entries
	}
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}

// listLimit parses the limit query parameter with a sane default.
func listLimit(c *gin.Context) int {
	raw := c.DefaultQuery("limit", "")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 1000 {
		return defaultListLimit
	}
	return limit
}
