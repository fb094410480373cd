package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
	credentialDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/domain"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
	httpMocks "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/http/mocks"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/metrics"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
	settingsMocks "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/usecase/mocks"
)

type handlerFixture struct {
	credentials *httpMocks.MockCredentialUseCase
	tokens      *httpMocks.MockTokenUseCase
	settings    *settingsMocks.MockSettingsUseCase
	sink        *httpMocks.MockEventSink
	handler     *Handler
}

func newHandlerFixture() *handlerFixture {
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		credentials: &httpMocks.MockCredentialUseCase{},
		tokens:      &httpMocks.MockTokenUseCase{},
		settings:    &settingsMocks.MockSettingsUseCase{},
		sink:        &httpMocks.MockEventSink{},
	}
	f.handler = NewHandler(
		f.credentials,
		f.tokens,
		f.settings,
		f.sink,
		metrics.NewNoOpSecurityMetrics(),
		slog.Default(),
	)
	return f
}

func performJSON(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestVerifyPassphrase(t *testing.T) {
	t.Run("ValidPassphrase", func(t *testing.T) {
		f := newHandlerFixture()
		f.credentials.On("Check", mock.Anything, "correct-horse-battery-staple-0042").
			Return(&credentialDomain.CheckResult{Valid: true}, nil)

		router := gin.New()
		router.POST("/verify", f.handler.VerifyPassphrase)

		recorder := performJSON(router, http.MethodPost, "/verify",
			`{"passphrase":"correct-horse-battery-staple-0042"}`, nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, false, body["legacy_credential"])
	})

	t.Run("LegacyCredentialFlagged", func(t *testing.T) {
		f := newHandlerFixture()
		f.credentials.On("Check", mock.Anything, mock.AnythingOfType("string")).
			Return(&credentialDomain.CheckResult{Valid: true, Legacy: true}, nil)

		router := gin.New()
		router.POST("/verify", f.handler.VerifyPassphrase)

		recorder := performJSON(router, http.MethodPost, "/verify",
			`{"passphrase":"legacy-plaintext-stored-passphrase"}`, nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, true, decodeBody(t, recorder)["legacy_credential"])
	})

	t.Run("WrongPassphraseDenied", func(t *testing.T) {
		f := newHandlerFixture()
		f.credentials.On("Check", mock.Anything, mock.AnythingOfType("string")).
			Return(&credentialDomain.CheckResult{Valid: false}, nil)
		f.sink.On("RecordViolation",
			mock.Anything, auditDomain.ViolationInvalidCredential, mock.Anything, mock.Anything)

		router := gin.New()
		router.POST("/verify", f.handler.VerifyPassphrase)

		recorder := performJSON(router, http.MethodPost, "/verify",
			`{"passphrase":"wrong-passphrase-padded-to-length"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, "unauthorized", body["error"])
		assert.Equal(t, "Authentication failed", body["message"])
		f.sink.AssertExpectations(t)
	})

	t.Run("UnconfiguredCredentialIndistinguishable", func(t *testing.T) {
		f := newHandlerFixture()
		f.credentials.On("Check", mock.Anything, mock.AnythingOfType("string")).
			Return(nil, credentialDomain.ErrNotConfigured)

		router := gin.New()
		router.POST("/verify", f.handler.VerifyPassphrase)

		recorder := performJSON(router, http.MethodPost, "/verify",
			`{"passphrase":"any-passphrase-padded-to-length-x"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, "unauthorized", body["error"])
		assert.Equal(t, "Authentication failed", body["message"])
	})

	t.Run("MissingBodyRejected", func(t *testing.T) {
		f := newHandlerFixture()

		router := gin.New()
		router.POST("/verify", f.handler.VerifyPassphrase)

		recorder := performJSON(router, http.MethodPost, "/verify", `{}`, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		f.credentials.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})
}

func TestIssueToken(t *testing.T) {
	t.Run("ReturnsSessionToken", func(t *testing.T) {
		f := newHandlerFixture()
		f.tokens.On("GetOrIssue", mock.Anything, "session-1").Return("tok-abc", nil)

		router := gin.New()
		router.GET("/csrf-token", f.handler.IssueToken)

		recorder := performJSON(router, http.MethodGet, "/csrf-token", "",
			map[string]string{HeaderSessionID: "session-1"})

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "tok-abc", decodeBody(t, recorder)["csrf_token"])
	})

	t.Run("MissingSessionRejected", func(t *testing.T) {
		f := newHandlerFixture()

		router := gin.New()
		router.GET("/csrf-token", f.handler.IssueToken)

		recorder := performJSON(router, http.MethodGet, "/csrf-token", "", nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		f.tokens.AssertNotCalled(t, "GetOrIssue", mock.Anything, mock.Anything)
	})
}

func TestAdminListEndpoints(t *testing.T) {
	t.Run("AccessLogs", func(t *testing.T) {
		f := newHandlerFixture()
		entries := []*auditDomain.AccessEntry{{Endpoint: "/api/auth/verify", Action: "POST"}}
		f.sink.On("ListAccess", mock.Anything, defaultListLimit).Return(entries, nil)

		router := gin.New()
		router.GET("/access-logs", f.handler.ListAccessLogs)

		recorder := performJSON(router, http.MethodGet, "/access-logs", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "/api/auth/verify")
	})

	t.Run("ViolationsWithLimit", func(t *testing.T) {
		f := newHandlerFixture()
		f.sink.On("ListViolations", mock.Anything, 5).Return([]*auditDomain.Violation{}, nil)

		router := gin.New()
		router.GET("/violations", f.handler.ListViolations)

		recorder := performJSON(router, http.MethodGet, "/violations?limit=5", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		f.sink.AssertExpectations(t)
	})

	t.Run("OutOfRangeLimitFallsBack", func(t *testing.T) {
		f := newHandlerFixture()
		f.sink.On("ListViolations", mock.Anything, defaultListLimit).
			Return([]*auditDomain.Violation{}, nil)

		router := gin.New()
		router.GET("/violations", f.handler.ListViolations)

		recorder := performJSON(router, http.MethodGet, "/violations?limit=99999", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		f.sink.AssertExpectations(t)
	})
}

func TestGetSetting(t *testing.T) {
	t.Run("ReturnsSetting", func(t *testing.T) {
		f := newHandlerFixture()
		f.settings.On("Get", mock.Anything, "enabled").Return(&settingsDomain.Setting{
			Key:       "enabled",
			Value:     "true",
			ValueType: settingsDomain.TypeBool,
			UpdatedBy: "admin",
			UpdatedAt: time.Now(),
		}, nil)

		router := gin.New()
		router.GET("/settings/:key", f.handler.GetSetting)

		recorder := performJSON(router, http.MethodGet, "/settings/enabled", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, "true", body["value"])
	})

	t.Run("PassphraseValueRedacted", func(t *testing.T) {
		f := newHandlerFixture()
		f.settings.On("Get", mock.Anything, settingsDomain.KeyAdminPassphrase).
			Return(&settingsDomain.Setting{
				Key:       settingsDomain.KeyAdminPassphrase,
				Value:     "deadbeef:cafebabe",
				ValueType: settingsDomain.TypeString,
			}, nil)

		router := gin.New()
		router.GET("/settings/:key", f.handler.GetSetting)

		recorder := performJSON(router, http.MethodGet,
			"/settings/"+settingsDomain.KeyAdminPassphrase, "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, settingsDomain.RedactedPlaceholder, body["value"])
		assert.NotContains(t, recorder.Body.String(), "deadbeef")
	})

	t.Run("UnknownKey404", func(t *testing.T) {
		f := newHandlerFixture()
		f.settings.On("Get", mock.Anything, "missing").
			Return(nil, settingsDomain.ErrSettingNotFound)

		router := gin.New()
		router.GET("/settings/:key", f.handler.GetSetting)

		recorder := performJSON(router, http.MethodGet, "/settings/missing", "", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestUpdateSetting(t *testing.T) {
	t.Run("StoresValue", func(t *testing.T) {
		f := newHandlerFixture()
		f.settings.On("Set",
			mock.Anything, "enabled", "true", settingsDomain.TypeBool, "ops").Return(nil)

		router := gin.New()
		router.PUT("/settings/:key", f.handler.UpdateSetting)

		recorder := performJSON(router, http.MethodPut, "/settings/enabled",
			`{"value":"true","value_type":"boolean","updated_by":"ops"}`, nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, true, decodeBody(t, recorder)["updated"])
		f.settings.AssertExpectations(t)
	})

	t.Run("DefaultsUpdatedBy", func(t *testing.T) {
		f := newHandlerFixture()
		f.settings.On("Set",
			mock.Anything, "enabled", "false", settingsDomain.TypeBool, "admin").Return(nil)

		router := gin.New()
		router.PUT("/settings/:key", f.handler.UpdateSetting)

		recorder := performJSON(router, http.MethodPut, "/settings/enabled",
			`{"value":"false","value_type":"boolean"}`, nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		f.settings.AssertExpectations(t)
	})

	t.Run("UnknownValueTypeRejected", func(t *testing.T) {
		f := newHandlerFixture()

		router := gin.New()
		router.PUT("/settings/:key", f.handler.UpdateSetting)

		recorder := performJSON(router, http.MethodPut, "/settings/enabled",
			`{"value":"1","value_type":"integer"}`, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		f.settings.AssertNotCalled(t, "Set",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidAllowlistRejected", func(t *testing.T) {
		f := newHandlerFixture()

		router := gin.New()
		router.PUT("/settings/:key", f.handler.UpdateSetting)

		recorder := performJSON(router, http.MethodPut,
			"/settings/"+settingsDomain.KeyAllowedReferrerDomains,
			`{"value":"[\"192.168.1.0/99\"]","value_type":"string_list"}`, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		body := decodeBody(t, recorder)
		assert.NotEmpty(t, body["errors"])
		assert.NotEmpty(t, body["timestamp"])
		f.settings.AssertNotCalled(t, "Set",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AllowlistWarningsPassThrough", func(t *testing.T) {
		f := newHandlerFixture()
		f.settings.On("Set",
			mock.Anything, settingsDomain.KeyAllowedReferrerDomains,
			mock.AnythingOfType("string"), settingsDomain.TypeStringList, "admin").Return(nil)

		router := gin.New()
		router.PUT("/settings/:key", f.handler.UpdateSetting)

		// An entry that is neither IP nor plausible hostname warns but
		// does not reject the write.
		recorder := performJSON(router, http.MethodPut,
			"/settings/"+settingsDomain.KeyAllowedReferrerDomains,
			`{"value":"[\"example.com\",\"bad entry!\"]","value_type":"string_list"}`, nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody(t, recorder)
		assert.NotEmpty(t, body["warnings"])
	})
}

func TestSettingHistory(t *testing.T) {
	f := newHandlerFixture()
	changes := []*settingsDomain.Change{{Key: "enabled", OldValue: "false", NewValue: "true"}}
	f.settings.On("History", mock.Anything, "enabled", defaultListLimit).Return(changes, nil)

	router := gin.New()
	router.GET("/settings/:key/history", f.handler.SettingHistory)

	recorder := performJSON(router, http.MethodGet, "/settings/enabled/history", "", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "enabled")
}

func TestHandlerStorageErrorHidden(t *testing.T) {
	f := newHandlerFixture()
	f.sink.On("ListAccess", mock.Anything, defaultListLimit).
		Return(nil, apperrors.New("pq: connection refused"))

	router := gin.New()
	router.GET("/access-logs", f.handler.ListAccessLogs)

	recorder := performJSON(router, http.MethodGet, "/access-logs", "", nil)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "pq:")
	assert.Contains(t, recorder.Body.String(), "An internal error occurred")
}
