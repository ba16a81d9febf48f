package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appexperience "github.com/gradguide/backend/internal/application/experience"
	appidentity "github.com/gradguide/backend/internal/application/identity"
	applawmatch "github.com/gradguide/backend/internal/application/lawmatch"
	apptracker "github.com/gradguide/backend/internal/application/tracker"
	"github.com/gradguide/backend/internal/domain/lawmatch"
	"github.com/gradguide/backend/internal/infrastructure/auth"
	"github.com/gradguide/backend/internal/infrastructure/cache"
	"github.com/gradguide/backend/internal/infrastructure/config"
	"github.com/gradguide/backend/internal/infrastructure/persistence"
	"github.com/gradguide/backend/internal/interfaces/http/dto"
	"github.com/gradguide/backend/internal/interfaces/http/handler"
	"github.com/gradguide/backend/pkg/client"
	"github.com/gradguide/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "router-test-secret"

func testConfig(mode string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "gradguide-test", Env: "test"},
		Auth: config.AuthConfig{
			Mode:         mode,
			JWTSecret:    testSecret,
			CookieName:   "session",
			UserIDHeader: "X-User-Id",
			EmailHeader:  "X-User-Email",
			NameHeader:   "X-User-Name",
		},
		Cookie: config.CookieConfig{Path: "/", SameSite: "lax"},
		HTTP: config.HTTPConfig{
			MaxBodySize:            1 << 20,
			RateLimitEnabled:       true,
			RateLimitRequests:      1000,
			RateLimitWindow:        time.Hour,
			DailyRateLimitRequests: 1000,
			DailyRateLimitWindow:   24 * time.Hour,
		},
		Swagger: config.SwaggerConfig{Enabled: false},
	}
}

type testServer struct {
	engine    *gin.Engine
	tokens    *auth.SessionTokens
	blacklist *auth.InMemoryTokenBlacklist
}

func newTestServer(t *testing.T, mode string) *testServer {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := testConfig(mode)
	log := zap.NewNop()
	tokens := auth.NewSessionTokens(cfg.Auth)
	blacklist := auth.NewInMemoryTokenBlacklist()

	engine, closeFn := New(Dependencies{
		Config:       cfg,
		Logger:       log,
		Version:      "test",
		Users:        appidentity.NewUserService(persistence.NewGormUserRepository(db), log),
		Applications: apptracker.NewApplicationService(persistence.NewGormApplicationRepository(db), nil, log),
		Experiences: appexperience.NewExperienceService(persistence.NewGormSubmissionRepository(db), log,
			appexperience.WithIdempotency(cache.NewInMemoryIdempotencyStore(), time.Hour),
			appexperience.WithSummaryCache(cache.NewInMemoryCompanyCache(time.Minute))),
		LawMatch:  applawmatch.NewService(lawmatch.NewDefaultMatcher(), nil, log),
		Tokens:    tokens,
		Blacklist: blacklist,
		HealthChecks: map[string]handler.Pinger{
			"database": handler.PingFunc(sqlDB.PingContext),
		},
	})
	t.Cleanup(closeFn)

	return &testServer{engine: engine, tokens: tokens, blacklist: blacklist}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp dto.Response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	require.True(t, ok, "expected object, got %T", v)
	return m
}

func asList(t *testing.T, v any) []any {
	t.Helper()
	l, ok := v.([]any)
	require.True(t, ok, "expected array, got %T", v)
	return l
}

func TestEngine_ApplicationLifecycle(t *testing.T) {
	s := newTestServer(t, config.AuthModeHeader)
	ada := map[string]string{"X-User-Id": "u-ada", "X-User-Name": "Ada Lovelace", "X-User-Email": "ada@example.com"}
	bob := map[string]string{"X-User-Id": "u-bob"}

	w, resp := s.do(t, http.MethodGet, "/api/applications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)

	w, resp = s.do(t, http.MethodPost, "/api/applications",
		`{"company":"Allens","role":"Seasonal Clerk","application_date":"2025-03-14"}`, ada)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := asMap(t, resp.Data)
	assert.Equal(t, "Applied", created["status"])
	assert.Equal(t, "Medium", created["priority"])
	assert.Equal(t, "2025-03-14", created["application_date"])
	id := int64(created["id"].(float64))

	w, resp = s.do(t, http.MethodGet, "/api/user", "", ada)
	require.Equal(t, http.StatusOK, w.Code)
	user := asMap(t, resp.Data)
	assert.Equal(t, "Ada", user["first_name"])
	assert.Equal(t, "Lovelace", user["last_name"])

	path := "/api/applications/" + jsonNumber(id)
	w, _ = s.do(t, http.MethodPut, path, `{"status":"Interview"}`, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = s.do(t, http.MethodPut, path, `{"status":"Interview"}`, ada)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Interview", asMap(t, resp.Data)["status"])
	assert.Equal(t, "Allens", asMap(t, resp.Data)["company"])

	_, resp = s.do(t, http.MethodGet, "/api/applications", "", bob)
	assert.Empty(t, asList(t, resp.Data))

	w, _ = s.do(t, http.MethodDelete, path, "", bob)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = s.do(t, http.MethodDelete, path, "", ada)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, asMap(t, resp.Data)["deleted"])

	w, _ = s.do(t, http.MethodDelete, path, "", ada)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEngine_ApplicationValidation(t *testing.T) {
	s := newTestServer(t, config.AuthModeHeader)
	ada := map[string]string{"X-User-Id": "u-ada"}

	w, resp := s.do(t, http.MethodPost, "/api/applications", `{"role":"Clerk"}`, ada)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	w, _ = s.do(t, http.MethodPost, "/api/applications", `{"company":"A","role":"B","application_date":"14/03/2025"}`, ada)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/applications/abc", `{"status":"Offer"}`, ada)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEngine_ExperiencesAndCompanies(t *testing.T) {
	s := newTestServer(t, config.AuthModeHeader)
	ada := map[string]string{"X-User-Id": "u-ada"}

	body := `{"company":"Acme Corp","role":"Graduate","theme":"Law","salary_benefits":"90000","general_experience":"Great mentoring"}`
	w, _ := s.do(t, http.MethodPost, "/api/experiences", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	keyed := map[string]string{"X-User-Id": "u-ada", dto.IdempotencyKeyHeader: "k-1"}
	w, resp := s.do(t, http.MethodPost, "/api/experiences", body, keyed)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := asMap(t, resp.Data)

	w, resp = s.do(t, http.MethodPost, "/api/experiences", body, keyed)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(handler.ReplayedHeader))
	assert.Equal(t, first["id"], asMap(t, resp.Data)["id"])

	w, _ = s.do(t, http.MethodPost, "/api/experiences",
		`{"company":"Acme Corp","role":"Seasonal Clerk","salary_benefits":"80000"}`, ada)
	require.Equal(t, http.StatusCreated, w.Code)

	_, resp = s.do(t, http.MethodGet, "/api/experiences", "", nil)
	assert.Len(t, asList(t, resp.Data), 2)

	_, resp = s.do(t, http.MethodGet, "/api/experiences?company=acme%20corp&search=mentor", "", nil)
	assert.Len(t, asList(t, resp.Data), 1)

	w, resp = s.do(t, http.MethodGet, "/api/experiences/"+jsonNumber(int64(first["id"].(float64))), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Great mentoring", asMap(t, resp.Data)["general_experience"])

	w, _ = s.do(t, http.MethodGet, "/api/experiences/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, resp = s.do(t, http.MethodGet, "/api/companies", "", nil)
	companies := asList(t, resp.Data)
	require.Len(t, companies, 1)
	acme := asMap(t, companies[0])
	assert.Equal(t, "Acme Corp", acme["name"])
	assert.EqualValues(t, 2, acme["total_submissions"])
	assert.EqualValues(t, 85000, acme["avg_salary"])

	_, resp = s.do(t, http.MethodGet, "/api/companies/Acme%20Corp", "", nil)
	detail := asMap(t, resp.Data)
	assert.NotNil(t, detail["company"])
	assert.Len(t, asList(t, detail["experiences"]), 2)

	_, resp = s.do(t, http.MethodGet, "/api/companies/Nobody", "", nil)
	detail = asMap(t, resp.Data)
	assert.Nil(t, detail["company"])
	assert.Empty(t, asList(t, detail["experiences"]))

	_, resp = s.do(t, http.MethodGet, "/api/user/experiences", "", ada)
	assert.Len(t, asList(t, resp.Data), 2)
}

func TestEngine_CompanyNameWithSlash(t *testing.T) {
	s := newTestServer(t, config.AuthModeHeader)
	ada := map[string]string{"X-User-Id": "u-ada"}

	w, _ := s.do(t, http.MethodPost, "/api/experiences", `{"company":"A/B Partners","role":"Clerk"}`, ada)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, resp := s.do(t, http.MethodGet, "/api/companies/A%2FB%20Partners", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail := asMap(t, resp.Data)
	assert.Equal(t, "A/B Partners", asMap(t, detail["company"])["name"])
	assert.Len(t, asList(t, detail["experiences"]), 1)

	srv := httptest.NewServer(s.engine)
	t.Cleanup(srv.Close)

	page, err := client.New(srv.URL).GetCompany(context.Background(), "A/B Partners")
	require.NoError(t, err)
	require.NotNil(t, page.Company)
	assert.Equal(t, "A/B Partners", page.Company.Name)
	assert.Len(t, page.Experiences, 1)
}

func TestEngine_JWTSessionAndLogout(t *testing.T) {
	s := newTestServer(t, config.AuthModeJWT)
	token, err := s.tokens.Issue(auth.SessionInput{UserID: "u-jwt", FirstName: "Grace", TTL: time.Hour})
	require.NoError(t, err)
	bearer := map[string]string{"Authorization": "Bearer " + token}

	w, resp := s.do(t, http.MethodGet, "/api/user", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Grace", asMap(t, resp.Data)["first_name"])

	w, _ = s.do(t, http.MethodPost, "/api/logout", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/user", "", bearer)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, resp.Error.Code)

	w, _ = s.do(t, http.MethodGet, "/api/user", "", map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEngine_PublicEndpoints(t *testing.T) {
	s := newTestServer(t, config.AuthModeHeader)

	w, resp := s.do(t, http.MethodPost, "/api/law-match", `{"university":"Monash University"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, asList(t, asMap(t, resp.Data)["results"]), 10)

	w, resp = s.do(t, http.MethodGet, "/api/firm-university-data", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, asMap(t, resp.Data), 10)

	w, resp = s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", asMap(t, resp.Data)["status"])

	w, resp = s.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)

	w, _ = s.do(t, http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/companies", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
