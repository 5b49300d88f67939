package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nudge/internal/ai"
	"github.com/terraincognita07/nudge/internal/db"
	"github.com/terraincognita07/nudge/internal/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type testApp struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nudge-api-test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	m := metrics.NewMetrics()
	handler, err := NewHandler(database, ai.NewGenerator(nil, zap.NewNop(), m), HandlerConfig{
		SecretKey: testSecretKey,
		TokenTTL:  24 * time.Hour,
		Location:  time.UTC,
	}, zap.NewNop(), m)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	return testApp{app: NewApp(handler), handler: handler, database: database}
}

type testResponse struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    []byte
}

func (response testResponse) decode(t *testing.T) map[string]any {
	t.Helper()

	payload := map[string]any{}
	if err := json.Unmarshal(response.body, &payload); err != nil {
		t.Fatalf("decode response body %q: %v", string(response.body), err)
	}
	return payload
}

func (response testResponse) errorMessage(t *testing.T) string {
	t.Helper()

	message, _ := response.decode(t)["error"].(string)
	return message
}

func (env testApp) request(t *testing.T, method string, path string, authCookie string, payload any) testResponse {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	return testResponse{
		status:  response.StatusCode,
		header:  response.Header,
		cookies: response.Cookies(),
		body:    raw,
	}
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func authCookieHeader(t *testing.T, response testResponse) string {
	t.Helper()

	cookie := responseCookie(response.cookies, authCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("auth cookie is missing in response with status %d", response.status)
	}
	return cookie.Name + "=" + cookie.Value
}

func registerTestUser(t *testing.T, env testApp, username string, email string) string {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret-pass",
	})
	if response.status != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d: %s", response.status, string(response.body))
	}
	return authCookieHeader(t, response)
}

func checkInTestTask(t *testing.T, env testApp, authCookie string, task string) map[string]any {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/check-in", authCookie, map[string]string{"task": task})
	if response.status != http.StatusCreated {
		t.Fatalf("expected check-in status 201, got %d: %s", response.status, string(response.body))
	}
	entry, ok := response.decode(t)["entry"].(map[string]any)
	if !ok {
		t.Fatalf("expected entry object, got %s", string(response.body))
	}
	return entry
}
