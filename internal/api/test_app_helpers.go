package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lucaferrani/luce/internal/db"
	"github.com/lucaferrani/luce/internal/services"
	"gorm.io/gorm"
)

const (
	testAccountEmail    = "luca@example.com"
	testAccountPassword = "Segreta123"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "luce-test.db")
	database, err := db.OpenSQLite(databasePath)
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

	handler := NewHandler(database, "test-secret-key", time.UTC, services.NewAssistantService(nil, ""), false)
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func jsonRequest(t *testing.T, method string, target string, payload any, cookie string) *http.Request {
	t.Helper()

	var body *bytes.Reader
	if payload == nil {
		body = bytes.NewReader(nil)
	} else {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, target, body)
	request.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		request.Header.Set("Cookie", authCookieName+"="+cookie)
	}
	return request
}

func performRequest(t *testing.T, app *fiber.App, request *http.Request) *http.Response {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("perform request %s %s: %v", request.Method, request.URL.Path, err)
	}
	return response
}

func decodeJSONBody(t *testing.T, response *http.Response, target any) {
	t.Helper()

	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func extractAuthCookie(t *testing.T, response *http.Response) string {
	t.Helper()

	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return cookie.Value
		}
	}
	t.Fatal("auth cookie not set on response")
	return ""
}

// registerTestAccount creates the installation account through the public API
// and returns the session cookie.
func registerTestAccount(t *testing.T, app *fiber.App) string {
	t.Helper()

	request := jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    testAccountEmail,
		"password": testAccountPassword,
	}, "")
	response := performRequest(t, app, request)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", response.StatusCode)
	}
	return extractAuthCookie(t, response)
}
