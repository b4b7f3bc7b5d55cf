package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-builder/internal/queue"
	"resume-builder/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("BCRYPT_COST", "10")
	return config.Config{
		Env:           "dev",
		LocalStoreDir: t.TempDir(),
		SnapshotDir:   t.TempDir(),
		LLMProvider:   "mock",
	}
}

func TestBuildUsesMemoryReposInDev(t *testing.T) {
	app, err := Build(testConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()

	if app.DB != nil {
		t.Fatalf("expected no database")
	}
	if _, ok := app.Events.(queue.Noop); !ok {
		t.Fatalf("expected noop events, got %T", app.Events)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("health: %d %s", resp.Code, resp.Body.String())
	}
}

func TestBuildDraftsSummaryWithMock(t *testing.T) {
	app, err := Build(testConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/builder/summary", nil)
	req.Header.Set("X-Guest-Id", "g1")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("summary: %d %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "professional") {
		t.Fatalf("expected mock summary, got %s", resp.Body.String())
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestBuildRejectsS3WithoutBucket(t *testing.T) {
	cfg := testConfig(t)
	cfg.ObjectStoreType = "s3"
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected error for s3 without bucket")
	}
}
