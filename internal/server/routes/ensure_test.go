package routes

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/loan-mgt/hf-lora-loader/internal/ensure"
	"github.com/loan-mgt/hf-lora-loader/internal/folders"
	"github.com/loan-mgt/hf-lora-loader/internal/hub"
	"github.com/loan-mgt/hf-lora-loader/internal/server"
)

func newEnsureApp(t *testing.T, root string, download hub.DownloadFunc) *fiber.App {
	t.Helper()

	reg := folders.New()
	if root != "" {
		reg.Set(folders.CategoryLoras, []string{root})
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := ensure.NewService(reg, download, logger)
	app, err := server.NewApp(server.AppOptions{Logger: logger, Ensure: svc})
	if err != nil {
		t.Fatalf("new app error: %v", err)
	}
	RegisterEnsureRoutes(app, svc, logger)
	RegisterDiagnosticsRoutes(app, reg)
	return app
}

func contentDownloader(content []byte) hub.DownloadFunc {
	return func(ctx context.Context, req hub.Request) (string, error) {
		path := filepath.Join(req.TargetDir, filepath.FromSlash(req.Filename))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return "", err
		}
		return path, nil
	}
}

func postEnsure(t *testing.T, app *fiber.App, payload map[string]any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload error: %v", err)
	}
	req := httptest.NewRequest("POST", "/v1/lora/ensure", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode response error: %v (body=%s)", err, string(raw))
	}
	return resp.StatusCode, decoded
}

func TestEnsureEndpointDownloadsAndReturnsPath(t *testing.T) {
	root := t.TempDir()
	app := newEnsureApp(t, root, contentDownloader([]byte("file-bytes")))

	status, body := postEnsure(t, app, map[string]any{
		"repo_id":  "author/repo",
		"filename": "model.safetensors",
	})

	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if body["path"] != "hf_lora_loader/author__repo/model.safetensors" {
		t.Fatalf("unexpected path: %v", body["path"])
	}

	stored, err := os.ReadFile(filepath.Join(root, "hf_lora_loader", "author__repo", "model.safetensors"))
	if err != nil {
		t.Fatalf("read stored file error: %v", err)
	}
	if string(stored) != "file-bytes" {
		t.Fatalf("stored payload mismatch: %s", string(stored))
	}
}

func TestEnsureEndpointRejectsBlankRepo(t *testing.T) {
	app := newEnsureApp(t, t.TempDir(), contentDownloader([]byte("x")))

	status, body := postEnsure(t, app, map[string]any{
		"repo_id":  "   ",
		"filename": "model.safetensors",
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["error"] != "invalid_argument" {
		t.Fatalf("unexpected error code: %v", body["error"])
	}
}

func TestEnsureEndpointChecksumMismatch(t *testing.T) {
	app := newEnsureApp(t, t.TempDir(), contentDownloader([]byte("unexpected")))

	sum := sha256.Sum256([]byte("expected"))
	status, body := postEnsure(t, app, map[string]any{
		"repo_id":         "org/repo",
		"filename":        "bad.safetensors",
		"expected_sha256": hex.EncodeToString(sum[:]),
	})
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if body["error"] != "checksum_mismatch" {
		t.Fatalf("unexpected error code: %v", body["error"])
	}
}

func TestEnsureEndpointDownloadFailure(t *testing.T) {
	failing := func(ctx context.Context, req hub.Request) (string, error) {
		return "", fmt.Errorf("upstream unreachable")
	}
	app := newEnsureApp(t, t.TempDir(), failing)

	status, body := postEnsure(t, app, map[string]any{
		"repo_id":  "author/repo",
		"filename": "model.safetensors",
	})
	if status != fiber.StatusBadGateway {
		t.Fatalf("expected 502, got %d", status)
	}
	if body["error"] != "download_failed" {
		t.Fatalf("unexpected error code: %v", body["error"])
	}
}

func TestEnsureEndpointNoRootConfigured(t *testing.T) {
	app := newEnsureApp(t, "", contentDownloader([]byte("x")))

	status, body := postEnsure(t, app, map[string]any{
		"repo_id":  "author/repo",
		"filename": "model.safetensors",
	})
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body["error"] != "configuration_error" {
		t.Fatalf("unexpected error code: %v", body["error"])
	}
}

func TestDiagnosticsEndpoints(t *testing.T) {
	root := t.TempDir()
	app := newEnsureApp(t, root, contentDownloader([]byte("x")))

	resp, err := app.Test(httptest.NewRequest("GET", "/-/health", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("health should be 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/-/nodes", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var decoded struct {
		Nodes []struct {
			Key string `json:"key"`
		} `json:"nodes"`
		Folders map[string][]string `json:"folders"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode nodes error: %v", err)
	}
	if len(decoded.Nodes) == 0 || decoded.Nodes[0].Key != "HFLoraLoaderModelOnly" {
		t.Fatalf("诊断端应列出内置节点: %s", string(raw))
	}
	if paths := decoded.Folders["loras"]; len(paths) != 1 || paths[0] != root {
		t.Fatalf("诊断端应列出目录配置: %v", decoded.Folders)
	}
}
