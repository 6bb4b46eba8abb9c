package history

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/saaslens/saaslens/pkg/analyzer"
	"github.com/saaslens/saaslens/pkg/llm"
	"github.com/saaslens/saaslens/pkg/models"
	"github.com/saaslens/saaslens/pkg/server"
	"github.com/saaslens/saaslens/pkg/storage"
	"github.com/saaslens/saaslens/pkg/translate"
)

func setupTestServer(t *testing.T) (*server.Server, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "history-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	cfg := storage.Config{
		DatabasePath: tmpFile.Name(),
		Debug:        false,
	}

	store, err := storage.NewSQLiteStorage(cfg)
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create storage: %v", err)
	}

	impl := &mcp.Implementation{
		Name:    "test-server",
		Version: "1.0.0",
	}

	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	completer := llm.NewClient(llm.Config{}, logger)
	an := analyzer.New(analyzer.Config{}, store, completer, logger)
	tr := translate.New(translate.Config{}, completer, logger)

	srv := server.NewServer(impl, store, an, tr)

	cleanup := func() {
		srv.Shutdown(context.Background())
		os.Remove(tmpFile.Name())
	}

	return srv, cleanup
}

func TestNew(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	tool := New(logger)

	if tool == nil {
		t.Fatal("expected non-nil tool")
	}
}

func TestHistoryHandler_List_Empty(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	logger := zerolog.New(os.Stdout)
	tool := New(logger).(*Tool)
	tool.store = srv.Storage()

	ctx := context.Background()
	input := Input{Action: "list"}

	result, _, err := tool.HistoryHandler(ctx, nil, input)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}

	// Parse response
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("expected TextContent")
	}

	var response map[string]any
	if err := json.Unmarshal([]byte(textContent.Text), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["total"].(float64) != 0 {
		t.Errorf("expected total 0, got %v", response["total"])
	}
}

func TestHistoryHandler_List_WithData(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()
	store := srv.Storage()

	// Add test requests
	for i := 0; i < 15; i++ {
		log := &models.RequestLog{
			Source:    models.SourceREST,
			Operation: "analyze",
			Success:   true,
		}
		if err := store.CreateRequestLog(ctx, log); err != nil {
			t.Fatalf("failed to create request log: %v", err)
		}
	}

	logger := zerolog.New(os.Stdout)
	tool := New(logger).(*Tool)
	tool.store = store

	input := Input{Action: "list", Limit: 10}

	result, _, err := tool.HistoryHandler(ctx, nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	textContent := result.Content[0].(*mcp.TextContent)
	var response map[string]any
	if err := json.Unmarshal([]byte(textContent.Text), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["total"].(float64) != 15 {
		t.Errorf("expected total 15, got %v", response["total"])
	}

	requests := response["requests"].([]any)
	if len(requests) != 10 {
		t.Errorf("expected 10 requests (limit), got %d", len(requests))
	}
}

func TestHistoryHandler_Get(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()
	store := srv.Storage()

	log := &models.RequestLog{
		Source:    models.SourceMCP,
		Operation: "analyze",
		InputJSON: `{"query": "asana"}`,
		Success:   true,
	}
	store.CreateRequestLog(ctx, log)

	logger := zerolog.New(os.Stdout)
	tool := New(logger).(*Tool)
	tool.store = store

	input := Input{Action: "get", ID: log.ID}

	result, _, err := tool.HistoryHandler(ctx, nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	textContent := result.Content[0].(*mcp.TextContent)
	var response models.RequestLog
	if err := json.Unmarshal([]byte(textContent.Text), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response.ID != log.ID {
		t.Errorf("expected ID %d, got %d", log.ID, response.ID)
	}
	if response.Operation != "analyze" {
		t.Errorf("expected operation 'analyze', got '%s'", response.Operation)
	}
}

func TestHistoryHandler_Get_NotFound(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	logger := zerolog.New(os.Stdout)
	tool := New(logger).(*Tool)
	tool.store = srv.Storage()

	input := Input{Action: "get", ID: 9999}

	_, _, err := tool.HistoryHandler(context.Background(), nil, input)
	if err == nil {
		t.Error("expected error for missing request")
	}
}

func TestHistoryHandler_Get_MissingID(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	logger := zerolog.New(os.Stdout)
	tool := New(logger).(*Tool)
	tool.store = srv.Storage()

	input := Input{Action: "get"}

	_, _, err := tool.HistoryHandler(context.Background(), nil, input)
	if err == nil {
		t.Error("expected error for missing id")
	}
}

func TestHistoryHandler_Delete(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()
	store := srv.Storage()

	log := &models.RequestLog{Source: models.SourceREST, Operation: "translate", Success: true}
	store.CreateRequestLog(ctx, log)

	logger := zerolog.New(os.Stdout)
	tool := New(logger).(*Tool)
	tool.store = store

	input := Input{Action: "delete", ID: log.ID}

	_, _, err := tool.HistoryHandler(ctx, nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.GetRequestLog(ctx, log.ID); err == nil {
		t.Error("expected request to be deleted")
	}
}

func TestHistoryHandler_Clear(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()
	store := srv.Storage()

	for i := 0; i < 5; i++ {
		log := &models.RequestLog{Source: models.SourceREST, Operation: "analyze", Success: true}
		store.CreateRequestLog(ctx, log)
	}

	logger := zerolog.New(os.Stdout)
	tool := New(logger).(*Tool)
	tool.store = store

	input := Input{Action: "clear"}

	_, _, err := tool.HistoryHandler(ctx, nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, total, err := store.GetRequestLogs(ctx, 10, 0)
	if err != nil {
		t.Fatalf("failed to list requests: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0 requests after clear, got %d", total)
	}
}

func TestHistoryHandler_InvalidAction(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	logger := zerolog.New(os.Stdout)
	tool := New(logger).(*Tool)
	tool.store = srv.Storage()

	input := Input{Action: "destroy"}

	_, _, err := tool.HistoryHandler(context.Background(), nil, input)
	if err == nil {
		t.Error("expected validation error for unknown action")
	}
}
