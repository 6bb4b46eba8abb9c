package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/saaslens/saaslens/pkg/models"
	"github.com/saaslens/saaslens/pkg/storage"
)

// WrapToolHandler wraps a tool handler to add request logging.
func WrapToolHandler[In, Out any](
	store storage.Storage,
	operation string,
	handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error),
) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		startTime := time.Now()

		// Marshal input for logging
		inputJSON, _ := json.Marshal(input)

		// Execute the actual handler
		result, output, err := handler(ctx, req, input)

		duration := time.Since(startTime)

		// Create request log record
		log := &models.RequestLog{
			Source:     models.SourceMCP,
			Operation:  operation,
			InputJSON:  string(inputJSON),
			DurationMs: duration.Milliseconds(),
			Success:    err == nil,
		}

		if err != nil {
			log.ErrorMessage = err.Error()
		} else if result != nil {
			outputJSON, _ := json.Marshal(result)
			log.OutputJSON = string(outputJSON)
		}

		// Log asynchronously to avoid blocking.
		// Using background context intentionally - logging should complete even if request is cancelled.
		go func() { //nolint:contextcheck
			_ = store.CreateRequestLog(context.Background(), log)
		}()

		return result, output, err
	}
}
