package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rekurs-dev/rekurs/pkg/api"
)

// Logging returns middleware that emits structured log entries for each
// query run. The log entry includes the request ID (from context), the
// query length, the run duration, and the outcome: the number of trace
// steps, the number of model calls, and whether the run produced a final
// answer.
//
// Note: The HTTP method and path are not available at the QueryHandler
// level. For full HTTP-level logging (including status codes), use
// HTTP-level middleware in the adapter.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, req *api.QueryRequest) (*api.Result, error) {
			start := time.Now()
			requestID := RequestIDFromContext(ctx)

			res, err := next.RunQuery(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.Int("query_length", len(req.Query)),
				slog.Duration("duration", time.Since(start)),
			}

			switch {
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "query failed", attrs...)
			case res != nil:
				attrs = append(attrs,
					slog.Int("steps", len(res.Steps)),
					slog.Int("llm_calls", res.TotalLLMCalls),
					slog.Bool("success", res.Success),
				)
				logger.LogAttrs(ctx, slog.LevelInfo, "query completed", attrs...)
			default:
				logger.LogAttrs(ctx, slog.LevelInfo, "query completed", attrs...)
			}

			return res, err
		})
	}
}
