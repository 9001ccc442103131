package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const methodCallTool = "tools/call"

// trafficLoggingMiddleware logs every message at debug level. A request and
// its response share an invocation id. For tools/call the request names the
// tool and the response carries the kind and status the tool reported.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			params := requestParams(req)
			attrs := []any{"direction", direction, "method", method, "invocation_id", uuid.NewString()}
			if id := sessionID(req); id != "" {
				attrs = append(attrs, "session_id", id)
			}
			if method == methodCallTool {
				attrs = append(attrs, "tool", toolName(params))
			}
			logger.DebugContext(ctx, "mcp request", append(slices.Clip(attrs), "params", formatPayload(params))...)

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}

			attrs = slices.Clip(attrs)
			if method == methodCallTool {
				kind, status := toolOutcome(result)
				attrs = append(attrs, "kind", kind, "status", status)
			} else {
				attrs = append(attrs, "result", formatPayload(result))
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			logger.DebugContext(ctx, "mcp response", attrs...)
			return result, err
		}
	}
}

// sessionID recovers from requests whose session is a typed nil.
func sessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func requestParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func toolName(params any) string {
	var call struct {
		Name string `json:"name"`
	}
	if !decodeVia(params, &call) {
		return ""
	}
	return call.Name
}

// toolOutcome reads kind and status from a tool's structured output.
// Protocol-level failures report kind "error".
func toolOutcome(result sdkmcp.Result) (kind, status string) {
	res, ok := result.(*sdkmcp.CallToolResult)
	if !ok || res == nil {
		return "", ""
	}
	if res.IsError {
		kind = "error"
	}
	var out struct {
		Kind      string `json:"kind"`
		Status    string `json:"status"`
		Cancelled bool   `json:"cancelled"`
	}
	if !decodeVia(res.StructuredContent, &out) {
		return kind, ""
	}
	switch {
	case kind != "":
	case out.Cancelled:
		kind = "cancelled"
	default:
		kind = out.Kind
	}
	return kind, out.Status
}

// decodeVia round-trips v through JSON into dst.
func decodeVia(v any, dst any) bool {
	if v == nil {
		return false
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
