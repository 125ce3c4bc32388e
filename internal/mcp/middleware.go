package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/project-registry/internal/domain/audit"
)

type contextKey int

const actorKey contextKey = iota

// ActorHeader names the HTTP header that carries the acting identity.
const ActorHeader = "X-Actor"

// getActor extracts the acting identity from context.
func getActor(ctx context.Context) string {
	v, _ := ctx.Value(actorKey).(string)
	return v
}

// actorMiddleware resolves who is acting from the X-Actor header (HTTP) or
// _meta.actor (stdio), falling back to defaultActor.
func actorMiddleware(defaultActor string) sdkmcp.Middleware {
	fallback := audit.ResolveActor(defaultActor)
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			actor := requestActor(req)
			if actor == "" {
				actor = fallback
			}
			ctx = context.WithValue(ctx, actorKey, actor)
			return next(ctx, method, req)
		}
	}
}

func requestActor(req sdkmcp.Request) (actor string) {
	if req == nil {
		return ""
	}
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		if v := strings.TrimSpace(extra.Header.Get(ActorHeader)); v != "" {
			return v
		}
	}

	// Some notifications carry nil params behind a non-nil interface.
	defer func() {
		if recover() != nil {
			actor = ""
		}
	}()
	if params := req.GetParams(); params != nil {
		if meta := params.GetMeta(); meta != nil {
			if v, ok := meta["actor"].(string); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}
