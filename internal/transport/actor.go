package transport

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ganot/project-registry/internal/domain/audit"
)

// ActorHeader names the header that carries the acting identity.
const ActorHeader = "X-Actor"

type actorKey struct{}

// ActorFromContext returns the acting identity from context, if present.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok
}

// ActorMiddleware reads X-Actor and stores it in the request context,
// falling back to defaultActor.
func ActorMiddleware(defaultActor string) gin.HandlerFunc {
	fallback := audit.ResolveActor(defaultActor)
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			actor = fallback
		}
		ctx := context.WithValue(c.Request.Context(), actorKey{}, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func actorOf(c *gin.Context) string {
	actor, _ := ActorFromContext(c.Request.Context())
	return actor
}
