package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is canceled when the daemon shuts down so long-lived streams
// (/events, /ws) end before the listener drains. Background until set.
var serverBaseCtx = context.Background()

// SetBaseContext sets the shutdown context for streaming handlers. Call it
// before serving; nil restores Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// streamContext is the request context, additionally canceled on daemon
// shutdown. The returned stop must be called when the stream ends.
func streamContext(r *http.Request) (context.Context, context.CancelFunc) {
	return joinContexts(r.Context(), serverBaseCtx)
}

// joinContexts derives from a and cancels the result as soon as b is done.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	unregister := context.AfterFunc(b, cancel)
	return ctx, func() {
		unregister()
		cancel()
	}
}
