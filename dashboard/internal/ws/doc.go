// Package ws implements the WebSocket hub of the dashboard.
//
// Hub manages a set of connected clients and pushes the dashboard snapshot to
// all of them on a configurable interval (5s by default) and whenever the
// scored dataset is reloaded.
//
// New(src, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast loop and blocks until ctx is cancelled,
// then closes all active connections.
// Hub.Notify() requests an immediate broadcast, e.g. from a store.OnChange
// callback.
// Hub.SetInterval(d) changes the tick period of a running hub.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// snapshot immediately on connect, then streams updates.
//
// Message format sent to clients:
//
//	{
//	  "event": "snapshot",
//	  "data":  { /* same schema as GET /api/v1/snapshot */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The dashboard mounts the hub at /ws/stream.
package ws
