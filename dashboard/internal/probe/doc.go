// Package probe exposes the dashboard's readiness over the standard gRPC
// health checking protocol (grpc.health.v1.Health).
//
// The service named Service reports SERVING once the store holds a scored
// dataset with at least one item and NOT_SERVING before that. The overall
// server status ("") is always SERVING while the process is up.
//
// New(st) subscribes to store reloads. Register(srv) adds the health service
// and server reflection to a gRPC server. Shutdown marks everything
// NOT_SERVING so load balancers drain before the listener closes.
package probe
