package probe

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/menuscore/menuscore/dashboard/internal/store"
)

// Service is the health service name checked by readiness probes.
const Service = "menuscore.dashboard"

// Probe maintains the health status of the dashboard.
type Probe struct {
	health *health.Server
	store  *store.Store
}

// New creates a Probe reflecting the state of st and keeps it current on
// every reload.
func New(st *store.Store) *Probe {
	p := &Probe{health: health.NewServer(), store: st}
	p.Refresh()
	st.OnChange(func(*store.Snapshot) { p.Refresh() })
	return p
}

// Refresh recomputes the service status from the store.
func (p *Probe) Refresh() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if p.store.Count() > 0 {
		status = healthpb.HealthCheckResponse_SERVING
	}
	p.health.SetServingStatus(Service, status)
	slog.Debug("probe: status updated", "service", Service, "status", status.String())
}

// Register adds the health service and server reflection to srv.
func (p *Probe) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, p.health)
	reflection.Register(srv)
}

// Shutdown sets every service to NOT_SERVING and ignores later updates.
func (p *Probe) Shutdown() {
	p.health.Shutdown()
}

// Server returns the underlying health server.
func (p *Probe) Server() healthpb.HealthServer {
	return p.health
}
