package probe_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/menuscore/menuscore/dashboard/internal/probe"
	"github.com/menuscore/menuscore/dashboard/internal/store"
)

const scoredCSV = `Category,Item,Calories,Saturated Fat,Sodium,Dietary Fiber,Sugars,Protein,Health Score
Salads,Side Salad,20,0,10,1,2,1,74.25
`

// startServer serves p on a random local port and returns a connected client.
func startServer(t *testing.T, p *probe.Probe) healthpb.HealthClient {
	t.Helper()

	srv := grpc.NewServer()
	p.Register(srv)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(lis) //nolint:errcheck
	t.Cleanup(srv.Stop)

	conn, err := grpc.Dial(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	) //nolint:staticcheck
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := c.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.GetStatus()
}

func TestProbe_NotServingUntilLoaded(t *testing.T) {
	p := filepath.Join(t.TempDir(), "Scored_mcd.csv")
	st := store.New(p)
	client := startServer(t, probe.New(st))

	if got := check(t, client, probe.Service); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("before load: got %v, want NOT_SERVING", got)
	}
	if got := check(t, client, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("server status: got %v, want SERVING", got)
	}

	if err := os.WriteFile(p, []byte(scoredCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := st.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := check(t, client, probe.Service); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("after load: got %v, want SERVING", got)
	}
}

func TestProbe_Shutdown(t *testing.T) {
	p := filepath.Join(t.TempDir(), "Scored_mcd.csv")
	if err := os.WriteFile(p, []byte(scoredCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st := store.New(p)
	if err := st.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	pr := probe.New(st)
	client := startServer(t, pr)

	if got := check(t, client, probe.Service); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("before shutdown: got %v, want SERVING", got)
	}
	pr.Shutdown()
	if got := check(t, client, probe.Service); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("after shutdown: got %v, want NOT_SERVING", got)
	}
}

func TestProbe_UnknownService(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "Scored_mcd.csv"))
	pr := probe.New(st)

	_, err := pr.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	if code := status.Code(err); code != codes.NotFound {
		t.Errorf("code: got %v, want NotFound", code)
	}
}
