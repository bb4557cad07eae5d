package health

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
)

func TestNewChecker(t *testing.T) {
	checker := NewChecker("parser", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "ok"}
	})

	if checker.Name() != "parser" {
		t.Errorf("Name() = %v, want parser", checker.Name())
	}
	if result := checker.Check(context.Background()); result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
}

func TestCheckFunc_Name(t *testing.T) {
	fn := CheckFunc(func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})
	if fn.Name() != "unknown" {
		t.Errorf("Name() = %v, want unknown", fn.Name())
	}
}

func TestRegistry_Check(t *testing.T) {
	registry := NewRegistry("trump", "0.1.0")
	registry.RegisterFunc("storage", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy}
	})
	registry.Register(AlwaysHealthy("always"))

	report := registry.Check(context.Background())

	if report.Service != "trump" || report.Version != "0.1.0" {
		t.Errorf("report identity = %s/%s, want trump/0.1.0", report.Service, report.Version)
	}
	if !report.Healthy() {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Fatalf("Checks count = %v, want 2", len(report.Checks))
	}
	if report.Checks[0].Name != "always" || report.Checks[1].Name != "storage" {
		t.Errorf("checks not sorted by name: %s, %s", report.Checks[0].Name, report.Checks[1].Name)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("trump", "0.1.0")
	registry.Register(AlwaysHealthy("temp"))
	registry.Unregister("temp")

	if report := registry.Check(context.Background()); len(report.Checks) != 0 {
		t.Errorf("Checks count = %v, want 0", len(report.Checks))
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy}, StatusUnhealthy},
		{"no checks", nil, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("trump", "0.1.0")
			for i, status := range tt.statuses {
				status := status
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}
			if got := registry.CheckWithTimeout(time.Second).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("trump", "0.1.0")
	var counter int32

	for i := 0; i < 5; i++ {
		registry.RegisterFunc("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			atomic.AddInt32(&counter, 1)
			time.Sleep(10 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		})
	}

	start := time.Now()
	report := registry.Check(context.Background())
	elapsed := time.Since(start)

	if atomic.LoadInt32(&counter) != 5 || len(report.Checks) != 5 {
		t.Errorf("ran %d checks, reported %d, want 5", counter, len(report.Checks))
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("Check() took %v, expected concurrent execution", elapsed)
	}
}

func TestParserCheck(t *testing.T) {
	engine := lang.NewEngine(lang.Options{Logger: mdwlog.Discard()})
	checker := ParserCheck("parser", engine)

	result := checker.Check(context.Background())

	if result.Status != StatusHealthy {
		t.Errorf("Status = %v (%s), want healthy", result.Status, result.Message)
	}
	if result.Details["source"] != CanarySource {
		t.Errorf("Details[source] = %v, want %v", result.Details["source"], CanarySource)
	}
}

func TestParserCheck_RejectedSource(t *testing.T) {
	engine := lang.NewEngine(lang.Options{Logger: mdwlog.Discard(), MaxSourceLength: 3})
	result := ParserCheck("parser", engine).Check(context.Background())

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
}

func TestPingCheck(t *testing.T) {
	ok := PingCheck("history", func(ctx context.Context) error { return nil })
	if got := ok.Check(context.Background()).Status; got != StatusHealthy {
		t.Errorf("Status = %v, want healthy", got)
	}

	failing := PingCheck("history", func(ctx context.Context) error { return errors.New("database is closed") })
	result := failing.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", result.Status)
	}
	if result.Message != "database is closed" {
		t.Errorf("Message = %q, want %q", result.Message, "database is closed")
	}
}

func TestTCPCheck(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := listener.Addr().String()

	result := TCPCheck("tcp", addr, time.Second).Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v (%s), want healthy", result.Status, result.Message)
	}

	listener.Close()
	result = TCPCheck("tcp", addr, time.Second).Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status after close = %v, want unhealthy", result.Status)
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{Service: "trump", Status: StatusHealthy, Checks: []CheckResult{{}, {}}}
	want := "Service: trump, Status: healthy, Uptime: 0s, Checks: 2"
	if got := report.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
