package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockIndexPinger struct {
	err error
}

func (m *mockIndexPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheckAllHealthy(t *testing.T) {
	svc := New(&mockIndexPinger{}, &mockEmbeddingChecker{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("Status = %s, want %s", report.Status, Healthy)
	}
	if report.Checks["index"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("Checks = %v, want all ok", report.Checks)
	}
}

func TestCheckIndexDownIsUnhealthy(t *testing.T) {
	svc := New(&mockIndexPinger{err: errors.New("connection refused")}, &mockEmbeddingChecker{})

	report := svc.Check(context.Background())
	if report.Status != Unhealthy {
		t.Errorf("Status = %s, want %s", report.Status, Unhealthy)
	}
	if report.Checks["index"] != CheckError {
		t.Errorf("index check = %s, want error", report.Checks["index"])
	}
}

func TestCheckEmbeddingDownOnlyDegrades(t *testing.T) {
	svc := New(&mockIndexPinger{}, &mockEmbeddingChecker{err: errors.New("401")})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("Status = %s, want %s", report.Status, Degraded)
	}
	if report.Checks["index"] != CheckOK {
		t.Errorf("index check = %s, want ok", report.Checks["index"])
	}
}

func TestCheckNilEmbeddingSkipped(t *testing.T) {
	svc := New(&mockIndexPinger{}, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("Status = %s, want %s", report.Status, Healthy)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("embedding check present with nil checker")
	}
}
