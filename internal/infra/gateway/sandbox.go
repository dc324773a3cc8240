package gateway

import (
	"context"
	"fmt"
	"sync"

	"cruise-booking/internal/usecase/commands"
)

// SandboxGateway stands in for the real payment provider in development
// and test environments. CreatePayment hands back a deterministic prepay
// reference; QueryStatus answers pending until a test script settles the
// payment through Resolve.
type SandboxGateway struct {
	mu       sync.RWMutex
	resolved map[string]commands.GatewayStatus
}

func NewSandbox() *SandboxGateway {
	return &SandboxGateway{resolved: make(map[string]commands.GatewayStatus)}
}

var _ commands.PaymentGateway = (*SandboxGateway)(nil)

func (g *SandboxGateway) CreatePayment(_ context.Context, paymentNo, _ string, _ int64, _ string) (string, error) {
	return fmt.Sprintf("sandbox-prepay-%s", paymentNo), nil
}

func (g *SandboxGateway) QueryStatus(_ context.Context, paymentNo string) (*commands.GatewayStatus, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if status, ok := g.resolved[paymentNo]; ok {
		return &status, nil
	}
	return &commands.GatewayStatus{
		PaymentNo: paymentNo,
		Status:    commands.GatewayStatusPending,
	}, nil
}

// Resolve settles a sandbox payment so the poll path can be exercised
// end to end.
func (g *SandboxGateway) Resolve(paymentNo string, status commands.GatewayStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status.PaymentNo = paymentNo
	g.resolved[paymentNo] = status
}
