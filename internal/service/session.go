package service

import (
	"fmt"

	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/transport"
	"go.uber.org/zap"
)

// ==============================================
// SESSION
// ==============================================

// Session binds a service wrapper to one upstream: the transport that reaches
// it and the chain the calls target.
type Session struct {
	Transport transport.Transport
	ChainID   string

	// DefaultKRN is sent as x-krn on wallet calls made without WithKRN.
	DefaultKRN string

	Logger *zap.Logger
}

func (s Session) validate(service string) error {
	if s.Transport == nil {
		return fmt.Errorf("%w: %s session has no transport", models.ErrNotInitialized, service)
	}
	if s.ChainID == "" {
		return fmt.Errorf("%w: %s session has no chain id", models.ErrNotInitialized, service)
	}
	return nil
}

func (s Session) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
