package service

import (
	"fmt"

	"github.com/Brownie44l1/kasgo/internal/config"
	"github.com/Brownie44l1/kasgo/internal/transport"
	"go.uber.org/zap"
)

// Services bundles one wrapper per remote API, each on its own transport.
type Services struct {
	KIP7    *KIP7Service
	KIP17   *KIP17Service
	Wallet  *WalletService
	Node    *NodeService
	History *HistoryService
}

// New builds every wrapper from cfg.
func New(cfg *config.Config, log *zap.Logger) (*Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	session := func(name, baseURL string) (Session, error) {
		t, err := transport.NewHTTPTransport(transport.Config{
			BaseURL: baseURL,
			Credentials: transport.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			},
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RateLimit:  cfg.RateLimit,
			RateBurst:  cfg.RateBurst,
			Logger:     log.Named("transport").With(zap.String("api", name)),
		})
		if err != nil {
			return Session{}, fmt.Errorf("%s transport: %w", name, err)
		}
		return Session{
			Transport:  t,
			ChainID:    cfg.ChainID,
			DefaultKRN: cfg.AccountPoolKRN,
			Logger:     log.Named(name),
		}, nil
	}

	var s Services
	var err error
	var sess Session

	if sess, err = session("kip7", cfg.KIP7URL); err != nil {
		return nil, err
	}
	if s.KIP7, err = NewKIP7(sess); err != nil {
		return nil, err
	}

	if sess, err = session("kip17", cfg.KIP17URL); err != nil {
		return nil, err
	}
	if s.KIP17, err = NewKIP17(sess); err != nil {
		return nil, err
	}

	if sess, err = session("wallet", cfg.WalletURL); err != nil {
		return nil, err
	}
	if s.Wallet, err = NewWallet(sess); err != nil {
		return nil, err
	}

	if sess, err = session("node", cfg.NodeURL); err != nil {
		return nil, err
	}
	if s.Node, err = NewNode(sess); err != nil {
		return nil, err
	}

	if sess, err = session("history", cfg.HistoryURL); err != nil {
		return nil, err
	}
	if s.History, err = NewHistory(sess); err != nil {
		return nil, err
	}

	return &s, nil
}
