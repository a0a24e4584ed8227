package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"jobboard-admin/internal/config"
	"jobboard-admin/internal/infrastructure/apiclient"
	"jobboard-admin/internal/infrastructure/credential"
	"jobboard-admin/internal/pkg/jwt"
	"jobboard-admin/internal/pkg/logging"
	"jobboard-admin/internal/store/jobs"
	"jobboard-admin/internal/store/session"
	"jobboard-admin/internal/tracing"

	"github.com/sirupsen/logrus"
)

// Container holds the long-lived dependencies shared by every front-end.
type Container struct {
	Config      config.Config
	Logger      *logrus.Logger
	Credentials credential.Store
	API         *apiclient.Client
	Session     *session.Store
	Jobs        *jobs.Store

	shutdownTracer func(context.Context) error
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	return NewContainerWithLogger(cfg, logger)
}

func NewContainerWithLogger(cfg config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.App.AppName, os.Stderr, logger)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		c.shutdownTracer = shutdown
	}

	creds, err := openCredentials(cfg, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Credentials = creds

	c.API = apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, creds, logger)
	c.Session = session.New(c.API, creds, jwt.NewInspector(), logger)
	c.Jobs = jobs.New(c.API, logger)
	c.API.OnUnauthorized(c.Session.Expire)

	return c, nil
}

func openCredentials(cfg config.Config, logger *logrus.Logger) (credential.Store, error) {
	slot, err := credential.SlotKey(cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}

	switch cfg.Credential.Backend {
	case config.BackendMemory:
		return credential.NewMemory(""), nil
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r, err := credential.NewRedis(ctx, credential.RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, slot, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.BackendSQLite, "":
		s, err := credential.NewSQLite(cfg.Credential.Path, slot)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.Credential.Backend)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Credentials != nil {
		errs = append(errs, c.Credentials.Close())
	}
	if c.shutdownTracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, c.shutdownTracer(ctx))
	}
	return errors.Join(errs...)
}
