package provisioning

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "spprovision/domain/provisioning"
	"spprovision/logging"
)

// ObjectHandler provisions one kind of site object from a template.
type ObjectHandler interface {
	Name() string
	ProvisionObjects(ctx context.Context, schema *domain.Schema, obs Observer) error
}

// Provisioner runs object handlers in registration order and stops at the first failure.
type Provisioner struct {
	handlers []ObjectHandler
	logger   *logging.Logger
}

// NewProvisioner creates a provisioner over handlers.
func NewProvisioner(handlers ...ObjectHandler) *Provisioner {
	return &Provisioner{
		handlers: handlers,
		logger:   logging.Default().WithComponent("provisioner"),
	}
}

// Provision applies schema to the site.
func (p *Provisioner) Provision(ctx context.Context, schema *domain.Schema, obs Observer) error {
	log := p.logger.WithContext(ctx)
	metrics := NewRunMetrics(obs)

	err := p.runHandlers(ctx, schema, metrics)
	metrics.Finish()
	metrics.Log(log, err != nil)
	return err
}

func (p *Provisioner) runHandlers(ctx context.Context, schema *domain.Schema, obs Observer) error {
	log := p.logger.WithContext(ctx)
	for _, h := range p.handlers {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		log.Info("Handler started", "handler", h.Name())

		if err := h.ProvisionObjects(ctx, schema, obs); err != nil {
			log.Error("Handler failed", "handler", h.Name(), "error", err)
			return fmt.Errorf("%s handler: %w", strings.ToLower(h.Name()), err)
		}
		log.Performance("provision_"+strings.ToLower(h.Name()), time.Since(start))
	}
	return nil
}
