package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"pttech-backend/internal/infrastructure/email"
	"pttech-backend/internal/infrastructure/queue"
	"pttech-backend/pkg/logger"
)

func (d *taskDeps) handleEmailVerification(ctx context.Context, t *asynq.Task) error {
	var p queue.EmailVerificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal %s: %w", t.Type(), err)
	}
	return d.mailer.SendVerificationEmail(ctx, email.VerificationData{
		Email:      p.Email,
		VerifyLink: p.VerifyLink,
		ExpiresIn:  p.ExpiresIn,
	})
}

func (d *taskDeps) handleOrderConfirmation(ctx context.Context, t *asynq.Task) error {
	var p queue.OrderConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal %s: %w", t.Type(), err)
	}
	return d.mailer.SendOrderConfirmation(ctx, email.OrderConfirmationData{
		Email:       p.Email,
		OrderNumber: p.OrderNumber,
		FinalPrice:  p.FinalPrice,
	})
}

func (d *taskDeps) handleOrderStatus(ctx context.Context, t *asynq.Task) error {
	var p queue.OrderStatusPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal %s: %w", t.Type(), err)
	}
	return d.mailer.SendOrderStatusUpdate(ctx, email.OrderStatusData{
		Email:       p.Email,
		OrderNumber: p.OrderNumber,
		Status:      p.Status,
		Note:        p.Note,
	})
}

func (d *taskDeps) handlePublishSweep(ctx context.Context, t *asynq.Task) error {
	published, err := d.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("publish sweep: %w", err)
	}
	if published > 0 {
		logger.Info("publish sweep", map[string]interface{}{"published": published})
	}
	return nil
}

func (d *taskDeps) handleDiscountExpiry(ctx context.Context, t *asynq.Task) error {
	expired, err := d.discounts.DeactivateExpired(ctx)
	if err != nil {
		return fmt.Errorf("discount expiry sweep: %w", err)
	}
	if expired > 0 {
		logger.Info("discount expiry sweep", map[string]interface{}{"deactivated": expired})
	}
	return nil
}

func (d *taskDeps) handleOrderAutoConfirm(ctx context.Context, t *asynq.Task) error {
	confirmed, err := d.orders.AutoConfirmStale(ctx, d.jobs.OrderConfirmAfter)
	if err != nil {
		return fmt.Errorf("order auto confirm: %w", err)
	}
	if confirmed > 0 {
		logger.Info("order auto confirm", map[string]interface{}{"confirmed": confirmed})
	}
	return nil
}
