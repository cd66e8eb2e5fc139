package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names shared by the API (producer) and the worker (consumer).
const (
	TypeEmailVerification      = "email:verification"
	TypeEmailOrderConfirmation = "email:order_confirmation"
	TypeEmailOrderStatus       = "email:order_status"

	TypeScheduledPublishSweep = "lifecycle:publish_sweep"
	TypeDiscountExpirySweep   = "discount:expiry_sweep"
	TypeOrderAutoConfirm      = "order:auto_confirm"
)

// Queue priorities, mirrored by the worker's queue weights.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

type EmailVerificationPayload struct {
	Email      string `json:"email"`
	VerifyLink string `json:"verify_link"`
	ExpiresIn  string `json:"expires_in"`
}

type OrderConfirmationPayload struct {
	Email       string `json:"email"`
	OrderNumber string `json:"order_number"`
	FinalPrice  string `json:"final_price"`
}

type OrderStatusPayload struct {
	Email       string `json:"email"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Note        string `json:"note"`
}

func NewEmailVerificationTask(p EmailVerificationPayload) (*asynq.Task, error) {
	return newJSONTask(TypeEmailVerification, p)
}

func NewOrderConfirmationTask(p OrderConfirmationPayload) (*asynq.Task, error) {
	return newJSONTask(TypeEmailOrderConfirmation, p)
}

func NewOrderStatusTask(p OrderStatusPayload) (*asynq.Task, error) {
	return newJSONTask(TypeEmailOrderStatus, p)
}

func newJSONTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}
