package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/kafka"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	aws_pkg "github.com/haxllo/ar-alphaya-jewellery-sub002/pkg/aws"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/repository"
)

// terminalStatuses are payment states that later notifications may not move
// a payment out of; duplicates arriving after these are skipped.
var terminalStatuses = map[string]bool{
	"received":    true,
	"canceled":    true,
	"chargedback": true,
}

// PaymentService validates inbound PayHere notifications and records the
// ones that pass.
type PaymentService interface {
	HandleNotification(ctx context.Context, n *models.PaymentNotification) *apperrors.Error
}

type paymentServiceImpl struct {
	repo           repository.PaymentRepository
	producer       kafka.PaymentEventProducer
	snsClient      aws_pkg.SNSPublisher
	snsTopicArn    string
	merchantSecret string
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	repo repository.PaymentRepository,
	producer kafka.PaymentEventProducer,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	merchantSecret string,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		repo:           repo,
		producer:       producer,
		snsClient:      snsClient,
		snsTopicArn:    snsTopicArn,
		merchantSecret: merchantSecret,
		logger:         logger,
	}
}

// HandleNotification verifies the notification signature before anything
// else; no side effect is committed for an unverified payload. Verified
// notifications are persisted (idempotently per order) and fanned out as
// payment events.
func (s *paymentServiceImpl) HandleNotification(ctx context.Context, n *models.PaymentNotification) *apperrors.Error {
	if appErr := VerifyNotification(n, s.merchantSecret); appErr != nil {
		if appErr == apperrors.ErrConfiguration {
			s.logger.Error("PayHere merchant secret is not configured")
		} else {
			// Log only what the caller already knows. Signatures stay out.
			s.logger.Warn("Rejected payment notification",
				zap.String("order_id", n.OrderID),
				zap.String("payment_id", n.PaymentID),
			)
		}
		return appErr
	}

	status := models.StatusFromCode(n.StatusCode)
	s.logger.Info("Verified payment notification",
		zap.String("order_id", n.OrderID),
		zap.String("payment_id", n.PaymentID),
		zap.Int("status_code", n.StatusCode),
		zap.String("status", status),
	)

	existing, err := s.repo.GetPaymentByOrderID(ctx, n.OrderID)
	if err != nil {
		s.logger.Error("Failed to look up payment", zap.String("order_id", n.OrderID), zap.Error(err))
		return apperrors.ErrInternalServer.Wrap(err)
	}

	now := time.Now()

	switch {
	case existing == nil:
		payment := &models.Payment{
			ID:               uuid.New(),
			OrderID:          n.OrderID,
			PayHerePaymentID: n.PaymentID,
			Amount:           n.Amount,
			AmountFormatted:  n.AmountFormatted,
			StatusCode:       n.StatusCode,
			Status:           status,
			ReceivedAt:       now,
		}
		if err := s.repo.CreatePayment(ctx, payment); err != nil {
			s.logger.Error("Failed to persist payment", zap.String("order_id", n.OrderID), zap.Error(err))
			return apperrors.ErrInternalServer.Wrap(err)
		}

	case terminalStatuses[existing.Status]:
		s.logger.Info("Skipping duplicate payment notification",
			zap.String("order_id", n.OrderID),
			zap.String("status", existing.Status),
		)
		return nil

	default:
		if err := s.repo.UpdatePaymentStatus(ctx, n.OrderID, n.StatusCode, status); err != nil {
			s.logger.Error("Failed to update payment status", zap.String("order_id", n.OrderID), zap.Error(err))
			return apperrors.ErrInternalServer.Wrap(err)
		}
	}

	s.publishEvent(ctx, models.PaymentEvent{
		Type:      "payment_" + status,
		OrderID:   n.OrderID,
		PaymentID: n.PaymentID,
		Amount:    n.Amount,
		Status:    status,
		Timestamp: now.UTC(),
	})

	return nil
}

// publishEvent fans the event out to Kafka and, when configured, SNS.
// Publish failures are logged, not surfaced: the notification is already
// recorded and PayHere must still receive a success response.
func (s *paymentServiceImpl) publishEvent(ctx context.Context, event models.PaymentEvent) {
	if s.producer != nil {
		if err := s.producer.SendPaymentEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish payment event to Kafka",
				zap.String("order_id", event.OrderID),
				zap.Error(err),
			)
		}
	}

	if s.snsClient != nil && s.snsTopicArn != "" {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("Failed to marshal payment event", zap.Error(err))
			return
		}
		if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
			s.logger.Error("Failed to publish payment event to SNS",
				zap.String("order_id", event.OrderID),
				zap.Error(err),
			)
		}
	}
}
