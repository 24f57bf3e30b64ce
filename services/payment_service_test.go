package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/repository"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/services"
)

// --- Mock payment repository ---

type mockPaymentRepo struct {
	payments map[string]*models.Payment
	creates  int
	updates  int
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*models.Payment)}
}

func (m *mockPaymentRepo) CreatePayment(_ context.Context, payment *models.Payment) error {
	m.creates++
	m.payments[payment.OrderID] = payment
	return nil
}

func (m *mockPaymentRepo) GetPaymentByOrderID(_ context.Context, orderID string) (*models.Payment, error) {
	p, ok := m.payments[orderID]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *mockPaymentRepo) UpdatePaymentStatus(_ context.Context, orderID string, statusCode int, status string) error {
	m.updates++
	if p, ok := m.payments[orderID]; ok {
		p.StatusCode = statusCode
		p.Status = status
	}
	return nil
}

var _ repository.PaymentRepository = (*mockPaymentRepo)(nil)

// --- Mock payment event producer ---

type mockPaymentProducer struct {
	events []models.PaymentEvent
}

func (m *mockPaymentProducer) SendPaymentEvent(_ context.Context, event models.PaymentEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockPaymentProducer) Close() {}

// --- Helpers ---

const testSecret = "s3cr3t"

func newTestPaymentService(repo repository.PaymentRepository, producer *mockPaymentProducer) services.PaymentService {
	logger, _ := zap.NewDevelopment()
	return services.NewPaymentService(repo, producer, nil, "", testSecret, logger)
}

func notification(orderID string, statusCode int) *models.PaymentNotification {
	return &models.PaymentNotification{
		MerchantID: "1211149",
		OrderID:    orderID,
		PaymentID:  "320025" + orderID,
		Amount:     "100.00",
		StatusCode: statusCode,
		Signature:  services.ExpectedSignature("1211149", orderID, "100.00", testSecret),
	}
}

// --- Tests ---

func TestHandleNotification_VerifiedAndRecorded(t *testing.T) {
	repo := newMockPaymentRepo()
	producer := &mockPaymentProducer{}
	svc := newTestPaymentService(repo, producer)

	appErr := svc.HandleNotification(context.Background(), notification("ORD1", models.PayHereStatusReceived))
	assert.Nil(t, appErr)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, "received", repo.payments["ORD1"].Status)

	assert.Len(t, producer.events, 1)
	assert.Equal(t, "payment_received", producer.events[0].Type)
}

func TestHandleNotification_InvalidSignatureHasNoSideEffects(t *testing.T) {
	repo := newMockPaymentRepo()
	producer := &mockPaymentProducer{}
	svc := newTestPaymentService(repo, producer)

	n := notification("ORD1", models.PayHereStatusReceived)
	n.Signature = "AAAA"

	appErr := svc.HandleNotification(context.Background(), n)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, 0, repo.creates)
	assert.Empty(t, producer.events)
}

func TestHandleNotification_MissingSecret(t *testing.T) {
	repo := newMockPaymentRepo()
	logger, _ := zap.NewDevelopment()
	svc := services.NewPaymentService(repo, nil, nil, "", "", logger)

	appErr := svc.HandleNotification(context.Background(), notification("ORD1", models.PayHereStatusReceived))
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, 0, repo.creates)
}

func TestHandleNotification_PendingThenReceived(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := newTestPaymentService(repo, &mockPaymentProducer{})
	ctx := context.Background()

	assert.Nil(t, svc.HandleNotification(ctx, notification("ORD1", models.PayHereStatusPending)))
	assert.Nil(t, svc.HandleNotification(ctx, notification("ORD1", models.PayHereStatusReceived)))

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, "received", repo.payments["ORD1"].Status)
}

func TestHandleNotification_DuplicateTerminalSkipped(t *testing.T) {
	repo := newMockPaymentRepo()
	producer := &mockPaymentProducer{}
	svc := newTestPaymentService(repo, producer)
	ctx := context.Background()

	assert.Nil(t, svc.HandleNotification(ctx, notification("ORD1", models.PayHereStatusReceived)))
	assert.Nil(t, svc.HandleNotification(ctx, notification("ORD1", models.PayHereStatusReceived)))

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 0, repo.updates)
	// The duplicate does not publish a second event.
	assert.Len(t, producer.events, 1)
}
