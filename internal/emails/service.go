package emails

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/firmarollers/b2b-backend/pkg/config"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/metrics"
	"github.com/firmarollers/b2b-backend/pkg/resend"
)

type mailSender interface {
	Send(ctx context.Context, msg resend.Message) (string, error)
}

// Service sends transactional emails and records every attempt. Callers
// decide whether a send failure matters; this service never hides one.
type Service interface {
	SendWelcome(ctx context.Context, customer *models.Customer) error
	SendOrderConfirmation(ctx context.Context, order *models.Order, customer *models.Customer) error
	SendNewOrderToAdmin(ctx context.Context, order *models.Order, customer *models.Customer) error
	SendOrderShipped(ctx context.Context, order *models.Order, customer *models.Customer) error
	NotifyOrderCreated(ctx context.Context, order *models.Order, customer *models.Customer) error
	ListLogs(ctx context.Context, limit int) ([]models.EmailLog, error)
}

type service struct {
	sender  mailSender
	repo    Repository
	cfg     config.ResendConfig
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

// NewService builds an emails service with the required dependencies.
func NewService(sender mailSender, repo Repository, cfg config.ResendConfig, om *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if repo == nil {
		return nil, fmt.Errorf("email log repository required")
	}
	if om == nil {
		return nil, fmt.Errorf("order metrics required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{sender: sender, repo: repo, cfg: cfg, metrics: om, logg: logg}, nil
}

func (s *service) SendWelcome(ctx context.Context, customer *models.Customer) error {
	if customer == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer required")
	}
	return s.send(ctx, sendAttempt{
		tipo:       enums.EmailTypeWelcome,
		from:       s.cfg.FromNoOp,
		to:         customer.Email,
		subject:    welcomeSubject(customer),
		html:       welcomeBody(customer),
		customerID: &customer.ID,
	})
}

func (s *service) SendOrderConfirmation(ctx context.Context, order *models.Order, customer *models.Customer) error {
	if order == nil || customer == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order and customer required")
	}
	return s.send(ctx, sendAttempt{
		tipo:       enums.EmailTypeOrderConfirmation,
		from:       s.cfg.FromOrders,
		to:         customer.Email,
		subject:    confirmationSubject(order),
		html:       confirmationBody(order, customer),
		customerID: &customer.ID,
		orderID:    &order.ID,
	})
}

func (s *service) SendNewOrderToAdmin(ctx context.Context, order *models.Order, customer *models.Customer) error {
	if order == nil || customer == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order and customer required")
	}
	return s.send(ctx, sendAttempt{
		tipo:       enums.EmailTypeAdminNotification,
		from:       s.cfg.FromOrders,
		to:         s.cfg.AdminEmail,
		subject:    adminSubject(order, customer),
		html:       adminBody(order, customer),
		customerID: &customer.ID,
		orderID:    &order.ID,
	})
}

func (s *service) SendOrderShipped(ctx context.Context, order *models.Order, customer *models.Customer) error {
	if order == nil || customer == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order and customer required")
	}
	return s.send(ctx, sendAttempt{
		tipo:       enums.EmailTypeOrderShipped,
		from:       s.cfg.FromOrders,
		to:         customer.Email,
		subject:    shippedSubject(order, customer),
		html:       shippedBody(order, customer),
		customerID: &customer.ID,
		orderID:    &order.ID,
	})
}

// NotifyOrderCreated fans out the customer confirmation and the back-office
// notice; one failing does not stop the other.
func (s *service) NotifyOrderCreated(ctx context.Context, order *models.Order, customer *models.Customer) error {
	return multierr.Combine(
		s.SendOrderConfirmation(ctx, order, customer),
		s.SendNewOrderToAdmin(ctx, order, customer),
	)
}

func (s *service) ListLogs(ctx context.Context, limit int) ([]models.EmailLog, error) {
	logs, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list email logs")
	}
	return logs, nil
}

type sendAttempt struct {
	tipo       enums.EmailType
	from       string
	to         string
	subject    string
	html       string
	customerID *uuid.UUID
	orderID    *uuid.UUID
}

func (s *service) send(ctx context.Context, attempt sendAttempt) error {
	_, sendErr := s.sender.Send(ctx, resend.Message{
		From:    attempt.from,
		To:      []string{attempt.to},
		Subject: attempt.subject,
		HTML:    attempt.html,
	})

	log := &models.EmailLog{
		CustomerID: attempt.customerID,
		OrderID:    attempt.orderID,
		Tipo:       attempt.tipo,
		Destino:    attempt.to,
		Asunto:     attempt.subject,
		Status:     enums.EmailStatusSent,
	}
	if sendErr != nil {
		msg := sendErr.Error()
		log.Status = enums.EmailStatusFailed
		log.ErrorMsg = &msg
	}
	s.metrics.IncEmail(attempt.tipo.String(), log.Status.String())

	// the log row is best-effort; losing it must not mask the send result
	if err := s.repo.Insert(ctx, log); err != nil {
		s.logg.Error(ctx, "record email log", err)
	}
	return sendErr
}
