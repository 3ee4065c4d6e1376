// Package payment drives an M-Pesa STK-push payment to a terminal outcome
// within a bounded time budget: one initiation call, then strictly
// sequential status polls until SUCCESS, FAILED, or the timeout elapses.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kelly-developers/agriecommerce/internal/domain"
	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
)

// ErrConfirmationInProgress is returned when Confirm is called while a
// previous confirmation on the same Confirmer is still active.
var ErrConfirmationInProgress = errors.New("payment confirmation already in progress")

// transactionDesc is the fixed human-readable description sent with every
// STK push.
const transactionDesc = "Payment for AgriEcommerce order"

var (
	confirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_confirmations_total",
			Help: "Payment confirmations by terminal outcome",
		},
		[]string{"outcome"},
	)

	confirmationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_confirmation_duration_seconds",
			Help:    "Wall time from initiation to terminal outcome",
			Buckets: []float64{1, 3, 6, 12, 30, 60, 120, 180},
		},
	)

	statusChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_status_checks_total",
			Help: "Total payment status polls issued",
		},
	)
)

// Config holds the polling parameters for a Confirmer.
type Config struct {
	// PollInterval is the spacing between status checks.
	PollInterval time.Duration

	// Timeout bounds the whole confirmation, measured from the moment
	// polling begins.
	Timeout time.Duration
}

// DefaultConfig returns the production polling parameters: a status check
// every 3 seconds with a 2 minute budget.
func DefaultConfig() Config {
	return Config{
		PollInterval: 3 * time.Second,
		Timeout:      120 * time.Second,
	}
}

// Confirmer runs payment confirmations against a Gateway. Only one
// confirmation may be active per Confirmer at a time; a second Confirm
// call is rejected with ErrConfirmationInProgress.
type Confirmer struct {
	gateway Gateway
	logger  *slog.Logger
	cfg     Config
	active  atomic.Bool
}

// NewConfirmer creates a confirmer with the given polling parameters.
func NewConfirmer(gateway Gateway, logger *slog.Logger, cfg Config) *Confirmer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Confirmer{
		gateway: gateway,
		logger:  logger,
		cfg:     cfg,
	}
}

// Confirm initiates an STK push for amount (cents) to phoneNumber and
// polls until a terminal outcome. It blocks; cancel via ctx. The returned
// session always reflects the last observed state, including on error.
//
// Outcomes map to errors as follows: explicit rejection returns
// apperrors.ErrPaymentFailed, an elapsed time budget returns
// apperrors.ErrPaymentTimeout (the charge may still land server-side),
// and cancellation returns ctx.Err() with the session left non-terminal.
// Transient poll errors never terminate the confirmation.
func (c *Confirmer) Confirm(ctx context.Context, amount int64, phoneNumber string) (*domain.PaymentSession, error) {
	if phoneNumber == "" {
		return nil, apperrors.InvalidInput("phone number is required")
	}
	if amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be greater than zero")
	}

	if !c.active.CompareAndSwap(false, true) {
		return nil, ErrConfirmationInProgress
	}
	defer c.active.Store(false)

	now := time.Now().UTC()
	session := &domain.PaymentSession{
		Amount:           amount,
		PhoneNumber:      phoneNumber,
		AccountReference: fmt.Sprintf("ORDER-%d", now.UnixMilli()),
		Status:           domain.PaymentStatusInitiated,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	start := time.Now()

	res, err := c.gateway.InitiateSTKPush(ctx, InitiateInput{
		Amount:           amount,
		PhoneNumber:      phoneNumber,
		AccountReference: session.AccountReference,
		Description:      transactionDesc,
	})
	if err != nil {
		session.Status = domain.PaymentStatusFailed
		session.FailureReason = initiateFailureReason(err)
		session.UpdatedAt = time.Now().UTC()
		confirmationsTotal.WithLabelValues("failed").Inc()

		c.logger.ErrorContext(ctx, "payment initiation failed",
			slog.String("account_reference", session.AccountReference),
			slog.String("error", err.Error()),
		)
		return session, apperrors.PaymentFailed(session.FailureReason)
	}

	session.CheckoutRequestID = res.CheckoutRequestID
	session.Status = domain.PaymentStatusPending
	session.UpdatedAt = time.Now().UTC()

	c.logger.InfoContext(ctx, "payment initiated",
		slog.String("checkout_request_id", session.CheckoutRequestID),
		slog.Int64("amount", amount),
	)

	err = c.poll(ctx, session)
	if session.Terminal() {
		confirmationDuration.Observe(time.Since(start).Seconds())
	}
	return session, err
}

// poll issues strictly sequential status checks: the next check is not
// scheduled until the previous response has been observed. The timeout
// countdown starts here, when polling begins.
func (c *Confirmer) poll(ctx context.Context, session *domain.PaymentSession) error {
	deadline := time.NewTimer(c.cfg.Timeout)
	defer deadline.Stop()

	next := time.NewTimer(c.cfg.PollInterval)
	defer next.Stop()

	for {
		select {
		case <-ctx.Done():
			// Abandoned, not an outcome: the session stays non-terminal
			// and both timers are stopped by the deferred calls.
			c.logger.InfoContext(ctx, "payment confirmation cancelled",
				slog.String("checkout_request_id", session.CheckoutRequestID),
			)
			return ctx.Err()

		case <-deadline.C:
			session.Status = domain.PaymentStatusTimeout
			session.UpdatedAt = time.Now().UTC()
			confirmationsTotal.WithLabelValues("timeout").Inc()

			c.logger.WarnContext(ctx, "payment confirmation timed out",
				slog.String("checkout_request_id", session.CheckoutRequestID),
				slog.Duration("timeout", c.cfg.Timeout),
			)
			return apperrors.PaymentTimeout()

		case <-next.C:
			statusChecksTotal.Inc()
			res, err := c.gateway.CheckStatus(ctx, session.CheckoutRequestID)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// Transient poll errors are swallowed; only explicit
				// SUCCESS or FAILED responses are terminal.
				c.logger.DebugContext(ctx, "payment status check failed, will retry",
					slog.String("checkout_request_id", session.CheckoutRequestID),
					slog.String("error", err.Error()),
				)
				next.Reset(c.cfg.PollInterval)
				continue
			}

			session.UpdatedAt = time.Now().UTC()

			switch res.Status {
			case domain.PaymentStatusSuccess:
				session.Status = domain.PaymentStatusSuccess
				session.TransactionID = res.TransactionID
				confirmationsTotal.WithLabelValues("success").Inc()

				c.logger.InfoContext(ctx, "payment confirmed",
					slog.String("checkout_request_id", session.CheckoutRequestID),
					slog.String("transaction_id", session.TransactionID),
				)
				return nil

			case domain.PaymentStatusFailed:
				session.Status = domain.PaymentStatusFailed
				session.FailureReason = res.Reason
				if session.FailureReason == "" {
					session.FailureReason = "payment was declined"
				}
				confirmationsTotal.WithLabelValues("failed").Inc()

				c.logger.WarnContext(ctx, "payment rejected",
					slog.String("checkout_request_id", session.CheckoutRequestID),
					slog.String("reason", session.FailureReason),
				)
				return apperrors.PaymentFailed(session.FailureReason)

			default:
				// Still pending; schedule the next check.
				next.Reset(c.cfg.PollInterval)
			}
		}
	}
}

// initiateFailureReason surfaces the backend's message when present, else
// a generic one.
func initiateFailureReason(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "failed to initiate payment"
}
