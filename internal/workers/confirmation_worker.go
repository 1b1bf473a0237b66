// Package workers runs the background consumers of the API process.
package workers

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/queue"
)

// Consumer feeds queued message bodies to a handler until ctx ends
type Consumer interface {
	Consume(ctx context.Context, handler queue.Handler) error
}

// Deliverer sends one queued confirmation
type Deliverer interface {
	Deliver(ctx context.Context, body []byte) error
}

// ConfirmationWorker drains the confirmation email queue
type ConfirmationWorker struct {
	consumer  Consumer
	deliverer Deliverer
	logger    zerolog.Logger

	done   chan struct{}
	cancel context.CancelFunc
}

// NewConfirmationWorker creates a worker; call Start to begin consuming
func NewConfirmationWorker(consumer Consumer, deliverer Deliverer, logger zerolog.Logger) *ConfirmationWorker {
	return &ConfirmationWorker{
		consumer:  consumer,
		deliverer: deliverer,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// handle acks messages that can never be delivered so they are not redelivered forever
func (w *ConfirmationWorker) handle(ctx context.Context, body []byte) error {
	err := w.deliverer.Deliver(ctx, body)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrNotificationInvalid):
		w.logger.Error().Err(err).Msg("Dropping invalid confirmation message")
		return nil
	default:
		w.logger.Warn().Err(err).Msg("Confirmation delivery failed")
		return err
	}
}

// Start consumes in a background goroutine
func (w *ConfirmationWorker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.logger.Info().Msg("Confirmation worker started")

	go func() {
		defer close(w.done)

		if err := w.consumer.Consume(cctx, w.handle); err != nil {
			w.logger.Error().Err(err).Msg("Confirmation worker stopped with error")
			return
		}
		w.logger.Info().Msg("Confirmation worker stopped")
	}()
}

// Stop cancels consumption and waits for the in-flight message
func (w *ConfirmationWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}
