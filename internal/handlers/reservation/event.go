package reservation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"suave/infras/kafka"
	"suave/internal/domains/reservation/model"
	"suave/internal/domains/reservation/model/dto"
	"suave/shared/constant"
	"suave/shared/failure"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// HandlePaymentCaptured applies a capture result from the payment collaborator.
// Business rejections are logged and committed; only server-side failures are
// returned so the message is fetched again after a restart. Money captured for
// a reservation that can no longer take payments is logged at error level for
// reconciliation.
func (handler *Handler) HandlePaymentCaptured(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := handler.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandlePaymentCaptured")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	decoded, err := kafka.DecodeKafkaMessage[model.PaymentCapturedEvent](message)
	if err != nil {
		log.Error().Err(err).Msg("dropping undecodable payment event")

		return nil
	}

	event, _ := decoded.Value.(model.PaymentCapturedEvent)

	if event.ReservationID == constant.Empty {
		log.Warn().Str("key", decoded.Key).Msg("dropping payment event without reservation id")

		return nil
	}

	if event.Failed {
		_, err = handler.service.FailPayment(ctx, event.ReservationID, dto.TransitionRequest{})
	} else {
		_, err = handler.service.Pay(ctx, event.ReservationID, dto.PaymentRequest{
			Amount:       event.Amount,
			ProcessorFee: event.ProcessorFee,
			Reference:    event.Reference,
		})
	}

	if err == nil {
		scope.AddEvent("Payment event applied to reservation " + event.ReservationID)

		return nil
	}

	if !event.Failed && errors.Is(err, failure.ErrInvalidTransition) {
		scope.AddEvent("Captured payment left unapplied on reservation " + event.ReservationID)

		log.Error().Err(err).
			Str("reservation_id", event.ReservationID).
			Str("reference", event.Reference).
			Int64("amount", event.Amount).
			Int64("processor_fee", event.ProcessorFee).
			Msg("captured payment not applied, reconcile with the payment processor")

		return nil
	}

	if failure.GetCode(err) < http.StatusInternalServerError {
		log.Warn().Err(err).
			Str("reservation_id", event.ReservationID).
			Str("reference", event.Reference).
			Msg("payment event rejected")

		return nil
	}

	log.Error().Err(err).Str("reservation_id", event.ReservationID).Msg("failed to apply payment event")

	return fmt.Errorf("failed to apply payment event: %w", err)
}
