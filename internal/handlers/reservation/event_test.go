package reservation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"suave/infras/otel/mocks"
	resMocks "suave/internal/domains/reservation/mocks"
	"suave/internal/domains/reservation/model/dto"
	"suave/internal/handlers/reservation"
	"suave/shared/failure"
)

func TestHandler_HandlePaymentCaptured(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		setupMock func(svc *resMocks.MockReservationService)
		wantErr   bool
	}{
		{
			name:  "capture is recorded as a payment",
			value: `{"reservation_id":"res-1","amount":20000,"processor_fee":300,"reference":"psp-9"}`,
			setupMock: func(svc *resMocks.MockReservationService) {
				svc.EXPECT().
					Pay(gomock.Any(), "res-1", dto.PaymentRequest{Amount: 20000, ProcessorFee: 300, Reference: "psp-9"}).
					Return(dto.TransitionResponse{}, nil)
			},
		},
		{
			name:  "declined capture fails the payment",
			value: `{"reservation_id":"res-1","failed":true}`,
			setupMock: func(svc *resMocks.MockReservationService) {
				svc.EXPECT().FailPayment(gomock.Any(), "res-1", dto.TransitionRequest{}).Return(dto.TransitionResponse{}, nil)
			},
		},
		{
			name:      "undecodable payload is dropped",
			value:     `{"reservation_id":`,
			setupMock: func(*resMocks.MockReservationService) {},
		},
		{
			name:      "missing reservation id is dropped",
			value:     `{"amount":100}`,
			setupMock: func(*resMocks.MockReservationService) {},
		},
		{
			name:  "business rejection is committed",
			value: `{"reservation_id":"res-1","amount":999999,"reference":"psp-10"}`,
			setupMock: func(svc *resMocks.MockReservationService) {
				svc.EXPECT().Pay(gomock.Any(), "res-1", gomock.Any()).Return(dto.TransitionResponse{}, failure.BadRequestFromString("payment exceeds amount due"))
			},
		},
		{
			name:  "unknown reservation is committed",
			value: `{"reservation_id":"res-x","amount":100}`,
			setupMock: func(svc *resMocks.MockReservationService) {
				svc.EXPECT().Pay(gomock.Any(), "res-x", gomock.Any()).Return(dto.TransitionResponse{}, failure.NotFound("reservation"))
			},
		},
		{
			name:  "server failure is retried",
			value: `{"reservation_id":"res-1","amount":100}`,
			setupMock: func(svc *resMocks.MockReservationService) {
				svc.EXPECT().Pay(gomock.Any(), "res-1", gomock.Any()).Return(dto.TransitionResponse{}, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := resMocks.NewMockReservationService(ctrl)
			tt.setupMock(svc)

			handler := reservation.New(svc, mocks.NewOtel())

			err := handler.HandlePaymentCaptured(context.Background(), kafkaGo.Message{
				Key:   []byte("res-1"),
				Value: []byte(tt.value),
			})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestHandler_HandlePaymentCaptured_UnappliedCapture(t *testing.T) {
	originalLogger := log.Logger
	defer func() { log.Logger = originalLogger }()

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	ctrl := gomock.NewController(t)
	svc := resMocks.NewMockReservationService(ctrl)
	svc.EXPECT().
		Pay(gomock.Any(), "res-1", gomock.Any()).
		Return(dto.TransitionResponse{}, failure.InvalidTransition("cannot take a payment on a cancelled reservation"))

	handler := reservation.New(svc, mocks.NewOtel())

	err := handler.HandlePaymentCaptured(context.Background(), kafkaGo.Message{
		Key:   []byte("res-1"),
		Value: []byte(`{"reservation_id":"res-1","amount":66000,"processor_fee":1200,"reference":"psp-11"}`),
	})
	require.NoError(t, err, "message is committed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "res-1", entry["reservation_id"])
	assert.Equal(t, "psp-11", entry["reference"])
	assert.InDelta(t, 66000, entry["amount"], 0)
	assert.InDelta(t, 1200, entry["processor_fee"], 0)
}
