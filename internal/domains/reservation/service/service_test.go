package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"suave/config"
	kafkaMocks "suave/infras/kafka/mocks"
	"suave/infras/otel/mocks"
	ledgerMocks "suave/internal/domains/ledger/mocks"
	ledgerModel "suave/internal/domains/ledger/model"
	resMocks "suave/internal/domains/reservation/mocks"
	"suave/internal/domains/reservation/model"
	"suave/internal/domains/reservation/model/dto"
	"suave/internal/domains/reservation/service"
	roomMocks "suave/internal/domains/room/mocks"
	roomModel "suave/internal/domains/room/model"
	settingMocks "suave/internal/domains/setting/mocks"
	settingDto "suave/internal/domains/setting/model/dto"
	"suave/internal/engine/booking"
	"suave/internal/engine/charge"
	"suave/internal/engine/ledger"
	"suave/internal/engine/lifecycle"
	"suave/internal/engine/policy"
	"suave/shared/cache"
	cacheMocks "suave/shared/cache/mocks"
	"suave/shared/constant"
	"suave/shared/failure"
)

var (
	checkIn  = time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2025, time.March, 22, 0, 0, 0, 0, time.UTC)
	created  = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

	room = roomModel.Room{ID: "room-1", Name: "Deluxe", Capacity: 2, BasePrice: 100_000, Active: true}
)

func catalog() settingDto.Catalog {
	return settingDto.Catalog{
		TaxFees: []charge.TaxFeeRule{
			{ID: 1, Name: "VAT", Kind: charge.KindPercentage, Value: decimal.NewFromInt(10), AppliesTo: charge.AppliesToAll, Enabled: true},
		},
		Policies: policy.Policies{
			Cancellation: policy.CancellationPolicy{
				FreeCancellationHours: 48,
				CancellationFee:       decimal.NewFromInt(50),
				NoShowFee:             decimal.NewFromInt(100),
			},
			Deposit:  policy.DepositPolicy{Required: true, Kind: charge.KindPercentage, Value: decimal.NewFromInt(30)},
			CheckIn:  policy.CheckInPolicy{StandardCheckIn: "14:00", LatestCheckIn: "22:00"},
			Children: policy.ChildrenPolicy{ChildrenAllowed: true, MaxChildrenAge: 6, ExtraBedFee: 40_000},
			Location: time.UTC,
		},
	}
}

func storedQuote(t *testing.T) dto.StoredQuote {
	t.Helper()

	req := booking.Request{RoomID: room.ID, CheckIn: checkIn, CheckOut: checkOut, Adults: 2}

	quote, err := booking.Quote(booking.Catalog{
		Room:     room.ToEngine(),
		TaxFees:  catalog().TaxFees,
		Policies: catalog().Policies,
	}, req)
	require.NoError(t, err)

	return dto.StoredQuote{QuoteID: "quote-1", Request: req, Quote: quote, Currency: "NGN"}
}

// reservation is a committed row with the stored quote, 220_000 due.
func reservation(t *testing.T, status lifecycle.Status, paid lifecycle.PaymentStatus) model.Reservation {
	t.Helper()

	r := lifecycle.Reservation{
		ID:            "res-1",
		RoomID:        room.ID,
		GuestRef:      "guest-1",
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        2,
		Status:        status,
		PaymentStatus: paid,
		Quote:         storedQuote(t).Quote,
		CreatedAt:     created,
	}

	return model.FromEngine(r, "NGN", "front-desk")
}

func payment(amount int64, reference string) ledgerModel.Entry {
	return ledgerModel.Entry{
		ID:            "entry-" + reference,
		ReservationID: "res-1",
		Kind:          string(ledger.KindPayment),
		Amount:        amount,
		Reference:     reference,
		RecordedAt:    created,
	}
}

type fixture struct {
	repo       *resMocks.MockReservation
	roomRepo   *roomMocks.MockRoom
	ruleRepo   *roomMocks.MockPricingRule
	ledgerRepo *ledgerMocks.MockLedger
	setting    *settingMocks.MockSetting
	kafka      *kafkaMocks.MockClient
	cache      *cacheMocks.MockRedisCache
	cfg        *config.Config
	svc        service.Reservation
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       resMocks.NewMockReservation(ctrl),
		roomRepo:   roomMocks.NewMockRoom(ctrl),
		ruleRepo:   roomMocks.NewMockPricingRule(ctrl),
		ledgerRepo: ledgerMocks.NewMockLedger(ctrl),
		setting:    settingMocks.NewMockSetting(ctrl),
		kafka:      kafkaMocks.NewMockClient(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
		cfg:        &config.Config{},
	}

	f.cfg.Cache.TTL = 3600
	f.cfg.Booking.Currency = "NGN"
	f.cfg.Booking.QuoteTTLSeconds = 900
	f.cfg.Booking.PendingExpiryMinutes = 30
	f.cfg.Kafka.Topics.Reservation = "reservation.events"
	f.cfg.Kafka.Topics.Ledger = "ledger.entries"

	f.svc = service.New(f.repo, f.roomRepo, f.ruleRepo, f.ledgerRepo, f.setting, f.kafka, f.cfg, f.cache, mocks.NewOtel())

	f.setting.EXPECT().Catalog(gomock.Any()).Return(catalog(), nil).AnyTimes()
	f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

// inTx runs the transaction body directly.
func (f fixture) inTx() {
	f.repo.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		}).
		AnyTimes()
}

// locked serves row as the locked reservation together with its ledger.
func (f fixture) locked(row model.Reservation, entries ...ledgerModel.Entry) {
	f.inTx()
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(row, nil)
	f.ledgerRepo.EXPECT().ByReservationTx(gomock.Any(), gomock.Any(), row.ID).Return(entries, nil).AnyTimes()
}

func TestReservationService_Quote(t *testing.T) {
	inactive := room
	inactive.Active = false

	tests := []struct {
		name      string
		req       dto.QuoteRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   error
	}{
		{
			name: "priced and stored",
			req:  dto.QuoteRequest{RoomID: room.ID, CheckIn: "2025-03-20", CheckOut: "2025-03-22", Adults: 2},
			setupMock: func(f fixture) {
				f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
				f.ruleRepo.EXPECT().ActiveForStay(gomock.Any(), room.ID, checkIn, checkOut).Return(nil, nil)
				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), 900).
					DoAndReturn(func(_ context.Context, key string, value any, _ int) error {
						stored := value.(dto.StoredQuote)
						assert.Equal(t, "reservation:quote:"+stored.QuoteID, key)
						assert.Equal(t, "NGN", stored.Currency)

						return nil
					})
			},
		},
		{
			name: "room not found",
			req:  dto.QuoteRequest{RoomID: "room-9", CheckIn: "2025-03-20", CheckOut: "2025-03-22", Adults: 2},
			setupMock: func(f fixture) {
				f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "room closed for booking",
			req:  dto.QuoteRequest{RoomID: room.ID, CheckIn: "2025-03-20", CheckOut: "2025-03-22", Adults: 2},
			setupMock: func(f fixture) {
				f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "check-out before check-in",
			req:  dto.QuoteRequest{RoomID: room.ID, CheckIn: "2025-03-22", CheckOut: "2025-03-20", Adults: 2},
			setupMock: func(f fixture) {
				f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			wantCode: http.StatusBadRequest,
			wantErr:  failure.ErrInvalidDateRange,
		},
		{
			name: "pets against hotel policy",
			req:  dto.QuoteRequest{RoomID: room.ID, CheckIn: "2025-03-20", CheckOut: "2025-03-22", Adults: 1, Pets: true},
			setupMock: func(f fixture) {
				f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  failure.ErrPolicyViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Quote(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.QuoteID)
			assert.Equal(t, int64(200_000), res.Quote.RoomSubtotal)
			assert.Equal(t, int64(220_000), res.Quote.GrandTotal)
			assert.Equal(t, int64(66_000), res.DepositDue)
			assert.Equal(t, "2025-03-20", res.CheckIn)
		})
	}
}

func TestReservationService_Commit(t *testing.T) {
	serveQuote := func(f fixture) {
		f.cache.EXPECT().
			Take(gomock.Any(), "reservation:quote:quote-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*dto.StoredQuote) = storedQuote(t)

				return nil
			})
	}

	tests := []struct {
		name       string
		req        dto.CommitRequest
		setupMock  func(f fixture)
		wantCode   int
		wantStatus lifecycle.Status
		wantPaid   lifecycle.PaymentStatus
	}{
		{
			name: "pending without payment",
			req:  dto.CommitRequest{QuoteID: "quote-1", GuestRef: "guest-1"},
			setupMock: func(f fixture) {
				serveQuote(f)
				f.inTx()
				f.roomRepo.EXPECT().LockTx(gomock.Any(), gomock.Any(), room.ID).Return(room, nil)
				f.repo.EXPECT().OverlapsTx(gomock.Any(), gomock.Any(), room.ID, checkIn, checkOut).Return(false, nil)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, row model.Reservation) error {
						assert.Equal(t, int64(220_000), row.GrandTotal)
						assert.Equal(t, "operator-1", row.CreatedBy)

						return nil
					})
			},
			wantStatus: lifecycle.StatusPending,
			wantPaid:   lifecycle.PaymentPending,
		},
		{
			name: "deposit captured at commit confirms",
			req: dto.CommitRequest{
				QuoteID:  "quote-1",
				GuestRef: "guest-1",
				Payment:  &dto.PaymentRequest{Amount: 66_000, ProcessorFee: 1_000, Reference: "psp-1"},
			},
			setupMock: func(f fixture) {
				serveQuote(f)
				f.inTx()
				f.roomRepo.EXPECT().LockTx(gomock.Any(), gomock.Any(), room.ID).Return(room, nil)
				f.repo.EXPECT().OverlapsTx(gomock.Any(), gomock.Any(), room.ID, checkIn, checkOut).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.ledgerRepo.EXPECT().
					InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, entries []ledgerModel.Entry) error {
						require.Len(t, entries, 1)
						assert.Equal(t, int64(66_000), entries[0].Amount)
						assert.Equal(t, "psp-1", entries[0].Reference)

						return nil
					})
			},
			wantStatus: lifecycle.StatusConfirmed,
			wantPaid:   lifecycle.PaymentPartiallyPaid,
		},
		{
			name: "quote expired",
			req:  dto.CommitRequest{QuoteID: "quote-1", GuestRef: "guest-1"},
			setupMock: func(f fixture) {
				f.cache.EXPECT().
					Take(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to take cache value: %w", cache.Nil))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "nights already booked",
			req:  dto.CommitRequest{QuoteID: "quote-1", GuestRef: "guest-1"},
			setupMock: func(f fixture) {
				serveQuote(f)
				f.inTx()
				f.roomRepo.EXPECT().LockTx(gomock.Any(), gomock.Any(), room.ID).Return(room, nil)
				f.repo.EXPECT().OverlapsTx(gomock.Any(), gomock.Any(), room.ID, checkIn, checkOut).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "payment above total",
			req: dto.CommitRequest{
				QuoteID:  "quote-1",
				GuestRef: "guest-1",
				Payment:  &dto.PaymentRequest{Amount: 300_000},
			},
			setupMock: func(f fixture) {
				serveQuote(f)
				f.inTx()
				f.roomRepo.EXPECT().LockTx(gomock.Any(), gomock.Any(), room.ID).Return(room, nil)
				f.repo.EXPECT().OverlapsTx(gomock.Any(), gomock.Any(), room.ID, checkIn, checkOut).Return(false, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "failed commit puts the quote back",
			req:  dto.CommitRequest{QuoteID: "quote-1", GuestRef: "guest-1"},
			setupMock: func(f fixture) {
				live := storedQuote(t)
				live.ExpiresAt = time.Now().Add(10 * time.Minute)

				f.cache.EXPECT().
					Take(gomock.Any(), "reservation:quote:quote-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*dto.StoredQuote) = live

						return nil
					})
				f.inTx()
				f.roomRepo.EXPECT().LockTx(gomock.Any(), gomock.Any(), room.ID).Return(room, nil)
				f.repo.EXPECT().OverlapsTx(gomock.Any(), gomock.Any(), room.ID, checkIn, checkOut).Return(true, nil)
				f.cache.EXPECT().
					Save(gomock.Any(), "reservation:quote:quote-1", live, gomock.Any()).
					Return(nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "insert fails",
			req:  dto.CommitRequest{QuoteID: "quote-1", GuestRef: "guest-1"},
			setupMock: func(f fixture) {
				serveQuote(f)
				f.inTx()
				f.roomRepo.EXPECT().LockTx(gomock.Any(), gomock.Any(), room.ID).Return(room, nil)
				f.repo.EXPECT().OverlapsTx(gomock.Any(), gomock.Any(), room.ID, checkIn, checkOut).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "operator-1")
			res, err := f.svc.Commit(ctx, tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(tt.wantStatus), res.Reservation.Status)
			assert.Equal(t, string(tt.wantPaid), res.Reservation.PaymentStatus)
		})
	}
}

func TestReservationService_Transitions(t *testing.T) {
	early := dto.TransitionRequest{At: "2025-03-10T10:00:00Z"}

	tests := []struct {
		name       string
		row        model.Reservation
		entries    []ledgerModel.Entry
		run        func(svc service.Reservation) (dto.TransitionResponse, error)
		wantCode   int
		wantErr    error
		wantStatus lifecycle.Status
		wantPaid   lifecycle.PaymentStatus
		wantLedger int
		unchanged  bool
	}{
		{
			name:    "free cancellation refunds everything",
			row:     reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPartiallyPaid),
			entries: []ledgerModel.Entry{payment(66_000, "psp-1")},
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.Cancel(context.Background(), "res-1", early)
			},
			wantStatus: lifecycle.StatusCancelled,
			wantPaid:   lifecycle.PaymentRefunded,
			wantLedger: 1,
		},
		{
			name:    "late cancellation keeps the deposit",
			row:     reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPartiallyPaid),
			entries: []ledgerModel.Entry{payment(66_000, "psp-1")},
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.Cancel(context.Background(), "res-1", dto.TransitionRequest{At: "2025-03-20T08:00:00Z"})
			},
			wantStatus: lifecycle.StatusCancelled,
			wantPaid:   lifecycle.PaymentPartiallyPaid,
		},
		{
			name:    "balance payment",
			row:     reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPartiallyPaid),
			entries: []ledgerModel.Entry{payment(66_000, "psp-1")},
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.Pay(context.Background(), "res-1", dto.PaymentRequest{Amount: 154_000, Reference: "psp-2"})
			},
			wantStatus: lifecycle.StatusConfirmed,
			wantPaid:   lifecycle.PaymentPaid,
			wantLedger: 1,
		},
		{
			name:    "replayed capture is recorded once",
			row:     reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPartiallyPaid),
			entries: []ledgerModel.Entry{payment(66_000, "psp-1")},
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.Pay(context.Background(), "res-1", dto.PaymentRequest{Amount: 66_000, Reference: "psp-1"})
			},
			wantStatus: lifecycle.StatusConfirmed,
			wantPaid:   lifecycle.PaymentPartiallyPaid,
			unchanged:  true,
		},
		{
			name: "early check-in not offered",
			row:  reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPaid),
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.CheckIn(context.Background(), "res-1", dto.TransitionRequest{At: "2025-03-20T09:00:00Z"})
			},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  failure.ErrPolicyViolation,
		},
		{
			name: "check-in before confirmation",
			row:  reservation(t, lifecycle.StatusPending, lifecycle.PaymentPending),
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.CheckIn(context.Background(), "res-1", dto.TransitionRequest{At: "2025-03-20T15:00:00Z"})
			},
			wantCode: http.StatusConflict,
			wantErr:  failure.ErrInvalidTransition,
		},
		{
			name: "check-in",
			row:  reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPaid),
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.CheckIn(context.Background(), "res-1", dto.TransitionRequest{At: "2025-03-20T15:00:00Z"})
			},
			wantStatus: lifecycle.StatusCheckedIn,
			wantPaid:   lifecycle.PaymentPaid,
		},
		{
			name: "confirm below threshold",
			row:  reservation(t, lifecycle.StatusPending, lifecycle.PaymentPending),
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.Confirm(context.Background(), "res-1", early)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "failed capture",
			row:  reservation(t, lifecycle.StatusPending, lifecycle.PaymentPending),
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.FailPayment(context.Background(), "res-1", early)
			},
			wantStatus: lifecycle.StatusPending,
			wantPaid:   lifecycle.PaymentFailed,
		},
		{
			name:    "refund above collected",
			row:     reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPartiallyPaid),
			entries: []ledgerModel.Entry{payment(66_000, "psp-1")},
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.Refund(context.Background(), "res-1", dto.AmountRequest{Amount: 70_000})
			},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  failure.ErrOverRefund,
		},
		{
			name:    "payout within payable",
			row:     reservation(t, lifecycle.StatusCheckedOut, lifecycle.PaymentPaid),
			entries: []ledgerModel.Entry{payment(220_000, "psp-1")},
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.Payout(context.Background(), "res-1", dto.AmountRequest{Amount: 200_000, Reference: "batch-1"})
			},
			wantStatus: lifecycle.StatusCheckedOut,
			wantPaid:   lifecycle.PaymentPaid,
			wantLedger: 1,
		},
		{
			name:    "no-show after the arrival day",
			row:     reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPaid),
			entries: []ledgerModel.Entry{payment(220_000, "psp-1")},
			run: func(svc service.Reservation) (dto.TransitionResponse, error) {
				return svc.MarkNoShow(context.Background(), "res-1", dto.TransitionRequest{At: "2025-03-21T01:00:00Z"})
			},
			wantStatus: lifecycle.StatusNoShow,
			wantPaid:   lifecycle.PaymentPartiallyPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.locked(tt.row, tt.entries...)

			if tt.wantCode == 0 && !tt.unchanged {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			if tt.wantLedger > 0 {
				f.ledgerRepo.EXPECT().
					InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, entries []ledgerModel.Entry) error {
						assert.Len(t, entries, tt.wantLedger)

						return nil
					})
			}

			res, err := tt.run(f.svc)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(tt.wantStatus), res.Reservation.Status)
			assert.Equal(t, string(tt.wantPaid), res.Reservation.PaymentStatus)
		})
	}
}

func TestReservationService_TransitionNotFound(t *testing.T) {
	f := newFixture(t)
	f.inTx()
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

	_, err := f.svc.CheckOut(context.Background(), "res-9", dto.TransitionRequest{})
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestReservationService_Ledger(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Reservation{ID: "res-1"}, nil)
	f.ledgerRepo.EXPECT().ByReservation(gomock.Any(), "res-1").Return([]ledgerModel.Entry{
		{ID: "a", ReservationID: "res-1", Kind: string(ledger.KindPayment), Amount: 220_000, ProcessorFee: 5_000},
		{ID: "b", ReservationID: "res-1", Kind: string(ledger.KindRefund), Amount: -20_000},
		{ID: "c", ReservationID: "res-1", Kind: string(ledger.KindPayout), Amount: -150_000},
	}, nil)

	res, err := f.svc.Ledger(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Len(t, res.Entries, 3)
	assert.Equal(t, ledger.Balance{
		Paid:          220_000,
		Refunded:      20_000,
		NetCollected:  200_000,
		ProcessorFees: 5_000,
		PaidOut:       150_000,
		Payable:       45_000,
	}, res.Balance)
}

func TestReservationService_Sweep(t *testing.T) {
	now := time.Date(2025, time.March, 21, 3, 0, 0, 0, time.UTC)

	f := newFixture(t)
	f.inTx()

	f.repo.EXPECT().
		StalePending(gomock.Any(), now.Add(-30*time.Minute), gomock.Any()).
		Return([]model.Reservation{{ID: "res-1"}, {ID: "res-2"}}, nil)
	f.repo.EXPECT().
		MissedArrivals(gomock.Any(), time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC), gomock.Any()).
		Return([]model.Reservation{{ID: "res-3"}}, nil)

	pending := reservation(t, lifecycle.StatusPending, lifecycle.PaymentPending)

	// res-2 was confirmed between listing and locking.
	raced := reservation(t, lifecycle.StatusCheckedIn, lifecycle.PaymentPaid)
	raced.ID = "res-2"

	missed := reservation(t, lifecycle.StatusConfirmed, lifecycle.PaymentPaid)
	missed.ID = "res-3"

	gomock.InOrder(
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending, nil),
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(raced, nil),
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(missed, nil),
	)

	f.ledgerRepo.EXPECT().ByReservationTx(gomock.Any(), gomock.Any(), "res-1").Return(nil, nil)
	f.ledgerRepo.EXPECT().ByReservationTx(gomock.Any(), gomock.Any(), "res-2").Return(nil, nil)
	f.ledgerRepo.EXPECT().ByReservationTx(gomock.Any(), gomock.Any(), "res-3").Return([]ledgerModel.Entry{payment(220_000, "psp-1")}, nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	res, err := f.svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, dto.SweepResponse{Expired: 1, NoShows: 1, Failed: 1}, res)
}

func TestReservationService_Sweep_HotelDay(t *testing.T) {
	now := time.Date(2025, time.March, 21, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		timezone string
		today    time.Time
	}{
		{name: "utc", timezone: "UTC", today: time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC)},
		{name: "hotel still on the previous day", timezone: "America/New_York", today: time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)},
		{name: "hotel already on the day", timezone: "Asia/Jakarta", today: time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cfg.Booking.PendingExpiryMinutes = 0
			f.cfg.Booking.HotelTimezone = tt.timezone

			f.repo.EXPECT().MissedArrivals(gomock.Any(), tt.today, gomock.Any()).Return(nil, nil)

			res, err := f.svc.Sweep(context.Background(), now)
			require.NoError(t, err)
			assert.Equal(t, dto.SweepResponse{}, res)
		})
	}
}
