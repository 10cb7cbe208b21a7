package lifecycle_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suave/internal/engine/charge"
	"suave/internal/engine/ledger"
	"suave/internal/engine/lifecycle"
	"suave/internal/engine/policy"
	"suave/shared/failure"
)

var (
	checkIn  = time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2025, time.March, 22, 0, 0, 0, 0, time.UTC)
	arrival  = time.Date(2025, time.March, 20, 14, 0, 0, 0, time.UTC)
	booked   = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
)

func policies(depositRequired bool) policy.Policies {
	return policy.Policies{
		Cancellation: policy.CancellationPolicy{
			FreeCancellationHours: 48,
			CancellationFee:       decimal.NewFromInt(50),
			NoShowFee:             decimal.NewFromInt(100),
		},
		Deposit: policy.DepositPolicy{Required: depositRequired, Kind: charge.KindPercentage, Value: decimal.NewFromInt(20)},
		CheckIn: policy.CheckInPolicy{
			StandardCheckIn: "14:00",
			LatestCheckIn:   "23:00",
			EarlyCheckIn:    true,
			EarlyCheckInFee: 60_000,
		},
		Children: policy.ChildrenPolicy{ChildrenAllowed: true},
	}
}

func machine(depositRequired bool) *lifecycle.Machine {
	return machineFor(policies(depositRequired))
}

func machineFor(p policy.Policies) *lifecycle.Machine {
	n := 0

	return lifecycle.New(p).WithIDs(func() string {
		n++

		return fmt.Sprintf("entry-%d", n)
	})
}

func quote() charge.Quote {
	return charge.Quote{
		Nights:       2,
		NightlyRates: []int64{250_000, 250_000},
		RoomSubtotal: 500_000,
		GrandTotal:   500_000,
		Lines:        []charge.LineItem{{Kind: charge.LineRoom, Code: "room", Name: "Room", Quantity: 2, Base: 500_000, Amount: 500_000}},
	}
}

func create(t *testing.T, m *lifecycle.Machine, capture *lifecycle.Capture) lifecycle.Transition {
	t.Helper()

	tr, err := m.Create(lifecycle.CreateInput{
		ID:        "res-1",
		RoomID:    "room-1",
		GuestRef:  "guest-1",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Quote:     quote(),
		CreatedAt: booked,
		Capture:   capture,
	})
	require.NoError(t, err)

	return tr
}

func TestCreate(t *testing.T) {
	t.Run("without payment", func(t *testing.T) {
		tr := create(t, machine(false), nil)

		assert.Equal(t, lifecycle.StatusPending, tr.Reservation.Status)
		assert.Equal(t, lifecycle.PaymentPending, tr.Reservation.PaymentStatus)
		assert.Equal(t, 2, tr.Reservation.Nights)
		assert.Empty(t, tr.Entries)
	})

	t.Run("captured in full", func(t *testing.T) {
		tr := create(t, machine(false), &lifecycle.Capture{Amount: 500_000, ProcessorFee: 7_500, Reference: "psp-1"})

		assert.Equal(t, lifecycle.StatusConfirmed, tr.Reservation.Status)
		assert.Equal(t, lifecycle.PaymentPaid, tr.Reservation.PaymentStatus)
		assert.Equal(t, &booked, tr.Reservation.ConfirmedAt)
		require.Len(t, tr.Entries, 1)
		assert.Equal(t, "entry-1", tr.Entries[0].ID)
	})

	t.Run("deposit confirms", func(t *testing.T) {
		tr := create(t, machine(true), &lifecycle.Capture{Amount: 100_000})

		assert.Equal(t, lifecycle.StatusConfirmed, tr.Reservation.Status)
		assert.Equal(t, lifecycle.PaymentPartiallyPaid, tr.Reservation.PaymentStatus)
	})

	t.Run("quote for another stay length", func(t *testing.T) {
		_, err := machine(false).Create(lifecycle.CreateInput{ID: "res-1", CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 5), Quote: quote()})
		assert.Error(t, err)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		_, err := machine(false).Create(lifecycle.CreateInput{ID: "res-1", CheckIn: checkOut, CheckOut: checkIn, Quote: quote()})
		assert.ErrorIs(t, err, failure.ErrInvalidDateRange)
	})
}

func TestRecordPayment(t *testing.T) {
	m := machine(true)
	res := create(t, m, nil).Reservation

	first, err := m.RecordPayment(res, nil, lifecycle.Capture{Amount: 50_000}, booked)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPending, first.Reservation.Status, "below the deposit")
	assert.Equal(t, lifecycle.PaymentPartiallyPaid, first.Reservation.PaymentStatus)

	second, err := m.RecordPayment(first.Reservation, first.Entries, lifecycle.Capture{Amount: 50_000}, booked)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusConfirmed, second.Reservation.Status)

	entries := append(first.Entries, second.Entries...)

	_, err = m.RecordPayment(second.Reservation, entries, lifecycle.Capture{Amount: 400_001}, booked)
	assert.Error(t, err, "overpayment")

	last, err := m.RecordPayment(second.Reservation, entries, lifecycle.Capture{Amount: 400_000}, booked)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.PaymentPaid, last.Reservation.PaymentStatus)
}

func TestFailPayment(t *testing.T) {
	m := machine(false)
	res := create(t, m, nil).Reservation

	failed, err := m.FailPayment(res, booked)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.PaymentFailed, failed.Reservation.PaymentStatus)
	assert.Equal(t, lifecycle.StatusPending, failed.Reservation.Status)

	retried, err := m.RecordPayment(failed.Reservation, nil, lifecycle.Capture{Amount: 500_000}, booked)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.PaymentPaid, retried.Reservation.PaymentStatus)

	_, err = m.FailPayment(retried.Reservation, booked)
	assert.ErrorIs(t, err, failure.ErrInvalidTransition, "paid cannot move back")
}

func TestConfirm(t *testing.T) {
	m := machine(true)
	res := create(t, m, nil).Reservation

	_, err := m.Confirm(res, nil, booked)
	assert.ErrorIs(t, err, failure.ErrInvalidTransition)

	paid := []ledger.Entry{{ID: "p", ReservationID: "res-1", Kind: ledger.KindPayment, Amount: 100_000}}

	tr, err := m.Confirm(res, paid, booked)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusConfirmed, tr.Reservation.Status)
}

func TestCheckIn(t *testing.T) {
	m := machine(false)
	res := create(t, m, &lifecycle.Capture{Amount: 500_000}).Reservation

	tests := []struct {
		name      string
		at        time.Time
		surcharge int64
		wantErr   error
	}{
		{name: "on time", at: arrival.Add(time.Hour)},
		{name: "early", at: arrival.Add(-4 * time.Hour), surcharge: 60_000},
		{name: "after the latest time", at: arrival.Add(9*time.Hour + 30*time.Minute), wantErr: failure.ErrPolicyViolation},
		{name: "the day before", at: arrival.Add(-24 * time.Hour), wantErr: failure.ErrInvalidTransition},
		{name: "on check-out day", at: checkOut.Add(10 * time.Hour), wantErr: failure.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := m.CheckIn(res, tt.at)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, lifecycle.StatusCheckedIn, tr.Reservation.Status)
			assert.Equal(t, res.Quote.GrandTotal+tt.surcharge, tr.Reservation.TotalDue())
			assert.Equal(t, res.Quote, tr.Reservation.Quote, "quote stays frozen")
			assert.Empty(t, res.Surcharges)
		})
	}
}

func TestCancel(t *testing.T) {
	m := machine(false)

	tests := []struct {
		name        string
		capture     *lifecycle.Capture
		at          time.Time
		refund      int64
		fee         int64
		wantPayment lifecycle.PaymentStatus
	}{
		{
			name:        "free cancellation refunds everything",
			capture:     &lifecycle.Capture{Amount: 500_000},
			at:          arrival.Add(-72 * time.Hour),
			refund:      500_000,
			wantPayment: lifecycle.PaymentRefunded,
		},
		{
			name:        "inside the window keeps the fee",
			capture:     &lifecycle.Capture{Amount: 500_000},
			at:          arrival.Add(-10 * time.Hour),
			refund:      250_000,
			fee:         250_000,
			wantPayment: lifecycle.PaymentPartiallyPaid,
		},
		{
			name:        "nothing paid",
			at:          arrival.Add(-10 * time.Hour),
			fee:         250_000,
			wantPayment: lifecycle.PaymentPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := create(t, m, tt.capture)

			tr, err := m.Cancel(created.Reservation, created.Entries, tt.at)
			require.NoError(t, err)

			assert.Equal(t, lifecycle.StatusCancelled, tr.Reservation.Status)
			assert.Equal(t, tt.wantPayment, tr.Reservation.PaymentStatus)
			assert.Equal(t, tt.fee, tr.Cancellation.FeeCharged)
			assert.Equal(t, tt.refund, tr.Cancellation.RefundableAmount)

			if tt.refund == 0 {
				assert.Empty(t, tr.Entries)
				return
			}

			require.Len(t, tr.Entries, 1)
			assert.Equal(t, ledger.KindRefund, tr.Entries[0].Kind)
			assert.Equal(t, -tt.refund, tr.Entries[0].Amount)
		})
	}
}

func TestMarkNoShow(t *testing.T) {
	tests := []struct {
		name        string
		noShowFee   int64
		capture     *lifecycle.Capture
		refund      int64
		fee         int64
		wantPayment lifecycle.PaymentStatus
	}{
		{
			name:        "fee keeps everything paid",
			noShowFee:   100,
			capture:     &lifecycle.Capture{Amount: 500_000},
			fee:         500_000,
			wantPayment: lifecycle.PaymentPartiallyPaid,
		},
		{
			name:        "rest of the payment goes back",
			noShowFee:   40,
			capture:     &lifecycle.Capture{Amount: 500_000},
			refund:      300_000,
			fee:         200_000,
			wantPayment: lifecycle.PaymentPartiallyPaid,
		},
		{
			name:        "no fee refunds everything",
			capture:     &lifecycle.Capture{Amount: 500_000},
			refund:      500_000,
			wantPayment: lifecycle.PaymentRefunded,
		},
		{
			name:        "nothing paid",
			noShowFee:   40,
			fee:         200_000,
			wantPayment: lifecycle.PaymentPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := policies(false)
			p.Cancellation.NoShowFee = decimal.NewFromInt(tt.noShowFee)
			m := machineFor(p)

			created := create(t, m, tt.capture)
			res := created.Reservation
			res.Status = lifecycle.StatusConfirmed

			_, err := m.MarkNoShow(res, created.Entries, arrival.Add(9*time.Hour))
			assert.ErrorIs(t, err, failure.ErrInvalidTransition, "arrival day not over")

			tr, err := m.MarkNoShow(res, created.Entries, checkIn.AddDate(0, 0, 1))
			require.NoError(t, err)

			assert.Equal(t, lifecycle.StatusNoShow, tr.Reservation.Status)
			assert.Equal(t, tt.wantPayment, tr.Reservation.PaymentStatus)
			assert.Equal(t, tt.fee, tr.NoShow.FeeCharged)
			assert.Equal(t, tt.refund, tr.NoShow.RefundableAmount)

			if tt.refund == 0 {
				assert.Empty(t, tr.Entries)
				return
			}

			require.Len(t, tr.Entries, 1)
			assert.Equal(t, ledger.KindRefund, tr.Entries[0].Kind)
			assert.Equal(t, -tt.refund, tr.Entries[0].Amount)
		})
	}
}

func TestArrivalDayFollowsHotelTimezone(t *testing.T) {
	p := policies(false)
	p.Location = time.FixedZone("EDT", -4*60*60)
	m := machineFor(p)

	created := create(t, m, &lifecycle.Capture{Amount: 500_000})

	tests := []struct {
		name       string
		at         time.Time
		checkInErr error
		noShowErr  error
	}{
		{
			name:      "evening of the arrival day",
			at:        time.Date(2025, time.March, 21, 2, 0, 0, 0, time.UTC),
			noShowErr: failure.ErrInvalidTransition,
		},
		{
			name:       "after midnight at the hotel",
			at:         time.Date(2025, time.March, 21, 5, 0, 0, 0, time.UTC),
			checkInErr: failure.ErrPolicyViolation,
		},
		{
			name:       "evening before the arrival day",
			at:         time.Date(2025, time.March, 20, 2, 0, 0, 0, time.UTC),
			checkInErr: failure.ErrInvalidTransition,
			noShowErr:  failure.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.CheckIn(created.Reservation, tt.at)
			if tt.checkInErr != nil {
				assert.ErrorIs(t, err, tt.checkInErr)
			} else {
				assert.NoError(t, err)
			}

			_, err = m.MarkNoShow(created.Reservation, created.Entries, tt.at)
			if tt.noShowErr != nil {
				assert.ErrorIs(t, err, tt.noShowErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRefundAndPayout(t *testing.T) {
	m := machine(false)
	created := create(t, m, &lifecycle.Capture{Amount: 500_000, ProcessorFee: 10_000})
	entries := created.Entries

	out, err := m.Payout(created.Reservation, entries, 490_001, "batch-1", booked)
	assert.ErrorIs(t, err, failure.ErrOverPayout)
	assert.Empty(t, out.Entries)

	refund, err := m.Refund(created.Reservation, entries, 100_000, "goodwill", booked)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.PaymentPartiallyPaid, refund.Reservation.PaymentStatus)
	entries = append(entries, refund.Entries...)

	_, err = m.Refund(refund.Reservation, entries, 400_001, "goodwill", booked)
	assert.ErrorIs(t, err, failure.ErrOverRefund)

	payout, err := m.Payout(refund.Reservation, entries, 390_000, "batch-1", booked)
	require.NoError(t, err)
	assert.Equal(t, refund.Reservation, payout.Reservation)
	assert.Equal(t, int64(0), ledger.Summarize(append(entries, payout.Entries...)).Payable)
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	m := machine(false)
	base := create(t, m, &lifecycle.Capture{Amount: 500_000}).Reservation

	for _, status := range []lifecycle.Status{lifecycle.StatusCheckedOut, lifecycle.StatusCancelled, lifecycle.StatusNoShow} {
		res := base
		res.Status = status

		attempts := []struct {
			name string
			run  func() error
		}{
			{"confirm", func() error {
				_, err := m.Confirm(res, nil, arrival)
				return err
			}},
			{"check-in", func() error {
				_, err := m.CheckIn(res, arrival)
				return err
			}},
			{"check-out", func() error {
				_, err := m.CheckOut(res, arrival)
				return err
			}},
			{"cancel", func() error {
				_, err := m.Cancel(res, nil, arrival)
				return err
			}},
			{"no-show", func() error {
				_, err := m.MarkNoShow(res, nil, checkOut)
				return err
			}},
			{"fail payment", func() error {
				_, err := m.FailPayment(res, arrival)
				return err
			}},
		}

		for _, attempt := range attempts {
			t.Run(fmt.Sprintf("%s/%s", status, attempt.name), func(t *testing.T) {
				assert.ErrorIs(t, attempt.run(), failure.ErrInvalidTransition)
			})
		}
	}
}

func TestStatusMoves(t *testing.T) {
	tests := []struct {
		from lifecycle.Status
		to   lifecycle.Status
		want bool
	}{
		{lifecycle.StatusPending, lifecycle.StatusConfirmed, true},
		{lifecycle.StatusPending, lifecycle.StatusCancelled, true},
		{lifecycle.StatusPending, lifecycle.StatusCheckedIn, false},
		{lifecycle.StatusConfirmed, lifecycle.StatusCheckedIn, true},
		{lifecycle.StatusConfirmed, lifecycle.StatusNoShow, true},
		{lifecycle.StatusConfirmed, lifecycle.StatusPending, false},
		{lifecycle.StatusCheckedIn, lifecycle.StatusCheckedOut, true},
		{lifecycle.StatusCheckedIn, lifecycle.StatusCancelled, false},
		{lifecycle.StatusCheckedOut, lifecycle.StatusCheckedIn, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanMoveTo(tt.to))
		})
	}
}
