package booking_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suave/internal/engine/booking"
	"suave/internal/engine/charge"
	"suave/internal/engine/policy"
	"suave/internal/engine/rate"
	"suave/shared/failure"
)

var (
	room     = rate.Room{ID: "room-1", Name: "Deluxe", BasePrice: 299_000, Capacity: 3}
	checkIn  = time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2025, time.March, 23, 0, 0, 0, 0, time.UTC)
)

func catalog() booking.Catalog {
	return booking.Catalog{
		Room: room,
		TaxFees: []charge.TaxFeeRule{
			{ID: 1, Name: "VAT", Kind: charge.KindPercentage, Value: decimal.RequireFromString("7.5"), AppliesTo: charge.AppliesToAll, Enabled: true},
			{ID: 2, Name: "City fee", Kind: charge.KindFixed, Value: decimal.NewFromInt(15_000), AppliesTo: charge.AppliesToPerNight, Enabled: true},
		},
		Policies: policy.Policies{
			CheckIn:  policy.CheckInPolicy{StandardCheckIn: "14:00"},
			Children: policy.ChildrenPolicy{ChildrenAllowed: true, MaxChildrenAge: 6, ExtraBedFee: 40_000},
			Pets:     policy.PetPolicy{PetsAllowed: false},
		},
	}
}

func TestQuote(t *testing.T) {
	quote, err := booking.Quote(catalog(), booking.Request{
		RoomID:   "room-1",
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, int64(897_000), quote.RoomSubtotal)
	assert.Equal(t, int64(112_275), quote.TaxFeeTotal)
	assert.Equal(t, int64(1_009_275), quote.GrandTotal)
}

func TestQuote_PolicyFeesAndWarnings(t *testing.T) {
	c := catalog()
	c.Rules = []rate.PricingRule{
		{ID: 1, RoomID: "room-1", Name: "Bad promo", AdjustmentType: rate.AdjustmentFixed, Value: decimal.NewFromInt(-500_000),
			ValidFrom: checkIn, ValidTo: checkIn},
	}

	quote, err := booking.Quote(c, booking.Request{
		RoomID:   "room-1",
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   2,
		Flags:    policy.GuestFlags{ChildrenAges: []int{9}},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 299_000, 299_000}, quote.NightlyRates)
	assert.Equal(t, int64(40_000), quote.PolicyFeesSubtotal)
	require.Len(t, quote.Warnings, 1)
	assert.Equal(t, failure.WarningNegativeRateClamp, quote.Warnings[0].Kind)
	assert.Equal(t, quote.LineTotal(), quote.GrandTotal)
}

func TestQuote_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		req     booking.Request
		wantErr error
	}{
		{
			name:    "pets are not allowed",
			req:     booking.Request{RoomID: "room-1", CheckIn: checkIn, CheckOut: checkOut, Adults: 1, Flags: policy.GuestFlags{Pets: true}},
			wantErr: failure.ErrPolicyViolation,
		},
		{
			name:    "check-out on check-in day",
			req:     booking.Request{RoomID: "room-1", CheckIn: checkIn, CheckOut: checkIn, Adults: 1},
			wantErr: failure.ErrInvalidDateRange,
		},
		{
			name: "over capacity",
			req:  booking.Request{RoomID: "room-1", CheckIn: checkIn, CheckOut: checkOut, Adults: 2, Flags: policy.GuestFlags{ChildrenAges: []int{3, 4}}},
		},
		{
			name: "another room",
			req:  booking.Request{RoomID: "room-9", CheckIn: checkIn, CheckOut: checkOut, Adults: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := booking.Quote(catalog(), tt.req)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	b := booking.NewBuilder()

	_, err := b.Build(catalog().Policies)
	assert.Error(t, err, "nothing selected")

	require.NoError(t, b.SelectRoom(room))
	assert.ErrorIs(t, b.SelectDates(checkOut, checkIn), failure.ErrInvalidDateRange)
	require.NoError(t, b.SelectDates(checkIn.Add(15*time.Hour), checkOut))
	assert.Error(t, b.SetGuests(3, []int{5}), "over capacity")
	require.NoError(t, b.SetGuests(2, []int{5}))
	assert.Error(t, b.AddExtra(charge.Extra{Code: "breakfast", UnitPrice: 20_000}))
	require.NoError(t, b.AddExtra(charge.Extra{Code: "breakfast", Name: "Breakfast", UnitPrice: 20_000, Quantity: 2}))
	require.NoError(t, b.AddExtra(charge.Extra{Code: "breakfast", Name: "Breakfast", UnitPrice: 20_000, Quantity: 1}))

	b.SetFlags(true, false, false)

	_, err = b.Build(catalog().Policies)
	assert.ErrorIs(t, err, failure.ErrPolicyViolation)

	b.SetFlags(false, false, false)

	req, err := b.Build(catalog().Policies)
	require.NoError(t, err)

	assert.Equal(t, checkIn, req.CheckIn)
	assert.Equal(t, 3, req.Nights())
	assert.Equal(t, 3, req.Guests())
	require.Len(t, req.Extras, 1)
	assert.Equal(t, 3, req.Extras[0].Quantity)

	quote, err := booking.Quote(catalog(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(60_000), quote.ExtrasSubtotal)
}

func TestBuilder_SmallerRoomRechecksGuests(t *testing.T) {
	b := booking.NewBuilder()

	require.NoError(t, b.SetGuests(3, nil))
	assert.Error(t, b.SelectRoom(rate.Room{ID: "room-2", Name: "Single", Capacity: 1}))
	require.NoError(t, b.SelectRoom(room))
}
