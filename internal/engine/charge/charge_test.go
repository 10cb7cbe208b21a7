package charge_test

import (
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suave/internal/engine/charge"
	"suave/shared/failure"
)

func pct(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestBuildQuote_TaxAndPerNightFee(t *testing.T) {
	quote, err := charge.BuildQuote(charge.Input{
		StayCost:     897_000,
		NightlyRates: []int64{299_000, 299_000, 299_000},
		Nights:       3,
		Rules: []charge.TaxFeeRule{
			{ID: 1, Name: "VAT", Kind: charge.KindPercentage, Value: pct("7.5"), AppliesTo: charge.AppliesToAll, Enabled: true},
			{ID: 2, Name: "City fee", Kind: charge.KindFixed, Value: pct("15000"), AppliesTo: charge.AppliesToPerNight, Enabled: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, quote.Lines, 3)
	assert.Equal(t, int64(67_275), quote.Lines[1].Amount)
	assert.Equal(t, int64(45_000), quote.Lines[2].Amount)
	assert.Equal(t, 3, quote.Lines[2].Quantity)
	assert.Equal(t, int64(112_275), quote.TaxFeeTotal)
	assert.Equal(t, int64(1_009_275), quote.GrandTotal)
}

func TestBuildQuote_Scopes(t *testing.T) {
	extras := []charge.Extra{
		{Code: "breakfast", Name: "Breakfast", UnitPrice: 25_000, Quantity: 2},
	}

	tests := []struct {
		name   string
		rule   charge.TaxFeeRule
		extras []charge.Extra
		want   int64
	}{
		{
			name:   "percentage on all includes extras",
			rule:   charge.TaxFeeRule{Kind: charge.KindPercentage, Value: pct("10"), AppliesTo: charge.AppliesToAll},
			extras: extras,
			want:   25_000,
		},
		{
			name:   "percentage per stay ignores extras",
			rule:   charge.TaxFeeRule{Kind: charge.KindPercentage, Value: pct("10"), AppliesTo: charge.AppliesToPerStay},
			extras: extras,
			want:   20_000,
		},
		{
			name:   "percentage on services",
			rule:   charge.TaxFeeRule{Kind: charge.KindPercentage, Value: pct("10"), AppliesTo: charge.AppliesToServices},
			extras: extras,
			want:   5_000,
		},
		{
			name: "percentage on services without extras",
			rule: charge.TaxFeeRule{Kind: charge.KindPercentage, Value: pct("10"), AppliesTo: charge.AppliesToServices},
			want: 0,
		},
		{
			name:   "fixed on services with extras",
			rule:   charge.TaxFeeRule{Kind: charge.KindFixed, Value: pct("3000"), AppliesTo: charge.AppliesToServices},
			extras: extras,
			want:   3_000,
		},
		{
			name: "fixed on services without extras",
			rule: charge.TaxFeeRule{Kind: charge.KindFixed, Value: pct("3000"), AppliesTo: charge.AppliesToServices},
			want: 0,
		},
		{
			name: "fixed per stay",
			rule: charge.TaxFeeRule{Kind: charge.KindFixed, Value: pct("3000"), AppliesTo: charge.AppliesToPerStay},
			want: 3_000,
		},
		{
			name: "percentage per night on uneven rates is rounded once",
			rule: charge.TaxFeeRule{Kind: charge.KindPercentage, Value: pct("10"), AppliesTo: charge.AppliesToPerNight},
			want: 20_000,
		},
		{
			name: "half rounds up",
			rule: charge.TaxFeeRule{Kind: charge.KindPercentage, Value: pct("0.00125"), AppliesTo: charge.AppliesToPerStay},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rule.ID = 1
			tt.rule.Name = "rule"
			tt.rule.Enabled = true

			quote, err := charge.BuildQuote(charge.Input{
				StayCost:     200_000,
				NightlyRates: []int64{100_005, 99_995},
				Nights:       2,
				Extras:       tt.extras,
				Rules:        []charge.TaxFeeRule{tt.rule},
			})
			require.NoError(t, err)

			assert.Equal(t, tt.want, quote.TaxFeeTotal)
			assert.Equal(t, quote.LineTotal(), quote.GrandTotal)
		})
	}
}

func TestBuildQuote_LineOrder(t *testing.T) {
	quote, err := charge.BuildQuote(charge.Input{
		StayCost: 500_000,
		Nights:   2,
		Extras: []charge.Extra{
			{Code: "pickup", Name: "Airport pickup", UnitPrice: 40_000, Quantity: 1},
			{Code: "breakfast", Name: "Breakfast", UnitPrice: 20_000, Quantity: 4},
		},
		PolicyFees: []charge.PolicyFee{{Code: "pet", Name: "Pet fee", Amount: 30_000}},
		Rules: []charge.TaxFeeRule{
			{ID: 4, Name: "Service charge", Kind: charge.KindPercentage, Value: pct("5"), AppliesTo: charge.AppliesToAll, Enabled: true},
			{ID: 5, Name: "Old levy", Kind: charge.KindFixed, Value: pct("1000"), AppliesTo: charge.AppliesToPerStay, Enabled: false},
		},
	})
	require.NoError(t, err)

	kinds := make([]charge.LineKind, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		kinds = append(kinds, line.Kind)
	}

	assert.Equal(t, []charge.LineKind{charge.LineRoom, charge.LineExtra, charge.LineExtra, charge.LinePolicyFee, charge.LineTaxFee}, kinds)
	assert.Equal(t, "pickup", quote.Lines[1].Code)
	assert.Equal(t, "tax_fee:4", quote.Lines[4].Code)
	assert.Equal(t, int64(120_000), quote.ExtrasSubtotal)
	assert.Equal(t, int64(30_000), quote.PolicyFeesSubtotal)
	// policy fees are not taxed
	assert.Equal(t, int64(31_000), quote.TaxFeeTotal)
	assert.Equal(t, int64(681_000), quote.GrandTotal)
}

func TestBuildQuote_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		in      charge.Input
		wantErr error
	}{
		{
			name:    "no nights",
			in:      charge.Input{StayCost: 100, Nights: 0},
			wantErr: failure.ErrInvalidDateRange,
		},
		{
			name: "nightly rates do not match nights",
			in:   charge.Input{StayCost: 100, Nights: 2, NightlyRates: []int64{100}},
		},
		{
			name: "nightly rates do not sum to stay cost",
			in:   charge.Input{StayCost: 100, Nights: 2, NightlyRates: []int64{40, 50}},
		},
		{
			name: "negative tax",
			in: charge.Input{StayCost: 100, Nights: 1, Rules: []charge.TaxFeeRule{
				{ID: 1, Kind: charge.KindPercentage, Value: pct("-5"), AppliesTo: charge.AppliesToAll, Enabled: true},
			}},
		},
		{
			name: "unknown scope",
			in: charge.Input{StayCost: 100, Nights: 1, Rules: []charge.TaxFeeRule{
				{ID: 1, Kind: charge.KindPercentage, Value: pct("5"), AppliesTo: "per_guest", Enabled: true},
			}},
		},
		{
			name: "extra without quantity",
			in:   charge.Input{StayCost: 100, Nights: 1, Extras: []charge.Extra{{Code: "spa", UnitPrice: 10}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := charge.BuildQuote(tt.in)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuildQuote_Properties(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	scopes := []charge.AppliesTo{charge.AppliesToAll, charge.AppliesToPerNight, charge.AppliesToPerStay, charge.AppliesToServices}

	for i := range 300 {
		nights := 1 + rnd.IntN(5)
		rates := make([]int64, nights)

		var stayCost int64
		for n := range rates {
			rates[n] = rnd.Int64N(1_000_000)
			stayCost += rates[n]
		}

		var extras []charge.Extra
		for e := range rnd.IntN(3) {
			extras = append(extras, charge.Extra{Code: string(rune('a' + e)), UnitPrice: rnd.Int64N(100_000), Quantity: 1 + rnd.IntN(3)})
		}

		var rules []charge.TaxFeeRule
		for id := range 1 + rnd.IntN(4) {
			rule := charge.TaxFeeRule{ID: int64(id), AppliesTo: scopes[rnd.IntN(len(scopes))], Enabled: rnd.IntN(5) > 0}
			if rnd.IntN(2) == 0 {
				rule.Kind = charge.KindPercentage
				rule.Value = decimal.New(rnd.Int64N(2_000), -2)
			} else {
				rule.Kind = charge.KindFixed
				rule.Value = decimal.NewFromInt(rnd.Int64N(50_000))
			}

			rules = append(rules, rule)
		}

		in := charge.Input{StayCost: stayCost, NightlyRates: rates, Nights: nights, Extras: extras, Rules: rules}

		first, err := charge.BuildQuote(in)
		require.NoError(t, err, "case %d", i)

		second, err := charge.BuildQuote(in)
		require.NoError(t, err, "case %d", i)

		assert.Equal(t, first.LineTotal(), first.GrandTotal, "case %d", i)

		a, err := json.Marshal(first)
		require.NoError(t, err)
		b, err := json.Marshal(second)
		require.NoError(t, err)
		assert.Equal(t, a, b, "case %d", i)

		if len(extras) == 0 {
			for _, line := range first.Lines {
				if line.Kind != charge.LineTaxFee {
					continue
				}

				for _, rule := range rules {
					if line.Code == "tax_fee:"+strconv.FormatInt(rule.ID, 10) && rule.AppliesTo == charge.AppliesToServices {
						assert.Zero(t, line.Amount, "case %d", i)
					}
				}
			}
		}
	}
}
