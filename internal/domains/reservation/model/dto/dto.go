package dto

import (
	"time"

	"suave/internal/domains/reservation/model"
	"suave/internal/engine/booking"
	"suave/internal/engine/charge"
	"suave/internal/engine/lifecycle"
	"suave/internal/engine/policy"
	"suave/internal/engine/rate"
	"suave/shared"
	"suave/shared/constant"
	gDto "suave/shared/dto"
	"suave/shared/failure"
	"suave/shared/timezone"
)

type ExtraRequest struct {
	Code      string `json:"code"       validate:"required,max=50"`
	Name      string `json:"name"       validate:"required,max=100"`
	UnitPrice int64  `json:"unit_price" validate:"min=0"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// QuoteRequest is the booking wizard's final state. Each field maps to one
// builder step so the request is validated in the order a guest fills it in.
type QuoteRequest struct {
	RoomID       string         `json:"room_id"       validate:"required"`
	CheckIn      string         `json:"check_in"      validate:"required,datetime=2006-01-02"`
	CheckOut     string         `json:"check_out"     validate:"required,datetime=2006-01-02"`
	Adults       int            `json:"adults"        validate:"required,min=1"`
	ChildrenAges []int          `json:"children_ages" validate:"omitempty,dive,min=0,max=17"`
	Extras       []ExtraRequest `json:"extras"        validate:"omitempty,dive"`
	Pets         bool           `json:"pets"`
	Smoking      bool           `json:"smoking"`
	Crib         bool           `json:"crib"`
}

// ToBookingRequest replays the wizard steps against room and policies.
func (q *QuoteRequest) ToBookingRequest(room rate.Room, policies policy.Policies) (booking.Request, error) {
	checkIn, err := time.Parse(constant.DateOnlyFormat, q.CheckIn)
	if err != nil {
		return booking.Request{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	checkOut, err := time.Parse(constant.DateOnlyFormat, q.CheckOut)
	if err != nil {
		return booking.Request{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	builder := booking.NewBuilder()

	if err := builder.SelectRoom(room); err != nil {
		return booking.Request{}, err //nolint:wrapcheck
	}

	if err := builder.SelectDates(checkIn, checkOut); err != nil {
		return booking.Request{}, err //nolint:wrapcheck
	}

	if err := builder.SetGuests(q.Adults, q.ChildrenAges); err != nil {
		return booking.Request{}, err //nolint:wrapcheck
	}

	for _, extra := range q.Extras {
		err := builder.AddExtra(charge.Extra{
			Code:      extra.Code,
			Name:      extra.Name,
			UnitPrice: extra.UnitPrice,
			Quantity:  extra.Quantity,
		})
		if err != nil {
			return booking.Request{}, err //nolint:wrapcheck
		}
	}

	builder.SetFlags(q.Pets, q.Smoking, q.Crib)

	return builder.Build(policies) //nolint:wrapcheck
}

// StoredQuote is what the quote cache holds between quoting and committing.
type StoredQuote struct {
	QuoteID   string          `json:"quote_id"`
	Request   booking.Request `json:"request"`
	Quote     charge.Quote    `json:"quote"`
	Currency  string          `json:"currency"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type QuoteResponse struct {
	QuoteID    string       `json:"quote_id"`
	RoomID     string       `json:"room_id"`
	CheckIn    string       `json:"check_in"`
	CheckOut   string       `json:"check_out"`
	Currency   string       `json:"currency"`
	DepositDue int64        `json:"deposit_due"`
	ExpiresAt  string       `json:"expires_at"`
	Quote      charge.Quote `json:"quote"`
}

func (q *QuoteResponse) FromStored(stored StoredQuote, depositDue int64) {
	q.QuoteID = stored.QuoteID
	q.RoomID = stored.Request.RoomID
	q.CheckIn = stored.Request.CheckIn.Format(constant.DateOnlyFormat)
	q.CheckOut = stored.Request.CheckOut.Format(constant.DateOnlyFormat)
	q.Currency = stored.Currency
	q.DepositDue = depositDue
	q.ExpiresAt = timezone.Format(stored.ExpiresAt, constant.DateFormat)
	q.Quote = stored.Quote
}

type PaymentRequest struct {
	Amount       int64  `json:"amount"        validate:"required,min=1"`
	ProcessorFee int64  `json:"processor_fee" validate:"min=0,ltefield=Amount"`
	Reference    string `json:"reference"     validate:"omitempty,max=100"`
}

func (p *PaymentRequest) ToCapture() lifecycle.Capture {
	return lifecycle.Capture{
		Amount:       p.Amount,
		ProcessorFee: p.ProcessorFee,
		Reference:    p.Reference,
	}
}

// CommitRequest turns a quote into a reservation. Payment is a capture the
// payment collaborator already completed, if any.
type CommitRequest struct {
	QuoteID  string          `json:"quote_id"  validate:"required,uuid"`
	GuestRef string          `json:"guest_ref" validate:"required,max=100"`
	Payment  *PaymentRequest `json:"payment"   validate:"omitempty"`
}

// TransitionRequest carries the moment an event happened. An empty At means now.
type TransitionRequest struct {
	At string `json:"at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (t *TransitionRequest) Time() time.Time {
	if t == nil || t.At == constant.Empty {
		return timezone.Now()
	}

	at, err := time.Parse(constant.DateFormat, t.At)
	if err != nil {
		return timezone.Now()
	}

	return at
}

type AmountRequest struct {
	Amount    int64  `json:"amount"    validate:"required,min=1"`
	Reference string `json:"reference" validate:"omitempty,max=100"`
}

type SweepResponse struct {
	Expired int `json:"expired"`
	NoShows int `json:"no_shows"`
	Failed  int `json:"failed"`
}

type ReservationResponse struct {
	ID            string            `json:"id"`
	RoomID        string            `json:"room_id"`
	GuestRef      string            `json:"guest_ref"`
	CheckIn       string            `json:"check_in"`
	CheckOut      string            `json:"check_out"`
	Nights        int               `json:"nights"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	Currency      string            `json:"currency"`
	GrandTotal    int64             `json:"grand_total"`
	TotalDue      int64             `json:"total_due"`
	Quote         charge.Quote      `json:"quote"`
	Surcharges    []charge.LineItem `json:"surcharges"`
	ConfirmedAt   string            `json:"confirmed_at,omitempty"`
	CheckedInAt   string            `json:"checked_in_at,omitempty"`
	CheckedOutAt  string            `json:"checked_out_at,omitempty"`
	CancelledAt   string            `json:"cancelled_at,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.GuestRef = model.GuestRef
	r.CheckIn = model.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = model.CheckOut.Format(constant.DateOnlyFormat)
	r.Nights = model.Nights
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.Currency = model.Currency
	r.GrandTotal = model.GrandTotal
	r.TotalDue = model.TotalDue
	r.Quote = charge.Quote(model.Quote)
	r.Surcharges = []charge.LineItem(model.Surcharges)
	r.ConfirmedAt = formatOptional(model.ConfirmedAt)
	r.CheckedInAt = formatOptional(model.CheckedInAt)
	r.CheckedOutAt = formatOptional(model.CheckedOutAt)
	r.CancelledAt = formatOptional(model.CancelledAt)
	r.Metadata.FromModel(model.Metadata)
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return constant.Empty
	}

	return timezone.Format(*t, constant.DateFormat)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

// TransitionResponse is the reservation after an event, plus what the policy
// decided when the event involved one.
type TransitionResponse struct {
	Reservation  ReservationResponse         `json:"reservation"`
	Cancellation *policy.CancellationOutcome `json:"cancellation,omitempty"`
	NoShow       *policy.NoShowOutcome       `json:"no_show,omitempty"`
	CheckIn      *policy.CheckInAssessment   `json:"check_in,omitempty"`
}

func (t *TransitionResponse) FromTransition(mod model.Reservation, tr lifecycle.Transition) {
	t.Reservation.FromModel(mod)
	t.Cancellation = tr.Cancellation
	t.NoShow = tr.NoShow
	t.CheckIn = tr.CheckIn
}
