package reservation

import (
	"context"
	"net/http"

	"suave/infras/otel"
	"suave/internal/domains/reservation/model"
	"suave/internal/domains/reservation/model/dto"
	"suave/internal/domains/reservation/service"
	"suave/shared/constant"
	gDto "suave/shared/dto"
	"suave/shared/timezone"
	"suave/shared/validator"
	"suave/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/quotes", handler.Quote)

	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Commit)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Post("/sweep", handler.Sweep)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Get("/{id}/ledger", handler.GetLedger)

		routerGroup.Post("/{id}/payments", handler.Pay)
		routerGroup.Post("/{id}/payment-failures", handler.FailPayment)
		routerGroup.Post("/{id}/confirm", handler.Confirm)
		routerGroup.Post("/{id}/check-in", handler.CheckIn)
		routerGroup.Post("/{id}/check-out", handler.CheckOut)
		routerGroup.Post("/{id}/cancel", handler.Cancel)
		routerGroup.Post("/{id}/no-show", handler.MarkNoShow)
		routerGroup.Post("/{id}/refunds", handler.Refund)
		routerGroup.Post("/{id}/payouts", handler.Payout)
	})
}

// Quote prices a stay without reserving anything.
// @Summary Quote a stay
// @Description Price a room for a date range, guests, extras and policy flags. The quote is held for a limited time and can be committed once.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} response.Data[dto.QuoteResponse] "Priced quote"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/quotes [post]
func (handler *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Quote")
	defer scope.End()

	req := dto.QuoteRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	quote, err := handler.service.Quote(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to quote stay")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Quote " + quote.QuoteID + " issued")

	response.WithJSON(w, http.StatusOK, quote)
}

// Commit turns a held quote into a pending reservation.
// @Summary Commit a quote
// @Description Reserve the quoted room. An optional payment already captured by the payment collaborator is recorded in the same step.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CommitRequest true "Commit Request"
// @Success 201 {object} response.Data[dto.TransitionResponse] "Created reservation"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
func (handler *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Commit")
	defer scope.End()

	req := dto.CommitRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Commit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("quote_id", req.QuoteID).Msg("failed to commit quote")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation " + res.Reservation.ID + " created")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetReservations retrieves reservations based on query parameters.
// @Summary Get all reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Param guest_ref query string false "Filter by guest reference"
// @Param status query string false "Filter by status"
// @Param payment_status query string false "Filter by payment status"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldRoomID, model.FieldGuestRef, model.FieldStatus, model.FieldPaymentStatus} {
		if value := r.URL.Query().Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservationByID retrieves a reservation by its ID.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	reservation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// GetLedger returns the ledger statement of a reservation.
// @Summary Get the ledger of a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[ledgerDto.StatementResponse] "Entries and balance"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/ledger [get]
func (handler *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLedger")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	statement, err := handler.service.Ledger(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get ledger")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, statement)
}

// Pay records a captured payment. Replaying a reference is a no-op.
// @Summary Record a payment
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.PaymentRequest true "Payment Request"
// @Success 200 {object} response.Data[dto.TransitionResponse] "Reservation after payment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/payments [post]
// @Security ApiKeyAuth
func (handler *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Pay")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.PaymentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Pay(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to record payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Refund returns money to the guest, bounded by what was collected.
// @Summary Record a refund
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.AmountRequest true "Refund Request"
// @Success 200 {object} response.Data[dto.TransitionResponse] "Reservation after refund"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/refunds [post]
// @Security ApiKeyAuth
func (handler *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	handler.amount(w, r, "Refund", handler.service.Refund)
}

// Payout settles collected money to the hotel, bounded by what is payable.
// @Summary Record a payout
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.AmountRequest true "Payout Request"
// @Success 200 {object} response.Data[dto.TransitionResponse] "Reservation after payout"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/payouts [post]
// @Security ApiKeyAuth
func (handler *Handler) Payout(w http.ResponseWriter, r *http.Request) {
	handler.amount(w, r, "Payout", handler.service.Payout)
}

// FailPayment marks the outstanding payment as failed.
// @Summary Record a failed payment
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.TransitionRequest false "Event time"
// @Success 200 {object} response.Data[dto.TransitionResponse] "Reservation after failure"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/payment-failures [post]
// @Security ApiKeyAuth
func (handler *Handler) FailPayment(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "FailPayment", handler.service.FailPayment)
}

// Confirm confirms a pending reservation whose deposit is covered.
// @Summary Confirm a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.TransitionRequest false "Event time"
// @Success 200 {object} response.Data[dto.TransitionResponse] "Confirmed reservation"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/confirm [post]
// @Security ApiKeyAuth
func (handler *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "Confirm", handler.service.Confirm)
}

// CheckIn checks the guest in, charging an early check-in fee when one applies.
// @Summary Check a guest in
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.TransitionRequest false "Arrival time"
// @Success 200 {object} response.Data[dto.TransitionResponse] "Checked-in reservation"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/check-in [post]
// @Security ApiKeyAuth
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CheckIn", handler.service.CheckIn)
}

// CheckOut closes a stay.
// @Summary Check a guest out
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.TransitionRequest false "Departure time"
// @Success 200 {object} response.Data[dto.TransitionResponse] "Checked-out reservation"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/check-out [post]
// @Security ApiKeyAuth
func (handler *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CheckOut", handler.service.CheckOut)
}

// Cancel cancels a reservation and refunds what the cancellation policy allows.
// @Summary Cancel a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.TransitionRequest false "Cancellation time"
// @Success 200 {object} response.Data[dto.TransitionResponse] "Cancelled reservation and its outcome"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/cancel [post]
// @Security ApiKeyAuth
func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "Cancel", handler.service.Cancel)
}

// MarkNoShow closes a confirmed reservation whose guest never arrived.
// @Summary Mark a reservation as no-show
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.TransitionRequest false "Event time"
// @Success 200 {object} response.Data[dto.TransitionResponse] "No-show reservation and its outcome"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/no-show [post]
// @Security ApiKeyAuth
func (handler *Handler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "MarkNoShow", handler.service.MarkNoShow)
}

// Sweep expires stale pending reservations and marks missed arrivals as no-show.
// @Summary Run the reservation sweep
// @Tags Reservation
// @Produce json
// @Success 200 {object} response.Data[dto.SweepResponse] "Sweep counts"
// @Failure 500 {object} response.Error
// @Router /v1/reservations/sweep [post]
// @Security ApiKeyAuth
func (handler *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Sweep")
	defer scope.End()

	res, err := handler.service.Sweep(ctx, timezone.Now())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to sweep reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

type transitionFunc func(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error)

type amountFunc func(ctx context.Context, id string, req dto.AmountRequest) (dto.TransitionResponse, error)

func (handler *Handler) transition(w http.ResponseWriter, r *http.Request, name string, fn transitionFunc) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.TransitionRequest{}

	// The body is optional; without one the event happens now.
	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	res, err := fn(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msgf("failed to %s", name)

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent(name + " applied to reservation " + id + " by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

func (handler *Handler) amount(w http.ResponseWriter, r *http.Request, name string, fn amountFunc) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.AmountRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := fn(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msgf("failed to %s", name)

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent(name + " recorded on reservation " + id + " by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}
