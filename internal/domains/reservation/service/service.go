package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Reservation=MockReservationService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"suave/config"
	"suave/infras/kafka"
	"suave/infras/otel"
	ledgerModel "suave/internal/domains/ledger/model"
	ledgerDto "suave/internal/domains/ledger/model/dto"
	ledgerRepo "suave/internal/domains/ledger/repository"
	"suave/internal/domains/reservation/model"
	"suave/internal/domains/reservation/model/dto"
	"suave/internal/domains/reservation/repository"
	roomModel "suave/internal/domains/room/model"
	roomRepo "suave/internal/domains/room/repository"
	settingService "suave/internal/domains/setting/service"
	"suave/internal/engine/booking"
	"suave/internal/engine/ledger"
	"suave/internal/engine/lifecycle"
	"suave/shared"
	"suave/shared/cache"
	"suave/shared/calendar"
	"suave/shared/constant"
	gDto "suave/shared/dto"
	"suave/shared/failure"
	"suave/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetQuote            = "reservation:quote"
	cacheGetReservation      = "reservation:get"
	cacheGetAllReservation   = "reservation:gets"
	cacheCountReservation    = "reservation:count"
	cacheGetReservationLedgr = "reservation:ledger"

	sweepBatchSize = 100
)

// errReplayed ends a transition that would change nothing. The locked
// reservation is returned as is and no event is published.
var errReplayed = errors.New("transition already applied")

type Reservation interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	Commit(ctx context.Context, req dto.CommitRequest) (dto.TransitionResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Ledger(ctx context.Context, id string) (ledgerDto.StatementResponse, error)
	Pay(ctx context.Context, id string, req dto.PaymentRequest) (dto.TransitionResponse, error)
	FailPayment(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error)
	Confirm(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error)
	CheckIn(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error)
	CheckOut(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error)
	Cancel(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error)
	MarkNoShow(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error)
	Refund(ctx context.Context, id string, req dto.AmountRequest) (dto.TransitionResponse, error)
	Payout(ctx context.Context, id string, req dto.AmountRequest) (dto.TransitionResponse, error)
	Sweep(ctx context.Context, now time.Time) (dto.SweepResponse, error)
}

// apply runs one lifecycle transition against the locked reservation and its ledger.
type apply func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error)

type serviceImpl struct {
	repo       repository.Reservation
	roomRepo   roomRepo.Room
	ruleRepo   roomRepo.PricingRule
	ledgerRepo ledgerRepo.Ledger
	setting    settingService.Setting
	kafka      kafka.Client
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	newID      func() string
}

func New(
	repo repository.Reservation,
	roomRepo roomRepo.Room,
	ruleRepo roomRepo.PricingRule,
	ledgerRepo ledgerRepo.Ledger,
	setting settingService.Setting,
	kafka kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		ruleRepo:   ruleRepo,
		ledgerRepo: ledgerRepo,
		setting:    setting,
		kafka:      kafka,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		newID:      uuid.NewString,
	}
}

// Quote prices a booking request and keeps the result for QuoteTTLSeconds so it
// can be committed unchanged.
func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if !room.Active {
		return res, failure.BadRequestFromString("room is not open for booking") // nolint:wrapcheck
	}

	catalog, err := s.setting.Catalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load hotel catalog")

		return res, fmt.Errorf("failed to load hotel catalog: %w", err)
	}

	request, err := req.ToBookingRequest(room.ToEngine(), catalog.Policies)
	if err != nil {
		return res, err
	}

	rules, err := s.ruleRepo.ActiveForStay(ctx, room.ID, request.CheckIn, request.CheckOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to get pricing rules")

		return res, fmt.Errorf("failed to get pricing rules: %w", err)
	}

	quote, err := booking.Quote(booking.Catalog{
		Room:     room.ToEngine(),
		Rules:    roomModel.ToEngineRules(rules),
		TaxFees:  catalog.TaxFees,
		Policies: catalog.Policies,
	}, request)
	if err != nil {
		log.Error().Err(err).Str("room", room.ID).Msg("failed to build quote")

		return res, err //nolint:wrapcheck
	}

	for _, warning := range quote.Warnings {
		log.Warn().Str("room", room.ID).Str("kind", warning.Kind).Msg(warning.Message)
	}

	stored := dto.StoredQuote{
		QuoteID:   s.newID(),
		Request:   request,
		Quote:     quote,
		Currency:  s.cfg.Booking.Currency,
		ExpiresAt: timezone.Now().Add(time.Duration(s.cfg.Booking.QuoteTTLSeconds) * time.Second),
	}

	if err = s.cache.Save(ctx, shared.BuildCacheKey(cacheGetQuote, stored.QuoteID), stored, s.cfg.Booking.QuoteTTLSeconds); err != nil {
		log.Error().Err(err).Msg("failed to store quote")

		return res, fmt.Errorf("failed to store quote: %w", err)
	}

	res.FromStored(stored, catalog.Policies.DepositDue(quote.GrandTotal))

	return res, nil
}

// Commit freezes a stored quote into a pending reservation. The quote is taken
// out of the cache up front and only put back if the commit fails.
// Availability is re-checked under the room's row lock, so two commits for the
// same nights cannot both succeed.
func (s *serviceImpl) Commit(ctx context.Context, req dto.CommitRequest) (res dto.TransitionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Commit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	quoteKey := shared.BuildCacheKey(cacheGetQuote, req.QuoteID)

	var stored dto.StoredQuote

	if err = s.cache.Take(ctx, quoteKey, &stored); err != nil {
		if errors.Is(err, cache.Nil) {
			return res, failure.NotFound("quote not found or expired") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to read quote")

		return res, fmt.Errorf("failed to read quote: %w", err)
	}

	catalog, err := s.setting.Catalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load hotel catalog")

		s.restoreQuote(ctx, quoteKey, stored)

		return res, fmt.Errorf("failed to load hotel catalog: %w", err)
	}

	var capture *lifecycle.Capture

	if req.Payment != nil {
		c := req.Payment.ToCapture()
		capture = &c
	}

	machine := lifecycle.New(catalog.Policies).WithIDs(s.newID)
	now := timezone.Now()

	var (
		tr  lifecycle.Transition
		row model.Reservation
	)

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		room, err := s.roomRepo.LockTx(ctx, tx, stored.Request.RoomID)
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		if !room.Active {
			return failure.BadRequestFromString("room is not open for booking") // nolint:wrapcheck
		}

		overlaps, err := s.repo.OverlapsTx(ctx, tx, room.ID, stored.Request.CheckIn, stored.Request.CheckOut)
		if err != nil {
			return fmt.Errorf("failed to check availability: %w", err)
		}

		if overlaps {
			return failure.Conflict("room is already booked for some of these nights") // nolint:wrapcheck
		}

		tr, err = machine.Create(lifecycle.CreateInput{
			ID:        s.newID(),
			RoomID:    room.ID,
			GuestRef:  req.GuestRef,
			CheckIn:   stored.Request.CheckIn,
			CheckOut:  stored.Request.CheckOut,
			Quote:     stored.Quote,
			CreatedAt: now,
			Capture:   capture,
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		row = model.FromEngine(tr.Reservation, stored.Currency, user)

		if err := s.repo.InsertTx(ctx, tx, row); err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}

		return s.appendEntries(ctx, tx, tr.Entries, user)
	})
	if err != nil {
		log.Error().Err(err).Str("quote", req.QuoteID).Msg("failed to commit reservation")

		s.restoreQuote(ctx, quoteKey, stored)

		return res, err //nolint:wrapcheck
	}

	s.afterCommit(ctx, model.EventCreated, lifecycle.Reservation{}, tr, now)

	res.FromTransition(row, tr)

	return res, nil
}

// restoreQuote puts a taken quote back for whatever validity it has left so a
// failed commit can be retried.
func (s *serviceImpl) restoreQuote(ctx context.Context, key string, stored dto.StoredQuote) {
	ttl := int(stored.ExpiresAt.Sub(timezone.Now()).Seconds())
	if ttl <= 0 {
		return
	}

	if err := s.cache.Save(context.WithoutCancel(ctx), key, stored, ttl); err != nil {
		log.Error().Err(err).Str("quote", stored.QuoteID).Msg("failed to restore quote")
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

// Ledger returns the reservation's entries and the balance derived from them.
func (s *serviceImpl) Ledger(ctx context.Context, id string) (res ledgerDto.StatementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Ledger")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetReservationLedgr, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation ledger")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName), model.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	entries, err := s.ledgerRepo.ByReservation(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get ledger entries")

		return res, fmt.Errorf("failed to get ledger entries: %w", err)
	}

	res.FromModels(id, entries)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation ledger to cache")
		}
	}()

	return res, nil
}

// Pay records a captured payment. A capture whose reference was already
// recorded is acknowledged without a second entry.
func (s *serviceImpl) Pay(ctx context.Context, id string, req dto.PaymentRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Pay")
	defer scope.End()

	at := timezone.Now()

	res, err := s.transition(ctx, id, model.EventPaymentRecorded, at, func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error) {
		if recorded(entries, req.Reference) {
			return lifecycle.Transition{}, errReplayed
		}

		return m.RecordPayment(r, entries, req.ToCapture(), at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

func (s *serviceImpl) FailPayment(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FailPayment")
	defer scope.End()

	at := req.Time()

	res, err := s.transition(ctx, id, model.EventPaymentFailed, at, func(m *lifecycle.Machine, r lifecycle.Reservation, _ []ledger.Entry) (lifecycle.Transition, error) {
		return m.FailPayment(r, at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

func (s *serviceImpl) Confirm(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()

	at := req.Time()

	res, err := s.transition(ctx, id, model.EventConfirmed, at, func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error) {
		return m.Confirm(r, entries, at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()

	at := req.Time()

	res, err := s.transition(ctx, id, model.EventCheckedIn, at, func(m *lifecycle.Machine, r lifecycle.Reservation, _ []ledger.Entry) (lifecycle.Transition, error) {
		return m.CheckIn(r, at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()

	at := req.Time()

	res, err := s.transition(ctx, id, model.EventCheckedOut, at, func(m *lifecycle.Machine, r lifecycle.Reservation, _ []ledger.Entry) (lifecycle.Transition, error) {
		return m.CheckOut(r, at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()

	at := req.Time()

	res, err := s.transition(ctx, id, model.EventCancelled, at, func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error) {
		return m.Cancel(r, entries, at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

func (s *serviceImpl) MarkNoShow(ctx context.Context, id string, req dto.TransitionRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkNoShow")
	defer scope.End()

	at := req.Time()

	res, err := s.transition(ctx, id, model.EventNoShow, at, func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error) {
		return m.MarkNoShow(r, entries, at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

func (s *serviceImpl) Refund(ctx context.Context, id string, req dto.AmountRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refund")
	defer scope.End()

	at := timezone.Now()

	res, err := s.transition(ctx, id, model.EventRefunded, at, func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error) {
		return m.Refund(r, entries, req.Amount, req.Reference, at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

func (s *serviceImpl) Payout(ctx context.Context, id string, req dto.AmountRequest) (dto.TransitionResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Payout")
	defer scope.End()

	at := timezone.Now()

	res, err := s.transition(ctx, id, model.EventPaidOut, at, func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error) {
		return m.Payout(r, entries, req.Amount, req.Reference, at) //nolint:wrapcheck
	})
	scope.TraceIfError(err)

	return res, err
}

// Sweep cancels unpaid pending reservations older than PendingExpiryMinutes and
// marks confirmed reservations whose arrival day has passed as no-shows. One
// failing reservation does not stop the rest.
func (s *serviceImpl) Sweep(ctx context.Context, now time.Time) (res dto.SweepResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Sweep")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if s.cfg.Booking.PendingExpiryMinutes > 0 {
		cutoff := now.Add(-time.Duration(s.cfg.Booking.PendingExpiryMinutes) * time.Minute)

		stale, err := s.repo.StalePending(ctx, cutoff, sweepBatchSize)
		if err != nil {
			log.Error().Err(err).Msg("failed to list stale pending reservations")

			return res, fmt.Errorf("failed to list stale pending reservations: %w", err)
		}

		for _, r := range stale {
			_, err := s.transition(ctx, r.ID, model.EventCancelled, now, func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error) {
				return m.Cancel(r, entries, now) //nolint:wrapcheck
			})
			if err != nil {
				log.Warn().Err(err).Str("reservation", r.ID).Msg("failed to expire pending reservation")

				res.Failed++

				continue
			}

			res.Expired++
		}
	}

	today := calendar.Day(now.In(timezone.Load(s.cfg.Booking.HotelTimezone)))

	missed, err := s.repo.MissedArrivals(ctx, today, sweepBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to list missed arrivals")

		return res, fmt.Errorf("failed to list missed arrivals: %w", err)
	}

	for _, r := range missed {
		_, err := s.transition(ctx, r.ID, model.EventNoShow, now, func(m *lifecycle.Machine, r lifecycle.Reservation, entries []ledger.Entry) (lifecycle.Transition, error) {
			return m.MarkNoShow(r, entries, now) //nolint:wrapcheck
		})
		if err != nil {
			log.Warn().Err(err).Str("reservation", r.ID).Msg("failed to mark no-show")

			res.Failed++

			continue
		}

		res.NoShows++
	}

	log.Info().Int("expired", res.Expired).Int("no_shows", res.NoShows).Int("failed", res.Failed).Msg("sweep finished")

	return res, nil
}

// transition locks the reservation, applies fn to it and its ledger, and writes
// the new state and entries in the same transaction.
func (s *serviceImpl) transition(ctx context.Context, id, eventType string, at time.Time, fn apply) (res dto.TransitionResponse, err error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	catalog, err := s.setting.Catalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load hotel catalog")

		return res, fmt.Errorf("failed to load hotel catalog: %w", err)
	}

	machine := lifecycle.New(catalog.Policies).WithIDs(s.newID)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var (
		before   lifecycle.Reservation
		tr       lifecycle.Transition
		row      model.Reservation
		replayed bool
	)

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to lock reservation: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("reservation not found") // nolint:wrapcheck
		}

		entries, err := s.ledgerRepo.ByReservationTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to get ledger entries: %w", err)
		}

		before = current.ToEngine()

		tr, err = fn(machine, before, ledgerModel.ToEngineEntries(entries))
		if errors.Is(err, errReplayed) {
			replayed = true
			tr = lifecycle.Transition{Reservation: before}
			row = current

			return nil
		}

		if err != nil {
			return err
		}

		modifiedAt := timezone.Now()

		if err := s.repo.UpdateTx(ctx, tx, model.TransitionFields(tr.Reservation, user, modifiedAt), filter); err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}

		row = model.FromEngine(tr.Reservation, current.Currency, current.CreatedBy)
		row.Metadata = current.Metadata
		row.ModifiedAt = modifiedAt
		row.ModifiedBy = user

		return s.appendEntries(ctx, tx, tr.Entries, user)
	})
	if err != nil {
		log.Error().Err(err).Str("reservation", id).Str("event", eventType).Msg("reservation transition failed")

		return res, err //nolint:wrapcheck
	}

	if replayed {
		log.Info().Str("reservation", id).Str("event", eventType).Msg("transition already applied, nothing to do")

		res.FromTransition(row, tr)

		return res, nil
	}

	s.afterCommit(ctx, eventType, before, tr, at)

	res.FromTransition(row, tr)

	return res, nil
}

func (s *serviceImpl) appendEntries(ctx context.Context, tx *sqlx.Tx, entries []ledger.Entry, user string) error {
	if len(entries) == 0 {
		return nil
	}

	if err := s.ledgerRepo.InsertBulkTx(ctx, tx, ledgerModel.FromEngineEntries(entries, user)); err != nil {
		return fmt.Errorf("failed to append ledger entries: %w", err)
	}

	return nil
}

// afterCommit publishes the transition and drops cached reads of the reservation.
// Both run detached from the request; failures are logged only.
func (s *serviceImpl) afterCommit(ctx context.Context, eventType string, before lifecycle.Reservation, tr lifecycle.Transition, at time.Time) {
	after := tr.Reservation

	messages := []kafka.Message{{Key: after.ID, Value: model.NewEvent(eventType, after, at)}}
	if eventType != model.EventConfirmed && before.Status != after.Status && after.Status == lifecycle.StatusConfirmed {
		messages = append(messages, kafka.Message{Key: after.ID, Value: model.NewEvent(model.EventConfirmed, after, at)})
	}

	entries := make([]kafka.Message, len(tr.Entries))
	for i, entry := range tr.Entries {
		entries[i] = kafka.Message{Key: entry.ReservationID, Value: entry}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Reservation, messages...); err != nil {
			log.Error().Err(err).Str("reservation", after.ID).Msg("failed to publish reservation event")
		}

		if len(entries) > 0 {
			if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Ledger, entries...); err != nil {
				log.Error().Err(err).Str("reservation", after.ID).Msg("failed to publish ledger entries")
			}
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, after.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservationLedgr, after.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation ledger from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func recorded(entries []ledger.Entry, reference string) bool {
	if reference == constant.Empty {
		return false
	}

	for _, entry := range entries {
		if entry.Kind == ledger.KindPayment && entry.Reference == reference {
			return true
		}
	}

	return false
}
