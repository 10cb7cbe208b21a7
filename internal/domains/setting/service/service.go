package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"suave/config"
	"suave/infras/otel"
	"suave/internal/domains/setting/model"
	"suave/internal/domains/setting/model/dto"
	"suave/internal/domains/setting/repository"
	"suave/internal/engine/charge"
	"suave/internal/engine/policy"
	"suave/shared"
	"suave/shared/cache"
	"suave/shared/constant"
	gDto "suave/shared/dto"
	"suave/shared/failure"
	"suave/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCatalog = "setting:catalog"
)

type Setting interface {
	CreateTaxFee(ctx context.Context, req dto.CreateTaxFeeRequest) error
	TaxFees(ctx context.Context) ([]dto.TaxFeeResponse, error)
	UpdateTaxFee(ctx context.Context, req dto.UpdateTaxFeeRequest, id int64) error
	DeleteTaxFee(ctx context.Context, id int64) error
	Policies(ctx context.Context) (policy.Policies, error)
	PutPolicy(ctx context.Context, category policy.Category, req dto.PutPolicyRequest) error
	Catalog(ctx context.Context) (dto.Catalog, error)
}

type serviceImpl struct {
	taxFeeRepo repository.TaxFee
	policyRepo repository.PolicyBlock
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(taxFeeRepo repository.TaxFee, policyRepo repository.PolicyBlock, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Setting {
	return &serviceImpl{
		taxFeeRepo: taxFeeRepo,
		policyRepo: policyRepo,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) CreateTaxFee(ctx context.Context, req dto.CreateTaxFeeRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateTaxFee")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.taxFeeRepo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create tax/fee rule")

		return fmt.Errorf("failed to create tax/fee rule: %w", err)
	}

	s.invalidateCatalog(ctx)

	return nil
}

func (s *serviceImpl) TaxFees(ctx context.Context) (res []dto.TaxFeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TaxFees")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rules, err := s.taxFeeRepo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldID, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get tax/fee rules")

		return nil, fmt.Errorf("failed to get tax/fee rules: %w", err)
	}

	return dto.FromTaxFees(rules), nil
}

func (s *serviceImpl) UpdateTaxFee(ctx context.Context, req dto.UpdateTaxFeeRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateTaxFee")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(strconv.FormatInt(id, 10), model.FieldID, model.TaxFeeTableName)

	if req.Value != nil && req.Value.IsNegative() {
		return failure.BadRequestFromString("value must not be negative") // nolint:wrapcheck
	}

	exist, err := s.taxFeeRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check tax/fee rule existence")

		return fmt.Errorf("failed to check tax/fee rule existence: %w", err)
	}

	if !exist {
		return failure.NotFound("tax/fee rule not found") // nolint:wrapcheck
	}

	if err = s.taxFeeRepo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update tax/fee rule")

		return fmt.Errorf("failed to update tax/fee rule: %w", err)
	}

	s.invalidateCatalog(ctx)

	return nil
}

func (s *serviceImpl) DeleteTaxFee(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteTaxFee")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(strconv.FormatInt(id, 10), model.FieldID, model.TaxFeeTableName)

	exist, err := s.taxFeeRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check tax/fee rule existence")

		return fmt.Errorf("failed to check tax/fee rule existence: %w", err)
	}

	if !exist {
		return failure.NotFound("tax/fee rule not found") // nolint:wrapcheck
	}

	if err = s.taxFeeRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete tax/fee rule")

		return fmt.Errorf("failed to delete tax/fee rule: %w", err)
	}

	s.invalidateCatalog(ctx)

	return nil
}

func (s *serviceImpl) Policies(ctx context.Context) (res policy.Policies, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Policies")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	catalog, err := s.Catalog(ctx)
	if err != nil {
		return res, err
	}

	return catalog.Policies, nil
}

// PutPolicy validates payload against the category schema and replaces the stored block.
func (s *serviceImpl) PutPolicy(ctx context.Context, category policy.Category, req dto.PutPolicyRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PutPolicy")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err = policy.DecodeBlock(category, req.Payload); err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("invalid policy block")

		return failure.BadRequest(err) // nolint:wrapcheck
	}

	filter := shared.FilterByID(string(category), model.FieldCategory, model.PolicyBlockTableName)

	exist, err := s.policyRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check policy block existence")

		return fmt.Errorf("failed to check policy block existence: %w", err)
	}

	block := model.PolicyBlock{Category: string(category), Payload: []byte(req.Payload)}

	if exist {
		err = s.policyRepo.Update(ctx, map[string]any{
			model.FieldPayload:       block.Payload,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, filter)
	} else {
		block.CreatedAt = timezone.Now()
		block.ModifiedAt = block.CreatedAt
		block.CreatedBy = user
		block.ModifiedBy = user

		err = s.policyRepo.Insert(ctx, block)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to save policy block")

		return fmt.Errorf("failed to save policy block: %w", err)
	}

	s.invalidateCatalog(ctx)

	return nil
}

// Catalog loads the tax/fee rules and the assembled policy set.
func (s *serviceImpl) Catalog(ctx context.Context) (res dto.Catalog, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Catalog")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	loc := s.hotelLocation()

	err = s.cache.Get(ctx, cacheGetCatalog, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheGetCatalog).Msg("cache hit for catalog")

		res.Policies.Location = loc

		return res, nil
	}

	rules, err := s.taxFeeRepo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldID, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get tax/fee rules")

		return res, fmt.Errorf("failed to get tax/fee rules: %w", err)
	}

	rows, err := s.policyRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get policy blocks")

		return res, fmt.Errorf("failed to get policy blocks: %w", err)
	}

	blocks := make([]policy.PolicyBlock, 0, len(rows))
	for _, row := range rows {
		block, err := policy.DecodeBlock(policy.Category(row.Category), row.Payload)
		if err != nil {
			log.Error().Err(err).Str("category", row.Category).Msg("stored policy block is invalid")

			return res, failure.InternalError(err) // nolint:wrapcheck
		}

		blocks = append(blocks, block)
	}

	policies, err := policy.Assemble(loc, blocks...)
	if err != nil {
		log.Error().Err(err).Msg("hotel policies are incomplete")

		return res, failure.InternalError(err) // nolint:wrapcheck
	}

	res.TaxFees = make([]charge.TaxFeeRule, len(rules))
	for i, rule := range rules {
		res.TaxFees[i] = rule.ToEngine()
	}

	res.Policies = policies

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheGetCatalog, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save catalog to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) hotelLocation() *time.Location {
	return timezone.Load(s.cfg.Booking.HotelTimezone)
}

func (s *serviceImpl) invalidateCatalog(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, cacheGetCatalog); err != nil {
			log.Error().Err(err).Msg("failed to delete catalog from cache")
		}
	}()
}
