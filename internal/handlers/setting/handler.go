package setting

import (
	"net/http"
	"strconv"

	"suave/infras/otel"
	"suave/internal/domains/setting/model/dto"
	"suave/internal/domains/setting/service"
	"suave/internal/engine/policy"
	"suave/shared/constant"
	"suave/shared/failure"
	"suave/shared/validator"
	"suave/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const paramCategory = "category"

type Handler struct {
	service service.Setting
	otel    otel.Otel
}

func New(service service.Setting, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tax-fees", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTaxFee)
		routerGroup.Get("/", handler.GetTaxFees)
		routerGroup.Patch("/{id}", handler.UpdateTaxFee)
		routerGroup.Delete("/{id}", handler.DeleteTaxFee)
	})

	router.Route("/policies", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetPolicies)
		routerGroup.Put("/{category}", handler.PutPolicy)
	})
}

// CreateTaxFee handles the creation of a hotel-wide tax or fee rule.
// @Summary Create a tax/fee rule
// @Tags Setting
// @Accept json
// @Produce json
// @Param request body dto.CreateTaxFeeRequest true "Create Tax/Fee Request"
// @Success 201 {object} response.Message "Tax/fee rule created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tax-fees [post]
// @Security ApiKeyAuth
func (handler *Handler) CreateTaxFee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTaxFee")
	defer scope.End()

	req := dto.CreateTaxFeeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.CreateTaxFee(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create tax/fee rule")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tax/fee rule created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Tax/fee rule created successfully")
}

// GetTaxFees lists every tax/fee rule, enabled or not.
// @Summary Get tax/fee rules
// @Tags Setting
// @Produce json
// @Success 200 {object} response.Data[[]dto.TaxFeeResponse] "Tax/fee rules"
// @Failure 500 {object} response.Error
// @Router /v1/tax-fees [get]
func (handler *Handler) GetTaxFees(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTaxFees")
	defer scope.End()

	rules, err := handler.service.TaxFees(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tax/fee rules")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rules)
}

// UpdateTaxFee changes a tax/fee rule. Disabling a rule keeps it out of new quotes.
// @Summary Update a tax/fee rule
// @Tags Setting
// @Accept json
// @Produce json
// @Param id path integer true "Tax/fee rule ID"
// @Param request body dto.UpdateTaxFeeRequest true "Update Tax/Fee Request"
// @Success 200 {object} response.Message "Tax/fee rule updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tax-fees/{id} [patch]
// @Security ApiKeyAuth
func (handler *Handler) UpdateTaxFee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTaxFee")
	defer scope.End()

	id, err := taxFeeID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.UpdateTaxFeeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateTaxFee(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update tax/fee rule")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Tax/fee rule updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Tax/fee rule updated successfully")
}

// DeleteTaxFee removes a tax/fee rule.
// @Summary Delete a tax/fee rule
// @Tags Setting
// @Produce json
// @Param id path integer true "Tax/fee rule ID"
// @Success 200 {object} response.Message "Tax/fee rule deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tax-fees/{id} [delete]
// @Security ApiKeyAuth
func (handler *Handler) DeleteTaxFee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTaxFee")
	defer scope.End()

	id, err := taxFeeID(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.DeleteTaxFee(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete tax/fee rule")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Tax/fee rule deleted successfully")
}

// GetPolicies returns the assembled hotel policies.
// @Summary Get hotel policies
// @Tags Setting
// @Produce json
// @Success 200 {object} response.Data[policy.Policies] "Hotel policies"
// @Failure 500 {object} response.Error
// @Router /v1/policies [get]
func (handler *Handler) GetPolicies(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPolicies")
	defer scope.End()

	policies, err := handler.service.Policies(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get policies")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, policies)
}

// PutPolicy replaces the policy block of one category.
// @Summary Replace a policy block
// @Tags Setting
// @Accept json
// @Produce json
// @Param category path string true "Policy category" Enums(cancellation, deposit, check_in, children, pets, smoking)
// @Param request body dto.PutPolicyRequest true "Policy block payload"
// @Success 200 {object} response.Message "Policy updated successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/policies/{category} [put]
// @Security ApiKeyAuth
func (handler *Handler) PutPolicy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PutPolicy")
	defer scope.End()

	category := policy.Category(chi.URLParam(r, paramCategory))
	req := dto.PutPolicyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.PutPolicy(ctx, category, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("category", string(category)).Msg("failed to put policy")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Policy " + string(category) + " updated by user " + user)

	response.WithMessage(w, http.StatusOK, "Policy updated successfully")
}

func taxFeeID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil {
		return 0, failure.BadRequestFromString("tax/fee id must be an integer") //nolint:wrapcheck
	}

	return id, nil
}
