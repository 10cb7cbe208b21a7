package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"unicode/utf8"

	"suave/config"
	"suave/infras/otel"
	"suave/shared/constant"
	"suave/shared/failure"
	"suave/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	sourceClient   = "client"
	sourceInternal = "internal"

	maxOperatorLength = 100
)

// Operator attributes requests to whoever made them. Attribution feeds the
// created_by/modified_by columns and ledger entries; it is not authentication.
type Operator interface {
	APIKey(next http.Handler) http.Handler
	Attribute(next http.Handler) http.Handler
}

type operatorImpl struct {
	otel otel.Otel
	cfg  *config.Config
}

func NewOperatorMiddleware(otel otel.Otel, cfg *config.Config) Operator {
	return &operatorImpl{
		otel: otel,
		cfg:  cfg,
	}
}

// APIKey marks calls from other services. A request without a key is a
// client call; a request with a wrong key is rejected.
func (m *operatorImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := r.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == constant.Empty || m.cfg.App.APIKey == constant.Empty {
			scope.SetAttribute("http.source", sourceClient)
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.App.APIKey)) != 1 {
			err := failure.Forbidden("invalid api key")

			scope.TraceError(err)
			scope.End()
			response.WithError(w, err)

			return
		}

		scope.SetAttribute("http.source", sourceInternal)
		scope.End()
		next.ServeHTTP(w, r)
	})
}

// Attribute puts the operator id into the request context. Requests without
// one are recorded as guest.
func (m *operatorImpl) Attribute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := r.Header.Get(constant.RequestHeaderOperatorID)
		if operator == constant.Empty {
			operator = constant.ContextGuest
		}

		if length := utf8.RuneCountInString(operator); length > maxOperatorLength {
			log.Warn().Int("length", length).Msg("operator id truncated")
			operator = string([]rune(operator)[:maxOperatorLength])
		}

		ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, operator)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
