package handler

import (
	"net/http"
	"sync"
	_ "time/tzdata"

	"suave/config"
	"suave/di"
	"suave/shared/logger"
	transport "suave/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

// Handler serves the API from a serverless function. Dependencies are built
// on the first request and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
