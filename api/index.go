package handler

import (
	"net/http"
	"resort/config"
	"resort/di"
	"resort/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	handler := di.InitializeService()
	handler.ServeHTTP(w, r)
}
