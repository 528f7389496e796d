package utils

import (
	"net/http"

	_ "github.com/akolanti/ragassistant/cmd/api/docs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/http-swagger"
)

func GetNewUUID() string {
	return uuid.New().String()
}

func GetChiURLParam(request *http.Request, key string) string {
	return chi.URLParam(request, key)
}

// NewRouter builds a router with the docs and the prometheus scrape endpoint
// mounted. API routes are added by the caller.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	mountSwagger(r)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func mountSwagger(r chi.Router) {
	r.Get("/swagger", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
