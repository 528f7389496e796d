package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ragassistant/internal/handlers"
	"github.com/akolanti/ragassistant/internal/metrics"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var authToken string

// Init sets the bearer token every wrapped route requires. An empty token
// turns authentication off.
func Init(token string) {
	authToken = token
	if token == "" {
		logger_i.NewLogger("middleware").Warn("No auth token configured, requests are not authenticated")
	}
}

var GetHandler = Wrap(handlers.GetHandler)

var ChatHandler = Wrap(handlers.ChatHandler)
var GetChatHistoryHandler = Wrap(handlers.GetChatHistoryHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var PostIngestHandler = Wrap(handlers.PostIngestHandler)
var PostIndexHandler = Wrap(handlers.PostIndexHandler)
var PostResetHandler = Wrap(handlers.PostResetHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re
	}
	return rateLimiter(re)
}
