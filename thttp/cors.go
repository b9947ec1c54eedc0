package thttp

import (
	"net/http"

	"github.com/gorilla/handlers"
)

var (
	allowedMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodOptions,
		http.MethodPut,
		http.MethodDelete,
	}
	allowedHeaders = []string{
		"Authorization",
		"Cache-Control",
		"Content-Type",
		"If-Modified-Since",
		"User-Agent",
		"X-Requested-With",
		"X-Trace-Id",
	}
	exposedHeaders = []string{
		"Content-Length",
		"Content-Disposition",
		"X-Trace-Id",
	}
)

// CORS is a middleware that allows cross-origin requests. The back office UI
// is usually served from a different origin than the API.
var CORS = handlers.CORS(
	handlers.AllowedMethods(allowedMethods),
	handlers.AllowedHeaders(allowedHeaders),
	handlers.ExposedHeaders(exposedHeaders),
	handlers.AllowedOrigins([]string{"*"}),
)
