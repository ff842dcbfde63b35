package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(s *Server) http.Handler {
	r := mux.NewRouter().StrictSlash(true)

	r.Methods("GET").Path("/").HandlerFunc(s.Landing)
	r.Methods("GET").Path("/metrics").Handler(s.metrics)
	r.Methods("GET").Path("/healthz").HandlerFunc(s.Healthz)

	return AccessLogMiddleware(s.logger)(r)
}
