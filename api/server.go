package api

import (
	"fmt"
	"html"
	"net/http"

	"github.com/sirupsen/logrus"
)

const landingPage = `<html>
<head><title>DSM Exporter</title></head>
<body>
<h1>DSM Exporter</h1>
<p>Metrics of %v</p>
<p><a href="/metrics">Metrics</a></p>
</body>
</html>
`

// CycleCounter reports the number of completed poll cycles.
type CycleCounter interface {
	Cycles() uint64
}

type Server struct {
	logger  logrus.FieldLogger
	target  string
	metrics http.Handler
	cycles  CycleCounter
}

func NewServer(logger logrus.FieldLogger, target string, metrics http.Handler, cycles CycleCounter) *Server {
	return &Server{
		logger:  logger.WithField("component", "api"),
		target:  target,
		metrics: metrics,
		cycles:  cycles,
	}
}

// Healthz answers 200 once a poll cycle has completed and 503 before.
func (s *Server) Healthz(rw http.ResponseWriter, req *http.Request) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.cycles != nil && s.cycles.Cycles() == 0 {
		rw.WriteHeader(http.StatusServiceUnavailable)
		_, _ = rw.Write([]byte("waiting for first poll\n"))
		return
	}
	_, _ = rw.Write([]byte("ok\n"))
}

func (s *Server) Landing(rw http.ResponseWriter, req *http.Request) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := fmt.Fprintf(rw, landingPage, html.EscapeString(s.target)); err != nil {
		s.logger.WithError(err).Warn("Failed to write landing page")
	}
}
