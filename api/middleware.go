package api

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
)

type levelWriter interface {
	WriterLevel(level logrus.Level) *io.PipeWriter
}

// AccessLogMiddleware writes one Combined Log Format line per request to
// the logger at debug level.
func AccessLogMiddleware(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.CombinedLoggingHandler(accessLogWriter(logger), next)
	}
}

func accessLogWriter(logger logrus.FieldLogger) io.Writer {
	if lw, ok := logger.(levelWriter); ok {
		return lw.WriterLevel(logrus.DebugLevel)
	}
	return logrus.StandardLogger().WriterLevel(logrus.DebugLevel)
}
