package util

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ConvertSize parses a byte count the DSM Web API may report either as a
// JSON number or as a decimal string.
func ConvertSize(size interface{}) (int64, error) {
	switch size := size.(type) {
	case int64:
		return size, nil
	case int:
		return int64(size), nil
	case float64:
		if math.IsNaN(size) || math.IsInf(size, 0) {
			return 0, errors.Errorf("could not parse size '%v'", size)
		}
		return int64(size), nil
	case json.Number:
		return ConvertSize(size.String())
	case string:
		size = strings.TrimSpace(size)
		if size == "" {
			return 0, nil
		}
		if v, err := strconv.ParseInt(size, 10, 64); err == nil {
			return v, nil
		}
		v, err := strconv.ParseFloat(size, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "error parsing size '%s'", size)
		}
		return ConvertSize(v)
	}
	return 0, errors.Errorf("could not parse size '%v'", size)
}

func RegisterShutdownChannel(done chan struct{}) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logrus.Infof("Receive %v to exit", sig)
		close(done)
	}()
}

// NewShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func NewShutdownContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	RegisterShutdownChannel(done)
	go func() {
		defer cancel()
		select {
		case <-done:
		case <-ctx.Done():
		}
	}()
	return ctx
}
