package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const readHeaderTimeout = 10 * time.Second

type TCPServer struct {
	addr   string
	server *http.Server
}

func NewTCPServer(addrPort string, handler http.Handler) *TCPServer {
	return &TCPServer{
		addr: addrPort,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Listen binds the address so that a port conflict is reported before the
// server is started in the background.
func (s *TCPServer) Listen() (net.Listener, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %v", s.addr)
	}
	return listener, nil
}

// Serve blocks until the server is shut down. It returns nil after
// Shutdown.
func (s *TCPServer) Serve(listener net.Listener) error {
	logrus.Infof("TCP server listening at %v", listener.Addr())

	err := s.server.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return errors.Wrap(err, "http server error")
}

func (s *TCPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
