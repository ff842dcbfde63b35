package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTCPServer(t *testing.T) {
	assert := require.New(t)

	s := NewTCPServer("127.0.0.1:0", http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte("ok"))
	}))
	listener, err := s.Listen()
	assert.NoError(err)

	served := make(chan error, 1)
	go func() {
		served <- s.Serve(listener)
	}()

	var resp *http.Response
	assert.Eventually(func() bool {
		resp, err = http.Get("http://" + listener.Addr().String() + "/")
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NoError(err)
	assert.Equal("ok", string(body))

	_, err = NewTCPServer(listener.Addr().String(), nil).Listen()
	assert.Error(err)

	assert.NoError(s.Shutdown(context.Background()))
	select {
	case err := <-served:
		assert.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
