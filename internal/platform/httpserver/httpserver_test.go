package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackhub/internal/platform/config"
)

func TestNew(t *testing.T) {
	cfg := config.Server{Addr: ":9090", ShutdownTimeout: time.Second}

	srv := New(cfg, http.NewServeMux())

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
	require.NoError(t, Shutdown(srv, cfg))
}
