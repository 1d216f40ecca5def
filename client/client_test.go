package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joe-loach/cambio/client"
	"github.com/joe-loach/cambio/server"
)

func TestDialCompletesHandshake(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.ServerPort = 0
	srv, err := server.New(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)
	time.Sleep(10 * time.Millisecond)

	c, err := client.Dial(srv.Addr(), nil)
	require.NoError(t, err)
	defer c.Close()

	require.NotEqual(t, c.ID().String(), "")
}
