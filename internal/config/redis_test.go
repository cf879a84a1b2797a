package config

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestSetupRedis_Disabled(t *testing.T) {
	client, err := SetupRedis(context.Background(), &RedisConfig{Enabled: false}, nil)
	require.NoError(t, err)
	require.Nil(t, client)
}

func TestSetupRedis_Connects(t *testing.T) {
	rs := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	client, err := SetupRedis(context.Background(), &RedisConfig{Enabled: true, Addr: rs.Addr()}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := rs.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestSetupRedis_Unreachable(t *testing.T) {
	rs := miniredis.RunT(t)
	addr := rs.Addr()
	rs.Close()

	_, err := SetupRedis(context.Background(), &RedisConfig{Enabled: true, Addr: addr}, nil)
	require.Error(t, err)
}

func TestSetupRedis_NilConfig(t *testing.T) {
	_, err := SetupRedis(context.Background(), nil, nil)
	require.Error(t, err)
}
