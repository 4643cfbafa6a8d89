package redis

import (
	"testing"

	"anonworld/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestOptionsFromConfig(t *testing.T) {
	opts := Options(&config.Config{
		RedisAddr:     "cache:6380",
		RedisPassword: "pw",
		RedisDB:       2,
		RedisPoolSize: 25,
	})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 25, opts.PoolSize)
	assert.Equal(t, 5, opts.MinIdleConns)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:operator:token:42", sessionKey(42))
}
