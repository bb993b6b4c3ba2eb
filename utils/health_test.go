package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckHealth(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("down") })

	testCases := []struct {
		name           string
		mongo, redis   Pinger
		expectedStatus string
	}{
		{name: "all_up", mongo: up, redis: up, expectedStatus: "ok"},
		{name: "redis_down", mongo: up, redis: down, expectedStatus: "degraded"},
		{name: "mongo_down", mongo: down, redis: up, expectedStatus: "degraded"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status := CheckHealth(context.Background(), tc.mongo, tc.redis)
			assert.Equal(t, tc.expectedStatus, status.Status())
			assert.Equal(t, status, GetHealthStatus())
			assert.False(t, status.CheckedAt.IsZero())
		})
	}
}
