package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextRetryDelay(t *testing.T) {
	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, 5 * time.Minute},
		{1, 30 * time.Minute},
		{2, 2 * time.Hour},
		{3, 8 * time.Hour},
		{4, 24 * time.Hour},
		{5, 24 * time.Hour},
		{17, 24 * time.Hour},
		{-1, 5 * time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NextRetryDelay(tt.retryCount), "retry_count=%d", tt.retryCount)
	}
}
