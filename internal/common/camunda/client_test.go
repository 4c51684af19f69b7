package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/common/errors"
)

func fastRetry() *RetryConfig {
	return &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"rpc error: code = Unavailable desc = connection refused", true},
		{"context deadline exceeded", true},
		{"write: broken pipe", true},
		{"rpc error: code = NotFound desc = job not found", false},
		{"rpc error: code = InvalidArgument", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableZeebeError(fmt.Errorf("%s", tt.msg)))
		})
	}
}

func TestExecuteWithRetry_RecoversFromTransientFailure(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("connection reset by peer")
		}
		return nil
	}, "complete-job")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		return fmt.Errorf("unavailable")
	}, "complete-job")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeExternalService))
	assert.Contains(t, err.(*errors.StandardError).Details, "after 3 attempts")
}

func TestExecuteWithRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		return fmt.Errorf("job not found")
	}, "complete-job")

	assert.Equal(t, 1, calls)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func TestExecuteWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executeWithRetry(ctx, &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour},
		func(context.Context) error { return fmt.Errorf("timeout") }, "publish")

	assert.True(t, errors.HasCode(err, errors.ErrCodeTimeout))
}

func TestConfigFrom(t *testing.T) {
	cc := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", Plaintext: true, RequestTimeout: 1500})

	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cc.RequestTimeout)
	assert.Same(t, DefaultRetryConfig, cc.RetryConfig)
}
