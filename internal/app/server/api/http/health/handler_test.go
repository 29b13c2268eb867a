package health

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name             string
		pingErr          error
		expectedStatus   string
		expectedUpstream string
		expectedError    string
	}{
		{
			name:             "health check returns OK",
			expectedStatus:   "OK",
			expectedUpstream: "OK",
		},
		{
			name:             "upstream down keeps frontend OK",
			pingErr:          errors.New("connection refused"),
			expectedStatus:   "OK",
			expectedUpstream: "UNAVAILABLE",
			expectedError:    "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			pinger := new(MockPinger)
			pinger.On("HealthCheck", mock.Anything).Return(tt.pingErr)
			handler := NewHandler(pinger, slog.Default(), huma.Middlewares{})

			// Act
			output, err := handler.healthCheck(context.Background(), &Input{})

			// Assert
			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedStatus, output.Body.Status)
			assert.Equal(t, tt.expectedUpstream, output.Body.Upstream)
			assert.Equal(t, tt.expectedError, output.Body.Error)
			pinger.AssertExpectations(t)
		})
	}
}

func TestHandler_healthCheck_NoUpstream(t *testing.T) {
	handler := NewHandler(nil, slog.Default(), huma.Middlewares{})

	output, err := handler.healthCheck(context.Background(), &Input{})

	assert.NoError(t, err)
	assert.Equal(t, "OK", output.Body.Upstream)
}

func TestNewHandler(t *testing.T) {
	// Arrange
	log := slog.Default()
	middleware := huma.Middlewares{}

	// Act
	handler := NewHandler(nil, log, middleware)

	// Assert
	assert.NotNil(t, handler)
	assert.NotNil(t, handler.log)
	assert.NotNil(t, handler.middleware)
}
