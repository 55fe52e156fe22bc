package notification

import (
	"context"
	"errors"
	"testing"

	"shilajit-be/internal/logger"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	intent := sampleIntent(KindOrderConfirmation)

	t.Run("Recorded", func(t *testing.T) {
		outbox := new(MockOutbox)
		outbox.On("Enqueue", ctx, intent).Return(nil)

		assert.True(t, Dispatch(ctx, outbox, intent))
		outbox.AssertExpectations(t)
	})

	t.Run("Failure is logged and swallowed", func(t *testing.T) {
		core, observed := observer.New(zapcore.ErrorLevel)
		restore := logger.Replace(zap.New(core))
		defer restore()

		outbox := new(MockOutbox)
		outbox.On("Enqueue", ctx, intent).Return(errors.New("db down"))

		assert.False(t, Dispatch(ctx, outbox, intent))
		assert.Equal(t, 1, observed.FilterMessage("failed to record notification").Len())
	})

	t.Run("Nil recorder", func(t *testing.T) {
		assert.False(t, Dispatch(ctx, nil, intent))
	})
}
