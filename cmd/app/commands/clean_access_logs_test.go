package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	httpMocks "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/http/mocks"
)

func TestRunCleanAccessLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		mockSink := &httpMocks.MockEventSink{}
		mockSink.On("Cleanup", ctx, false).Return(int64(42), nil)

		var out bytes.Buffer
		err := RunCleanAccessLogs(ctx, mockSink, logger, &out, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 42 audit record(s)")
		mockSink.AssertExpectations(t)
	})

	t.Run("dry-run", func(t *testing.T) {
		mockSink := &httpMocks.MockEventSink{}
		mockSink.On("Cleanup", ctx, true).Return(int64(42), nil)

		var out bytes.Buffer
		err := RunCleanAccessLogs(ctx, mockSink, logger, &out, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Dry-run mode: Would delete 42 audit record(s)")
	})

	t.Run("json-output", func(t *testing.T) {
		mockSink := &httpMocks.MockEventSink{}
		mockSink.On("Cleanup", ctx, false).Return(int64(0), nil)

		var out bytes.Buffer
		err := RunCleanAccessLogs(ctx, mockSink, logger, &out, false, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 0`)
	})
}
