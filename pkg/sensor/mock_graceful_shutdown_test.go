package sensor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestMock_GracefulShutdown tests that the Mock sensor closes its
// samples channel when Close() is called.
func TestMock_GracefulShutdown(t *testing.T) {
	mock := NewMock(testMockConfig())
	err := mock.Connect()
	assert.NoError(t, err)

	samples := mock.Samples()

	// Read a few readings
	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range samples {
			received++
			if received >= 3 {
				// Got enough readings, now close the sensor
				mock.Close()
			}
		}
	}()

	// Wait for readings and channel closure
	select {
	case <-done:
		// Channel closed successfully
	case <-time.After(5 * time.Second):
		t.Fatal("Samples channel did not close within timeout")
	}

	// Should have received at least a few readings
	assert.GreaterOrEqual(t, received, 3, "Should receive readings before channel closes")

	// Verify channel is closed
	_, ok := <-samples
	assert.False(t, ok, "Channel should be closed")

	// Close is idempotent
	assert.NoError(t, mock.Close())
}
