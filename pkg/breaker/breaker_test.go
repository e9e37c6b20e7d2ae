package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream failed")

func failing() (any, error) { return nil, errDownstream }
func succeeding() (any, error) { return "ok", nil }

func TestRegistry_TripsAfterConsecutiveFailures(t *testing.T) {
	reg := NewRegistry(Config{
		FailureThreshold:  5,
		RecoveryTimeout:   time.Minute,
		HalfOpenSuccesses: 2,
	}, nil)

	for i := 0; i < 4; i++ {
		_, err := reg.Execute("rooms-service", failing)
		require.ErrorIs(t, err, errDownstream)
		assert.False(t, IsOpen(err))
	}

	_, err := reg.Execute("rooms-service", failing)
	require.ErrorIs(t, err, errDownstream, "fifth failure still reaches the downstream")

	_, err = reg.Execute("rooms-service", succeeding)
	assert.True(t, IsOpen(err), "open breaker rejects without calling")

	states := reg.States()
	assert.Equal(t, "open", states["rooms-service"].State)
}

func TestRegistry_RecoversThroughHalfOpen(t *testing.T) {
	reg := NewRegistry(Config{
		FailureThreshold:  2,
		RecoveryTimeout:   50 * time.Millisecond,
		HalfOpenSuccesses: 2,
	}, nil)

	reg.Execute("users-service", failing)
	reg.Execute("users-service", failing)
	_, err := reg.Execute("users-service", succeeding)
	require.True(t, IsOpen(err))

	time.Sleep(60 * time.Millisecond)

	for i := 0; i < 2; i++ {
		res, err := reg.Execute("users-service", succeeding)
		require.NoError(t, err, "half-open probe %d", i+1)
		assert.Equal(t, "ok", res)
	}

	assert.Equal(t, "closed", reg.States()["users-service"].State)
}

func TestRegistry_HalfOpenFailureReopens(t *testing.T) {
	reg := NewRegistry(Config{
		FailureThreshold:  2,
		RecoveryTimeout:   50 * time.Millisecond,
		HalfOpenSuccesses: 2,
	}, nil)

	reg.Execute("users-service", failing)
	reg.Execute("users-service", failing)
	time.Sleep(60 * time.Millisecond)

	_, err := reg.Execute("users-service", failing)
	require.ErrorIs(t, err, errDownstream)

	_, err = reg.Execute("users-service", succeeding)
	assert.True(t, IsOpen(err))
}

func TestRegistry_IsFailureClassifier(t *testing.T) {
	reg := NewRegistry(Config{
		FailureThreshold:  2,
		RecoveryTimeout:   time.Minute,
		HalfOpenSuccesses: 1,
		IsFailure: func(err error) bool {
			return !errors.Is(err, context.Canceled)
		},
	}, nil)

	for i := 0; i < 10; i++ {
		_, err := reg.Execute("rooms-service", func() (any, error) {
			return nil, context.Canceled
		})
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", reg.States()["rooms-service"].State,
		"cancellations do not count against the breaker")

	reg.Execute("rooms-service", failing)
	reg.Execute("rooms-service", failing)
	_, err := reg.Execute("rooms-service", succeeding)
	assert.True(t, IsOpen(err))
}

func TestRegistry_ExcludedErrorResetsFailureStreak(t *testing.T) {
	reg := NewRegistry(Config{
		FailureThreshold:  5,
		RecoveryTimeout:   time.Minute,
		HalfOpenSuccesses: 2,
		IsFailure: func(err error) bool {
			return !errors.Is(err, context.Canceled)
		},
	}, nil)

	canceled := func() (any, error) { return nil, context.Canceled }

	for i := 0; i < 4; i++ {
		reg.Execute("rooms-service", failing)
	}
	reg.Execute("rooms-service", canceled)
	for i := 0; i < 4; i++ {
		reg.Execute("rooms-service", failing)
	}

	assert.Equal(t, "closed", reg.States()["rooms-service"].State,
		"an excluded error counts as a success and resets the streak")
}

func TestRegistry_BreakersAreIndependent(t *testing.T) {
	reg := NewRegistry(DefaultConfig(), nil)

	for i := 0; i < 5; i++ {
		reg.Execute("rooms-service", failing)
	}
	_, err := reg.Execute("rooms-service", succeeding)
	require.True(t, IsOpen(err))

	res, err := reg.Execute("users-service", succeeding)
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestIsOpen_PlainErrors(t *testing.T) {
	assert.False(t, IsOpen(errDownstream))
	assert.False(t, IsOpen(nil))
}
