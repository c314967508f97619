package userdirectory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-service/pkg/platform/circuit"
	"customer-service/pkg/platform/sentinel"
)

type countingDirectory struct {
	*StaticDirectory
	calls int
}

func (c *countingDirectory) GetUserByID(ctx context.Context, id int64) (*User, error) {
	c.calls++
	return c.StaticDirectory.GetUserByID(ctx, id)
}

func TestBreakerDirectory_OpensOnUnavailable(t *testing.T) {
	inner := &countingDirectory{StaticDirectory: NewStaticDirectory(User{UserID: 1, Name: "Ada"})}
	inner.FailWith(fmt.Errorf("dial: %w", sentinel.ErrUnavailable))

	now := time.Now()
	breaker := circuit.New("users", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }))
	dir := NewBreakerDirectory(inner, breaker, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := dir.GetUserByID(ctx, 1)
		require.Error(t, err)
	}
	assert.True(t, breaker.IsOpen())
	callsWhenOpened := inner.calls

	_, err := dir.GetUserByID(ctx, 1)
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Equal(t, callsWhenOpened, inner.calls, "open circuit must not reach the origin")
}

func TestBreakerDirectory_OtherErrorsDoNotTrip(t *testing.T) {
	inner := NewStaticDirectory()
	inner.FailWith(errors.New("decode response: bad json"))
	breaker := circuit.New("users", circuit.WithFailureThreshold(1))
	dir := NewBreakerDirectory(inner, breaker, nil)

	_, err := dir.GetAllUsers(context.Background())
	require.Error(t, err)
	assert.False(t, breaker.IsOpen())
}

func TestStaticDirectory(t *testing.T) {
	dir := NewStaticDirectory(User{UserID: 2, Name: "Alan"}, User{UserID: 1, Name: "Ada"})
	ctx := context.Background()

	users, err := dir.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].UserID)

	missing, err := dir.GetUserByID(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, missing)

	dir.Put(User{UserID: 3, Name: "Grace"})
	found, err := dir.GetUserByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Grace", found.Name)
}
