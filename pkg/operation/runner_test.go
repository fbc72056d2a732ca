package operation

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type mockOperation struct {
	mock.Mock
}

func (m *mockOperation) Execute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newMockOperation(t *testing.T, err error) *mockOperation {
	t.Helper()
	m := &mockOperation{}
	m.On("Execute", mock.Anything).Return(err)
	return m
}

func TestRunnerSequential(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("runs_all_in_order", func(t *testing.T) {
		var order []int
		ops := make([]Operation, 0, 3)
		for i := 0; i < 3; i++ {
			m := &mockOperation{}
			m.On("Execute", mock.Anything).Run(func(mock.Arguments) { order = append(order, i) }).Return(nil)
			ops = append(ops, m)
		}

		require.NoError(t, NewRunner(nil, 1).RunAll(context.Background(), ops))
		assert.Equal(t, []int{0, 1, 2}, order)
	})

	t.Run("stops_at_first_failure", func(t *testing.T) {
		first := newMockOperation(t, nil)
		failing := newMockOperation(t, errBoom)
		never := newMockOperation(t, nil)

		err := NewRunner(nil, 1).RunAll(context.Background(), []Operation{first, failing, never})
		require.ErrorIs(t, err, errBoom)

		first.AssertNumberOfCalls(t, "Execute", 1)
		failing.AssertNumberOfCalls(t, "Execute", 1)
		never.AssertNotCalled(t, "Execute", mock.Anything)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		never := newMockOperation(t, nil)
		err := NewRunner(nil, 1).RunAll(ctx, []Operation{never})
		require.ErrorIs(t, err, context.Canceled)
		never.AssertNotCalled(t, "Execute", mock.Anything)
	})
}

func TestRunnerParallel(t *testing.T) {
	t.Run("runs_all", func(t *testing.T) {
		var calls atomic.Int32
		ops := make([]Operation, 0, 20)
		for i := 0; i < 20; i++ {
			m := &mockOperation{}
			m.On("Execute", mock.Anything).Run(func(mock.Arguments) { calls.Add(1) }).Return(nil)
			ops = append(ops, m)
		}

		require.NoError(t, NewRunner(nil, 4).RunAll(context.Background(), ops))
		assert.Equal(t, int32(20), calls.Load())
	})

	t.Run("returns_failure", func(t *testing.T) {
		errBoom := errors.New("boom")
		ops := []Operation{newMockOperation(t, errBoom)}
		for i := 0; i < 10; i++ {
			m := &mockOperation{}
			m.On("Execute", mock.Anything).Return(nil).Maybe()
			ops = append(ops, m)
		}

		err := NewRunner(nil, 2).RunAll(context.Background(), ops)
		require.ErrorIs(t, err, errBoom)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		never := newMockOperation(t, nil)
		err := NewRunner(nil, 3).RunAll(ctx, []Operation{never})
		require.ErrorIs(t, err, context.Canceled)
		never.AssertNotCalled(t, "Execute", mock.Anything)
	})
}

func TestNewRunnerClampsJobs(t *testing.T) {
	assert.Equal(t, 1, NewRunner(nil, 0).jobs)
	assert.Equal(t, 1, NewRunner(nil, -3).jobs)
	assert.Equal(t, 8, NewRunner(nil, 8).jobs)
}
