package attempt_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/on-the-ground/listiter/attempt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestOf_Success(t *testing.T) {
	res := attempt.Of(func() (int, error) { return 42, nil })

	require.True(t, res.IsSuccess())
	v, err := res.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestOf_Failure(t *testing.T) {
	res := attempt.Of(func() (int, error) { return 0, errBoom })

	assert.False(t, res.IsSuccess())
	assert.ErrorIs(t, res.Err, errBoom)
	assert.Equal(t, 7, res.OrElse(7))
}

func TestOf_RecoversPanic(t *testing.T) {
	res := attempt.Of(func() (string, error) {
		panic("unexpected")
	})
	assert.ErrorIs(t, res.Err, attempt.ErrPanicked)
	assert.Contains(t, res.Err.Error(), "unexpected")

	res = attempt.Of(func() (string, error) {
		panic(errBoom)
	})
	assert.ErrorIs(t, res.Err, attempt.ErrPanicked)
	assert.ErrorIs(t, res.Err, errBoom, "panicked errors stay matchable")
}

func TestOption(t *testing.T) {
	v, ok := attempt.Success("x").Option()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	v, ok = attempt.Failure[string](errBoom).Option()
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestMapAndFlatMap(t *testing.T) {
	parse := func(s string) attempt.Result[int] {
		return attempt.From(strconv.Atoi(s))
	}

	res := attempt.FlatMap(attempt.Success("21"), parse)
	doubled := attempt.Map(res, func(n int) int { return n * 2 })
	assert.Equal(t, 42, doubled.OrElse(-1))

	res = attempt.FlatMap(attempt.Success("nope"), parse)
	assert.False(t, res.IsSuccess())

	called := false
	failed := attempt.Map(attempt.Failure[int](errBoom), func(n int) int {
		called = true
		return n
	})
	assert.False(t, called, "map must not run on failure")
	assert.ErrorIs(t, failed.Err, errBoom)
}

func TestMap_PanicBecomesFailure(t *testing.T) {
	res := attempt.Map(attempt.Success([]int{}), func(xs []int) int {
		return xs[3]
	})
	assert.ErrorIs(t, res.Err, attempt.ErrPanicked)
}

func TestRecover(t *testing.T) {
	res := attempt.Recover(attempt.Failure[int](errBoom), func(err error) (int, error) {
		if errors.Is(err, errBoom) {
			return 1, nil
		}
		return 0, err
	})
	assert.Equal(t, 1, res.OrElse(0))

	untouched := attempt.Recover(attempt.Success(5), func(error) (int, error) {
		t.Fatal("recover must not run on success")
		return 0, nil
	})
	assert.Equal(t, 5, untouched.Value)
}
