package result

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsLoading(t *testing.T) {
	var r Result[int]
	assert.True(t, r.IsLoading())
	assert.Equal(t, StateLoading, r.State())
	assert.Equal(t, "Loading", r.String())
}

func TestSuccessAndError(t *testing.T) {
	ok := Success(42)
	v, found := ok.Get()
	assert.True(t, found)
	assert.Equal(t, 42, v)
	assert.Nil(t, ok.Err())
	assert.Equal(t, "Success(42)", ok.String())

	boom := errors.New("boom")
	failed := Error[int](boom)
	assert.True(t, failed.IsError())
	assert.ErrorIs(t, failed.Err(), boom)
	assert.Equal(t, 7, failed.ValueOr(7))
	_, found = failed.Get()
	assert.False(t, found)
}

func TestErrorRequiresCause(t *testing.T) {
	assert.Panics(t, func() { Error[int](nil) })
}

func TestMap(t *testing.T) {
	assert.Equal(t, Success("3"), Map(Success(3), strconv.Itoa))

	boom := errors.New("boom")
	mapped := Map(Error[int](boom), strconv.Itoa)
	assert.True(t, mapped.IsError())
	assert.ErrorIs(t, mapped.Err(), boom)

	assert.True(t, Map(Loading[int](), strconv.Itoa).IsLoading())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "state(9)", State(9).String())
}
