//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"entrypass-engine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesMarkedSentinels(t *testing.T) {
	sentinel := errs.New("operation failed")
	err := errs.Mark(errs.New("store exploded"), sentinel)

	assert.True(t, errs.Is(err, sentinel))
	// Marks live outside the Unwrap chain, which is exactly why errs.Is
	// exists; the stdlib cannot see them.
	assert.False(t, errors.Is(err, sentinel))
}

func TestIsFollowsWrapChains(t *testing.T) {
	sentinel := errs.New("not found")
	err := errs.Wrap(errs.Mark(errs.New("row missing"), sentinel), "loading record")

	assert.True(t, errs.Is(err, sentinel))
	assert.True(t, errs.Is(sentinel, sentinel))
	assert.False(t, errs.Is(nil, sentinel))
}

func TestMarkWithNilErrReturnsTheSentinel(t *testing.T) {
	sentinel := errs.New("boom")
	require.Equal(t, sentinel, errs.Mark(nil, sentinel))
}
