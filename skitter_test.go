package skitter_test

import (
	"errors"
	"testing"

	"github.com/skitterio/skitter"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := skitter.Errorf(skitter.ECONFIG, "%q is not a valid filter key", "domain__within")

	assert.Equal(t, skitter.ECONFIG, skitter.ErrorCode(err))
	assert.Equal(t, "\"domain__within\" is not a valid filter key", skitter.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, skitter.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, skitter.EINTERNAL, skitter.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, skitter.ErrorMessage(nil))
}
