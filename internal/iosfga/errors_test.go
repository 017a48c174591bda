package iosfga

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gntree/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("root cause")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
	}{
		{"fetch", FetchError("worms.zip", cause), errcode.SFGAFetchError},
		{"read", ReadError("worms.sqlite", cause), errcode.SFGAReadError},
		{"hierarchy", HierarchyError(cause), errcode.SFGAHierarchyError},
		{"enrich", EnrichError(cause), errcode.EnrichError},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.NotEmpty(t, gnErr.Msg, v.msg)
		assert.ErrorIs(t, gnErr.Err, cause, v.msg)
		assert.Contains(t, gnErr.Err.Error(), "from", v.msg)
	}
}
