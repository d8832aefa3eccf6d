package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/oggyb/pinmark/internal/activity"
	"github.com/oggyb/pinmark/internal/graph"
	"github.com/oggyb/pinmark/internal/repository"
	"github.com/oggyb/pinmark/internal/utils/pagination"
)

func TestMap(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{graph.ErrSelfFollow, codes.InvalidArgument},
		{fmt.Errorf("record: %w", activity.ErrTargetRequired), codes.InvalidArgument},
		{activity.ErrEmptyVerb, codes.InvalidArgument},
		{fmt.Errorf("feed: %w", pagination.ErrInvalidToken), codes.InvalidArgument},
		{repository.ErrNotFound, codes.NotFound},
		{gorm.ErrRecordNotFound, codes.NotFound},
		{repository.ErrAlreadyExists, codes.AlreadyExists},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{errors.New("disk on fire"), codes.Internal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, status.Code(Map(tc.err)), tc.err.Error())
	}
}

func TestMapKeepsStatusErrors(t *testing.T) {
	in := status.Error(codes.PermissionDenied, "nope")
	assert.Equal(t, in, Map(in))
	assert.NoError(t, Map(nil))
}
