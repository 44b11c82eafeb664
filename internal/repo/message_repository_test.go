package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestHandleReadErrorNeverSwallowsFailures(t *testing.T) {
	req := require.New(t)
	m := &messageRepository{logger: zap.NewNop()}

	// Every failed read must surface an error; a nil error with a nil result
	// is not a valid outcome.
	for _, err := range []error{
		mongo.ErrNoDocuments,
		context.DeadlineExceeded,
		context.Canceled,
		errors.New("connection reset"),
	} {
		req.Error(m.handleReadError(err, "conversation-1"))
	}

	req.ErrorIs(m.handleReadError(context.DeadlineExceeded, "conversation-1"), ErrOperationTimeout)
}

func TestValidateMessage(t *testing.T) {
	req := require.New(t)
	m := &messageRepository{logger: zap.NewNop()}

	req.ErrorIs(m.validateMessage(nil), ErrInvalidMessage)
}
