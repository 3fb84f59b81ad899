package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "comments-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct {
	Value string
}

func (c pingCommand) Validate() error {
	if c.Value == "" {
		return pkgerrors.NewValidationError("value is required")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

type recordingLogger struct {
	infos  []string
	warns  []string
	errors []string
}

func (l *recordingLogger) Info(msg string, keysAndValues ...interface{}) {
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {
	l.errors = append(l.errors, msg)
}

type recordingRecorder struct {
	names []string
	errs  []error
}

func (r *recordingRecorder) RecordCommandExecution(ctx context.Context, name string, d time.Duration, err error) {
	r.names = append(r.names, name)
	r.errs = append(r.errs, err)
}

func echoHandler() CommandHandler {
	return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return "pong:" + cmd.(pingCommand).Value, nil
	})
}

func TestCommandBus_Send(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, echoHandler()))

	result, err := b.Send(context.Background(), pingCommand{Value: "a"})

	require.NoError(t, err)
	assert.Equal(t, "pong:a", result)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, echoHandler()))
	assert.Error(t, b.Register(pingCommand{}, echoHandler()))
}

func TestCommandBus_ValidationErrorKeepsType(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, echoHandler()))

	_, err := b.Send(context.Background(), pingCommand{})

	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "command validation failed")
}

func TestCommandBus_UnknownCommand(t *testing.T) {
	b := NewCommandBus()

	_, err := b.Send(context.Background(), otherCommand{})

	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCommandBus_HandlerErrorIsWrapped(t *testing.T) {
	b := NewCommandBus()
	forbidden := pkgerrors.NewForbiddenError("you can only delete your own comments").
		WithCode(pkgerrors.CodeNotAuthor)
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(
		func(ctx context.Context, cmd Command) (interface{}, error) {
			return nil, forbidden
		})))

	_, err := b.Send(context.Background(), pingCommand{Value: "x"})

	assert.True(t, pkgerrors.IsForbidden(err))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotAuthor))
}

func TestCommandBus_Middlewares(t *testing.T) {
	logger := &recordingLogger{}
	recorder := &recordingRecorder{}
	b := NewCommandBus(LoggingMiddleware(logger), MetricsMiddleware(recorder))

	fail := errors.New("boom")
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(
		func(ctx context.Context, cmd Command) (interface{}, error) {
			switch cmd.(pingCommand).Value {
			case "fail":
				return nil, fail
			case "reject":
				return nil, pkgerrors.ErrCommentNotFound(9)
			}
			return nil, nil
		})))

	_, err := b.Send(context.Background(), pingCommand{Value: "ok"})
	require.NoError(t, err)
	_, err = b.Send(context.Background(), pingCommand{Value: "fail"})
	require.ErrorIs(t, err, fail)
	_, err = b.Send(context.Background(), pingCommand{Value: "reject"})
	require.True(t, pkgerrors.IsNotFound(err))

	assert.Equal(t, []string{"Executing command", "Command succeeded", "Executing command", "Executing command"}, logger.infos)
	assert.Equal(t, []string{"Command failed"}, logger.errors)
	assert.Equal(t, []string{"Command rejected"}, logger.warns)
	assert.Equal(t, []string{"pingCommand", "pingCommand", "pingCommand"}, recorder.names)
	assert.NoError(t, recorder.errs[0])
	assert.ErrorIs(t, recorder.errs[1], fail)
}

func TestPipeline_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	handler := NewPipeline(tag("outer"), tag("inner")).Execute(echoHandler())
	_, err := handler.Handle(context.Background(), pingCommand{Value: "x"})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
