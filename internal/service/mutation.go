package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vincentFaye/dev-social-network/internal/middleware"
	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/observability"
	"github.com/vincentFaye/dev-social-network/internal/repository"
)

// DefaultMaxAttempts bounds read-apply-write cycles when no limit is configured.
const DefaultMaxAttempts = 3

// Embedded list kinds, used as metric labels.
const (
	kindProfile    = "profile"
	kindExperience = "experience"
	kindEducation  = "education"
	kindPost       = "post"
	kindLike       = "like"
	kindComment    = "comment"
	kindAccount    = "account"
)

const (
	opAppend = "append"
	opRemove = "remove"
	opUpsert = "upsert"
	opDelete = "delete"
)

// ErrConcurrentModification is returned when every attempt lost against a
// concurrent writer.
var ErrConcurrentModification = models.NewConflictError("Resource was modified concurrently, please retry")

// mutate runs attempt, a full read-apply-write cycle, until it succeeds or
// fails with anything but repository.ErrStaleVersion, at most maxAttempts
// times. It records the outcome per kind and op.
func mutate(ctx context.Context, kind, op string, maxAttempts int, attempt func(ctx context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	ctx, span := observability.StartMutationSpan(ctx, kind, op)

	var err error = ErrConcurrentModification
	attempts := 0
	for i := 1; i <= maxAttempts; i++ {
		attempts = i
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = models.NewInternalError(ctxErr)
			break
		}
		err = attempt(ctx)
		if !errors.Is(err, repository.ErrStaleVersion) {
			break
		}
		middleware.Logger.DebugContext(ctx, "stale write, retrying",
			slog.String("kind", kind),
			slog.String("op", op),
			slog.Int("attempt", i),
		)
		err = ErrConcurrentModification
	}

	result := resultOf(err)
	observability.RecordMutation(kind, op, result)
	span.SetAttributes(observability.AttrAttempts.Int(attempts))
	if result == observability.ResultError {
		observability.EndSpan(span, err)
	} else {
		span.End()
	}
	return err
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return observability.ResultOK
	case errors.Is(err, ErrConcurrentModification):
		return observability.ResultConflict
	case models.HasCode(err, models.CodeNotFound),
		models.HasCode(err, models.CodeUnauthorized),
		models.HasCode(err, models.CodeConflict),
		models.HasCode(err, models.CodeValidation):
		return observability.ResultRejected
	default:
		return observability.ResultError
	}
}

// withNotFound replaces the message of a NOT_FOUND error.
func withNotFound(err error, msg string) error {
	if models.HasCode(err, models.CodeNotFound) {
		return models.NewNotFoundError(msg)
	}
	return err
}
