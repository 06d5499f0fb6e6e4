package handler

import (
	"errors"

	"staffdesk/internal/domain"
	"staffdesk/internal/service"
	"staffdesk/internal/storage"
	"staffdesk/internal/transport/http/ez"
)

// mapErr translates service and domain errors into envelope codes so every
// endpoint surfaces the same taxonomy.
func mapErr(err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return ez.BadRequest(ve.Msg)
	case errors.Is(err, domain.ErrUserNotFound):
		return ez.NotFound("user not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return ez.Unauthorized("invalid credentials")
	case errors.Is(err, domain.ErrInactiveUser):
		return ez.Unauthorized("account is deactivated")
	case errors.Is(err, domain.ErrDuplicateUser):
		return ez.BadRequest("username or email already taken")
	case errors.Is(err, storage.ErrTooLarge):
		return ez.BadRequest("image exceeds the allowed size")
	case errors.Is(err, storage.ErrUnsupported):
		return ez.BadRequest("only .jpg and .png files are allowed")
	default:
		return ez.Internal("internal error", err)
	}
}
