package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// respondServiceError maps service sentinel errors onto API errors.
// Anything unrecognized is logged and answered with a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	// validation
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameTooLong):
		apierrors.BadRequest(c, fmt.Sprintf("Username must be at most %d characters", constants.MaxUsernameLength))
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrDeadlineRequired),
		errors.Is(err, services.ErrAssigneeRequired):
		apierrors.RespondWithError(c, http.StatusBadRequest, apierrors.NewAPIError(apierrors.ErrCodeMissingField, err.Error()))
	case errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidSortMode),
		errors.Is(err, services.ErrNoFieldsToUpdate),
		errors.Is(err, services.ErrCommentEmpty),
		errors.Is(err, services.ErrReactionInvalid),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequest(c, err.Error())

	// authentication
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrInvalidIdentityToken),
		errors.Is(err, services.ErrIdentityEmailMissing):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInvalidToken, err.Error())

	// authorization
	case errors.Is(err, services.ErrNotResponsible):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeNotResponsible, err.Error())
	case errors.Is(err, services.ErrNotCommentOwner):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeNotOwner, err.Error())

	// missing resources
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())

	// conflicts
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeUsernameTaken, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrTaskAlreadyDone):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, services.ErrTaskChanged):
		apierrors.Conflict(c, err.Error())

	// unavailable features
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrFederatedLoginDisabled):
		apierrors.ServiceUnavailable(c, err.Error())

	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity, apierrors.NewAPIError(apierrors.ErrCodeOperationFailed, err.Error()))

	default:
		log.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		apierrors.InternalError(c, "")
	}
}
