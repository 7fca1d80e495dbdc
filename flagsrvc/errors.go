package flagsrvc

import (
	"net/http"

	"github.com/defendnet/backend/srvcerror"
)

const ErrCodeFlagNotFound = "flag_not_found"

func ErrFlagNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeFlagNotFound,
		"flag not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeFlagNotActive = "flag_not_active"

func ErrFlagNotActive() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeFlagNotActive,
		"flag is not currently active",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeFlagAlreadySubmitted = "flag_already_submitted"

func ErrFlagAlreadySubmitted() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeFlagAlreadySubmitted,
		"flag already submitted for this blue team",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeTargetNotBlue = "target_team_not_blue"

func ErrTargetNotBlue() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeTargetNotBlue,
		"target team must be a blue team",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeContentRequired = "flag_content_required"

func ErrContentRequired() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContentRequired,
		"content is required",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeBadTimeWindow = "flag_bad_time_window"

func ErrBadTimeWindow() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeBadTimeWindow,
		"end_time must be after start_time",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeAmbiguousToken = "ambiguous_flag_token"

// ErrAmbiguousToken: two active flags share one token. That is a white-team
// configuration error, not a caller mistake.
func ErrAmbiguousToken() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAmbiguousToken,
		"multiple active flags share the submitted token",
	).SetHttpStatusCode(http.StatusInternalServerError)
}

func ErrIncorrectPerms() *srvcerror.Error {
	return srvcerror.ErrIncorrectPerms()
}

const ErrCodeFlagRefRequired = "flag_ref_required"

func ErrFlagRefRequired() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeFlagRefRequired,
		"flag_id or submitted flag value is required",
	).SetHttpStatusCode(http.StatusBadRequest)
}
