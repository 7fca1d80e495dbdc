package scoresrvc

import (
	"net/http"

	"github.com/defendnet/backend/srvcerror"
)

const ErrCodeTargetNotBlue = "target_team_not_blue"

func ErrTargetNotBlue() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeTargetNotBlue,
		"target team must be a blue team",
	).SetHttpStatusCode(http.StatusBadRequest)
}

func ErrIncorrectPerms() *srvcerror.Error {
	return srvcerror.ErrIncorrectPerms()
}
