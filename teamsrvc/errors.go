package teamsrvc

import (
	"net/http"

	"github.com/defendnet/backend/srvcerror"
)

const ErrCodeTeamNotFound = "team_not_found"

func ErrTeamNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeTeamNotFound,
		"the specified team was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}
