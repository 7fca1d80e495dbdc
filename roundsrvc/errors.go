package roundsrvc

import (
	"fmt"
	"net/http"

	"github.com/defendnet/backend/srvcerror"
)

const ErrCodeDuplicateResult = "duplicate_check_result"

func ErrDuplicateResult(serviceID, roundNumber int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeDuplicateResult,
		fmt.Sprintf("a result for service %d in round %d already exists", serviceID, roundNumber),
	).SetHttpStatusCode(http.StatusConflict)
}
