package checksrvc

import (
	"fmt"
	"net/http"

	"github.com/defendnet/backend/srvcerror"
)

const ErrCodeNoAccounts = "service_has_no_accounts"

func ErrNoAccounts(serviceName string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNoAccounts,
		fmt.Sprintf("service %q has no accounts configured", serviceName),
	).SetHttpStatusCode(http.StatusInternalServerError)
}

const ErrCodeUnknownCheckType = "unknown_check_type"

func ErrUnknownCheckType(name string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnknownCheckType,
		fmt.Sprintf("check type %q is not defined", name),
	).SetHttpStatusCode(http.StatusInternalServerError)
}

const ErrCodeMissingProperty = "missing_check_property"

func ErrMissingProperty(checkName, property string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeMissingProperty,
		fmt.Sprintf("check type %q requires property %q", checkName, property),
	).SetHttpStatusCode(http.StatusInternalServerError)
}

const ErrCodeUnknownPlaceholder = "unknown_check_placeholder"

func ErrUnknownPlaceholder(checkName, placeholder string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnknownPlaceholder,
		fmt.Sprintf("check type %q references unknown placeholder %q", checkName, placeholder),
	).SetHttpStatusCode(http.StatusInternalServerError)
}
