package checksrvc

import (
	"strconv"
	"strings"

	"github.com/defendnet/backend/teamsrvc"
)

// Command builds the argv for one invocation of this check type against a
// service, substituting host, port, declared properties and credential
// fields into the definition's positional slots. An argument of the form
// {name} is a placeholder; anything else is passed through verbatim.
func (ct CheckType) Command(svc teamsrvc.Service, acct teamsrvc.Account) (string, []string, error) {
	for _, prop := range ct.RequiredProperties {
		if _, ok := svc.Properties[prop]; !ok {
			return "", nil, ErrMissingProperty(ct.Name, prop)
		}
	}

	args := make([]string, 0, len(ct.Args))
	for _, arg := range ct.Args {
		if !strings.HasPrefix(arg, "{") || !strings.HasSuffix(arg, "}") {
			args = append(args, arg)
			continue
		}
		name := arg[1 : len(arg)-1]
		switch name {
		case "host":
			args = append(args, svc.Host)
		case "port":
			args = append(args, strconv.Itoa(svc.Port))
		case "username":
			args = append(args, acct.Username)
		case "password":
			args = append(args, acct.Password)
		default:
			value, ok := svc.Properties[name]
			if !ok {
				return "", nil, ErrUnknownPlaceholder(ct.Name, name)
			}
			args = append(args, value)
		}
	}
	return ct.Program, args, nil
}
