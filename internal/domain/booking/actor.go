package booking

type Privilege int

const (
	PrivilegeOrdinary Privilege = iota
	PrivilegeAdmin
)

// Actor is the caller as seen by the authorization context.
type Actor struct {
	ID        string
	Privilege Privilege
}

func (a Actor) Elevated() bool {
	return a.Privilege == PrivilegeAdmin
}

func PrivilegeForRole(role string) Privilege {
	switch role {
	case "admin", "owner":
		return PrivilegeAdmin
	default:
		return PrivilegeOrdinary
	}
}
