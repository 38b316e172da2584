package domain

import "errors"

// Role is a closed set of ministry privilege levels ordered from most to
// least privileged: admin > pastor > leader > co_leader.
type Role string

const (
	RoleAdmin    Role = "admin"
	RolePastor   Role = "pastor"
	RoleLeader   Role = "leader"
	RoleCoLeader Role = "co_leader"
)

// ErrInvalidRole reports a role string outside the known hierarchy. It is
// returned wherever untrusted role values enter the system (HTTP requests,
// stored rows).
var ErrInvalidRole = errors.New("domain: invalid role")

// roleRank maps each role to its position in the hierarchy. Higher rank
// means more privilege.
var roleRank = map[Role]int{
	RoleCoLeader: 1,
	RoleLeader:   2,
	RolePastor:   3,
	RoleAdmin:    4,
}

// Roles lists the hierarchy from most to least privileged.
func Roles() []Role {
	return []Role{RoleAdmin, RolePastor, RoleLeader, RoleCoLeader}
}

// ParseRole validates an untrusted role string against the hierarchy.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether the role is a member of the hierarchy.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the privilege of required.
// Reflexive and transitive over the fixed total order. Unknown roles never
// satisfy any requirement.
func (r Role) AtLeast(required Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	req, ok := roleRank[required]
	if !ok {
		return false
	}
	return rr >= req
}

// Above reports whether r is strictly more privileged than other. Invitation
// policy is built on this: an issuer may only grant roles strictly below
// their own.
func (r Role) Above(other Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	or, ok := roleRank[other]
	if !ok {
		return false
	}
	return rr > or
}

func (r Role) String() string { return string(r) }
