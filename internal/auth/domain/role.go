package domain

import (
	"errors"
	"slices"
	"strings"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Capabilities checked by the authorization middleware.
const (
	CapGamesRead  = "games:read"
	CapGamesWrite = "games:write"
	CapProfile    = "profile:read"
)

var ErrUnknownRole = errors.New("domain: unknown role")

var roleCapabilities = map[Role][]string{
	RoleUser:  {CapProfile, CapGamesRead},
	RoleAdmin: {CapProfile, CapGamesRead, CapGamesWrite},
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := roleCapabilities[r]; !ok {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Capabilities returns a fresh copy of what r may do. Unknown roles get none.
func (r Role) Capabilities() []string {
	return slices.Clone(roleCapabilities[r])
}

func (r Role) String() string { return string(r) }
