package domain

import "slices"

// TokenPair is what a successful login hands back.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Principal is the authenticated identity of one request. It is rebuilt on
// every request from the access token and never stored.
type Principal struct {
	Subject      string
	Role         Role
	Capabilities []string
}

// Can reports whether the principal holds capability.
func (p Principal) Can(capability string) bool {
	return slices.Contains(p.Capabilities, capability)
}
