package jwtx

// Validator answers yes/no questions about a token. Decoding and signature
// failures come back as errors so callers can tell "not valid" apart from
// "not a token".
type Validator struct {
	Codec *Codec
}

// NewValidator returns a validator sharing codec's clock.
func NewValidator(codec *Codec) *Validator {
	return &Validator{Codec: codec}
}

// IsExpired reports whether token is at or past its exp.
func (v *Validator) IsExpired(token string, key []byte) (bool, error) {
	claims, err := v.Codec.Parse(token, key)
	if err != nil {
		return false, err
	}
	return v.Expired(claims), nil
}

// SubjectMatches reports whether token was issued to subject. Comparison is
// exact, no case folding.
func (v *Validator) SubjectMatches(token string, key []byte, subject string) (bool, error) {
	claims, err := v.Codec.Parse(token, key)
	if err != nil {
		return false, err
	}
	return claims.Subject == subject, nil
}

// Validate reports whether token belongs to subject and is still live.
func (v *Validator) Validate(token string, key []byte, subject string) (bool, error) {
	claims, err := v.Codec.Parse(token, key)
	if err != nil {
		return false, err
	}
	return claims.Subject == subject && !v.Expired(claims), nil
}

// Expired applies the expiry rule to already parsed claims.
func (v *Validator) Expired(claims Claims) bool {
	return claims.ExpiredAt(v.Codec.Now())
}
