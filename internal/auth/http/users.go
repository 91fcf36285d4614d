package http

import (
	"net/http"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/service"
	"github.com/aussiebroadwan/ticketcheater/pkg/httpx"
)

type UsersHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// HandleSignup creates an account.
//
//	@Summary		Sign up
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignupRequest	true	"New account"
//	@Success		200		{object}	httpx.Envelope{result=SignupResponse}
//	@Failure		400		{object}	httpx.Envelope	"INVALID_REQUEST"
//	@Failure		409		{object}	httpx.Envelope	"DUPLICATED_USERNAME"
//	@Failure		429		{object}	httpx.Envelope	"TOO_MANY_REQUESTS"
//	@Router			/users/signup [post].
func (h *UsersHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, errBadBody(err))
		return
	}

	u, err := h.UserService.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Nickname: req.Nickname,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, SignupResponse{ID: u.ID, Username: u.Username})
}

// HandleLogin exchanges credentials for an access and refresh token pair.
// A new login ends any earlier session of the same user.
//
//	@Summary		Log in
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	httpx.Envelope{result=LoginResponse}
//	@Failure		401		{object}	httpx.Envelope	"INVALID_PASSWORD"
//	@Failure		404		{object}	httpx.Envelope	"USER_NOT_FOUND"
//	@Failure		503		{object}	httpx.Envelope	"CACHE_UNAVAILABLE"
//	@Router			/users/login [post].
func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, errBadBody(err))
		return
	}

	pair, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, LoginResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// HandleReissue mints a new access token from the session's refresh token.
// The bearer access token may already be expired.
//
//	@Summary		Reissue access token
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ReissueRequest	true	"Refresh token"
//	@Success		200		{object}	httpx.Envelope{result=ReissueResponse}
//	@Failure		401		{object}	httpx.Envelope	"EXPIRED_TOKEN, INVALID_TOKEN or UNAUTHENTICATED"
//	@Failure		503		{object}	httpx.Envelope	"CACHE_UNAVAILABLE"
//	@Router			/users/reissue [post].
func (h *UsersHandler) HandleReissue(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	var req ReissueRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, errBadBody(err))
		return
	}

	access, err := h.TokenService.Reissue(r.Context(), p.Subject, req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, ReissueResponse{AccessToken: access})
}

// HandleLogout ends the caller's session.
//
//	@Summary		Log out
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope
//	@Failure		401	{object}	httpx.Envelope	"UNAUTHENTICATED, INVALID_TOKEN or EXPIRED_TOKEN"
//	@Failure		503	{object}	httpx.Envelope	"CACHE_UNAVAILABLE"
//	@Router			/users/logout [post].
func (h *UsersHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	if err := h.UserService.Logout(r.Context(), p.Subject); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, nil)
}

// HandleMe describes the authenticated caller.
//
//	@Summary		Current user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope{result=MeResponse}
//	@Failure		401	{object}	httpx.Envelope
//	@Router			/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	httpx.WriteSuccess(w, MeResponse{
		Username:     p.Subject,
		Role:         p.Role.String(),
		Capabilities: p.Capabilities,
	})
}
