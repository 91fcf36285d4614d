package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/service"
	"github.com/aussiebroadwan/ticketcheater/pkg/httpx"
)

type GamesHandler struct {
	GameService *service.GameService
}

func pageParams(r *http.Request) (page, size int, err error) {
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("%w: page must be an integer", service.ErrInvalidRequest)
		}
	}
	if v := q.Get("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("%w: size must be an integer", service.ErrInvalidRequest)
		}
	}
	return page, size, nil
}

func (req GameRequest) input() service.GameInput {
	return service.GameInput{
		Category:  req.Category,
		Title:     req.Title,
		Home:      req.Home,
		Away:      req.Away,
		Place:     req.Place,
		StartedAt: req.StartedAt,
	}
}

// HandleList pages through all games.
//
//	@Summary		List games
//	@Description	Games ordered by start time. Page is zero based; size defaults to 5.
//	@Tags			Games
//	@Security		BearerAuth
//	@Produce		json
//	@Param			page	query		int	false	"Page number"
//	@Param			size	query		int	false	"Page size"
//	@Success		200		{object}	httpx.Envelope{result=GamePageResponse}
//	@Failure		401		{object}	httpx.Envelope
//	@Router			/games [get].
func (h *GamesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	games, err := h.GameService.List(r.Context(), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, newGamePageResponse(games))
}

// HandleListByCategory pages through the games of one category.
//
//	@Summary		List games by category
//	@Tags			Games
//	@Security		BearerAuth
//	@Produce		json
//	@Param			category	path		string	true	"BASEBALL, SOCCER, BASKETBALL, VOLLEYBALL or E_SPORTS"
//	@Param			page		query		int		false	"Page number"
//	@Param			size		query		int		false	"Page size"
//	@Success		200			{object}	httpx.Envelope{result=GamePageResponse}
//	@Failure		404			{object}	httpx.Envelope	"CATEGORY_NOT_FOUND"
//	@Router			/games/{category} [get].
func (h *GamesHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	games, err := h.GameService.ListByCategory(r.Context(), r.PathValue("category"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, newGamePageResponse(games))
}

// HandleCreate opens a game. Requires games:write.
//
//	@Summary		Create game
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GameRequest	true	"Game"
//	@Success		200		{object}	httpx.Envelope
//	@Failure		403		{object}	httpx.Envelope	"INVALID_PERMISSION"
//	@Failure		404		{object}	httpx.Envelope	"CATEGORY_NOT_FOUND"
//	@Router			/admin/games [post].
func (h *GamesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	var req GameRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, errBadBody(err))
		return
	}

	if _, err := h.GameService.Create(r.Context(), p, req.input()); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, nil)
}

// HandleUpdate replaces a game's details. Requires games:write.
//
//	@Summary		Update game
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Game ID"
//	@Param			request	body		GameRequest	true	"Game"
//	@Success		200		{object}	httpx.Envelope
//	@Failure		403		{object}	httpx.Envelope	"INVALID_PERMISSION"
//	@Failure		404		{object}	httpx.Envelope	"GAME_NOT_FOUND or CATEGORY_NOT_FOUND"
//	@Router			/admin/games/{id} [put].
func (h *GamesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	var req GameRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, errBadBody(err))
		return
	}

	if err := h.GameService.Update(r.Context(), p, r.PathValue("id"), req.input()); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, nil)
}
