package http

import (
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
)

// Request and response bodies. The envelope's result field carries the
// response types.

type SignupRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct horse"`
	Email    string `json:"email,omitempty" example:"alice@example.com"`
	Nickname string `json:"nickname,omitempty" example:"Al"`
}

type SignupResponse struct {
	ID       string `json:"id" example:"01JB7W3YQ5D3N5Q6J8ZC0KXG1R"`
	Username string `json:"username" example:"alice"`
}

type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct horse"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ReissueRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ReissueResponse struct {
	AccessToken string `json:"accessToken"`
}

type MeResponse struct {
	Username     string   `json:"username" example:"alice"`
	Role         string   `json:"role" example:"USER"`
	Capabilities []string `json:"capabilities"`
}

type GameRequest struct {
	Category  string    `json:"category" example:"SOCCER"`
	Title     string    `json:"title" example:"Derby"`
	Home      string    `json:"home" example:"Reds"`
	Away      string    `json:"away" example:"Blues"`
	Place     string    `json:"place" example:"Main Stadium"`
	StartedAt time.Time `json:"startedAt" example:"2026-05-01T18:00:00Z"`
}

type GameResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Home      string    `json:"home"`
	Away      string    `json:"away"`
	Place     string    `json:"place"`
	StartedAt time.Time `json:"startedAt"`
}

type GamePageResponse struct {
	Content       []GameResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

func newGameResponse(g domain.Game) GameResponse {
	return GameResponse{
		ID:        g.ID,
		Category:  string(g.Category),
		Title:     g.Title,
		Home:      g.Home,
		Away:      g.Away,
		Place:     g.Place,
		StartedAt: g.StartedAt,
	}
}

func newGamePageResponse(p domain.Page[domain.Game]) GamePageResponse {
	out := GamePageResponse{
		Content:       make([]GameResponse, 0, len(p.Items)),
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalItems,
		TotalPages:    p.TotalPages(),
	}
	for _, g := range p.Items {
		out.Content = append(out.Content, newGameResponse(g))
	}
	return out
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime,omitempty" example:"1h23m45s"`
	Version string        `json:"version,omitempty" example:"0.1.0"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database" example:"ok"`
	Cache    string `json:"cache" example:"ok"`
}
