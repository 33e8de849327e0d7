package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nbadata/courtside/internal/app"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/reporting"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause"`
}

func writeJSONResponse(ctx context.Context, w http.ResponseWriter, statusCode int, response any) {
	body, err := json.Marshal(response)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to marshal response: %w", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"cause":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

func writeErrorResponse(ctx context.Context, w http.ResponseWriter, cause string, statusCode int) {
	writeJSONResponse(ctx, w, statusCode, errorResponse{Success: false, Cause: cause})
}

type playerSummaryResponse struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Source   string `json:"source"`
}

func toPlayerSummaryResponses(players []domain.PlayerSummary) []playerSummaryResponse {
	responses := make([]playerSummaryResponse, 0, len(players))
	for _, player := range players {
		responses = append(responses, playerSummaryResponse{
			ID:       player.ID,
			FullName: player.FullName,
			Team:     player.Team,
			Position: player.Position,
			Source:   string(player.Source),
		})
	}
	return responses
}

type playerResponse struct {
	ID       int     `json:"id"`
	FullName string  `json:"fullName"`
	Team     string  `json:"team"`
	Position string  `json:"position"`
	HeightCm int     `json:"heightCm"`
	WeightKg int     `json:"weightKg"`
	// YYYY-MM-DD
	BirthDate *string `json:"birthDate"`

	Season      int `json:"season"`
	GamesPlayed int `json:"gamesPlayed"`

	Pts   float64 `json:"pts"`
	Reb   float64 `json:"reb"`
	Ast   float64 `json:"ast"`
	Stl   float64 `json:"stl"`
	Blk   float64 `json:"blk"`
	Tov   float64 `json:"tov"`
	FGPct float64 `json:"fgPct"`
	TPPct float64 `json:"tpPct"`
	FTPct float64 `json:"ftPct"`

	Source string `json:"source"`
}

func toPlayerResponse(player *domain.Player) *playerResponse {
	if player == nil {
		return nil
	}

	var birthDate *string
	if player.BirthDate != nil {
		formatted := player.BirthDate.Format(time.DateOnly)
		birthDate = &formatted
	}

	return &playerResponse{
		ID:          player.ID,
		FullName:    player.FullName,
		Team:        player.Team,
		Position:    player.Position,
		HeightCm:    player.HeightCm,
		WeightKg:    player.WeightKg,
		BirthDate:   birthDate,
		Season:      player.Season,
		GamesPlayed: player.GamesPlayed,
		Pts:         player.Pts,
		Reb:         player.Reb,
		Ast:         player.Ast,
		Stl:         player.Stl,
		Blk:         player.Blk,
		Tov:         player.Tov,
		FGPct:       player.FGPct,
		TPPct:       player.TPPct,
		FTPct:       player.FTPct,
		Source:      string(player.Source),
	}
}

func toPlayerResponses(players []domain.Player) []playerResponse {
	responses := make([]playerResponse, 0, len(players))
	for i := range players {
		responses = append(responses, *toPlayerResponse(&players[i]))
	}
	return responses
}

type seasonStatsResponse struct {
	PlayerID    int     `json:"playerId"`
	Season      int     `json:"season"`
	GamesPlayed int     `json:"gamesPlayed"`
	Pts         float64 `json:"pts"`
	Reb         float64 `json:"reb"`
	Ast         float64 `json:"ast"`
	Stl         float64 `json:"stl"`
	Blk         float64 `json:"blk"`
	Turnover    float64 `json:"turnover"`
	FGPct       float64 `json:"fgPct"`
	FG3Pct      float64 `json:"fg3Pct"`
	FTPct       float64 `json:"ftPct"`
}

func toSeasonStatsResponse(stats *domain.PlayerAverageStats) seasonStatsResponse {
	return seasonStatsResponse{
		PlayerID:    stats.PlayerID,
		Season:      stats.Season,
		GamesPlayed: stats.GamesPlayed,
		Pts:         stats.Pts,
		Reb:         stats.Reb,
		Ast:         stats.Ast,
		Stl:         stats.Stl,
		Blk:         stats.Blk,
		Turnover:    stats.Turnover,
		FGPct:       stats.FGPct,
		FG3Pct:      stats.FG3Pct,
		FTPct:       stats.FTPct,
	}
}

type favoriteResponse struct {
	ID         int64     `json:"id"`
	PlayerID   int       `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Team       string    `json:"team"`
	Position   string    `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toFavoriteResponse(favorite domain.FavoritePlayer) favoriteResponse {
	return favoriteResponse{
		ID:         favorite.ID,
		PlayerID:   favorite.PlayerID,
		PlayerName: favorite.PlayerName,
		Team:       favorite.Team,
		Position:   favorite.Position,
		CreatedAt:  favorite.CreatedAt,
	}
}

type matchDiagnosticsResponse struct {
	Query          string                 `json:"query"`
	SearchTerm     string                 `json:"searchTerm"`
	Candidates     []string               `json:"candidates"`
	ProviderFailed bool                   `json:"providerFailed"`
	Tier           string                 `json:"tier"`
	Selected       *playerSummaryResponse `json:"selected"`
}

func toMatchDiagnosticsResponse(diagnostics app.MatchDiagnostics) matchDiagnosticsResponse {
	response := matchDiagnosticsResponse{
		Query:          diagnostics.Query,
		SearchTerm:     diagnostics.SearchTerm,
		Candidates:     diagnostics.Candidates,
		ProviderFailed: diagnostics.ProviderFailed,
		Tier:           diagnostics.Tier.String(),
	}
	if response.Candidates == nil {
		response.Candidates = []string{}
	}
	if diagnostics.Selected != nil {
		selected := toPlayerSummaryResponses([]domain.PlayerSummary{diagnostics.Selected.Summary()})[0]
		response.Selected = &selected
	}
	return response
}
