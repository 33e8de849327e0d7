package playerprovider

import (
	"encoding/json"
	"fmt"

	"github.com/nbadata/courtside/internal/domain"
)

type ballDontLieMeta struct {
	NextCursor *int `json:"next_cursor"`
	PerPage    int  `json:"per_page"`
}

type ballDontLieTeam struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

type ballDontLiePlayer struct {
	ID        int             `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Position  string          `json:"position"`
	Height    *string         `json:"height"`
	Weight    *string         `json:"weight"`
	Team      ballDontLieTeam `json:"team"`
}

type ballDontLiePlayersResponse struct {
	Data []ballDontLiePlayer `json:"data"`
	Meta ballDontLieMeta     `json:"meta"`
}

// Numeric fields are null for games the player did not take part in. Null leaves the field at 0.
type ballDontLieStats struct {
	ID       int    `json:"id"`
	Min      string `json:"min"`
	FGM      int    `json:"fgm"`
	FGA      int    `json:"fga"`
	FG3M     int    `json:"fg3m"`
	FG3A     int    `json:"fg3a"`
	FTM      int    `json:"ftm"`
	FTA      int    `json:"fta"`
	OReb     int    `json:"oreb"`
	DReb     int    `json:"dreb"`
	Reb      int    `json:"reb"`
	Ast      int    `json:"ast"`
	Stl      int    `json:"stl"`
	Blk      int    `json:"blk"`
	Turnover int    `json:"turnover"`
	PF       int    `json:"pf"`
	Pts      int    `json:"pts"`
}

type ballDontLieStatsResponse struct {
	Data []ballDontLieStats `json:"data"`
	Meta ballDontLieMeta    `json:"meta"`
}

func playersFromResponse(data []byte) ([]domain.PlayerSearchResult, *int, error) {
	var response ballDontLiePlayersResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, nil, fmt.Errorf("failed to parse players response: %w", err)
	}

	players := make([]domain.PlayerSearchResult, 0, len(response.Data))
	for _, player := range response.Data {
		players = append(players, domain.PlayerSearchResult{
			ID:        player.ID,
			FirstName: player.FirstName,
			LastName:  player.LastName,
			Position:  player.Position,
			Height:    nonEmpty(player.Height),
			Weight:    nonEmpty(player.Weight),
			Team: domain.Team{
				ID:           player.Team.ID,
				Abbreviation: player.Team.Abbreviation,
				City:         player.Team.City,
				Name:         player.Team.Name,
				FullName:     player.Team.FullName,
			},
		})
	}

	return players, response.Meta.NextCursor, nil
}

func gameStatsFromResponse(data []byte) ([]domain.GameStats, error) {
	var response ballDontLieStatsResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse stats response: %w", err)
	}

	games := make([]domain.GameStats, 0, len(response.Data))
	for _, row := range response.Data {
		games = append(games, domain.GameStats{
			ID:       row.ID,
			Min:      row.Min,
			FGM:      row.FGM,
			FGA:      row.FGA,
			FG3M:     row.FG3M,
			FG3A:     row.FG3A,
			FTM:      row.FTM,
			FTA:      row.FTA,
			OReb:     row.OReb,
			DReb:     row.DReb,
			Reb:      row.Reb,
			Ast:      row.Ast,
			Stl:      row.Stl,
			Blk:      row.Blk,
			Turnover: row.Turnover,
			PF:       row.PF,
			Pts:      row.Pts,
		})
	}

	return games, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	value := *s
	return &value
}
