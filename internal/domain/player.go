package domain

import (
	"time"
)

type Team struct {
	ID           int
	Abbreviation string
	City         string
	Name         string
	FullName     string
}

// PlayerSearchResult is a player as returned by the stats provider
type PlayerSearchResult struct {
	ID        int
	FirstName string
	LastName  string
	Position  string

	// "feet-inches", e.g. "6-9"
	Height *string
	// Pounds, e.g. "250"
	Weight *string

	Team Team
}

func (p PlayerSearchResult) FullName() string {
	return p.FirstName + " " + p.LastName
}

type PlayerSource string

const (
	PlayerSourceProvider PlayerSource = "provider"
	PlayerSourceLocal    PlayerSource = "local"
)

// Player is the comparison-facing record for a single player
type Player struct {
	ID       int
	FullName string
	Team     string
	Position string
	HeightCm int
	WeightKg int

	// nil when unknown. The provider does not expose birth dates.
	BirthDate *time.Time

	// The season the stats were taken from. 0 if no stats were found.
	Season      int
	GamesPlayed int

	Pts   float64
	Reb   float64
	Ast   float64
	Stl   float64
	Blk   float64
	Tov   float64
	FGPct float64
	TPPct float64
	FTPct float64

	Source PlayerSource
}

// NewPlayerFromSearchResult merges a provider player with optional season averages.
//
// Stats are left at zero if stats is nil.
func NewPlayerFromSearchResult(result PlayerSearchResult, stats *PlayerAverageStats) Player {
	player := Player{
		ID:       result.ID,
		FullName: result.FullName(),
		Team:     result.Team.Abbreviation,
		Position: result.Position,
		Source:   PlayerSourceProvider,
	}

	if result.Height != nil {
		if cm, ok := HeightToCm(*result.Height); ok {
			player.HeightCm = cm
		}
	}
	if result.Weight != nil {
		if kg, ok := WeightToKg(*result.Weight); ok {
			player.WeightKg = kg
		}
	}

	if stats != nil {
		player.Season = stats.Season
		player.GamesPlayed = stats.GamesPlayed
		player.Pts = stats.Pts
		player.Reb = stats.Reb
		player.Ast = stats.Ast
		player.Stl = stats.Stl
		player.Blk = stats.Blk
		player.Tov = stats.Turnover
		player.FGPct = stats.FGPct
		player.TPPct = stats.FG3Pct
		player.FTPct = stats.FTPct
	}

	return player
}

// PlayerSummary is the list view of a player, from either the provider or the local store
type PlayerSummary struct {
	ID       int
	FullName string
	Team     string
	Position string
	Source   PlayerSource
}

func (p PlayerSearchResult) Summary() PlayerSummary {
	return PlayerSummary{
		ID:       p.ID,
		FullName: p.FullName(),
		Team:     p.Team.Abbreviation,
		Position: p.Position,
		Source:   PlayerSourceProvider,
	}
}

func (p Player) Summary() PlayerSummary {
	return PlayerSummary{
		ID:       p.ID,
		FullName: p.FullName,
		Team:     p.Team,
		Position: p.Position,
		Source:   p.Source,
	}
}
