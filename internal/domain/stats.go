package domain

// GameStats is a single player's box score line for one game
type GameStats struct {
	ID  int
	Min string

	FGM  int
	FGA  int
	FG3M int
	FG3A int
	FTM  int
	FTA  int

	OReb     int
	DReb     int
	Reb      int
	Ast      int
	Stl      int
	Blk      int
	Turnover int
	PF       int
	Pts      int
}

// PlayerAverageStats holds per-game averages for one player in one season
type PlayerAverageStats struct {
	PlayerID    int
	Season      int
	GamesPlayed int

	Pts      float64
	Reb      float64
	Ast      float64
	Stl      float64
	Blk      float64
	Turnover float64
	FGPct    float64
	FG3Pct   float64
	FTPct    float64
}

// AverageGameStats computes season averages from individual game rows.
//
// Returns nil if there are no games.
// Shooting percentages only average over games with at least one attempt of that kind.
func AverageGameStats(playerID, season int, games []GameStats) *PlayerAverageStats {
	if len(games) == 0 {
		return nil
	}

	var pts, reb, ast, stl, blk, tov float64
	var fgPct, fg3Pct, ftPct percentageAverage
	for _, game := range games {
		pts += float64(game.Pts)
		reb += float64(game.Reb)
		ast += float64(game.Ast)
		stl += float64(game.Stl)
		blk += float64(game.Blk)
		tov += float64(game.Turnover)

		fgPct.add(game.FGM, game.FGA)
		fg3Pct.add(game.FG3M, game.FG3A)
		ftPct.add(game.FTM, game.FTA)
	}

	count := float64(len(games))

	return &PlayerAverageStats{
		PlayerID:    playerID,
		Season:      season,
		GamesPlayed: len(games),

		Pts:      pts / count,
		Reb:      reb / count,
		Ast:      ast / count,
		Stl:      stl / count,
		Blk:      blk / count,
		Turnover: tov / count,
		FGPct:    fgPct.value(),
		FG3Pct:   fg3Pct.value(),
		FTPct:    ftPct.value(),
	}
}

type percentageAverage struct {
	sum   float64
	games int
}

func (p *percentageAverage) add(made, attempted int) {
	if attempted == 0 {
		return
	}
	p.sum += float64(made) / float64(attempted)
	p.games++
}

func (p *percentageAverage) value() float64 {
	if p.games == 0 {
		return 0
	}
	return p.sum / float64(p.games)
}
