package playerrepository

import (
	"time"

	"github.com/nbadata/courtside/internal/domain"
)

func birthDate(year int, month time.Month, day int) *time.Time {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &date
}

// SeedPlayers returns the players the local store starts out with
func SeedPlayers() []domain.Player {
	players := []domain.Player{
		{ID: 1, FullName: "LeBron James", Team: "LAL", Position: "F", HeightCm: 206, WeightKg: 113, BirthDate: birthDate(1984, time.December, 30), Pts: 25.3, Reb: 7.4, Ast: 7.9, Stl: 1.1, Blk: 0.5, Tov: 3.2, FGPct: 0.525, TPPct: 0.367, FTPct: 0.750},
		{ID: 2, FullName: "Stephen Curry", Team: "GSW", Position: "G", HeightCm: 188, WeightKg: 84, BirthDate: birthDate(1988, time.March, 14), Pts: 27.3, Reb: 4.5, Ast: 6.2, Stl: 1.0, Blk: 0.4, Tov: 3.1, FGPct: 0.487, TPPct: 0.421, FTPct: 0.915},
		{ID: 3, FullName: "Nikola Jokić", Team: "DEN", Position: "C", HeightCm: 211, WeightKg: 129, BirthDate: birthDate(1995, time.February, 19), Pts: 26.4, Reb: 12.4, Ast: 9.0, Stl: 1.2, Blk: 0.8, Tov: 3.4, FGPct: 0.580, TPPct: 0.370, FTPct: 0.830},
		{ID: 4, FullName: "Luka Dončić", Team: "DAL", Position: "G", HeightCm: 201, WeightKg: 104, BirthDate: birthDate(1999, time.February, 28), Pts: 28.4, Reb: 8.7, Ast: 8.7, Stl: 1.1, Blk: 0.5, Tov: 4.0, FGPct: 0.459, TPPct: 0.346, FTPct: 0.743},
		{ID: 5, FullName: "Giannis Antetokounmpo", Team: "MIL", Position: "F", HeightCm: 211, WeightKg: 110, BirthDate: birthDate(1994, time.December, 6), Pts: 31.1, Reb: 11.8, Ast: 5.7, Stl: 0.8, Blk: 0.8, Tov: 3.4, FGPct: 0.553, TPPct: 0.275, FTPct: 0.656},
		{ID: 6, FullName: "Jayson Tatum", Team: "BOS", Position: "F", HeightCm: 203, WeightKg: 95, BirthDate: birthDate(1998, time.March, 3), Pts: 30.1, Reb: 8.8, Ast: 4.6, Stl: 1.1, Blk: 0.7, Tov: 2.9, FGPct: 0.466, TPPct: 0.350, FTPct: 0.854},
		{ID: 7, FullName: "Joel Embiid", Team: "PHI", Position: "C", HeightCm: 213, WeightKg: 127, BirthDate: birthDate(1994, time.March, 16), Pts: 33.1, Reb: 10.2, Ast: 4.2, Stl: 1.0, Blk: 1.7, Tov: 3.4, FGPct: 0.548, TPPct: 0.330, FTPct: 0.857},
		{ID: 8, FullName: "Kevin Durant", Team: "PHX", Position: "F", HeightCm: 208, WeightKg: 109, BirthDate: birthDate(1988, time.September, 29), Pts: 29.1, Reb: 6.7, Ast: 5.0, Stl: 0.9, Blk: 1.2, Tov: 3.3, FGPct: 0.559, TPPct: 0.404, FTPct: 0.918},
		{ID: 9, FullName: "Damian Lillard", Team: "MIL", Position: "G", HeightCm: 188, WeightKg: 88, BirthDate: birthDate(1990, time.July, 15), Pts: 25.1, Reb: 4.2, Ast: 6.8, Stl: 1.0, Blk: 0.3, Tov: 2.9, FGPct: 0.424, TPPct: 0.351, FTPct: 0.914},
		{ID: 10, FullName: "Anthony Davis", Team: "LAL", Position: "F-C", HeightCm: 208, WeightKg: 115, BirthDate: birthDate(1993, time.March, 11), Pts: 24.1, Reb: 12.6, Ast: 3.5, Stl: 1.2, Blk: 2.3, Tov: 2.6, FGPct: 0.563, TPPct: 0.259, FTPct: 0.784},
	}

	for i := range players {
		players[i].Source = domain.PlayerSourceLocal
	}

	return players
}
