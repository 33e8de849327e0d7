package app

import (
	"context"
	"time"

	"github.com/nbadata/courtside/internal/adapters/cache"
)

// GetAvailableSeasons lists the seasons that can be compared, newest first
type GetAvailableSeasons func(ctx context.Context) []int

const seasonsCacheKey = "seasons"

func BuildGetAvailableSeasonsWithCache(
	seasonsCache cache.Cache[[]int],
	firstSeason int,
	nowFunc func() time.Time,
) GetAvailableSeasons {
	return func(ctx context.Context) []int {
		// create can't fail. GetOrCreate only fails if ctx is done while waiting.
		seasons, _, _ := cache.GetOrCreate(ctx, seasonsCache, seasonsCacheKey, func() ([]int, error) {
			currentYear := nowFunc().Year()

			seasons := make([]int, 0, max(currentYear-firstSeason+1, 0))
			for season := currentYear; season >= firstSeason; season-- {
				seasons = append(seasons, season)
			}
			return seasons, nil
		})
		if seasons == nil {
			return []int{}
		}
		return seasons
	}
}
