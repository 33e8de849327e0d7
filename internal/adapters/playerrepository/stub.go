package playerrepository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/nbadata/courtside/internal/domain"
)

// StubPlayerRepository keeps players in memory, for development without a database
type StubPlayerRepository struct {
	lock    sync.RWMutex
	players map[int]domain.Player
}

func NewStubPlayerRepository() *StubPlayerRepository {
	return &StubPlayerRepository{
		players: map[int]domain.Player{},
	}
}

func byName(a, b domain.Player) int {
	return cmp.Or(
		cmp.Compare(a.FullName, b.FullName),
		cmp.Compare(a.ID, b.ID),
	)
}

func (p *StubPlayerRepository) sorted(keep func(domain.Player) bool) []domain.Player {
	players := make([]domain.Player, 0, len(p.players))
	for _, player := range p.players {
		if keep(player) {
			players = append(players, player)
		}
	}
	slices.SortFunc(players, byName)
	return players
}

func (p *StubPlayerRepository) SearchPlayers(ctx context.Context, term string, limit int) ([]domain.Player, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || limit <= 0 {
		return []domain.Player{}, nil
	}

	p.lock.RLock()
	defer p.lock.RUnlock()

	players := p.sorted(func(player domain.Player) bool {
		return strings.Contains(strings.ToLower(player.FullName), term)
	})
	return players[:min(len(players), limit)], nil
}

func (p *StubPlayerRepository) GetPlayer(ctx context.Context, id int) (domain.Player, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	player, ok := p.players[id]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return player, nil
}

func (p *StubPlayerRepository) GetPlayersByIDs(ctx context.Context, ids []int) ([]domain.Player, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.sorted(func(player domain.Player) bool {
		return slices.Contains(ids, player.ID)
	}), nil
}

func (p *StubPlayerRepository) ListPlayers(ctx context.Context, limit int) ([]domain.Player, error) {
	if limit <= 0 {
		return []domain.Player{}, nil
	}

	p.lock.RLock()
	defer p.lock.RUnlock()

	players := p.sorted(func(domain.Player) bool { return true })
	return players[:min(len(players), limit)], nil
}

func (p *StubPlayerRepository) SeedIfEmpty(ctx context.Context, players []domain.Player) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if len(p.players) > 0 {
		return 0, nil
	}

	for _, player := range players {
		player.Source = domain.PlayerSourceLocal
		p.players[player.ID] = player
	}
	return len(p.players), nil
}
