package domaintest

import (
	"github.com/nbadata/courtside/internal/domain"
)

type playerBuilder struct {
	player *domain.PlayerSearchResult
}

func (pb *playerBuilder) WithPosition(position string) *playerBuilder {
	pb.player.Position = position
	return pb
}

func (pb *playerBuilder) WithHeight(height string) *playerBuilder {
	pb.player.Height = &height
	return pb
}

func (pb *playerBuilder) WithWeight(weight string) *playerBuilder {
	pb.player.Weight = &weight
	return pb
}

func (pb *playerBuilder) WithTeam(abbreviation string) *playerBuilder {
	pb.player.Team = domain.Team{
		Abbreviation: abbreviation,
		FullName:     abbreviation,
	}
	return pb
}

func (pb *playerBuilder) WithFullTeam(team domain.Team) *playerBuilder {
	pb.player.Team = team
	return pb
}

func (pb *playerBuilder) Build() domain.PlayerSearchResult {
	player := *pb.player
	// Copy the optional fields, so further mutations to the builder don't affect the returned player
	if player.Height != nil {
		height := *player.Height
		player.Height = &height
	}
	if player.Weight != nil {
		weight := *player.Weight
		player.Weight = &weight
	}
	return player
}

func (pb *playerBuilder) BuildPtr() *domain.PlayerSearchResult {
	player := pb.Build()
	return &player
}

func NewPlayerBuilder(id int, firstName, lastName string) *playerBuilder {
	player := &domain.PlayerSearchResult{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
	}
	return &playerBuilder{
		player: player,
	}
}
