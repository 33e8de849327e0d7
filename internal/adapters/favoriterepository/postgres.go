package favoriterepository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("courtside/favoriterepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbFavorite struct {
	ID         int64     `db:"id"`
	UserID     string    `db:"user_id"`
	PlayerID   int       `db:"player_id"`
	PlayerName string    `db:"player_name"`
	Team       string    `db:"team"`
	Position   string    `db:"position"`
	CreatedAt  time.Time `db:"created_at"`
}

func (f dbFavorite) toDomain() domain.FavoritePlayer {
	return domain.FavoritePlayer{
		ID:         f.ID,
		UserID:     f.UserID,
		PlayerID:   f.PlayerID,
		PlayerName: f.PlayerName,
		Team:       f.Team,
		Position:   f.Position,
		CreatedAt:  f.CreatedAt,
	}
}

func (p *Postgres) ListFavorites(ctx context.Context, userID string) ([]domain.FavoritePlayer, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListFavorites")
	defer span.End()

	dbFavorites := []dbFavorite{}
	err := p.db.SelectContext(
		ctx,
		&dbFavorites,
		fmt.Sprintf(`SELECT id, user_id, player_id, player_name, team, position, created_at
		FROM %s.favorite_players
		WHERE user_id = $1
		ORDER BY player_name ASC, id ASC`,
			pq.QuoteIdentifier(p.schema)),
		userID,
	)
	if err != nil {
		err := fmt.Errorf("failed to select favorites: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return nil, err
	}

	favorites := make([]domain.FavoritePlayer, 0, len(dbFavorites))
	for _, favorite := range dbFavorites {
		favorites = append(favorites, favorite.toDomain())
	}
	return favorites, nil
}

func (p *Postgres) AddFavorite(ctx context.Context, favorite domain.FavoritePlayer) (domain.FavoritePlayer, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.AddFavorite")
	defer span.End()

	if favorite.UserID == "" {
		err := fmt.Errorf("userID is empty")
		reporting.Report(ctx, err)
		return domain.FavoritePlayer{}, err
	}

	// The no-op update makes RETURNING yield the existing row when the player is already a favorite
	var stored dbFavorite
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.favorite_players
		(user_id, player_id, player_name, team, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, player_id)
		DO UPDATE SET
			user_id = favorite_players.user_id
		RETURNING id, user_id, player_id, player_name, team, position, created_at`,
			pq.QuoteIdentifier(p.schema)),
		favorite.UserID,
		favorite.PlayerID,
		favorite.PlayerName,
		favorite.Team,
		favorite.Position,
		favorite.CreatedAt,
	).StructScan(&stored)
	if err != nil {
		err := fmt.Errorf("failed to insert favorite: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID":   favorite.UserID,
			"playerID": strconv.Itoa(favorite.PlayerID),
		})
		return domain.FavoritePlayer{}, err
	}

	return stored.toDomain(), nil
}

func (p *Postgres) RemoveFavorite(ctx context.Context, userID string, favoriteID int64) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.RemoveFavorite")
	defer span.End()

	result, err := p.db.ExecContext(
		ctx,
		fmt.Sprintf(`DELETE FROM %s.favorite_players WHERE id = $1 AND user_id = $2`, pq.QuoteIdentifier(p.schema)),
		favoriteID,
		userID,
	)
	if err != nil {
		err := fmt.Errorf("failed to delete favorite: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID":     userID,
			"favoriteID": strconv.FormatInt(favoriteID, 10),
		})
		return err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("failed to get deleted row count: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID":     userID,
			"favoriteID": strconv.FormatInt(favoriteID, 10),
		})
		return err
	}
	if deleted == 0 {
		return domain.ErrFavoriteNotFound
	}

	return nil
}
