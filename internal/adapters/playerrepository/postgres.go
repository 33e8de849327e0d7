package playerrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nbadata/courtside/internal/domain"
	"github.com/nbadata/courtside/internal/logging"
	"github.com/nbadata/courtside/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type PostgresPlayerRepository struct {
	db     *sqlx.DB
	schema string

	tracer trace.Tracer
}

func NewPostgresPlayerRepository(db *sqlx.DB, schema string) *PostgresPlayerRepository {
	return &PostgresPlayerRepository{
		db:     db,
		schema: schema,
		tracer: otel.Tracer("courtside/adapters/playerrepository"),
	}
}

const playerColumns = `id, full_name, team, position, height_cm, weight_kg, birth_date,
	pts, reb, ast, stl, blk, tov, fg_pct, tp_pct, ft_pct`

type dbPlayer struct {
	ID        int        `db:"id"`
	FullName  string     `db:"full_name"`
	Team      string     `db:"team"`
	Position  string     `db:"position"`
	HeightCm  int        `db:"height_cm"`
	WeightKg  int        `db:"weight_kg"`
	BirthDate *time.Time `db:"birth_date"`

	Pts   float64 `db:"pts"`
	Reb   float64 `db:"reb"`
	Ast   float64 `db:"ast"`
	Stl   float64 `db:"stl"`
	Blk   float64 `db:"blk"`
	Tov   float64 `db:"tov"`
	FGPct float64 `db:"fg_pct"`
	TPPct float64 `db:"tp_pct"`
	FTPct float64 `db:"ft_pct"`
}

func (p dbPlayer) toDomain() domain.Player {
	var birthDate *time.Time
	if p.BirthDate != nil {
		date := time.Date(p.BirthDate.Year(), p.BirthDate.Month(), p.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
		birthDate = &date
	}

	return domain.Player{
		ID:        p.ID,
		FullName:  p.FullName,
		Team:      p.Team,
		Position:  p.Position,
		HeightCm:  p.HeightCm,
		WeightKg:  p.WeightKg,
		BirthDate: birthDate,
		Pts:       p.Pts,
		Reb:       p.Reb,
		Ast:       p.Ast,
		Stl:       p.Stl,
		Blk:       p.Blk,
		Tov:       p.Tov,
		FGPct:     p.FGPct,
		TPPct:     p.TPPct,
		FTPct:     p.FTPct,
		Source:    domain.PlayerSourceLocal,
	}
}

func dbPlayerFromDomain(player domain.Player) dbPlayer {
	return dbPlayer{
		ID:        player.ID,
		FullName:  player.FullName,
		Team:      player.Team,
		Position:  player.Position,
		HeightCm:  player.HeightCm,
		WeightKg:  player.WeightKg,
		BirthDate: player.BirthDate,
		Pts:       player.Pts,
		Reb:       player.Reb,
		Ast:       player.Ast,
		Stl:       player.Stl,
		Blk:       player.Blk,
		Tov:       player.Tov,
		FGPct:     player.FGPct,
		TPPct:     player.TPPct,
		FTPct:     player.FTPct,
	}
}

func dbPlayersToDomain(dbPlayers []dbPlayer) []domain.Player {
	players := make([]domain.Player, 0, len(dbPlayers))
	for _, dbPlayer := range dbPlayers {
		players = append(players, dbPlayer.toDomain())
	}
	return players
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term anywhere, with wildcards in term taken literally
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// inSchema runs f in a read/write transaction with the search path set to the repository schema
func (p *PostgresPlayerRepository) inSchema(ctx context.Context, f func(txx *sqlx.Tx) error) error {
	txx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		return fmt.Errorf("failed to set search path: %w", err)
	}

	err = f(txx)
	if err != nil {
		return err
	}

	err = txx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *PostgresPlayerRepository) SearchPlayers(ctx context.Context, term string, limit int) ([]domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "PostgresPlayerRepository.SearchPlayers")
	defer span.End()

	term = strings.TrimSpace(term)
	if term == "" || limit <= 0 {
		return []domain.Player{}, nil
	}

	dbPlayers := []dbPlayer{}
	err := p.inSchema(ctx, func(txx *sqlx.Tx) error {
		return txx.SelectContext(
			ctx,
			&dbPlayers,
			fmt.Sprintf(`SELECT %s FROM players WHERE full_name ILIKE $1 ORDER BY full_name ASC, id ASC LIMIT $2`, playerColumns),
			containsPattern(term),
			limit,
		)
	})
	if err != nil {
		err := fmt.Errorf("failed to search players: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"term":  term,
			"limit": strconv.Itoa(limit),
		})
		return nil, err
	}

	span.SetAttributes(attribute.Int("results", len(dbPlayers)))

	return dbPlayersToDomain(dbPlayers), nil
}

func (p *PostgresPlayerRepository) GetPlayer(ctx context.Context, id int) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "PostgresPlayerRepository.GetPlayer")
	defer span.End()

	var player dbPlayer
	err := p.inSchema(ctx, func(txx *sqlx.Tx) error {
		return txx.GetContext(ctx, &player, fmt.Sprintf(`SELECT %s FROM players WHERE id = $1`, playerColumns), id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	if err != nil {
		err := fmt.Errorf("failed to get player: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.Itoa(id),
		})
		return domain.Player{}, err
	}

	return player.toDomain(), nil
}

func (p *PostgresPlayerRepository) GetPlayersByIDs(ctx context.Context, ids []int) ([]domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "PostgresPlayerRepository.GetPlayersByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []domain.Player{}, nil
	}

	int64IDs := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		int64IDs = append(int64IDs, int64(id))
	}

	dbPlayers := []dbPlayer{}
	err := p.inSchema(ctx, func(txx *sqlx.Tx) error {
		return txx.SelectContext(
			ctx,
			&dbPlayers,
			fmt.Sprintf(`SELECT %s FROM players WHERE id = ANY($1) ORDER BY full_name ASC, id ASC`, playerColumns),
			int64IDs,
		)
	})
	if err != nil {
		err := fmt.Errorf("failed to get players by id: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"ids": fmt.Sprint(ids),
		})
		return nil, err
	}

	return dbPlayersToDomain(dbPlayers), nil
}

func (p *PostgresPlayerRepository) ListPlayers(ctx context.Context, limit int) ([]domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "PostgresPlayerRepository.ListPlayers")
	defer span.End()

	if limit <= 0 {
		return []domain.Player{}, nil
	}

	dbPlayers := []dbPlayer{}
	err := p.inSchema(ctx, func(txx *sqlx.Tx) error {
		return txx.SelectContext(
			ctx,
			&dbPlayers,
			fmt.Sprintf(`SELECT %s FROM players ORDER BY full_name ASC, id ASC LIMIT $1`, playerColumns),
			limit,
		)
	})
	if err != nil {
		err := fmt.Errorf("failed to list players: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"limit": strconv.Itoa(limit),
		})
		return nil, err
	}

	return dbPlayersToDomain(dbPlayers), nil
}

func (p *PostgresPlayerRepository) SeedIfEmpty(ctx context.Context, players []domain.Player) (int, error) {
	ctx, span := p.tracer.Start(ctx, "PostgresPlayerRepository.SeedIfEmpty")
	defer span.End()

	inserted := 0
	err := p.inSchema(ctx, func(txx *sqlx.Tx) error {
		// Concurrent instances starting up serialize here
		_, err := txx.ExecContext(ctx, "LOCK TABLE players IN SHARE ROW EXCLUSIVE MODE")
		if err != nil {
			return fmt.Errorf("failed to lock players table: %w", err)
		}

		var count int
		err = txx.GetContext(ctx, &count, "SELECT COUNT(*) FROM players")
		if err != nil {
			return fmt.Errorf("failed to count players: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, player := range players {
			_, err := txx.NamedExecContext(
				ctx,
				`INSERT INTO players
				(id, full_name, team, position, height_cm, weight_kg, birth_date,
				pts, reb, ast, stl, blk, tov, fg_pct, tp_pct, ft_pct)
				VALUES
				(:id, :full_name, :team, :position, :height_cm, :weight_kg, :birth_date,
				:pts, :reb, :ast, :stl, :blk, :tov, :fg_pct, :tp_pct, :ft_pct)`,
				dbPlayerFromDomain(player),
			)
			if err != nil {
				return fmt.Errorf("failed to insert player %d: %w", player.ID, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		err := fmt.Errorf("failed to seed players: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"players": strconv.Itoa(len(players)),
		})
		return 0, err
	}

	if inserted > 0 {
		logging.FromContext(ctx).InfoContext(ctx, "Seeded local players", "count", inserted)
	}

	return inserted, nil
}
