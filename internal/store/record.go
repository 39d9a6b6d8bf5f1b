package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sudooom.im.xuezhan/internal/game"
	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// RecordRepository 对局记录仓库
type RecordRepository struct {
	db *pgxpool.Pool
}

var _ game.RecordStore = (*RecordRepository)(nil)

// NewRecordRepository 创建对局记录仓库
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

// recordRow game_records 表的一行，jsonb 列已编码
type recordRow struct {
	GameID        string
	Players       []byte
	Scores        []byte
	Wins          []byte
	Transfers     []byte
	WinnerCount   int
	WallRemaining int
}

func toRow(r *game.Record) (*recordRow, error) {
	row := &recordRow{
		GameID:        r.GameID,
		WinnerCount:   winnerCount(r.Wins),
		WallRemaining: r.WallRemaining,
	}
	var err error
	if row.Players, err = json.Marshal(r.Players); err != nil {
		return nil, fmt.Errorf("marshal players: %w", err)
	}
	if row.Scores, err = json.Marshal(r.Scores); err != nil {
		return nil, fmt.Errorf("marshal scores: %w", err)
	}
	if row.Wins, err = json.Marshal(r.Wins); err != nil {
		return nil, fmt.Errorf("marshal wins: %w", err)
	}
	if row.Transfers, err = json.Marshal(r.Transfers); err != nil {
		return nil, fmt.Errorf("marshal transfers: %w", err)
	}
	return row, nil
}

// winnerCount 胡过牌的玩家数，同一玩家多次胡牌只计一次
func winnerCount(wins []core.WinRecord) int {
	seen := make(map[string]struct{}, len(wins))
	for _, w := range wins {
		seen[w.PlayerID] = struct{}{}
	}
	return len(seen)
}

// SaveRecord 保存对局记录，同一局重复写入时覆盖
func (r *RecordRepository) SaveRecord(ctx context.Context, record *game.Record) error {
	row, err := toRow(record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO game_records (game_id, players, scores, wins, transfers, winner_count, wall_remaining, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (game_id) DO UPDATE SET
			players = EXCLUDED.players,
			scores = EXCLUDED.scores,
			wins = EXCLUDED.wins,
			transfers = EXCLUDED.transfers,
			winner_count = EXCLUDED.winner_count,
			wall_remaining = EXCLUDED.wall_remaining,
			ended_at = EXCLUDED.ended_at
	`
	_, err = r.db.Exec(ctx, query,
		row.GameID,
		row.Players,
		row.Scores,
		row.Wins,
		row.Transfers,
		row.WinnerCount,
		row.WallRemaining,
		record.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game record %s: %w", record.GameID, err)
	}
	return nil
}

// FindByID 根据对局ID查找记录
func (r *RecordRepository) FindByID(ctx context.Context, gameID string) (*game.Record, error) {
	query := `
		SELECT game_id, players, scores, wins, transfers, wall_remaining, ended_at
		FROM game_records WHERE game_id = $1
	`

	var rec game.Record
	var players, scores, wins, transfers []byte
	err := r.db.QueryRow(ctx, query, gameID).Scan(
		&rec.GameID,
		&players,
		&scores,
		&wins,
		&transfers,
		&rec.WallRemaining,
		&rec.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrRecordNotFound
		}
		return nil, fmt.Errorf("query game record %s: %w", gameID, err)
	}

	if err := fromRow(&rec, players, scores, wins, transfers); err != nil {
		return nil, err
	}
	return &rec, nil
}

func fromRow(rec *game.Record, players, scores, wins, transfers []byte) error {
	if err := json.Unmarshal(players, &rec.Players); err != nil {
		return fmt.Errorf("unmarshal players: %w", err)
	}
	if err := json.Unmarshal(scores, &rec.Scores); err != nil {
		return fmt.Errorf("unmarshal scores: %w", err)
	}
	if err := json.Unmarshal(wins, &rec.Wins); err != nil {
		return fmt.Errorf("unmarshal wins: %w", err)
	}
	if err := json.Unmarshal(transfers, &rec.Transfers); err != nil {
		return fmt.Errorf("unmarshal transfers: %w", err)
	}
	return nil
}
