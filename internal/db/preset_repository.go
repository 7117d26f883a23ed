package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// ErrPresetNotFound is returned when no preset matches.
var ErrPresetNotFound = errors.New("preset not found")

const presetColumns = `
	id, npc_id, name, shard, profile,
	x, y, z, yaw, pitch,
	custom_name, skin_name, skin_textures, skin_signature, listed,
	look_at_players, look_range,
	max_health, health, invulnerable, respawns, respawn_delay_ms,
	interact_script`

// PresetRepository handles NPC preset CRUD operations.
type PresetRepository struct {
	pool *pgxpool.Pool
}

// NewPresetRepository creates a new preset repository.
func NewPresetRepository(pool *pgxpool.Pool) *PresetRepository {
	return &PresetRepository{pool: pool}
}

// LoadAll loads every preset ordered by id.
func (r *PresetRepository) LoadAll(ctx context.Context) ([]*model.Preset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+presetColumns+` FROM npc_presets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("loading all presets: %w", err)
	}
	defer rows.Close()

	presets := make([]*model.Preset, 0, 32)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning preset row: %w", err)
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preset rows: %w", err)
	}

	return presets, nil
}

// LoadByName loads a preset by its unique name.
func (r *PresetRepository) LoadByName(ctx context.Context, name string) (*model.Preset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+presetColumns+` FROM npc_presets WHERE name = $1`, name)

	p, err := scanPreset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
		}
		return nil, fmt.Errorf("loading preset %q: %w", name, err)
	}
	return p, nil
}

// Create inserts a preset and stores the generated id in p.ID.
func (r *PresetRepository) Create(ctx context.Context, p *model.Preset) error {
	query := `
		INSERT INTO npc_presets (
			npc_id, name, shard, profile,
			x, y, z, yaw, pitch,
			custom_name, skin_name, skin_textures, skin_signature, listed,
			look_at_players, look_range,
			max_health, health, invulnerable, respawns, respawn_delay_ms,
			interact_script
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16,
			$17, $18, $19, $20, $21,
			$22
		)
		RETURNING id
	`

	npcID := pgtype.UUID{Bytes: p.NpcID, Valid: p.NpcID != uuid.Nil}

	err := r.pool.QueryRow(ctx, query,
		npcID, p.Name, p.Shard, p.Profile,
		p.X, p.Y, p.Z, p.Yaw, p.Pitch,
		p.CustomName, p.SkinName, p.Skin.Textures, p.Skin.Signature, p.Listed,
		p.LookAtPlayers, p.LookRange,
		p.MaxHealth, p.Health, p.Invulnerable, p.Respawns, p.RespawnDelay.Milliseconds(),
		p.InteractScript,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("creating preset %q: %w", p.Name, err)
	}
	return nil
}

// Delete removes a preset by name.
func (r *PresetRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM npc_presets WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting preset %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return nil
}

func scanPreset(row pgx.Row) (*model.Preset, error) {
	var (
		p       model.Preset
		npcID   pgtype.UUID
		delayMs int64
	)

	err := row.Scan(
		&p.ID, &npcID, &p.Name, &p.Shard, &p.Profile,
		&p.X, &p.Y, &p.Z, &p.Yaw, &p.Pitch,
		&p.CustomName, &p.SkinName, &p.Skin.Textures, &p.Skin.Signature, &p.Listed,
		&p.LookAtPlayers, &p.LookRange,
		&p.MaxHealth, &p.Health, &p.Invulnerable, &p.Respawns, &delayMs,
		&p.InteractScript,
	)
	if err != nil {
		return nil, err
	}

	if npcID.Valid {
		p.NpcID = uuid.UUID(npcID.Bytes)
	}
	p.RespawnDelay = time.Duration(delayMs) * time.Millisecond
	return &p, nil
}
