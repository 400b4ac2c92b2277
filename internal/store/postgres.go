package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ppiankov/credibly/internal/model"
)

// Postgres implements Store on top of a pgx connection pool. The unique
// constraint on media.url is what guarantees at-most-one media row per URL
// across concurrent processes; CreateMedia builds create-or-fetch on top.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database, verifies connectivity and ensures the
// schema exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) init(ctx context.Context) error {
	// creators is referenced by media, create it first
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS creators (
			id   BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS media (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			url        TEXT NOT NULL UNIQUE,
			complete   BOOLEAN NOT NULL DEFAULT FALSE,
			creator_id BIGINT REFERENCES creators(id)
		)`,
		`CREATE TABLE IF NOT EXISTS claims (
			id                 BIGSERIAL PRIMARY KEY,
			media_id           BIGINT NOT NULL REFERENCES media(id) ON DELETE CASCADE,
			content            TEXT NOT NULL,
			ts                 DOUBLE PRECISION,
			duration           DOUBLE PRECISION,
			bias_strength      DOUBLE PRECISION NOT NULL CHECK (bias_strength BETWEEN 0 AND 1),
			accuracy           DOUBLE PRECISION CHECK (accuracy BETWEEN 0 AND 1),
			accuracy_certainty DOUBLE PRECISION CHECK (accuracy_certainty BETWEEN 0 AND 1)
		)`,
		`CREATE INDEX IF NOT EXISTS claims_media_id_idx ON claims (media_id)`,
	}
	for _, stmt := range stmts {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool
func (p *Postgres) Close() {
	p.pool.Close()
}

// GetMediaByURL returns the media item for url, or ErrNotFound
func (p *Postgres) GetMediaByURL(ctx context.Context, url string) (*model.Media, error) {
	var media model.Media
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, url, complete, creator_id FROM media WHERE url = $1`, url,
	).Scan(&media.ID, &media.Name, &media.URL, &media.Complete, &media.Creator)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return &media, nil
}

// CreateMedia inserts a media item, or returns the existing one for url.
// ON CONFLICT DO NOTHING plus a follow-up select makes the race between two
// creators for the same unseen URL converge on a single row.
func (p *Postgres) CreateMedia(ctx context.Context, url, name string) (*model.Media, error) {
	var id int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO media (name, url) VALUES ($1, $2)
		 ON CONFLICT (url) DO NOTHING
		 RETURNING id`, name, url,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race or the row already existed; fetch the winner.
		return p.GetMediaByURL(ctx, url)
	}
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return &model.Media{ID: id, Name: name, URL: url}, nil
}

// SaveMedia persists mutable media fields
func (p *Postgres) SaveMedia(ctx context.Context, media *model.Media) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE media SET name = $2, complete = $3, creator_id = $4 WHERE id = $1`,
		media.ID, media.Name, media.Complete, media.Creator)
	if err != nil {
		return fmt.Errorf("save media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListClaims returns all claims of a media item in creation order
func (p *Postgres) ListClaims(ctx context.Context, mediaID int64) ([]model.Claim, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, media_id, content, ts, duration, bias_strength, accuracy, accuracy_certainty
		 FROM claims WHERE media_id = $1 ORDER BY id`, mediaID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		if err := rows.Scan(&c.ID, &c.MediaID, &c.Content, &c.Timestamp, &c.Duration,
			&c.BiasStrength, &c.Accuracy, &c.AccuracyCertainty); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// CreateClaim inserts a claim and fills in its ID
func (p *Postgres) CreateClaim(ctx context.Context, claim *model.Claim) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO claims (media_id, content, ts, duration, bias_strength)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		claim.MediaID, claim.Content, claim.Timestamp, claim.Duration, claim.BiasStrength,
	).Scan(&claim.ID)
	if err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

// DeleteClaims removes every claim of a media item
func (p *Postgres) DeleteClaims(ctx context.Context, mediaID int64) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM claims WHERE media_id = $1`, mediaID); err != nil {
		return fmt.Errorf("delete claims: %w", err)
	}
	return nil
}

// GetClaim returns one claim by id, or ErrNotFound
func (p *Postgres) GetClaim(ctx context.Context, id int64) (*model.Claim, error) {
	var c model.Claim
	err := p.pool.QueryRow(ctx,
		`SELECT id, media_id, content, ts, duration, bias_strength, accuracy, accuracy_certainty
		 FROM claims WHERE id = $1`, id,
	).Scan(&c.ID, &c.MediaID, &c.Content, &c.Timestamp, &c.Duration,
		&c.BiasStrength, &c.Accuracy, &c.AccuracyCertainty)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return &c, nil
}

// UpdateClaimAccuracy commits a verification judgment
func (p *Postgres) UpdateClaimAccuracy(ctx context.Context, id int64, accuracy, certainty float64) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE claims SET accuracy = $2, accuracy_certainty = $3 WHERE id = $1`,
		id, accuracy, certainty)
	if err != nil {
		return fmt.Errorf("update claim accuracy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateCreator inserts a creator and fills in its ID
func (p *Postgres) CreateCreator(ctx context.Context, creator *model.Creator) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO creators (name) VALUES ($1) RETURNING id`, creator.Name,
	).Scan(&creator.ID)
	if err != nil {
		return fmt.Errorf("create creator: %w", err)
	}
	return nil
}

// ListCreatorStandings returns creators ranked by mean confirmed accuracy
func (p *Postgres) ListCreatorStandings(ctx context.Context) ([]model.CreatorStanding, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT cr.id, cr.name,
		        COUNT(DISTINCT m.id) AS media_count,
		        AVG(cl.accuracy) AS avg_accuracy
		 FROM creators cr
		 LEFT JOIN media m ON m.creator_id = cr.id
		 LEFT JOIN claims cl ON cl.media_id = m.id AND cl.accuracy IS NOT NULL
		 GROUP BY cr.id, cr.name
		 ORDER BY avg_accuracy DESC NULLS LAST, cr.name`)
	if err != nil {
		return nil, fmt.Errorf("list creator standings: %w", err)
	}
	defer rows.Close()

	var standings []model.CreatorStanding
	for rows.Next() {
		var s model.CreatorStanding
		if err := rows.Scan(&s.Creator.ID, &s.Creator.Name, &s.MediaCount, &s.AverageAccuracy); err != nil {
			return nil, fmt.Errorf("scan creator standing: %w", err)
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}
