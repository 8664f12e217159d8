package rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hackhub/internal/judging/models"
	id "hackhub/pkg/domain"
	"hackhub/pkg/platform/sentinel"
)

// Postgres persists ratings in PostgreSQL. The (judge_id, team_id) primary
// key plus ON CONFLICT upsert gives the replace-not-duplicate contract and
// per-pair serialization via row locking.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const ratingColumns = `judge_id, team_id, innovation, technicality,
	presentation, feasibility, impact, comment, submitted_at, updated_at`

// Upsert replaces or creates the rating for (judge, team). SubmittedAt is
// kept from the original row on replacement.
func (s *Postgres) Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	query := `
		INSERT INTO ratings (` + ratingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (judge_id, team_id) DO UPDATE SET
			innovation = EXCLUDED.innovation,
			technicality = EXCLUDED.technicality,
			presentation = EXCLUDED.presentation,
			feasibility = EXCLUDED.feasibility,
			impact = EXCLUDED.impact,
			comment = EXCLUDED.comment,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + ratingColumns
	row := s.db.QueryRowContext(ctx, query,
		uuid.UUID(rating.JudgeID), uuid.UUID(rating.TeamID),
		rating.Scores.Innovation, rating.Scores.Technicality,
		rating.Scores.Presentation, rating.Scores.Feasibility,
		rating.Scores.Impact, rating.Comment,
		rating.SubmittedAt, rating.UpdatedAt,
	)
	return scanRating(row)
}

func (s *Postgres) Find(ctx context.Context, judgeID id.JudgeID, teamID id.TeamID) (*models.Rating, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE judge_id = $1 AND team_id = $2`,
		uuid.UUID(judgeID), uuid.UUID(teamID))
	return scanRating(row)
}

func (s *Postgres) ListByTeam(ctx context.Context, teamID id.TeamID) ([]*models.Rating, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE team_id = $1`, uuid.UUID(teamID))
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var out []*models.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Postgres) RemoveTeam(ctx context.Context, teamID id.TeamID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM ratings WHERE team_id = $1`, uuid.UUID(teamID))
	if err != nil {
		return fmt.Errorf("remove team ratings: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRating(row rowScanner) (*models.Rating, error) {
	var (
		r       models.Rating
		judgeID uuid.UUID
		teamID  uuid.UUID
	)
	err := row.Scan(&judgeID, &teamID,
		&r.Scores.Innovation, &r.Scores.Technicality, &r.Scores.Presentation,
		&r.Scores.Feasibility, &r.Scores.Impact,
		&r.Comment, &r.SubmittedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan rating: %w", err)
	}
	r.JudgeID = id.JudgeID(judgeID)
	r.TeamID = id.TeamID(teamID)
	return &r, nil
}
