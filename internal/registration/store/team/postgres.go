package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hackhub/internal/registration/models"
	id "hackhub/pkg/domain"
	"hackhub/pkg/platform/sentinel"
)

// Postgres persists teams in PostgreSQL. Execute serializes per-team
// mutations with SELECT ... FOR UPDATE inside a transaction, mirroring the
// in-memory store's lock semantics across instances.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const teamColumns = `id, name, team_type, member_count, track,
	application_status, payment_status, has_proposal, proposal_ref,
	payment_proof_ref, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (` + teamColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(team.ID), team.Name, string(team.Type), team.MemberCount,
		string(team.Track), string(team.ApplicationStatus), string(team.PaymentStatus),
		team.HasProposal, team.ProposalRef, team.PaymentProofRef,
		team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, teamID id.TeamID) (*models.Team, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, uuid.UUID(teamID))
	return scanTeam(row)
}

func (s *Postgres) List(ctx context.Context) ([]*models.Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var out []*models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Execute validates and mutates one team while holding its row lock. The
// update is written only if the validate callback passes, so a rejected
// transition never reaches the table.
func (s *Postgres) Execute(
	ctx context.Context,
	teamID id.TeamID,
	validate func(*models.Team) error,
	mutate func(*models.Team),
) (*models.Team, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin team update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1 FOR UPDATE`, uuid.UUID(teamID))
	team, err := scanTeam(row)
	if err != nil {
		return nil, err
	}

	if validate != nil {
		if err := validate(team); err != nil {
			return nil, err
		}
	}
	mutate(team)

	_, err = tx.ExecContext(ctx, `
		UPDATE teams SET
			application_status = $2, payment_status = $3, has_proposal = $4,
			proposal_ref = $5, payment_proof_ref = $6, updated_at = $7
		WHERE id = $1
	`, uuid.UUID(team.ID), string(team.ApplicationStatus), string(team.PaymentStatus),
		team.HasProposal, team.ProposalRef, team.PaymentProofRef, team.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update team: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit team update: %w", err)
	}
	return team, nil
}

func (s *Postgres) Delete(ctx context.Context, teamID id.TeamID) (*models.Team, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM teams WHERE id = $1 RETURNING `+teamColumns, uuid.UUID(teamID))
	return scanTeam(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var (
		t       models.Team
		rawID   uuid.UUID
		ttype   string
		track   string
		appStat string
		payStat string
	)
	err := row.Scan(&rawID, &t.Name, &ttype, &t.MemberCount, &track,
		&appStat, &payStat, &t.HasProposal, &t.ProposalRef,
		&t.PaymentProofRef, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}
	t.ID = id.TeamID(rawID)
	t.Type = models.TeamType(ttype)
	t.Track = models.Track(track)
	t.ApplicationStatus = models.ApplicationStatus(appStat)
	t.PaymentStatus = models.PaymentStatus(payStat)
	return &t, nil
}
