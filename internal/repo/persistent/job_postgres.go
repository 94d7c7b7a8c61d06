package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/pkg/postgres"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	jobsTable = "jobs"

	// Columns
	jobIDColumn        = "id"
	jobTypeColumn      = "type"
	jobSessionIDColumn = "session_id"
	jobUserIDColumn    = "user_id"
	jobStatusColumn    = "status"
	jobDataColumn      = "job_data"
	jobRetriesColumn   = "retries"
	jobLastErrorColumn = "last_error"
	jobCreatedAtColumn = "created_at"
	jobUpdatedAtColumn = "updated_at"
)

var terminalStatuses = []string{string(entity.Completed), string(entity.Failed)}

type JobRepo struct {
	*postgres.Postgres
}

func NewJobRepo(pg *postgres.Postgres) *JobRepo {
	return &JobRepo{pg}
}

func (r *JobRepo) Create(ctx context.Context, job *entity.Job) error {
	if job.SessionID == "" || job.UserID == "" {
		return fmt.Errorf("JobRepo - Create: %w", errs.ErrValidation)
	}
	if !job.Type.Valid() {
		return fmt.Errorf("JobRepo - Create: %w", errs.ErrUnknownJobType)
	}

	sql, args, err := r.Builder.
		Insert(jobsTable).
		Columns(
			jobIDColumn,
			jobTypeColumn,
			jobSessionIDColumn,
			jobUserIDColumn,
			jobStatusColumn,
			jobDataColumn,
			jobRetriesColumn,
			jobCreatedAtColumn,
			jobUpdatedAtColumn,
		).
		Values(
			job.ID,
			job.Type,
			job.SessionID,
			job.UserID,
			job.Status,
			job.Data,
			job.Retries,
			job.CreatedAt,
			job.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("JobRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("JobRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	sql, args, err := r.Builder.
		Select(
			jobIDColumn,
			jobTypeColumn,
			jobSessionIDColumn,
			jobUserIDColumn,
			jobStatusColumn,
			jobDataColumn,
			jobRetriesColumn,
			jobLastErrorColumn,
			jobCreatedAtColumn,
			jobUpdatedAtColumn,
		).
		From(jobsTable).
		Where(squirrel.Eq{jobIDColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("JobRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var job entity.Job
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&job.ID,
		&job.Type,
		&job.SessionID,
		&job.UserID,
		&job.Status,
		&job.Data,
		&job.Retries,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("JobRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("JobRepo - GetByID - executor.QueryRow: %w", err)
	}

	return &job, nil
}

// Claim does the atomic PENDING -> PROCESSING transition. Zero rows affected
// means another delivery got there first; the caller must skip the job.
func (r *JobRepo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	sql, args, err := r.Builder.
		Update(jobsTable).
		Set(jobStatusColumn, entity.Processing).
		Set(jobUpdatedAtColumn, time.Now()).
		Where(squirrel.And{
			squirrel.Eq{jobIDColumn: id},
			squirrel.Eq{jobStatusColumn: entity.Pending},
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("JobRepo - Claim - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("JobRepo - Claim - executor.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.Status, lastError *string) error {
	if status == entity.Failed && (lastError == nil || *lastError == "") {
		return fmt.Errorf("JobRepo - UpdateStatus - FAILED requires a message: %w", errs.ErrValidation)
	}

	sql, args, err := r.updateStatusQuery(id, status, lastError).ToSql()
	if err != nil {
		return fmt.Errorf("JobRepo - UpdateStatus - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("JobRepo - UpdateStatus - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the row does not exist or it is already terminal.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return fmt.Errorf("JobRepo - UpdateStatus: %w", errs.ErrRecordNotFound)
		}
		return fmt.Errorf("JobRepo - UpdateStatus: %w", errs.ErrTerminalStatus)
	}

	return nil
}

// updateStatusQuery guards the transition in SQL itself: rows already in a
// terminal status never match, whatever status the caller asks for.
func (r *JobRepo) updateStatusQuery(id uuid.UUID, status entity.Status, lastError *string) squirrel.UpdateBuilder {
	builder := r.Builder.
		Update(jobsTable).
		Set(jobStatusColumn, status).
		Set(jobUpdatedAtColumn, time.Now()).
		Where(squirrel.And{
			squirrel.Eq{jobIDColumn: id},
			squirrel.NotEq{jobStatusColumn: terminalStatuses},
		})

	if lastError != nil {
		builder = builder.Set(jobLastErrorColumn, *lastError)
	}

	return builder
}

func (r *JobRepo) ListBySession(ctx context.Context, userID, sessionID string, jobType entity.JobType) ([]*entity.Job, error) {
	sql, args, err := r.Builder.
		Select(
			jobIDColumn,
			jobTypeColumn,
			jobSessionIDColumn,
			jobUserIDColumn,
			jobStatusColumn,
			jobDataColumn,
			jobRetriesColumn,
			jobLastErrorColumn,
			jobCreatedAtColumn,
			jobUpdatedAtColumn,
		).
		From(jobsTable).
		Where(squirrel.And{
			squirrel.Eq{jobUserIDColumn: userID},
			squirrel.Eq{jobSessionIDColumn: sessionID},
			squirrel.Eq{jobTypeColumn: jobType},
		}).
		OrderBy(jobCreatedAtColumn + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("JobRepo - ListBySession - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("JobRepo - ListBySession - executor.Query: %w", err)
	}
	defer rows.Close()

	var jobs []*entity.Job
	for rows.Next() {
		var job entity.Job
		err = rows.Scan(
			&job.ID,
			&job.Type,
			&job.SessionID,
			&job.UserID,
			&job.Status,
			&job.Data,
			&job.Retries,
			&job.LastError,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("JobRepo - ListBySession - rows.Scan: %w", err)
		}
		jobs = append(jobs, &job)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("JobRepo - ListBySession - rows.Err: %w", err)
	}

	return jobs, nil
}

// ListStalePending finds PENDING jobs that have been sitting unannounced for
// too long, so the reaper can re-publish them. PROCESSING jobs are left
// untouched: reclaiming mid-handler work could double-write storage objects.
func (r *JobRepo) ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]uuid.UUID, error) {
	sql, args, err := r.Builder.
		Select(jobIDColumn).
		From(jobsTable).
		Where(squirrel.And{
			squirrel.Eq{jobStatusColumn: entity.Pending},
			squirrel.Lt{jobCreatedAtColumn: time.Now().Add(-olderThan)},
		}).
		OrderBy(jobCreatedAtColumn + " ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("JobRepo - ListStalePending - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("JobRepo - ListStalePending - executor.Query: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("JobRepo - ListStalePending - rows.Scan: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("JobRepo - ListStalePending - rows.Err: %w", err)
	}

	return ids, nil
}
