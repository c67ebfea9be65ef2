package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ai-orchestrator/internal/domain"
)

// PostgresJournal реализует журнал отправок в PostgreSQL. В отличие
// от MemoryJournal переживает рестарты сервиса и может разделяться
// несколькими экземплярами оркестратора.
type PostgresJournal struct {
	db *sql.DB
}

// NewPostgresJournal создает новый экземпляр PostgresJournal.
func NewPostgresJournal(db *sql.DB) domain.DispatchJournal {
	return &PostgresJournal{db: db}
}

func (j *PostgresJournal) AlreadyDispatched(ctx context.Context, issueKey string, target domain.Status) (bool, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		`SELECT count(*) FROM dispatch_marks WHERE issue_key = $1 AND target_status = $2`,
		issueKey, string(target),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check dispatch mark: %w", err)
	}
	return count > 0, nil
}

func (j *PostgresJournal) RecordDispatch(ctx context.Context, rec domain.DispatchRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// 1. Фиксируем задачу как управляемую AI (идемпотентно).
	_, err = tx.ExecContext(ctx,
		`INSERT INTO dispatched_issues (issue_key, first_dispatched_at)
		 VALUES ($1, $2)
		 ON CONFLICT (issue_key) DO NOTHING`,
		rec.IssueKey, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record issue: %w", err)
	}

	// 2. Ставим метку отправки для пары (ключ, статус).
	_, err = tx.ExecContext(ctx,
		`INSERT INTO dispatch_marks (issue_key, target_status, dispatch_id, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (issue_key, target_status)
		 DO UPDATE SET dispatch_id = EXCLUDED.dispatch_id,
		               role        = EXCLUDED.role,
		               created_at  = EXCLUDED.created_at`,
		rec.IssueKey, string(rec.TargetStatus), rec.DispatchID, string(rec.Role), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record dispatch mark: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (j *PostgresJournal) ClearDispatches(ctx context.Context, issueKey string) error {
	// Таблица dispatched_issues намеренно не чистится: задача остается
	// известной как управляемая AI.
	_, err := j.db.ExecContext(ctx,
		`DELETE FROM dispatch_marks WHERE issue_key = $1`, issueKey)
	if err != nil {
		return fmt.Errorf("failed to clear dispatch marks: %w", err)
	}
	return nil
}

func (j *PostgresJournal) HasDispatched(ctx context.Context, issueKey string) (bool, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		`SELECT count(*) FROM dispatched_issues WHERE issue_key = $1`, issueKey,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check issue history: %w", err)
	}
	return count > 0, nil
}

func (j *PostgresJournal) RecordRejection(ctx context.Context, issueKey string) (int, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		`INSERT INTO review_rejections (issue_key, rejected_count, updated_at)
		 VALUES ($1, 1, now())
		 ON CONFLICT (issue_key)
		 DO UPDATE SET rejected_count = review_rejections.rejected_count + 1,
		               updated_at     = now()
		 RETURNING rejected_count`,
		issueKey,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to record rejection: %w", err)
	}
	return count, nil
}

func (j *PostgresJournal) ClearRejections(ctx context.Context, issueKey string) error {
	_, err := j.db.ExecContext(ctx,
		`DELETE FROM review_rejections WHERE issue_key = $1`, issueKey)
	if err != nil {
		return fmt.Errorf("failed to clear rejections: %w", err)
	}
	return nil
}
