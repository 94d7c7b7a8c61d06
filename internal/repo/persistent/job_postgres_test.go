package persistent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/pkg/postgres"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/google/uuid"
)

func newTestJobRepo() *JobRepo {
	return NewJobRepo(&postgres.Postgres{
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	})
}

func TestCreate_Validation(t *testing.T) {
	r := newTestJobRepo()

	cases := []struct {
		name string
		job  *entity.Job
		want error
	}{
		{
			name: "missing session id",
			job:  &entity.Job{ID: uuid.New(), Type: entity.JobProcessPage, UserID: "user-1"},
			want: errs.ErrValidation,
		},
		{
			name: "missing user id",
			job:  &entity.Job{ID: uuid.New(), Type: entity.JobProcessPage, SessionID: "sess-1"},
			want: errs.ErrValidation,
		},
		{
			name: "unknown type",
			job:  &entity.Job{ID: uuid.New(), Type: "RESIZE_VIDEO", SessionID: "sess-1", UserID: "user-1"},
			want: errs.ErrUnknownJobType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := r.Create(context.Background(), tc.job); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUpdateStatus_FailedRequiresMessage(t *testing.T) {
	r := newTestJobRepo()
	empty := ""

	for _, msg := range []*string{nil, &empty} {
		err := r.UpdateStatus(context.Background(), uuid.New(), entity.Failed, msg)
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("FAILED with message %v: error = %v, want %v", msg, err, errs.ErrValidation)
		}
	}
}

func TestUpdateStatusQuery_ExcludesTerminalRows(t *testing.T) {
	r := newTestJobRepo()
	id := uuid.New()
	msg := "provider returned 500"

	for _, target := range []struct {
		status  entity.Status
		lastErr *string
	}{
		{entity.Processing, nil},
		{entity.Completed, nil},
		{entity.Failed, &msg},
	} {
		sql, args, err := r.updateStatusQuery(id, target.status, target.lastErr).ToSql()
		if err != nil {
			t.Fatalf("ToSql: %v", err)
		}

		if !strings.Contains(sql, jobStatusColumn+" NOT IN") {
			t.Fatalf("update to %s must refuse terminal rows, got: %s", target.status, sql)
		}

		var sawCompleted, sawFailed bool
		for _, arg := range args {
			switch arg {
			case string(entity.Completed):
				sawCompleted = true
			case string(entity.Failed):
				sawFailed = true
			}
		}
		if !sawCompleted || !sawFailed {
			t.Fatalf("terminal predicate must exclude both COMPLETED and FAILED, args: %v", args)
		}
	}
}

func TestUpdateStatusQuery_SetsLastErrorOnlyWhenGiven(t *testing.T) {
	r := newTestJobRepo()
	id := uuid.New()

	sql, _, err := r.updateStatusQuery(id, entity.Completed, nil).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if strings.Contains(sql, jobLastErrorColumn) {
		t.Fatalf("COMPLETED must not touch %s, got: %s", jobLastErrorColumn, sql)
	}

	msg := "boom"
	sql, _, err = r.updateStatusQuery(id, entity.Failed, &msg).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(sql, jobLastErrorColumn) {
		t.Fatalf("FAILED must record %s, got: %s", jobLastErrorColumn, sql)
	}
}
