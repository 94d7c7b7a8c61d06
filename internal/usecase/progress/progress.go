package progress

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/internal/repo"
	"golang.org/x/sync/errgroup"
)

// ProgressUseCase computes a session's three-phase progress from its job
// rows. It never writes; for an unchanged set of rows the result is
// identical on every call.
type ProgressUseCase struct {
	jobRepo repo.JobRepo
}

func New(jobRepo repo.JobRepo) *ProgressUseCase {
	return &ProgressUseCase{jobRepo: jobRepo}
}

func (uc *ProgressUseCase) SessionProgress(ctx context.Context, userID, sessionID string) (*dto.SessionProgress, error) {
	var umbrellaJobs, scanJobs, uploadJobs []*entity.Job

	// The three reads are independent and order-free.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		jobs, err := uc.jobRepo.ListBySession(gctx, userID, sessionID, entity.JobProcessSession)
		if err != nil {
			return fmt.Errorf("uc.jobRepo.ListBySession(%s): %w", entity.JobProcessSession, err)
		}
		umbrellaJobs = jobs
		return nil
	})
	g.Go(func() error {
		jobs, err := uc.jobRepo.ListBySession(gctx, userID, sessionID, entity.JobProcessPage)
		if err != nil {
			return fmt.Errorf("uc.jobRepo.ListBySession(%s): %w", entity.JobProcessPage, err)
		}
		scanJobs = jobs
		return nil
	})
	g.Go(func() error {
		jobs, err := uc.jobRepo.ListBySession(gctx, userID, sessionID, entity.JobUploadImage)
		if err != nil {
			return fmt.Errorf("uc.jobRepo.ListBySession(%s): %w", entity.JobUploadImage, err)
		}
		uploadJobs = jobs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ProgressUseCase - SessionProgress - %w", err)
	}

	umbrella := countStatuses(umbrellaJobs)
	scan := countStatuses(scanJobs)
	upload := countStatuses(uploadJobs)

	return &dto.SessionProgress{
		Phase:           selectPhase(umbrella, scan, upload),
		ProcessPageJobs: scan,
		ImageUploadJobs: upload,
	}, nil
}

func countStatuses(jobs []*entity.Job) dto.StatusCounts {
	var c dto.StatusCounts
	for _, job := range jobs {
		switch job.Status {
		case entity.Pending:
			c.Pending++
		case entity.Processing:
			c.Processing++
		case entity.Completed:
			c.Completed++
		case entity.Failed:
			c.Failed++
		}
		c.Total++
	}
	return c
}

// Phase rules, in order. A fully failed scan goes straight to complete so a
// session whose enumeration died does not poll forever; the same applies one
// level up, when the session job itself fails before seeding any page job.
func selectPhase(umbrella, scan, upload dto.StatusCounts) dto.Phase {
	switch {
	case scan.Total == 0:
		if umbrella.Total > 0 && umbrella.Failed == umbrella.Total {
			return dto.PhaseComplete
		}
		return dto.PhaseScanning
	case !scan.AllTerminal():
		return dto.PhaseScanning
	case scan.Failed == scan.Total:
		return dto.PhaseComplete
	case upload.Total > 0 && !upload.AllTerminal():
		return dto.PhaseUploading
	default:
		return dto.PhaseComplete
	}
}
