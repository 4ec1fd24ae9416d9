package job

import (
	"context"
	"log/slog"
	"sync"

	"github.com/maheshrc27/content-planner/internal/models"
	"github.com/maheshrc27/content-planner/internal/repository"
	"github.com/maheshrc27/content-planner/internal/service"
)

const concurrencyLimit = 10

// GapPrefetchJob fills the gap suggestions of every page ahead of the
// dashboard being opened.
type GapPrefetchJob struct {
	pr repository.PageRepository
	ds service.DashboardService
}

func NewGapPrefetchJob(pr repository.PageRepository, ds service.DashboardService) *GapPrefetchJob {
	return &GapPrefetchJob{
		pr: pr,
		ds: ds,
	}
}

func (j *GapPrefetchJob) PrefetchGaps() {
	j.Run(context.Background())
}

// Run returns the total number of gap days found across all pages.
func (j *GapPrefetchJob) Run(ctx context.Context) int {
	pages, err := j.pr.List(ctx)
	if err != nil {
		slog.Info(err.Error())
		return 0
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, page := range pages {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(page models.Page) {
			defer wg.Done()
			defer func() { <-semaphore }()

			gaps, err := j.ds.PrefetchGaps(ctx, page)
			if err != nil {
				slog.Info("unable to prefetch gap topics", "page_id", page.ID, "error", err)
				return
			}

			mu.Lock()
			total += gaps
			mu.Unlock()
		}(page)
	}

	wg.Wait()
	slog.Info("gap topics prefetched", "pages", len(pages), "gaps", total)
	return total
}
