package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/content-planner/internal/models"
)

var simulatedTargets = []Target{
	{
		ID:          "sim-page-123go",
		Name:        "123 GO - Electric Taxi (Simulated)",
		Category:    "Transportation",
		Tasks:       []string{"MANAGE", "CREATE_CONTENT"},
		AccessToken: "sim_token_123go",
	},
	{
		ID:          "sim-page-luxury",
		Name:        "Minio Luxury (Simulated)",
		Category:    "Transportation",
		Tasks:       []string{"MANAGE", "CREATE_CONTENT"},
		AccessToken: "sim_token_luxury",
	},
}

type simulatedPublisher struct {
	targetsDelay time.Duration
	publishDelay time.Duration
	now          func() time.Time
}

func newSimulatedPublisher(settings Settings, now func() time.Time) *simulatedPublisher {
	return &simulatedPublisher{
		targetsDelay: settings.TargetsDelay,
		publishDelay: settings.PublishDelay,
		now:          now,
	}
}

func (p *simulatedPublisher) Mode() models.PublishMode {
	return models.PublishModeSimulated
}

func (p *simulatedPublisher) ListTargets(ctx context.Context) ([]Target, error) {
	if err := wait(ctx, p.targetsDelay); err != nil {
		return nil, err
	}
	targets := make([]Target, len(simulatedTargets))
	copy(targets, simulatedTargets)
	return targets, nil
}

func (p *simulatedPublisher) Publish(ctx context.Context, targetID, credential string, post models.Post) (*Result, error) {
	d, err := Plan(post)
	if err != nil {
		return nil, err
	}
	if err := wait(ctx, p.publishDelay); err != nil {
		return nil, err
	}

	id := fmt.Sprintf("sim_%s_%d", post.ID, p.now().UnixMilli())
	slog.Info("simulated publish", "target_id", targetID, "post_id", post.ID, "route", d.Route)
	return &Result{
		ID:           id,
		PermalinkURL: "https://facebook.com/simulated/posts/" + id,
	}, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
