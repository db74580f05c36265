package usecase

import (
	"context"

	"playfin/internal/modules/playback/dto"
	playbackin "playfin/internal/modules/playback/port/in"
	"playfin/internal/modules/playback/service"
	"playfin/internal/platform/ticks"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) playbackin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Play(ctx context.Context, input dto.PlayInput) (dto.PlayOutput, error) {
	res, err := i.svc.Play(ctx, input.ItemID, service.Stdio{In: input.Stdin, Out: input.Stdout, Err: input.Stderr})
	out := dto.PlayOutput{
		ItemID:              res.Item.ID,
		Name:                res.Item.Name,
		StartSeconds:        res.StartSeconds,
		FinalSeconds:        res.FinalSeconds,
		ReportsSent:         res.Summary.Sent,
		ReportsFailed:       res.Summary.Failed,
		DurationUnavailable: res.Summary.Err != nil,
		StopReported:        res.StopReported,
		Aborted:             res.Aborted,
	}
	return out, err
}

func (i *Interactor) Abort() error {
	return i.svc.Abort()
}

func (i *Interactor) History(ctx context.Context, input dto.HistoryInput) ([]dto.HistoryEntry, error) {
	records, err := i.svc.History(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryEntry, 0, len(records))
	for _, r := range records {
		out = append(out, dto.HistoryEntry{
			ItemID:       r.ItemID,
			Name:         r.Name,
			StartedAt:    r.StartedAt,
			EndedAt:      r.EndedAt,
			StartSeconds: ticks.WholeSeconds(r.StartTicks),
			EndSeconds:   ticks.WholeSeconds(r.EndTicks),
			Percent:      r.Percent(),
			Outcome:      string(r.Outcome),
			StopReported: r.StopReported,
		})
	}
	return out, nil
}
