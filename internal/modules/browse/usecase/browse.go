package usecase

import (
	"context"

	"playfin/internal/modules/browse/domain"
	"playfin/internal/modules/browse/dto"
	browsein "playfin/internal/modules/browse/port/in"
	"playfin/internal/modules/browse/service"
)

type Interactor struct {
	svc *service.BrowseService
}

func NewInteractor(svc *service.BrowseService) browsein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context) (dto.View, error) {
	if err := ctx.Err(); err != nil {
		return dto.View{}, err
	}
	i.svc.Start()
	return i.View(), nil
}

func (i *Interactor) View() dto.View {
	var view dto.View
	i.svc.Snapshot(func(nav *domain.Navigator) { view = toView(nav) })
	return view
}

func (i *Interactor) Move(delta int) dto.MoveOutput {
	changed := i.svc.Move(delta)
	return dto.MoveOutput{View: i.View(), Changed: changed}
}

func (i *Interactor) Confirm(ctx context.Context) (dto.ConfirmOutput, error) {
	action, entry, err := i.svc.Confirm(ctx)
	out := dto.ConfirmOutput{Action: toAction(action), Entry: toEntry(entry), View: i.View()}
	return out, err
}

func (i *Interactor) Escape() (dto.View, bool) {
	popped := i.svc.Escape()
	return i.View(), popped
}

func (i *Interactor) Cancel() dto.View {
	i.svc.Cancel()
	return i.View()
}

func (i *Interactor) SetFilter(query string) dto.View {
	i.svc.SetFilter(query)
	return i.View()
}

func (i *Interactor) ResolveIndicators(ctx context.Context) (dto.View, error) {
	err := i.svc.ResolveIndicators(ctx)
	return i.View(), err
}

func (i *Interactor) Refresh(ctx context.Context) (dto.View, error) {
	err := i.svc.Refresh(ctx)
	return i.View(), err
}

func toView(nav *domain.Navigator) dto.View {
	view := dto.View{Depth: nav.Depth(), State: nav.State().String()}
	f, ok := nav.Current()
	if !ok {
		return view
	}
	view.Title = f.Title
	view.Kind = string(f.Kind)
	view.Cursor = f.Cursor
	view.Filter = f.Filter()
	view.CanEscape = f.EscapeEnabled && nav.Depth() > 1
	view.Leaf = f.Kind.Leaf()
	for _, e := range f.Visible() {
		view.Entries = append(view.Entries, toEntry(e))
	}
	return view
}

func toEntry(e domain.Entry) dto.Entry {
	return dto.Entry{
		ID:        e.ID,
		Label:     e.Label,
		Type:      e.Type,
		Indicator: e.Indicator.String(),
		Resolved:  e.Resolved,
	}
}

func toAction(a service.Action) string {
	switch a {
	case service.ActionOpen:
		return dto.ActionOpen
	case service.ActionPlay:
		return dto.ActionPlay
	default:
		return dto.ActionNone
	}
}
