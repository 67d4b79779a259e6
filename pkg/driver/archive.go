package driver

import (
	"context"
	"maps"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/normalize"
	"github.com/tidwall/gjson"
)

const (
	archiveStep          = "archive"
	archiveSelectionStep = "archive-selection"
)

// ListArchive requests the archive list and returns it normalized. The session is not
// modified. The page becomes Ready once the list is in.
func (d *Driver) ListArchive(ctx context.Context, page domain.Page) (Outcome, error) {
	state := d.store.Read(ctx)
	release, ok := d.gate.TryEnter("")
	if !ok {
		return d.drop(ctx, page, domain.TriggerArchiveList, state), nil
	}
	defer release()

	cfg, err := d.loadConfig(ctx)
	if err != nil {
		return Outcome{}, err
	}

	vars := make(map[string]any, len(cfg.Initialization.RequestVariables)+3)
	maps.Copy(vars, cfg.Initialization.RequestVariables)
	if flow := archiveFlow(cfg); flow != "" {
		vars["flow"] = flow
	}
	vars["step"] = archiveStep
	vars["archive"] = true

	body, err := d.roundTrip(ctx, domain.TriggerArchiveList, page, cfg.Initialization.WebhookURL,
		domain.NewRequest(vars, nil, false))
	if err != nil {
		return Outcome{State: state}, err
	}

	titles := normalize.NormalizeTitles(normalize.FindTitles(normalize.Unwrap(body)))
	d.setPhase(Ready)
	d.emitDataReady(ctx, page)
	return Outcome{State: state, Titles: titles, Ready: true}, nil
}

// SelectArchive requests one archive entry, replaces the session with it and redirects
// to the flow's summary page.
func (d *Driver) SelectArchive(ctx context.Context, page domain.Page, title domain.Title) (Outcome, error) {
	state := d.store.Read(ctx)
	release, ok := d.gate.TryEnter("")
	if !ok {
		return d.drop(ctx, page, domain.TriggerArchiveSelect, state), nil
	}
	defer release()

	cfg, err := d.loadConfig(ctx)
	if err != nil {
		return Outcome{}, err
	}

	vars := map[string]any{
		"step":  archiveSelectionStep,
		"title": title.Title,
		"id":    title.ID,
	}
	if flow := archiveFlow(cfg); flow != "" {
		vars["flow"] = flow
	}

	body, err := d.roundTrip(ctx, domain.TriggerArchiveSelect, page, cfg.Initialization.WebhookURL,
		domain.NewRequest(vars, nil, false))
	if err != nil {
		return Outcome{State: state}, err
	}

	next := entryState(normalize.Unwrap(body))
	if err := d.store.Write(ctx, next); err != nil {
		return Outcome{State: state}, err
	}
	return d.navigate(ctx, page, next, []string{cfg.SummaryPage()})
}

// entryState builds the session an archive entry restores: the answer's variables
// overlaid with the entry, and the entry's scalar fields as form values.
func entryState(obj gjson.Result) domain.State {
	entry := normalize.ExtractEntry(obj)

	next := domain.NewState()
	if vars := obj.Get(domain.KeyVariables); vars.IsObject() {
		if m, ok := vars.Value().(map[string]any); ok {
			next = next.MergeVariables(m)
		}
	}
	if entry.IsObject() {
		if m, ok := entry.Value().(map[string]any); ok {
			next = next.MergeVariables(m)
		}
		next.Form = normalize.Scalars(entry)
	}
	next.Initialized = true
	return next
}

func archiveFlow(cfg *domain.FlowConfig) string {
	if flow, ok := cfg.Initialization.RequestVariables["flow"].(string); ok && flow != "" {
		return flow
	}
	return cfg.Route
}
