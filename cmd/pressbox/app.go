package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goliatone/go-pressbox/internal/config"
	"github.com/goliatone/go-pressbox/pkg/access"
	"github.com/goliatone/go-pressbox/pkg/catalog"
	"github.com/goliatone/go-pressbox/pkg/export"
	"github.com/goliatone/go-pressbox/pkg/form"
	"github.com/goliatone/go-pressbox/pkg/generate"
	"github.com/goliatone/go-pressbox/pkg/history"
	"github.com/goliatone/go-pressbox/pkg/lifecycle"
	"github.com/goliatone/go-pressbox/pkg/preview"
	"github.com/goliatone/go-pressbox/pkg/validation"
)

// app wires the catalog, access resolver, form, and lifecycle controller into
// one interactive session.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	registry *catalog.Registry
	resolver *access.Resolver
	session  *access.Session
	form     *form.Form
	ctrl     *lifecycle.Controller
	history  history.Store
	prompts  prompter
}

func newApp(cfg config.Config, log *slog.Logger, userID, planType string, articles int) (*app, error) {
	registry, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	session := access.NewSession()
	session.Set(
		access.Identity{UserID: userID},
		access.Subscription{PlanType: planType, ArticlesRemaining: articles},
	)

	builder := validation.NewBuilder(registry)

	timeout := time.Duration(cfg.Service.TimeoutSeconds) * time.Second
	client, err := generate.NewClient(cfg.Service.URL,
		generate.WithToken(cfg.Service.APIToken),
		generate.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, err
	}

	renderer, err := buildRenderer(cfg)
	if err != nil {
		return nil, err
	}
	exporter, err := export.NewHTMLExporter(renderer)
	if err != nil {
		return nil, err
	}

	ctrl, err := lifecycle.NewController(client, lifecycle.WithExporter(exporter))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		resolver: access.NewResolver(registry),
		session:  session,
		form:     form.New(builder),
		ctrl:     ctrl,
		history:  history.NewMemoryStore(),
		prompts:  surveyPrompter{},
	}, nil
}

func loadRegistry(cfg config.Config) (*catalog.Registry, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default()
	}
	dir, file := filepath.Split(cfg.CatalogPath)
	if dir == "" {
		dir = "."
	}
	return catalog.Load(os.DirFS(dir), file)
}

func buildRenderer(cfg config.Config) (*preview.Renderer, error) {
	var options []preview.Option
	if cfg.Preview.TemplateDir != "" {
		engine, err := preview.NewEngine(preview.WithBaseDir(cfg.Preview.TemplateDir))
		if err != nil {
			return nil, err
		}
		options = append(options, preview.WithEngine(engine))
	}
	if cfg.Preview.ThemeName != "" {
		selector := preview.NewManifestSelector(preview.BuiltinThemes()...)
		options = append(options, preview.WithThemeSelector(selector, cfg.Preview.ThemeName, cfg.Preview.ThemeVariant))
	}
	return preview.NewRenderer(options...)
}

// Run drives the interactive session until the user quits or the context is
// cancelled.
func (a *app) Run(ctx context.Context) error {
	snapshot := a.session.Snapshot()
	if !access.CanGenerate(snapshot.Subscription) {
		return errors.New("no articles remaining on the current plan")
	}

	if err := a.chooseTemplate(ctx); err != nil {
		return err
	}
	if err := a.fillForm(ctx, nil); err != nil {
		return err
	}
	if err := a.submit(ctx); err != nil {
		return err
	}
	return a.menu(ctx)
}

func (a *app) chooseTemplate(ctx context.Context) error {
	snapshot := a.session.Snapshot()
	available := a.resolver.Available(snapshot.Identity, snapshot.Subscription)
	if len(available) == 0 {
		return errors.New("no templates available for the current plan")
	}

	labels := make([]string, len(available))
	defaultIndex := 0
	for i, spec := range available {
		labels[i] = fmt.Sprintf("%s — %s", spec.Name, spec.Description)
		if spec.ID == a.cfg.DefaultTemplate {
			defaultIndex = i
		}
	}

	idx, err := a.prompts.Select(ctx, "Choose a template", labels, defaultIndex)
	if err != nil {
		return err
	}
	spec := available[idx]
	a.form.SetTemplate(spec)
	a.ctrl.SetTemplate(spec.ID)
	a.log.Debug("template selected", "template", spec.ID)
	return nil
}

// fillForm prompts for the given field ids, or for every field when ids is
// nil, then validates. Fields that fail validation are re-prompted until the
// whole form passes.
func (a *app) fillForm(ctx context.Context, ids []string) error {
	fields := a.form.Fields()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	for _, field := range fields {
		if ids != nil && !want[field.ID] {
			continue
		}
		value, err := a.prompts.Field(ctx, field, a.form.Value(field.ID), a.form.Error(field.ID))
		if err != nil {
			return err
		}
		if err := a.form.SetField(field.ID, value); err != nil {
			return err
		}
	}

	result, err := a.form.Validate()
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}

	invalid := make([]string, 0, len(result.Errors))
	for id, msg := range result.Errors {
		fmt.Fprintf(os.Stderr, "  ✗ %s\n", msg)
		invalid = append(invalid, id)
	}
	sort.Strings(invalid)
	return a.fillForm(ctx, invalid)
}

func (a *app) submit(ctx context.Context) error {
	a.log.Info("generating", "template", a.form.TemplateID())
	doc, err := a.ctrl.Submit(ctx, a.form.Values())
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	a.recordHistory(ctx, doc)
	a.showPreview(doc)
	return nil
}

func (a *app) menu(ctx context.Context) error {
	const (
		actionDownload   = "Download"
		actionEdit       = "Edit a field"
		actionRegenerate = "Regenerate"
		actionHistory    = "History"
		actionNew        = "New article"
		actionQuit       = "Quit"
	)
	actions := []string{actionDownload, actionEdit, actionRegenerate, actionHistory, actionNew, actionQuit}

	for {
		idx, err := a.prompts.Select(ctx, "What next?", actions, 0)
		if err != nil {
			return err
		}
		switch actions[idx] {
		case actionDownload:
			err = a.download(ctx)
		case actionEdit:
			err = a.edit(ctx)
		case actionRegenerate:
			err = a.regenerate(ctx)
		case actionHistory:
			err = a.showHistory(ctx)
		case actionNew:
			a.ctrl.Reset()
			if err = a.chooseTemplate(ctx); err == nil {
				if err = a.fillForm(ctx, nil); err == nil {
					err = a.submit(ctx)
				}
			}
		case actionQuit:
			return nil
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			a.log.Error("action failed", "error", err)
		}
	}
}

func (a *app) download(ctx context.Context) error {
	artifact, err := a.ctrl.Download(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(a.cfg.Output.Dir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("write download: %w", err)
	}
	a.log.Info("downloaded", "path", path, "bytes", len(artifact.Data))
	return nil
}

func (a *app) edit(ctx context.Context) error {
	doc := a.ctrl.Document()
	if doc == nil {
		return lifecycle.ErrNoDocument
	}
	if err := a.ctrl.RequestEdit(); err != nil {
		return err
	}

	fields := editableFields(doc.RawContent)
	idx, err := a.prompts.Select(ctx, "Which field?", fields, 0)
	if err != nil {
		a.ctrl.CancelEdits()
		return err
	}
	field := fields[idx]
	current, _ := doc.RawContent[field].(string)

	value, err := a.prompts.TextArea(ctx, "Edit "+field, current)
	if err != nil {
		a.ctrl.CancelEdits()
		return err
	}
	if err := a.ctrl.SetEdit(field, value); err != nil {
		return err
	}

	updated, err := a.ctrl.SaveEdits(ctx)
	if err != nil {
		// Still in Editing; back out so the menu keeps working.
		a.ctrl.CancelEdits()
		return fmt.Errorf("save edits: %w", err)
	}
	a.showPreview(updated)
	return nil
}

func (a *app) regenerate(ctx context.Context) error {
	if err := a.ctrl.RequestRegenerate(); err != nil {
		return err
	}
	confirmed, err := a.prompts.Confirm(ctx, "Replace the current article? This cannot be undone.", false)
	if err != nil {
		a.ctrl.DeclineRegenerate()
		return err
	}
	if !confirmed {
		return a.ctrl.DeclineRegenerate()
	}

	doc, err := a.ctrl.ConfirmRegenerate(ctx)
	if err != nil {
		return fmt.Errorf("regeneration failed, previous article kept: %w", err)
	}
	a.recordHistory(ctx, doc)
	a.showPreview(doc)
	return nil
}

func (a *app) showHistory(ctx context.Context) error {
	snapshot := a.session.Snapshot()
	entries, err := a.history.List(ctx, snapshot.Identity.UserID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no articles generated yet")
		return nil
	}
	for _, entry := range entries {
		fmt.Printf("%s  %-20s  %s\n", entry.CreatedAt.Format("15:04:05"), entry.TemplateID, entry.Headline)
	}
	return nil
}

func (a *app) recordHistory(ctx context.Context, doc *lifecycle.Document) {
	snapshot := a.session.Snapshot()
	_, err := a.history.Save(ctx, history.Entry{
		UserID:     snapshot.Identity.UserID,
		TemplateID: doc.TemplateID,
		Headline:   doc.Headline(),
		RawContent: doc.RawContent,
		CreatedAt:  doc.CreatedAt,
	})
	if err != nil {
		a.log.Warn("history save failed", "error", err)
	}
}

func (a *app) showPreview(doc *lifecycle.Document) {
	fmt.Println()
	if headline := doc.Headline(); headline != "" {
		fmt.Println("##", headline)
	}
	if body, ok := doc.RawContent["article_content"].(string); ok {
		fmt.Println(body)
	}
	fmt.Println()
}

// editableFields lists the string-valued content fields in a stable order.
func editableFields(content map[string]any) []string {
	var out []string
	for key, value := range content {
		if _, ok := value.(string); ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
