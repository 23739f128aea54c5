package browse

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
)

// Level is the hierarchy level that receives navigation input.
type Level int

const (
	LevelProject Level = iota
	LevelRelease
	LevelFeatures
	// LevelFeature is a read view of the selected Features row; it moves
	// the Features cursor rather than owning a list.
	LevelFeature
)

func (l Level) String() string {
	switch l {
	case LevelProject:
		return "project"
	case LevelRelease:
		return "release"
	case LevelFeatures:
		return "features"
	case LevelFeature:
		return "feature"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// RecordSource loads and creates tracker records.
type RecordSource interface {
	ListProjects(ctx context.Context) ([]aha.Record, error)
	ListReleases(ctx context.Context, projectID string) ([]aha.Record, error)
	ListFeatures(ctx context.Context, releaseID string) ([]aha.Record, error)
	CreateFeature(ctx context.Context, releaseID string, draft aha.FeatureDraft) (*aha.Record, error)
	CreateRequirement(ctx context.Context, featureRef string, draft aha.RequirementDraft) (*aha.Record, error)
}

// DetailRenderer formats the record shown at the Feature level.
type DetailRenderer func(record *aha.Record, kind aha.Kind) string

// Navigator is the hierarchy state machine. It owns the Cache and the
// Breadcrumb; nothing else mutates them.
type Navigator struct {
	source RecordSource
	store  BreadcrumbStore
	logger *slog.Logger

	cache *Cache
	level Level
	crumb Breadcrumb

	// status is the one-line debug text shown under the detail pane.
	status string

	detail      string
	detailValid bool
}

// NewNavigator returns a navigator at the Project level with nothing
// loaded. store may be nil to disable persistence.
func NewNavigator(source RecordSource, store BreadcrumbStore, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Navigator{
		source: source,
		store:  store,
		logger: logger,
		cache:  NewCache(),
		level:  LevelProject,
	}
}

// Level returns the active level.
func (n *Navigator) Level() Level { return n.level }

// Cache returns the hierarchy cache for display.
func (n *Navigator) Cache() *Cache { return n.cache }

// Breadcrumb returns the position recorded so far.
func (n *Navigator) Breadcrumb() Breadcrumb { return n.crumb }

// Status returns the debug line.
func (n *Navigator) Status() string { return n.status }

// SetStatus replaces the debug line.
func (n *Navigator) SetStatus(format string, args ...any) {
	n.status = fmt.Sprintf(format, args...)
}

// LoadProjects fills the Project list.
func (n *Navigator) LoadProjects(ctx context.Context) error {
	projects, err := n.source.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	n.cache.Projects = NewList(recordItems(projects))
	n.invalidateDetail()
	return nil
}

// Enter drills into the selected row of the active level. Without a
// selection it does nothing. A failed load leaves the level unchanged.
func (n *Navigator) Enter(ctx context.Context) error {
	n.invalidateDetail()
	n.status = "over"

	switch n.level {
	case LevelProject:
		project, ok := n.cache.Projects.SelectedItem()
		if !ok {
			return nil
		}
		if err := n.loadReleases(ctx, project.Value.ID); err != nil {
			return err
		}
		n.level = LevelRelease
		n.record(func(crumb *Breadcrumb) {
			if crumb.Project != project.Value.ID {
				*crumb = Breadcrumb{Project: project.Value.ID}
			}
		})

	case LevelRelease:
		release, ok := n.cache.Releases.SelectedItem()
		if !ok {
			return nil
		}
		if err := n.loadFeatures(ctx, release.Value.ID); err != nil {
			return err
		}
		n.level = LevelFeatures
		n.record(func(crumb *Breadcrumb) {
			if crumb.Release != release.Value.ID {
				crumb.Release = release.Value.ID
				crumb.Feature = ""
			}
		})

	case LevelFeatures:
		feature, ok := n.cache.Features.SelectedFeature()
		if !ok {
			return nil
		}
		n.level = LevelFeature
		n.record(func(crumb *Breadcrumb) { crumb.Feature = feature.ID })
	}
	return nil
}

// Back drills out one level. It does nothing at the Project level.
func (n *Navigator) Back() {
	n.invalidateDetail()
	n.status = "back"

	switch n.level {
	case LevelFeature:
		n.level = LevelFeatures
	case LevelFeatures:
		n.cache.Features.Rows().Unselect()
		n.level = LevelRelease
	case LevelRelease:
		n.cache.Releases.Unselect()
		n.level = LevelProject
	}
}

// Up moves the active level's selection up one row.
func (n *Navigator) Up() {
	n.invalidateDetail()
	n.status = "up"

	switch n.level {
	case LevelProject:
		n.cache.Projects.Previous()
	case LevelRelease:
		n.cache.Releases.Previous()
	case LevelFeatures, LevelFeature:
		n.cache.Features.Rows().Previous()
	}
}

// Down moves the active level's selection down one row.
func (n *Navigator) Down() {
	n.invalidateDetail()
	n.status = "down"

	switch n.level {
	case LevelProject:
		n.cache.Projects.Next()
	case LevelRelease:
		n.cache.Releases.Next()
	case LevelFeatures, LevelFeature:
		n.cache.Features.Rows().Next()
	}
}

// Restore walks back to a saved position in the freshly loaded Project
// list. Each id that cannot be found stops the walk at the level reached
// so far. Restoring does not rewrite the saved breadcrumb.
func (n *Navigator) Restore(ctx context.Context, saved Breadcrumb) {
	var reached Breadcrumb
	defer func() { n.crumb = reached }()

	if saved.Project == "" {
		return
	}
	i, ok := findByID(n.cache.Projects, saved.Project)
	if !ok {
		return
	}
	n.cache.Projects.Select(i)
	if err := n.loadReleases(ctx, saved.Project); err != nil {
		return
	}
	n.level = LevelRelease
	reached.Project = saved.Project

	if saved.Release == "" {
		return
	}
	i, ok = findByID(n.cache.Releases, saved.Release)
	if !ok {
		return
	}
	n.cache.Releases.Select(i)
	if err := n.loadFeatures(ctx, saved.Release); err != nil {
		return
	}
	n.level = LevelFeatures
	reached.Release = saved.Release

	if saved.Feature != "" && n.cache.Features.SelectFeature(saved.Feature) {
		reached.Feature = saved.Feature
	}
}

// SelectedRelease returns the selected release.
func (n *Navigator) SelectedRelease() (*aha.Record, bool) {
	item, ok := n.cache.Releases.SelectedItem()
	if !ok {
		return nil, false
	}
	return &item.Value, true
}

// ReloadFeatures reloads the Features list of the selected release,
// keeping the active level and the selected row when it still exists.
func (n *Navigator) ReloadFeatures(ctx context.Context) error {
	release, ok := n.SelectedRelease()
	if !ok {
		return nil
	}
	var keepFeature, keepRequirement string
	if feature, ok := n.cache.Features.SelectedFeature(); ok && n.cache.featuresFor == release.ID {
		keepFeature = feature.ID
		if record, kind, _ := n.cache.Features.SelectedRecord(); kind == aha.KindRequirement {
			keepRequirement = record.ID
		}
	}
	if err := n.loadFeatures(ctx, release.ID); err != nil {
		return err
	}
	switch {
	case keepRequirement != "":
		n.cache.Features.SelectRequirement(keepFeature, keepRequirement)
	case keepFeature != "":
		n.cache.Features.SelectFeature(keepFeature)
	}
	n.invalidateDetail()
	return nil
}

// Detail returns the formatted view of the selected Features row at the
// Feature level, rendering it only when the cached copy was invalidated.
func (n *Navigator) Detail(render DetailRenderer) string {
	if n.level != LevelFeature {
		return ""
	}
	if n.detailValid {
		return n.detail
	}
	record, kind, ok := n.cache.Features.SelectedRecord()
	if !ok {
		return ""
	}
	n.detail = render(record, kind)
	n.detailValid = true
	return n.detail
}

// InvalidateDetail drops the cached detail view, e.g. after a resize.
func (n *Navigator) InvalidateDetail() { n.invalidateDetail() }

func (n *Navigator) invalidateDetail() {
	n.detail = ""
	n.detailValid = false
}

func (n *Navigator) loadReleases(ctx context.Context, projectID string) error {
	releases, err := n.source.ListReleases(ctx, projectID)
	if err != nil {
		n.status = fmt.Sprintf("loading releases: %v", err)
		n.logger.Error("loading releases failed", "project", projectID, "error", err)
		return fmt.Errorf("loading releases of %s: %w", projectID, err)
	}
	n.applyReleases(projectID, releases)
	return nil
}

func (n *Navigator) loadFeatures(ctx context.Context, releaseID string) error {
	features, err := n.source.ListFeatures(ctx, releaseID)
	if err != nil {
		n.status = fmt.Sprintf("loading features: %v", err)
		n.logger.Error("loading features failed", "release", releaseID, "error", err)
		return fmt.Errorf("loading features of %s: %w", releaseID, err)
	}
	n.applyFeatures(releaseID, features)
	return nil
}

// applyReleases installs releases loaded for projectID unless the user
// has since selected a different project.
func (n *Navigator) applyReleases(projectID string, releases []aha.Record) bool {
	project, ok := n.cache.Projects.SelectedItem()
	if !ok || project.Value.ID != projectID {
		n.logger.Debug("discarding stale releases", "project", projectID)
		return false
	}
	n.cache.Releases = NewList(recordItems(releases))
	n.cache.releasesFor = projectID
	n.cache.Features = NewFeatureList(nil)
	n.cache.featuresFor = ""
	return true
}

// applyFeatures installs features loaded for releaseID unless the user
// has since selected a different release.
func (n *Navigator) applyFeatures(releaseID string, features []aha.Record) bool {
	release, ok := n.cache.Releases.SelectedItem()
	project, _ := n.cache.Projects.SelectedItem()
	if !ok || release.Value.ID != releaseID || n.cache.releasesFor != project.Value.ID {
		n.logger.Debug("discarding stale features", "release", releaseID)
		return false
	}
	n.cache.Features = NewFeatureList(features)
	n.cache.featuresFor = releaseID
	return true
}

// record updates the breadcrumb and persists it. A failed write is shown
// on the debug line and otherwise ignored.
func (n *Navigator) record(update func(*Breadcrumb)) {
	update(&n.crumb)
	if n.store == nil {
		return
	}
	if err := n.store.Save(n.crumb); err != nil {
		n.status = err.Error()
		n.logger.Warn("saving breadcrumb failed", "error", err)
	}
}
