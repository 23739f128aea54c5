package browse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
)

func TestUpDownOnEmptyLevels(t *testing.T) {
	nav := NewNavigator(&fakeSource{}, nil, nil)
	nav.Up()
	nav.Down()
	if _, ok := nav.Cache().Projects.Selected(); ok {
		t.Error("empty project list should have no selection")
	}
	if nav.Level() != LevelProject {
		t.Errorf("level = %s", nav.Level())
	}
}

func TestEnterWithoutSelectionIsNoop(t *testing.T) {
	source := newFakeSource()
	store := &memoryStore{}
	nav := newLoadedNavigator(source, store)

	if err := nav.Enter(context.Background()); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if nav.Level() != LevelProject {
		t.Errorf("level = %s, want project", nav.Level())
	}
	if len(source.releaseCalls) != 0 {
		t.Errorf("releases loaded without a selection: %v", source.releaseCalls)
	}
	if store.saves != 0 {
		t.Errorf("breadcrumb saved %d times", store.saves)
	}
}

func TestBackAtProjectIsNoop(t *testing.T) {
	nav := newLoadedNavigator(newFakeSource(), nil)
	nav.Down()
	nav.Back()
	if nav.Level() != LevelProject {
		t.Errorf("level = %s", nav.Level())
	}
	if i, ok := nav.Cache().Projects.Selected(); !ok || i != 0 {
		t.Errorf("project selection changed to %d, %v", i, ok)
	}
}

func TestDrillDownAndBack(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	store := &memoryStore{}
	nav := newLoadedNavigator(source, store)

	nav.Down() // Platform
	if err := nav.Enter(ctx); err != nil {
		t.Fatalf("Enter project: %v", err)
	}
	if nav.Level() != LevelRelease {
		t.Fatalf("level = %s, want release", nav.Level())
	}
	if got := nav.Cache().Releases.Len(); got != 2 {
		t.Errorf("releases = %d", got)
	}
	if _, ok := nav.Cache().Releases.Selected(); ok {
		t.Error("fresh release list should have no selection")
	}
	if store.crumb != (Breadcrumb{Project: "p1"}) {
		t.Errorf("saved = %+v", store.crumb)
	}

	nav.Down() // 1.0
	if err := nav.Enter(ctx); err != nil {
		t.Fatalf("Enter release: %v", err)
	}
	if nav.Level() != LevelFeatures {
		t.Fatalf("level = %s, want features", nav.Level())
	}
	if got := nav.Cache().Features.Rows().Len(); got != 4 {
		t.Errorf("feature rows = %d, want 4", got)
	}

	nav.Down()
	nav.Down() // Form requirement
	if err := nav.Enter(ctx); err != nil {
		t.Fatalf("Enter features: %v", err)
	}
	if nav.Level() != LevelFeature {
		t.Fatalf("level = %s, want feature", nav.Level())
	}
	if want := (Breadcrumb{Project: "p1", Release: "r1", Feature: "f1"}); store.crumb != want {
		t.Errorf("saved = %+v, want %+v", store.crumb, want)
	}

	// Entering the Feature level changes nothing.
	saves := store.saves
	nav.Enter(ctx)
	if nav.Level() != LevelFeature || store.saves != saves {
		t.Error("Enter at the Feature level should be a no-op")
	}

	nav.Back()
	if nav.Level() != LevelFeatures {
		t.Errorf("level = %s, want features", nav.Level())
	}
	if _, ok := nav.Cache().Features.Rows().Selected(); !ok {
		t.Error("Back to Features should keep the row selection")
	}
	nav.Back()
	if nav.Level() != LevelRelease {
		t.Errorf("level = %s, want release", nav.Level())
	}
	if _, ok := nav.Cache().Features.Rows().Selected(); ok {
		t.Error("Back from Features should deselect the feature row")
	}
	nav.Back()
	if nav.Level() != LevelProject {
		t.Errorf("level = %s, want project", nav.Level())
	}
	if _, ok := nav.Cache().Releases.Selected(); ok {
		t.Error("Back from Release should deselect the release")
	}
	if nav.Status() != "back" {
		t.Errorf("status = %q", nav.Status())
	}
}

func TestEnterNewProjectClearsStaleIDs(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	nav := newLoadedNavigator(newFakeSource(), store)

	nav.Down()
	nav.Enter(ctx)
	nav.Down()
	nav.Enter(ctx)
	nav.Back()
	nav.Back()
	nav.Down() // Mobile
	if err := nav.Enter(ctx); err != nil {
		t.Fatal(err)
	}
	if want := (Breadcrumb{Project: "p2"}); store.crumb != want {
		t.Errorf("saved = %+v, want %+v", store.crumb, want)
	}
	if nav.Cache().Features.Rows().Len() != 0 {
		t.Error("features of the previous project should be dropped")
	}
}

func TestFeatureLevelMovesFeatureCursor(t *testing.T) {
	ctx := context.Background()
	nav := newLoadedNavigator(newFakeSource(), nil)
	nav.Down()
	nav.Enter(ctx)
	nav.Down()
	nav.Enter(ctx)
	nav.Down()
	nav.Enter(ctx)

	nav.Down()
	if i, _ := nav.Cache().Features.Rows().Selected(); i != 1 {
		t.Errorf("row = %d, want 1", i)
	}
	nav.Up()
	nav.Up()
	if i, _ := nav.Cache().Features.Rows().Selected(); i != 0 {
		t.Errorf("row = %d, want 0", i)
	}
}

func TestFailedLoadKeepsLevel(t *testing.T) {
	source := newFakeSource()
	nav := newLoadedNavigator(source, nil)
	source.fail = true

	nav.Down()
	if err := nav.Enter(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if nav.Level() != LevelProject {
		t.Errorf("level = %s, want project", nav.Level())
	}
	if !strings.Contains(nav.Status(), "connection refused") {
		t.Errorf("status = %q", nav.Status())
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	store := &memoryStore{err: errors.New("couldn't write to /nope")}
	nav := newLoadedNavigator(newFakeSource(), store)
	nav.Down()
	if err := nav.Enter(context.Background()); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if nav.Level() != LevelRelease {
		t.Errorf("level = %s, want release", nav.Level())
	}
	if nav.Status() != "couldn't write to /nope" {
		t.Errorf("status = %q", nav.Status())
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name         string
		saved        Breadcrumb
		wantLevel    Level
		wantReached  Breadcrumb
		wantFeatures int
		wantRow      int
	}{
		{
			name:      "nothing saved",
			wantLevel: LevelProject,
		},
		{
			name:      "unknown project",
			saved:     Breadcrumb{Project: "gone", Release: "r1"},
			wantLevel: LevelProject,
		},
		{
			name:        "unknown release stops at release",
			saved:       Breadcrumb{Project: "p1", Release: "gone", Feature: "f1"},
			wantLevel:   LevelRelease,
			wantReached: Breadcrumb{Project: "p1"},
		},
		{
			name:         "unknown feature stops at features",
			saved:        Breadcrumb{Project: "p1", Release: "r1", Feature: "gone"},
			wantLevel:    LevelFeatures,
			wantReached:  Breadcrumb{Project: "p1", Release: "r1"},
			wantFeatures: 1,
			wantRow:      -1,
		},
		{
			name:         "full path",
			saved:        Breadcrumb{Project: "p1", Release: "r1", Feature: "f2"},
			wantLevel:    LevelFeatures,
			wantReached:  Breadcrumb{Project: "p1", Release: "r1", Feature: "f2"},
			wantFeatures: 1,
			wantRow:      3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource()
			store := &memoryStore{}
			nav := newLoadedNavigator(source, store)

			nav.Restore(context.Background(), tt.saved)

			if nav.Level() != tt.wantLevel {
				t.Errorf("level = %s, want %s", nav.Level(), tt.wantLevel)
			}
			if nav.Breadcrumb() != tt.wantReached {
				t.Errorf("breadcrumb = %+v, want %+v", nav.Breadcrumb(), tt.wantReached)
			}
			if len(source.featureCalls) != tt.wantFeatures {
				t.Errorf("feature loads = %v", source.featureCalls)
			}
			if tt.wantFeatures > 0 {
				row, ok := nav.Cache().Features.Rows().Selected()
				if !ok {
					row = -1
				}
				if row != tt.wantRow {
					t.Errorf("feature row = %d, want %d", row, tt.wantRow)
				}
			}
			if store.saves != 0 {
				t.Errorf("Restore saved the breadcrumb %d times", store.saves)
			}
		})
	}
}

func TestRestoreThenContinue(t *testing.T) {
	ctx := context.Background()
	nav := newLoadedNavigator(newFakeSource(), nil)
	nav.Restore(ctx, Breadcrumb{Project: "p1", Release: "r2"})

	release, ok := nav.SelectedRelease()
	if !ok || release.ID != "r2" {
		t.Fatalf("selected release = %v", release)
	}
	nav.Back()
	nav.Back()
	if i, _ := nav.Cache().Projects.Selected(); i != 0 {
		t.Errorf("project row = %d, want 0", i)
	}
}

func TestDetailIsCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	nav := newLoadedNavigator(newFakeSource(), nil)
	renders := 0
	render := func(record *aha.Record, kind aha.Kind) string {
		renders++
		return kind.String() + ":" + record.Name
	}

	if got := nav.Detail(render); got != "" {
		t.Errorf("detail outside the Feature level = %q", got)
	}
	nav.Restore(ctx, Breadcrumb{Project: "p1", Release: "r1", Feature: "f1"})
	nav.Enter(ctx)

	if got := nav.Detail(render); got != "feature:Login" {
		t.Errorf("detail = %q", got)
	}
	nav.Detail(render)
	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}

	nav.Down()
	if got := nav.Detail(render); got != "requirement:Form" {
		t.Errorf("detail after Down = %q", got)
	}
	nav.InvalidateDetail()
	nav.Detail(render)
	if renders != 3 {
		t.Errorf("renders = %d, want 3", renders)
	}
}

func TestStaleLoadsAreDiscarded(t *testing.T) {
	nav := newLoadedNavigator(newFakeSource(), nil)
	nav.Cache().Projects.Select(1)

	if nav.applyReleases("p1", []aha.Record{record("rx", "stale", "")}) {
		t.Error("releases for an unselected project were applied")
	}
	if nav.Cache().Releases.Len() != 0 {
		t.Error("stale releases reached the cache")
	}
	if !nav.applyReleases("p2", []aha.Record{record("r3", "2.0", "")}) {
		t.Error("releases for the selected project were discarded")
	}

	if nav.applyFeatures("r3", nil) {
		t.Error("features applied without a selected release")
	}
	nav.Cache().Releases.Select(0)
	if !nav.applyFeatures("r3", []aha.Record{record("f9", "F", "Done")}) {
		t.Error("features for the selected release were discarded")
	}
}

func TestReloadFeaturesKeepsSelection(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	nav := newLoadedNavigator(source, nil)
	nav.Restore(ctx, Breadcrumb{Project: "p1", Release: "r1", Feature: "f2"})

	source.features["r1"] = append([]aha.Record{record("f0", "Onboarding", "Done")}, source.features["r1"]...)
	if err := nav.ReloadFeatures(ctx); err != nil {
		t.Fatalf("ReloadFeatures: %v", err)
	}
	feature, ok := nav.Cache().Features.SelectedFeature()
	if !ok || feature.ID != "f2" {
		t.Errorf("selected feature = %v", feature)
	}
	if nav.Level() != LevelFeatures {
		t.Errorf("level = %s", nav.Level())
	}
}

func TestReloadFeaturesKeepsSelectedRequirement(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	nav := newLoadedNavigator(source, nil)
	nav.Restore(ctx, Breadcrumb{Project: "p1", Release: "r1", Feature: "f1"})
	if err := nav.Enter(ctx); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	nav.Down()
	nav.Down()

	source.features["r1"] = []aha.Record{
		record("f1", "Login", "In development",
			record("q1", "Form", "Done"),
			record("q2", "Validation", "In code review"),
			record("q3", "Errors", "Under consideration")),
		record("f2", "Logout", "Ready to develop"),
	}
	if err := nav.ReloadFeatures(ctx); err != nil {
		t.Fatalf("ReloadFeatures: %v", err)
	}

	got, kind, ok := nav.Cache().Features.SelectedRecord()
	if !ok || kind != aha.KindRequirement || got.ID != "q2" {
		t.Errorf("selected = %v %v, want requirement q2", kind, got)
	}
	if nav.Level() != LevelFeature {
		t.Errorf("level = %s", nav.Level())
	}
}
