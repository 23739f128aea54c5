package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
)

type fakeSource struct {
	projects []aha.Record
	releases map[string][]aha.Record
	features map[string][]aha.Record
	fail     bool

	releaseCalls []string
	featureCalls []string

	createdFeatures     []aha.FeatureDraft
	createdIn           []string
	createdRequirements []aha.RequirementDraft
	createdOn           []string
}

func record(id, name, status string, requirements ...aha.Record) aha.Record {
	r := aha.Record{ID: id, Name: name, ReferenceNum: "ENG-" + id, Requirements: requirements}
	if status != "" {
		r.WorkflowStatus = &aha.WorkflowStatus{Name: status}
	}
	return r
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		projects: []aha.Record{record("p1", "Platform", ""), record("p2", "Mobile", "")},
		releases: map[string][]aha.Record{
			"p1": {record("r1", "1.0", ""), record("r2", "1.1", "")},
			"p2": {record("r3", "2.0", "")},
		},
		features: map[string][]aha.Record{
			"r1": {
				record("f1", "Login", "In development",
					record("q1", "Form", "Done"),
					record("q2", "Validation", "In code review")),
				record("f2", "Logout", "Ready to develop"),
			},
			"r2": {record("f3", "Search", "Under consideration")},
		},
	}
}

func (f *fakeSource) ListProjects(context.Context) ([]aha.Record, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return f.projects, nil
}

func (f *fakeSource) ListReleases(_ context.Context, projectID string) ([]aha.Record, error) {
	f.releaseCalls = append(f.releaseCalls, projectID)
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return f.releases[projectID], nil
}

func (f *fakeSource) ListFeatures(_ context.Context, releaseID string) ([]aha.Record, error) {
	f.featureCalls = append(f.featureCalls, releaseID)
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return f.features[releaseID], nil
}

func (f *fakeSource) CreateFeature(_ context.Context, releaseID string, draft aha.FeatureDraft) (*aha.Record, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	f.createdFeatures = append(f.createdFeatures, draft)
	f.createdIn = append(f.createdIn, releaseID)
	created := record(fmt.Sprintf("new%d", len(f.createdFeatures)), draft.Name, "Under consideration")
	f.features[releaseID] = append(f.features[releaseID], created)
	return &created, nil
}

func (f *fakeSource) CreateRequirement(_ context.Context, featureRef string, draft aha.RequirementDraft) (*aha.Record, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	f.createdRequirements = append(f.createdRequirements, draft)
	f.createdOn = append(f.createdOn, featureRef)
	created := record("newreq", draft.Name, "Under consideration")
	return &created, nil
}

type memoryStore struct {
	crumb Breadcrumb
	saves int
	err   error
}

func (s *memoryStore) Load() (Breadcrumb, error) { return s.crumb, nil }

func (s *memoryStore) Save(crumb Breadcrumb) error {
	s.saves++
	if s.err != nil {
		return s.err
	}
	s.crumb = crumb
	return nil
}

// newLoadedNavigator returns a navigator with the fake project list loaded.
func newLoadedNavigator(source *fakeSource, store BreadcrumbStore) *Navigator {
	nav := NewNavigator(source, store, nil)
	if err := nav.LoadProjects(context.Background()); err != nil {
		panic(err)
	}
	return nav
}
