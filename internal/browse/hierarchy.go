package browse

import (
	"fmt"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
)

// Tree markers drawn in front of requirement rows.
const (
	childMarker     = "├"
	lastChildMarker = "└"
)

// FeatureRow points a display row back into the feature tree. Requirement
// is -1 for the feature's own row.
type FeatureRow struct {
	Feature     int
	Requirement int
}

// IsRequirement reports whether the row shows a requirement.
func (r FeatureRow) IsRequirement() bool { return r.Requirement >= 0 }

// FeatureList keeps features and their requirements as a tree and exposes
// them as a flat, selectable sequence of rows: each feature followed by
// its requirements in source order.
type FeatureList struct {
	features []aha.Record
	rows     *List[FeatureRow]
}

// NewFeatureList builds the row view of features.
func NewFeatureList(features []aha.Record) *FeatureList {
	var items []Item[FeatureRow]
	for fi := range features {
		feature := &features[fi]
		items = append(items, Item[FeatureRow]{
			Label: fmt.Sprintf("%s - %s", feature.Name, feature.StatusName()),
			Value: FeatureRow{Feature: fi, Requirement: -1},
		})
		for ri := range feature.Requirements {
			req := &feature.Requirements[ri]
			marker := childMarker
			if ri == len(feature.Requirements)-1 {
				marker = lastChildMarker
			}
			items = append(items, Item[FeatureRow]{
				Label: fmt.Sprintf("%s %s - %s", marker, req.Name, req.StatusName()),
				Value: FeatureRow{Feature: fi, Requirement: ri},
			})
		}
	}
	return &FeatureList{features: features, rows: NewList(items)}
}

// Features returns the feature tree.
func (f *FeatureList) Features() []aha.Record { return f.features }

// Rows returns the flattened rows.
func (f *FeatureList) Rows() *List[FeatureRow] { return f.rows }

// Record returns the record a row shows and its kind.
func (f *FeatureList) Record(row FeatureRow) (*aha.Record, aha.Kind) {
	feature := &f.features[row.Feature]
	if row.IsRequirement() {
		return &feature.Requirements[row.Requirement], aha.KindRequirement
	}
	return feature, aha.KindFeature
}

// SelectedRecord returns the record on the selected row.
func (f *FeatureList) SelectedRecord() (*aha.Record, aha.Kind, bool) {
	item, ok := f.rows.SelectedItem()
	if !ok {
		return nil, 0, false
	}
	record, kind := f.Record(item.Value)
	return record, kind, true
}

// SelectedFeature returns the feature owning the selected row.
func (f *FeatureList) SelectedFeature() (*aha.Record, bool) {
	item, ok := f.rows.SelectedItem()
	if !ok {
		return nil, false
	}
	return &f.features[item.Value.Feature], true
}

// SelectFeature selects the row of the feature with the given id.
func (f *FeatureList) SelectFeature(id string) bool {
	i, ok := f.rows.Find(func(row FeatureRow) bool {
		return !row.IsRequirement() && f.features[row.Feature].ID == id
	})
	if ok {
		f.rows.Select(i)
	}
	return ok
}

// SelectRequirement selects the row of the requirement with the given id
// under the feature with featureID, falling back to the feature's own row.
func (f *FeatureList) SelectRequirement(featureID, requirementID string) bool {
	i, ok := f.rows.Find(func(row FeatureRow) bool {
		feature := &f.features[row.Feature]
		return row.IsRequirement() && feature.ID == featureID && feature.Requirements[row.Requirement].ID == requirementID
	})
	if !ok {
		return f.SelectFeature(featureID)
	}
	f.rows.Select(i)
	return true
}

// Cache holds what has been loaded for each level of the hierarchy and
// the selection within it.
type Cache struct {
	Projects *List[aha.Record]
	Releases *List[aha.Record]
	Features *FeatureList

	// Ids the child levels were loaded for; results for any other id are
	// stale.
	releasesFor string
	featuresFor string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		Projects: NewList[aha.Record](nil),
		Releases: NewList[aha.Record](nil),
		Features: NewFeatureList(nil),
	}
}

func recordItems(records []aha.Record) []Item[aha.Record] {
	items := make([]Item[aha.Record], len(records))
	for i, record := range records {
		items[i] = Item[aha.Record]{Label: record.Name, Value: record}
	}
	return items
}

func findByID(list *List[aha.Record], id string) (int, bool) {
	return list.Find(func(record aha.Record) bool { return record.ID == id })
}
