package browse

import (
	"testing"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
)

func TestFeatureListRows(t *testing.T) {
	features := newFakeSource().features["r1"]
	list := NewFeatureList(features)

	want := []string{
		"Login - In development",
		"├ Form - Done",
		"└ Validation - In code review",
		"Logout - Ready to develop",
	}
	rows := list.Rows().Items()
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, label := range want {
		if rows[i].Label != label {
			t.Errorf("row %d = %q, want %q", i, rows[i].Label, label)
		}
	}
}

func TestFeatureListRecord(t *testing.T) {
	list := NewFeatureList(newFakeSource().features["r1"])

	list.Rows().Select(2)
	record, kind, ok := list.SelectedRecord()
	if !ok || kind != aha.KindRequirement || record.ID != "q2" {
		t.Errorf("SelectedRecord = %v %v %v", record, kind, ok)
	}
	feature, ok := list.SelectedFeature()
	if !ok || feature.ID != "f1" {
		t.Errorf("SelectedFeature = %v", feature)
	}

	list.Rows().Select(3)
	record, kind, _ = list.SelectedRecord()
	if kind != aha.KindFeature || record.ID != "f2" {
		t.Errorf("row 3 = %s %s", kind, record.ID)
	}
}

func TestFeatureListSelectFeature(t *testing.T) {
	list := NewFeatureList(newFakeSource().features["r1"])
	if !list.SelectFeature("f2") {
		t.Fatal("SelectFeature(f2) = false")
	}
	if i, _ := list.Rows().Selected(); i != 3 {
		t.Errorf("selected row = %d, want 3", i)
	}
	if list.SelectFeature("q1") {
		t.Error("requirement ids should not match feature rows")
	}
}

func TestFeatureListSelectRequirement(t *testing.T) {
	list := NewFeatureList(newFakeSource().features["r1"])
	if !list.SelectRequirement("f1", "q2") {
		t.Fatal("SelectRequirement(f1, q2) = false")
	}
	if i, _ := list.Rows().Selected(); i != 2 {
		t.Errorf("selected row = %d, want 2", i)
	}
	if !list.SelectRequirement("f2", "gone") {
		t.Fatal("missing requirement should fall back to its feature")
	}
	if i, _ := list.Rows().Selected(); i != 3 {
		t.Errorf("selected row = %d, want 3", i)
	}
}
