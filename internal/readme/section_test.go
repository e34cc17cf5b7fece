package readme

import (
	"testing"
)

func TestSortSectionsDoesNotMutateInput(t *testing.T) {
	input := []Section{
		{Name: "B", Order: 2},
		{Name: "A", Order: 1},
	}
	sorted := SortSections(input)

	if input[0].Name != "B" {
		t.Error("expected input slice untouched")
	}
	if sorted[0].Name != "A" || sorted[1].Name != "B" {
		t.Errorf("expected sorted A,B, got %v", sorted)
	}
}

func TestSortSectionsStable(t *testing.T) {
	input := []Section{
		{Name: "first", Order: 5},
		{Name: "second", Order: 5},
		{Name: "third", Order: 5},
	}
	sorted := SortSections(input)
	for i, want := range []string{"first", "second", "third"} {
		if sorted[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, sorted[i].Name)
		}
	}
}

func TestDefaultSectionsOrdered(t *testing.T) {
	if len(DefaultSections) != 14 {
		t.Fatalf("expected 14 templates, got %d", len(DefaultSections))
	}
	for i, s := range DefaultSections {
		if s.Order != i+1 {
			t.Errorf("template %s: expected order %d, got %d", s.ID, i+1, s.Order)
		}
	}
}

func TestFindSections(t *testing.T) {
	// id 与名字混用，大小写不敏感，输出保持模板顺序
	got := FindSections([]string{"License", "introduction", "USAGE"})
	if len(got) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(got))
	}
	for i, want := range []string{"introduction", "usage", "license"} {
		if got[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestFindSectionsUnknownIgnored(t *testing.T) {
	got := FindSections([]string{"no-such-section"})
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}
