package domain

import (
	"encoding/json"
	"testing"
)

func intPtr(v int) *int {
	return &v
}

func TestNarrationEntry_FullScript(t *testing.T) {
	tests := []struct {
		name  string
		entry NarrationEntry
		want  string
	}{
		{"script only", NarrationEntry{Script: "Hello"}, "Hello"},
		{"with explanation", NarrationEntry{Script: "Hello", CodeExplanation: "This prints"}, "Hello\nThis prints"},
		{"sentinel explanation", NarrationEntry{Script: "Hello", CodeExplanation: "Explication indisponible"}, "Hello"},
		{"sentinel with padding", NarrationEntry{Script: "Hello", CodeExplanation: "  Explanation unavailable "}, "Hello"},
		{"sentinel script", NarrationEntry{Script: "Explication indisponible"}, ""},
		{"blank", NarrationEntry{Script: "   "}, ""},
		{"explanation only", NarrationEntry{CodeExplanation: "Loop"}, "Loop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.FullScript(); got != tt.want {
				t.Fatalf("FullScript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNarrationEntry_UnmarshalAcceptsIDAlias(t *testing.T) {
	var entries []NarrationEntry
	payload := `[{"id": 3, "script": "a"}, {"slide_id": 4, "id": 9, "script": "b"}, {"script": "c"}]`
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		t.Fatal("unmarshal:", err)
	}
	if entries[0].SlideID == nil || *entries[0].SlideID != 3 {
		t.Fatalf("expected alias id 3, got %v", entries[0].SlideID)
	}
	if entries[1].SlideID == nil || *entries[1].SlideID != 4 {
		t.Fatalf("slide_id must win over id, got %v", entries[1].SlideID)
	}
	if entries[2].SlideID != nil {
		t.Fatalf("expected nil slide id, got %d", *entries[2].SlideID)
	}
}

func TestCourseMetadata_WithDefaults(t *testing.T) {
	m := CourseMetadata{Language: LanguageFrench}.WithDefaults()
	if m.Topic != DefaultTopic || m.Level != DefaultLevel {
		t.Fatalf("unexpected defaults: %+v", m)
	}
	if len(m.Axes) != 2 || m.Axes[0] != "introduction" || m.Axes[1] != "examples" {
		t.Fatalf("unexpected axes: %v", m.Axes)
	}
	if m.Language != LanguageFrench {
		t.Fatalf("language overwritten: %s", m.Language)
	}
}

func TestValidateSlides(t *testing.T) {
	slides := []Slide{
		{ID: intPtr(1), Title: "one"},
		{Title: "no id"},
		{ID: intPtr(0), Title: "zero"},
		{ID: intPtr(2), Title: "two"},
		{ID: intPtr(1), Title: "dup"},
	}
	valid, rejected := ValidateSlides(slides)
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid slides, got %d", len(valid))
	}
	if valid[0].Title != "one" || valid[1].Title != "two" {
		t.Fatalf("unexpected order: %+v", valid)
	}
	if len(rejected) != 3 {
		t.Fatalf("expected 3 rejections, got %v", rejected)
	}
}

func TestValidateNarration(t *testing.T) {
	entries := []NarrationEntry{
		{SlideID: intPtr(1), Script: "Intro"},
		{SlideID: intPtr(2), Script: "Explication indisponible"},
		{Script: "orphan"},
		{SlideID: intPtr(3), Script: "Body", CodeExplanation: "Explication indisponible"},
	}
	valid, rejected := ValidateNarration(entries)
	if len(valid) != 2 {
		t.Fatalf("expected 2 narrations, got %+v", valid)
	}
	if valid[1].SlideID != 3 || valid[1].Text != "Body" {
		t.Fatalf("unexpected narration: %+v", valid[1])
	}
	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %v", rejected)
	}
}

func TestMissingSlideIDs(t *testing.T) {
	missing := MissingSlideIDs([]int{1, 4, 2})
	if len(missing) != 1 || missing[0] != 3 {
		t.Fatalf("expected [3], got %v", missing)
	}
	if MissingSlideIDs(nil) != nil {
		t.Fatal("expected no gaps for empty input")
	}
}
