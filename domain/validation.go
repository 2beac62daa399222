package domain

import "fmt"

type Rejection struct {
	Index   int
	SlideID int
	Reason  string
}

func (r Rejection) Error() string {
	if r.SlideID > 0 {
		return fmt.Sprintf("entry %d (slide %d): %s", r.Index, r.SlideID, r.Reason)
	}
	return fmt.Sprintf("entry %d: %s", r.Index, r.Reason)
}

// ValidateSlides keeps slides with a positive id, first occurrence wins on duplicates.
func ValidateSlides(slides []Slide) ([]Slide, []Rejection) {
	valid := make([]Slide, 0, len(slides))
	var rejected []Rejection
	seen := make(map[int]struct{}, len(slides))
	for i, slide := range slides {
		switch {
		case slide.ID == nil:
			rejected = append(rejected, Rejection{Index: i, Reason: "missing slide id"})
		case *slide.ID <= 0:
			rejected = append(rejected, Rejection{Index: i, Reason: fmt.Sprintf("non-positive slide id %d", *slide.ID)})
		default:
			if _, dup := seen[*slide.ID]; dup {
				rejected = append(rejected, Rejection{Index: i, SlideID: *slide.ID, Reason: "duplicate slide id"})
				continue
			}
			seen[*slide.ID] = struct{}{}
			valid = append(valid, slide)
		}
	}
	return valid, rejected
}

type Narration struct {
	SlideID int
	Text    string
}

// ValidateNarration resolves the final script of every entry. Entries without text are rejected.
func ValidateNarration(entries []NarrationEntry) ([]Narration, []Rejection) {
	valid := make([]Narration, 0, len(entries))
	var rejected []Rejection
	seen := make(map[int]struct{}, len(entries))
	for i, entry := range entries {
		if entry.SlideID == nil {
			rejected = append(rejected, Rejection{Index: i, Reason: "missing slide id"})
			continue
		}
		id := *entry.SlideID
		if id <= 0 {
			rejected = append(rejected, Rejection{Index: i, Reason: fmt.Sprintf("non-positive slide id %d", id)})
			continue
		}
		if _, dup := seen[id]; dup {
			rejected = append(rejected, Rejection{Index: i, SlideID: id, Reason: "duplicate narration"})
			continue
		}
		seen[id] = struct{}{}
		text := entry.FullScript()
		if text == "" {
			rejected = append(rejected, Rejection{Index: i, SlideID: id, Reason: "empty script"})
			continue
		}
		valid = append(valid, Narration{SlideID: id, Text: text})
	}
	return valid, rejected
}

func MissingSlideIDs(present []int) []int {
	maxID := 0
	set := make(map[int]struct{}, len(present))
	for _, id := range present {
		set[id] = struct{}{}
		if id > maxID {
			maxID = id
		}
	}
	var missing []int
	for id := 1; id <= maxID; id++ {
		if _, ok := set[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
