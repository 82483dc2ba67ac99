package model

import (
	"testing"
)

func TestRating_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating Rating
		want   bool
	}{
		{RatingGood, true},
		{RatingNeutral, true},
		{RatingBad, true},
		{"good dream", false},
		{"Good", false},
		{"", false},
		{"Nightmare", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.rating), func(t *testing.T) {
			t.Parallel()
			if got := tt.rating.IsValid(); got != tt.want {
				t.Errorf("Rating(%q).IsValid() = %v, want %v", tt.rating, got, tt.want)
			}
		})
	}
}

func TestDreamLog_IsOwnedBy(t *testing.T) {
	t.Parallel()

	log := &DreamLog{ID: 1, UserID: 7}

	if !log.IsOwnedBy(7) {
		t.Error("author should own the log")
	}
	if log.IsOwnedBy(8) {
		t.Error("other user should not own the log")
	}
	if log.IsOwnedBy(0) {
		t.Error("anonymous caller should not own the log")
	}
}

func TestDreamLog_IsVisibleTo(t *testing.T) {
	t.Parallel()

	public := &DreamLog{UserID: 7, IsPublic: true}
	private := &DreamLog{UserID: 7, IsPublic: false}

	tests := []struct {
		name   string
		log    *DreamLog
		viewer int64
		want   bool
	}{
		{"public anonymous", public, 0, true},
		{"public other", public, 9, true},
		{"private owner", private, 7, true},
		{"private other", private, 9, false},
		{"private anonymous", private, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.log.IsVisibleTo(tt.viewer); got != tt.want {
				t.Errorf("IsVisibleTo(%d) = %v, want %v", tt.viewer, got, tt.want)
			}
		})
	}
}

func TestDreamLogChanges_IsEmpty(t *testing.T) {
	t.Parallel()

	title := "New title"

	if !(&DreamLogChanges{}).IsEmpty() {
		t.Error("zero value should be empty")
	}
	if (&DreamLogChanges{Title: &title}).IsEmpty() {
		t.Error("title change should not be empty")
	}
	if (&DreamLogChanges{RatingSet: true}).IsEmpty() {
		t.Error("clearing the rating should not be empty")
	}
	if (&DreamLogChanges{TagsSet: true}).IsEmpty() {
		t.Error("clearing the tags should not be empty")
	}
}

func TestUniqueTagNames(t *testing.T) {
	t.Parallel()

	got := UniqueTagNames([]string{"flying", "falling", "flying", "Flying"})
	want := []string{"flying", "falling", "Flying"}

	if len(got) != len(want) {
		t.Fatalf("UniqueTagNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UniqueTagNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if UniqueTagNames(nil) != nil {
		t.Error("UniqueTagNames(nil) should return nil")
	}
}
