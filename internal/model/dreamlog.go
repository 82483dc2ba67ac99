package model

import "time"

// Rating is the dreamer's verdict on a dream.
type Rating string

const (
	RatingGood    Rating = "Good Dream"
	RatingNeutral Rating = "Neutral Dream"
	RatingBad     Rating = "Bad Dream"
)

// Field bounds for dream logs and tags.
const (
	TitleMaxLen       = 50
	TextContentMaxLen = 500
	TagNameMaxLen     = 30
)

// Ratings lists every accepted rating in display order.
var Ratings = []Rating{RatingGood, RatingNeutral, RatingBad}

// IsValid checks if the rating is one of the accepted literals.
func (r Rating) IsValid() bool {
	switch r {
	case RatingGood, RatingNeutral, RatingBad:
		return true
	}
	return false
}

// DreamLog is a journal entry.
// UserID is fixed at creation; Owner and Tags are populated by reads.
type DreamLog struct {
	ID          int64
	Title       string
	TextContent string
	IsPublic    bool
	Rating      *Rating
	PublishedAt time.Time
	EditedAt    time.Time
	UserID      int64
	Owner       User
	Tags        []Tag
}

// IsOwnedBy reports whether userID authored the log.
func (d *DreamLog) IsOwnedBy(userID int64) bool {
	return userID > 0 && d.UserID == userID
}

// IsVisibleTo reports whether the log may be shown to viewerID.
// A viewerID of zero is an anonymous caller.
func (d *DreamLog) IsVisibleTo(viewerID int64) bool {
	return d.IsPublic || d.IsOwnedBy(viewerID)
}

// DreamLogChanges holds an allow-listed partial update.
// Nil pointers leave the column untouched. RatingSet distinguishes
// clearing the rating from leaving it alone; TagsSet likewise for the tag set.
type DreamLogChanges struct {
	Title       *string
	TextContent *string
	IsPublic    *bool
	Rating      *Rating
	RatingSet   bool
	Tags        []string
	TagsSet     bool
}

// IsEmpty returns true when no column would change.
func (c *DreamLogChanges) IsEmpty() bool {
	return c.Title == nil && c.TextContent == nil && c.IsPublic == nil && !c.RatingSet && !c.TagsSet
}
