package articles

import "time"

// TimeLayout is the fixed-width UTC instant used for publishedAt, so lexical
// and chronological order agree in every backend.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Article is a published news item. The JSON shape is the persisted layout
// for both backends.
type Article struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	BannerURL          string `json:"bannerUrl"`
	Body               string `json:"body"`
	PublishedAt        string `json:"publishedAt"`
	PublishedAtDisplay string `json:"publishedAtDisplay"`
	AuthorName         string `json:"authorName"`
	AuthorEmail        string `json:"authorEmail"`
}

// PublishedTime parses PublishedAt; the zero time is returned if it is malformed.
func (a Article) PublishedTime() time.Time {
	t, err := time.Parse(TimeLayout, a.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Draft is the caller-supplied part of an article.
type Draft struct {
	Title       string
	BannerURL   string
	Body        string
	AuthorName  string
	AuthorEmail string
}

// Options configures a Store. Zero values get defaults in New.
type Options struct {
	Collection string // remote collection name
	LocalKey   string // key of the serialized list in local storage
	Locale     string // BCP 47 tag for PublishedAtDisplay

	Now   func() time.Time
	NewID func(now time.Time) string
}
