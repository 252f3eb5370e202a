package client

import (
	"net/url"
	"sort"
	"strings"
)

// GalleryQuery is the filter state of a gallery view.
type GalleryQuery struct {
	Search    string
	Sort      string
	TagIDs    []string
	StartDate string
	EndDate   string
}

// Values encodes the set filters. Tag ids are sorted so equal selections
// produce equal query strings.
func (q GalleryQuery) Values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if len(q.TagIDs) > 0 {
		ids := append([]string(nil), q.TagIDs...)
		sort.Strings(ids)
		v.Set("tags", strings.Join(ids, ","))
	}
	if q.StartDate != "" {
		v.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("endDate", q.EndDate)
	}
	return v
}

func (q GalleryQuery) Encode() string {
	return q.Values().Encode()
}

// ToggleTag selects id when it is not selected yet and deselects it
// otherwise.
func (q *GalleryQuery) ToggleTag(id string) {
	for i, existing := range q.TagIDs {
		if existing == id {
			q.TagIDs = append(q.TagIDs[:i], q.TagIDs[i+1:]...)
			return
		}
	}
	q.TagIDs = append(q.TagIDs, id)
}

// Reset clears every filter.
func (q *GalleryQuery) Reset() {
	*q = GalleryQuery{}
}
