package repository

import (
	"strings"
	"time"

	"amphomeus/internal/domain"

	"gorm.io/gorm"
)

type SortOrder string

const (
	SortDateDesc  SortOrder = "date_desc"
	SortDateAsc   SortOrder = "date_asc"
	SortTitleAsc  SortOrder = "title_asc"
	SortTitleDesc SortOrder = "title_desc"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortDateDesc, SortDateAsc, SortTitleAsc, SortTitleDesc:
		return true
	}
	return false
}

// JournalFilter narrows the gallery listing. Zero values mean "no filter".
type JournalFilter struct {
	Search    string
	TagIDs    []string
	StartDate *time.Time
	EndDate   *time.Time
	Sort      SortOrder
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// apply is the one place the gallery query is built. Search is a
// case-insensitive substring match on the title, tags match when the journal
// carries any of them, and the end date covers the whole calendar day.
func (f JournalFilter) apply(q *gorm.DB) *gorm.DB {
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(`LOWER(journals.title) LIKE ? ESCAPE '\'`, pattern)
	}

	if len(f.TagIDs) > 0 {
		q = q.Where(
			"journals.id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).
				Model(&domain.JournalTag{}).
				Select("journal_id").
				Where("tag_id IN ?", f.TagIDs),
		)
	}

	if f.StartDate != nil {
		q = q.Where("journals.date >= ?", f.StartDate.UTC())
	}
	if f.EndDate != nil {
		q = q.Where("journals.date < ?", endOfDayExclusive(*f.EndDate))
	}

	switch f.Sort {
	case SortDateAsc:
		q = q.Order("journals.date ASC").Order("journals.id ASC")
	case SortTitleAsc:
		q = q.Order("journals.title ASC").Order("journals.id ASC")
	case SortTitleDesc:
		q = q.Order("journals.title DESC").Order("journals.id DESC")
	default:
		q = q.Order("journals.date DESC").Order("journals.id DESC")
	}

	return q
}

// endOfDayExclusive is the start of the day after t, taken in t's own
// location so an end date with an offset covers that local day.
func endOfDayExclusive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).UTC()
}
