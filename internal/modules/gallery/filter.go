package gallery

import (
	"errors"
	"fmt"
	"strings"

	"amphomeus/internal/pkg/utils"
	"amphomeus/internal/repository"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Params are the raw gallery query values as received over HTTP.
type Params struct {
	Search    string `form:"search"`
	Sort      string `form:"sort"`
	Tags      string `form:"tags"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// ParseFilter turns raw query values into a repository filter. Every field
// is optional; an unknown sort falls back to newest first.
func ParseFilter(p Params) (repository.JournalFilter, error) {
	f := repository.JournalFilter{
		Search: strings.TrimSpace(p.Search),
		Sort:   repository.SortOrder(strings.TrimSpace(p.Sort)),
	}
	if !f.Sort.Valid() {
		f.Sort = repository.SortDateDesc
	}

	for _, id := range strings.Split(p.Tags, ",") {
		if id = strings.TrimSpace(id); id != "" {
			f.TagIDs = append(f.TagIDs, id)
		}
	}

	start, err := utils.ParseOptionalDate(p.StartDate)
	if err != nil {
		return f, fmt.Errorf("%w: startDate %q", ErrInvalidFilter, p.StartDate)
	}
	// The end date keeps its offset so the whole local day is included.
	end, err := utils.ParseOptionalDateKeepOffset(p.EndDate)
	if err != nil {
		return f, fmt.Errorf("%w: endDate %q", ErrInvalidFilter, p.EndDate)
	}
	f.StartDate, f.EndDate = start, end

	return f, nil
}
