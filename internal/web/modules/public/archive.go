package public

import (
	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/web/templates"
)

// groupByMonth buckets archived briefs by publish month. Records
// arrive newest first, so groups come out newest first too.
func groupByMonth(records []brief.Brief) []templates.MonthGroup {
	var groups []templates.MonthGroup
	index := make(map[string]int)
	for _, record := range records {
		date := record.PublishDate.UTC()
		key := date.Format("2006-01")
		if at, ok := index[key]; ok {
			groups[at].Briefs = append(groups[at].Briefs, record)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, templates.MonthGroup{
			Key:    key,
			Label:  date.Format("January 2006"),
			Briefs: []brief.Brief{record},
		})
	}
	return groups
}
