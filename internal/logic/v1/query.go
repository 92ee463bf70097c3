package v1

import (
	"strconv"
	"strings"

	"github.com/duynhne/directory-service/internal/core/domain"
)

// AllWorkTypes is the filter value meaning "no work filter".
const AllWorkTypes = "all"

// ListParams is a listing request as received from the client. Page and
// Limit stay raw so malformed values can fall back to defaults.
type ListParams struct {
	Search string
	// Work is the comma-joined list of selected work tags.
	Work  string
	Page  string
	Limit string
	// Public listings ignore Limit and use the fixed public page size.
	Public bool
}

// BuildPredicate turns free-text search and selected work tags into a
// predicate over the profile collection:
//   - search alone: any search field contains the text
//   - tags alone: any work tag contains any selected tag
//   - both: both of the above
//   - neither: everything matches
func BuildPredicate(search string, workFilters []string) domain.Predicate {
	var pred domain.Predicate

	if search = strings.TrimSpace(search); search != "" {
		clause := make(domain.Clause, 0, len(domain.SearchFields))
		for _, f := range domain.SearchFields {
			clause = append(clause, domain.Condition{Field: f, Substring: search})
		}
		pred = append(pred, clause)
	}

	if len(workFilters) > 0 {
		clause := make(domain.Clause, 0, len(workFilters))
		for _, tag := range workFilters {
			clause = append(clause, domain.Condition{Field: domain.FieldWork, Substring: tag})
		}
		pred = append(pred, clause)
	}

	return pred
}

// ParseWorkFilters splits a comma-joined tag list. The "all" sentinel,
// blank entries and duplicates are dropped.
func ParseWorkFilters(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllWorkTypes) {
		return nil
	}

	var tags []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || strings.EqualFold(tag, AllWorkTypes) {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// positiveOr parses raw as a positive integer, returning def otherwise.
func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// listQuery resolves p into a repository query using the configured page sizes.
func (s *ProfileService) listQuery(p ListParams) domain.ListQuery {
	limit := s.cfg.PublicPageSize
	if !p.Public {
		limit = positiveOr(p.Limit, s.cfg.AdminPageSize)
		if s.cfg.MaxPageSize > 0 && limit > s.cfg.MaxPageSize {
			limit = s.cfg.MaxPageSize
		}
	}

	return domain.ListQuery{
		Predicate: BuildPredicate(p.Search, ParseWorkFilters(p.Work)),
		Page:      positiveOr(p.Page, 1),
		Limit:     limit,
	}
}
