package cache

import "strings"

// Key names one cached view. Keys are slash-separated so related views can be
// invalidated together by prefix.
type Key string

const (
	TodayDay      Key = "today/day"
	TodayStreaks  Key = "today/streaks"
	TodayMomentum Key = "today/momentum"

	WorkUnitsList                 Key = "work-units/list"
	WorkUnitsActiveWithCounts     Key = "work-units/active-with-counts"
	WorkUnitsActiveWithChecklists Key = "work-units/active-with-checklists"

	// WorkUnitsPrefix matches every work-unit view, details included.
	WorkUnitsPrefix = "work-units/"
	// WorkUnitDetailPrefix matches every single-unit detail view.
	WorkUnitDetailPrefix = "work-units/detail/"
)

// WorkUnitDetail is the key of one work unit with its checklist.
func WorkUnitDetail(id string) Key {
	return Key(WorkUnitDetailPrefix + id)
}

// HasPrefix reports whether k falls under prefix.
func (k Key) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(k), prefix)
}

// WorkUnitID returns the id of a detail key, or "" for any other key.
func (k Key) WorkUnitID() string {
	if !k.HasPrefix(WorkUnitDetailPrefix) {
		return ""
	}
	return strings.TrimPrefix(string(k), WorkUnitDetailPrefix)
}
