package task

// Filter selects a subset of a user's tasks. Zero fields match everything.
type Filter struct {
	DeletionStatus *DeletionStatus
	Status         *Status
	ExcludeStatus  *Status
}

// All matches every task regardless of state.
func All() Filter { return Filter{} }

// ActiveView matches tasks shown in the main list: not deleted, not archived.
func ActiveView() Filter {
	return Filter{DeletionStatus: ptr(NotDeleted), ExcludeStatus: ptr(StatusArchived)}
}

// ArchivedView matches archived tasks that are not deleted.
func ArchivedView() Filter {
	return Filter{DeletionStatus: ptr(NotDeleted), Status: ptr(StatusArchived)}
}

// DeletedView matches soft deleted tasks of any status.
func DeletedView() Filter {
	return Filter{DeletionStatus: ptr(SoftDeleted)}
}

// Matches reports whether t passes the filter.
func (f Filter) Matches(t Task) bool {
	if f.DeletionStatus != nil && t.DeletionStatus != *f.DeletionStatus {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.ExcludeStatus != nil && t.Status == *f.ExcludeStatus {
		return false
	}
	return true
}

func ptr[T any](v T) *T { return &v }
