package task

// Aggregate counts tasks per state. The input must be the full, unfiltered
// set of one user's tasks.
//
// Active counts every non-deleted task that is not archived, so completed
// tasks appear in both ActiveTasks and CompletedTasks.
func Aggregate(tasks []Task) Stats {
	var s Stats
	for _, t := range tasks {
		s.TotalTasks++
		if t.IsDeleted() {
			s.DeletedTasks++
			continue
		}
		switch t.Status {
		case StatusArchived:
			s.ArchivedTasks++
		case StatusCompleted:
			s.CompletedTasks++
			s.ActiveTasks++
		default:
			s.ActiveTasks++
		}
	}
	return s
}
