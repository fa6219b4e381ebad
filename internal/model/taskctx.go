package model

// TaskContext bundles a due CronEntry with the Task and groups it
// drives, the shape the Scheduler hands to the Task Runner
// (SPEC_FULL.md §4.4, §4.5).
type TaskContext struct {
	Cron           CronEntry
	Task           Task
	NodeGroupID    int64
	RequestGroupID int64
	HandlerID      int64
}
