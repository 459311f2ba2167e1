package rtos

// MaxTasks is the compile-time task-table bound.
const MaxTasks = 16

// TaskState is a task's lifecycle state.
type TaskState uint8

const (
	TaskDead TaskState = iota
	TaskReady
	TaskRunning
	TaskBlocked
)

func (s TaskState) String() string {
	switch s {
	case TaskDead:
		return "DEAD"
	case TaskReady:
		return "READY"
	case TaskRunning:
		return "RUNNING"
	case TaskBlocked:
		return "BLOCKED"
	default:
		return "UNKNOWN"
	}
}

// Task is one task-table slot. DS/RS hold the task's independent copy of
// the data/return stack while it is not the one actively mounted in the
// live VM; len(DS)/len(RS) is ds_depth/rs_depth and cap(DS)/cap(RS) is the
// configured capacity.
type Task struct {
	State    TaskState
	Priority uint8
	WordIdx  uint16

	DS []int32
	RS []int32

	SleepUntilTick uint32
	ExecCount      uint64

	// A BLOCKED task is blocked on exactly one predicate at a time: either
	// a sleep deadline or a message wait. Waiting is false while
	// blocked-by-sleep, true while blocked-by-receive.
	Waiting        bool
	WaitTypeFilter uint8
	HasTimeout     bool
	WaitDeadline   uint32
}

func (t *Task) reset() {
	*t = Task{State: TaskDead}
}
