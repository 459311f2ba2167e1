package rtos

import (
	"github.com/maemo32/v4rtos/internal/platform"
	"go.uber.org/zap"
)

const (
	minStackSize = 1
	maxStackSize = 255
)

// ReceiveStatus is the tri-state result of a receive call.
type ReceiveStatus int

const (
	Received ReceiveStatus = iota
	None
	TimedOut
)

// Option configures an RTOSVM at creation time.
type Option func(*RTOSVM)

// WithClock overrides the platform time source used for tick accounting.
// Defaults to platform.NewSystemClock().
func WithClock(c platform.Clock) Option {
	return func(r *RTOSVM) { r.clock = c }
}

// WithLogger attaches a zap logger for task-transition diagnostics.
// Defaults to a no-op logger: the scheduler never logs on its hot path
// unless a caller opts in.
func WithLogger(l *zap.Logger) Option {
	return func(r *RTOSVM) { r.log = l }
}

// WithTimeSliceMs overrides the default 10ms preemption budget.
func WithTimeSliceMs(ms uint32) Option {
	return func(r *RTOSVM) { r.sched.timeSliceMs = ms }
}

// RTOSVM owns one base VM, one scheduler, and one message queue. Its
// lifetime strictly bounds the scheduler's and queue's lifetimes.
type RTOSVM struct {
	vm    VM
	sched *Scheduler
	queue *MessageQueue
	clock platform.Clock
	log   *zap.Logger

	bridge vmBridge
}

// Create allocates an RTOS VM, wiring the scheduler and queue together.
// vm must not be nil.
func Create(vm VM, opts ...Option) (*RTOSVM, error) {
	if vm == nil {
		return nil, ErrInvalidArg
	}

	r := &RTOSVM{
		vm:    vm,
		sched: newScheduler(),
		queue: newMessageQueue(),
		clock: platform.NewSystemClock(),
		log:   zap.NewNop(),
	}
	r.bridge = vmBridge{vm: vm}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Destroy releases all task stack buffers and the base VM. Safe on nil.
func (r *RTOSVM) Destroy() {
	if r == nil {
		return
	}
	for i := range r.sched.tasks {
		r.sched.tasks[i].reset()
	}
	r.vm.Destroy()
}

// Scheduler exposes the scheduler for observability (counters, state
// inspection) without granting mutation access outside this package.
func (r *RTOSVM) Scheduler() *Scheduler { return r.sched }

// QueueLen reports the current message queue depth.
func (r *RTOSVM) QueueLen() int { return r.queue.Count() }

func (r *RTOSVM) current() *Task {
	return &r.sched.tasks[r.sched.currentTask]
}

// Spawn allocates the first DEAD slot and marks it READY.
func (r *RTOSVM) Spawn(wordIdx uint16, priority uint8, dsSize, rsSize uint8) (uint8, error) {
	if dsSize < minStackSize || dsSize > maxStackSize || rsSize < minStackSize || rsSize > maxStackSize {
		return 0, ErrInvalidArg
	}
	if !r.vm.WordValid(wordIdx) {
		return 0, ErrInvalidArg
	}

	slot, ok := r.sched.allocSlot()
	if !ok {
		return 0, ErrResourceExhausted
	}

	r.sched.tasks[slot] = Task{
		State:    TaskReady,
		Priority: priority,
		WordIdx:  wordIdx,
		DS:       make([]int32, 0, dsSize),
		RS:       make([]int32, 0, rsSize),
	}
	r.sched.taskCount++

	r.log.Debug("task spawned",
		zap.Uint8("slot", slot),
		zap.Uint16("word_idx", wordIdx),
		zap.Uint8("priority", priority),
	)

	return slot, nil
}

// Yield transitions the current task from RUNNING to READY and
// reschedules. Never fails on valid internal state. The state transition
// itself happens inside schedule(), not here: schedule()'s stack save is
// gated on the outgoing task still being RUNNING, so flipping the state
// first would skip the save.
func (r *RTOSVM) Yield() error {
	return r.schedule()
}

// Sleep blocks the current task until now+ms. A zero duration behaves
// like Yield. As with Yield, the RUNNING->BLOCKED transition is left to
// scheduleInto so the live stacks are saved before the task leaves
// RUNNING state.
func (r *RTOSVM) Sleep(ms uint32) error {
	cur := r.current()
	now := r.clock.TickMs()
	cur.SleepUntilTick = now + ms
	cur.Waiting = false
	return r.scheduleInto(TaskBlocked)
}

// Exit marks the current task DEAD, releases its stack buffers, and
// reschedules. The slot becomes reusable by a future Spawn.
func (r *RTOSVM) Exit() error {
	id := r.Self()
	cur := r.current()
	cur.State = TaskDead
	cur.DS = nil
	cur.RS = nil
	cur.Waiting = false
	cur.HasTimeout = false
	r.sched.taskCount--
	r.sched.freeSlot(id)
	return r.schedule()
}

// Self returns the current task's slot index.
func (r *RTOSVM) Self() uint8 { return r.sched.currentTask }

// Count returns the number of non-DEAD task slots.
func (r *RTOSVM) Count() uint8 { return r.sched.taskCount }

// GetInfo reports a task's state and priority for external introspection.
func (r *RTOSVM) GetInfo(id uint8) (TaskState, uint8, error) {
	if int(id) >= MaxTasks {
		return TaskDead, 0, ErrInvalidArg
	}
	t := &r.sched.tasks[id]
	if t.State == TaskDead {
		return TaskDead, 0, ErrInvalidArg
	}
	return t.State, t.Priority, nil
}

// CriticalEnter disables preemption by incrementing the nesting counter.
func (r *RTOSVM) CriticalEnter() error {
	r.sched.criticalEnter()
	return nil
}

// CriticalExit re-enables preemption once nesting returns to zero,
// running any preemption deferred by Tick while nested. Returns
// ErrUnderflow if nesting was already zero.
func (r *RTOSVM) CriticalExit() error {
	runDeferred, err := r.sched.criticalExit()
	if err != nil {
		return err
	}
	if runDeferred {
		r.sched.preemptions++
		return r.schedule()
	}
	return nil
}

// Send enqueues a message and readies any task blocked waiting for it. If
// a woken task outranks the currently running one, send is itself a
// preemption point and immediately reschedules rather than waiting for
// the sender's next voluntary yield or the next timer tick.
func (r *RTOSVM) Send(dst uint8, msgType uint8, data int32) error {
	msg := Message{SrcTask: r.sched.currentTask, DstTask: dst, MsgType: msgType, Data: data}
	if err := r.queue.send(msg); err != nil {
		return err
	}

	currentPriority := r.current().Priority
	preempt := false

	for i := range r.sched.tasks {
		t := &r.sched.tasks[i]
		if t.State != TaskBlocked || !t.Waiting {
			continue
		}
		if msg.DstTask != uint8(i) && msg.DstTask != Broadcast {
			continue
		}
		if t.WaitTypeFilter != 0 && t.WaitTypeFilter != msg.MsgType {
			continue
		}
		t.State = TaskReady
		if t.Priority > currentPriority {
			preempt = true
		}
	}

	if preempt {
		return r.schedule()
	}
	return nil
}

// Receive dequeues the first message addressed to the current task
// matching typeFilter (0 matches any type).
//
// Non-blocking (blocking=false) returns None immediately on no match, and
// so does a blocking call with timeoutMs == 0.
// Blocking with no match records a wait predicate and a timeout deadline on
// the current task and retries the scan once woken. Because this
// scheduler is single-threaded, suspension across an arbitrary wait is
// modeled by polling: onWait, if non-nil, is invoked once per unsatisfied
// iteration so a caller (typically a test or a driver loop) can make the
// progress (sending a message, advancing the clock) that a preemptive
// scheduler would make via other tasks and the timer ISR.
func (r *RTOSVM) Receive(typeFilter uint8, blocking bool, timeoutMs uint32, onWait func()) (int32, uint8, ReceiveStatus, error) {
	self := r.sched.currentTask
	cur := r.current()

	for {
		if msg, pos, ok := r.queue.find(self, typeFilter); ok {
			r.queue.removeAt(pos)
			cur.Waiting = false
			cur.HasTimeout = false
			if cur.State == TaskBlocked {
				cur.State = TaskReady
			}
			return msg.Data, msg.SrcTask, Received, nil
		}

		if !blocking || timeoutMs == 0 {
			return 0, 0, None, nil
		}

		if !cur.Waiting {
			cur.Waiting = true
			cur.WaitTypeFilter = typeFilter
			cur.HasTimeout = true
			cur.WaitDeadline = r.clock.TickMs() + timeoutMs
			if err := r.scheduleInto(TaskBlocked); err != nil {
				return 0, 0, None, err
			}
		}

		if tickAfterOrEqual(r.clock.TickMs(), cur.WaitDeadline) {
			cur.Waiting = false
			cur.HasTimeout = false
			if cur.State == TaskBlocked {
				cur.State = TaskReady
			}
			return 0, 0, TimedOut, nil
		}

		if onWait != nil {
			onWait()
		}
	}
}

// Tick is the timer-ISR entry point: it advances tick_count and, once the
// running task exhausts its time slice, preempts it, unless
// critical_nesting is nonzero, in which case the preemption is recorded
// and deferred until CriticalExit returns nesting to zero.
func (r *RTOSVM) Tick(elapsedMs uint32) error {
	r.sched.tickCount += elapsedMs
	r.sched.sliceUsedMs += elapsedMs

	if r.sched.sliceUsedMs < r.sched.timeSliceMs {
		return nil
	}
	r.sched.sliceUsedMs = 0

	if r.sched.criticalNesting > 0 {
		r.sched.pendingPreemption = true
		return nil
	}

	r.sched.preemptions++
	return r.schedule()
}

// Schedule runs one scheduling pass, saving the current task as READY and
// dispatching the next selected one. Tick calls it on slice expiry; hosts
// may also invoke it directly from a timer ISR.
func (r *RTOSVM) Schedule() error {
	return r.schedule()
}

// schedule is the core dispatch routine for preemption points that leave
// the outgoing task runnable again (timer tick, deferred critical-section
// preemption, a send that outranks the caller): it saves-and-transitions
// the outgoing task to READY, same as the original's v4_schedule.
func (r *RTOSVM) schedule() error {
	return r.scheduleInto(TaskReady)
}

// scheduleInto is the core dispatch routine, including its fast path: if
// the selected task is unchanged and not DEAD/BLOCKED, it is simply
// re-marked RUNNING without a stack round-trip or a context-switch count.
//
// outgoingState is the state the current task should land in if it is
// saved off RUNNING: READY for yield/preemption, BLOCKED for sleep/wait.
// Callers must not set the task's state themselves before calling this:
// the save step below is gated on the task still being RUNNING, so a
// caller flipping the state first would silently skip the save and lose
// whatever the task pushed onto the live stacks before suspending.
func (r *RTOSVM) scheduleInto(outgoingState TaskState) error {
	current := &r.sched.tasks[r.sched.currentTask]

	if current.State == TaskRunning {
		r.bridge.save(current)
		current.State = outgoingState
	}

	now := r.clock.TickMs()
	next := r.sched.selectNext(now)

	if next == r.sched.currentTask && current.State != TaskDead && current.State != TaskBlocked {
		current.State = TaskRunning
		return nil
	}

	nextTask := &r.sched.tasks[next]
	if err := r.bridge.restore(nextTask); err != nil {
		return err
	}
	nextTask.State = TaskRunning
	nextTask.ExecCount++

	prev := r.sched.currentTask
	r.sched.currentTask = next
	r.sched.contextSwitches++

	r.log.Debug("context switch",
		zap.Uint8("from", prev),
		zap.Uint8("to", next),
		zap.Uint64("context_switches", r.sched.contextSwitches),
	)

	return nil
}
