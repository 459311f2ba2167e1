package rtos

// VMStacks is the narrow stack-manipulation surface a base VM must expose
// for task context switching. internal/vmcore.VM satisfies it.
type VMStacks interface {
	DSDepth() int
	DSCopyToArray(dst []int32, n int)
	DSClear()
	DSPush(cell int32) error

	RSDepth() int
	RSCopyToArray(dst []int32, n int)
	RSClear()
	RSPush(cell int32) error
}

// WordRegistry is the subset of the base VM needed to validate a word
// index passed to Spawn.
type WordRegistry interface {
	WordValid(idx uint16) bool
}

// VM is the full collaborator surface internal/rtos needs from a base VM.
type VM interface {
	VMStacks
	WordRegistry

	// Destroy releases the base VM's resources; called exactly once from
	// RTOSVM.Destroy.
	Destroy()
}

// vmBridge adapts the base VM's stack primitives for use exclusively
// during a context switch. It is the sole path by which anything in this
// package touches the live VM's stacks across a task boundary.
type vmBridge struct {
	vm VMStacks
}

// save copies the live VM stacks into the outgoing task's buffers.
func (b vmBridge) save(t *Task) {
	dsDepth := b.vm.DSDepth()
	rsDepth := b.vm.RSDepth()

	if cap(t.DS) < dsDepth {
		dsDepth = cap(t.DS)
	}
	if cap(t.RS) < rsDepth {
		rsDepth = cap(t.RS)
	}

	t.DS = t.DS[:dsDepth]
	if dsDepth > 0 {
		b.vm.DSCopyToArray(t.DS, dsDepth)
	}

	t.RS = t.RS[:rsDepth]
	if rsDepth > 0 {
		b.vm.RSCopyToArray(t.RS, rsDepth)
	}
}

// restore clears the live VM stacks and pushes the incoming task's saved
// contents back in original order, return stack included: internal/vmcore.VM
// exposes RSPush, so the cells a task keeps on its return stack survive a
// switch just as its data-stack contents do.
func (b vmBridge) restore(t *Task) error {
	b.vm.DSClear()
	for _, cell := range t.DS {
		if err := b.vm.DSPush(cell); err != nil {
			return err
		}
	}

	b.vm.RSClear()
	for _, cell := range t.RS {
		if err := b.vm.RSPush(cell); err != nil {
			return err
		}
	}

	return nil
}
