package panel

// Command is an undoable edit.
type Command interface {
	Execute()
	Undo()
	Description() string
}

// History manages undo/redo stacks of committed edits.
type History struct {
	undoStack []Command
	redoStack []Command
	maxDepth  int
}

func NewHistory(maxDepth int) *History {
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &History{
		undoStack: make([]Command, 0, maxDepth),
		redoStack: make([]Command, 0, maxDepth),
		maxDepth:  maxDepth,
	}
}

// Do executes cmd and pushes it to the undo stack, dropping the oldest entry
// past maxDepth. Any redo entries are discarded.
func (h *History) Do(cmd Command) {
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = h.redoStack[:0]
}

func (h *History) Undo() bool {
	if len(h.undoStack) == 0 {
		return false
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	cmd.Undo()
	h.redoStack = append(h.redoStack, cmd)
	return true
}

func (h *History) Redo() bool {
	if len(h.redoStack) == 0 {
		return false
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	return true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Descriptions lists undoable edits, oldest first.
func (h *History) Descriptions() []string {
	out := make([]string, len(h.undoStack))
	for i, c := range h.undoStack {
		out[i] = c.Description()
	}
	return out
}

func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// batch groups commands so they undo as one step.
type batch struct {
	cmds []Command
	desc string
}

func (b *batch) Execute() {
	for _, c := range b.cmds {
		c.Execute()
	}
}

func (b *batch) Undo() {
	for i := len(b.cmds) - 1; i >= 0; i-- {
		b.cmds[i].Undo()
	}
}

func (b *batch) Description() string { return b.desc }
