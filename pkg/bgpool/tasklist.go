package bgpool

import "container/list"

// taskList is the re-orderable task sequence. Entries keep their
// *list.Element as a stable position handle: splicing an entry to either end
// is O(1) and leaves every other handle intact; erasing invalidates only the
// erased handle. Order is a weak priority hint — the scheduler scans from the
// front and demotes whatever it executes to the back.
type taskList struct {
	l *list.List
}

func newTaskList() *taskList {
	return &taskList{l: list.New()}
}

func (tl *taskList) pushFront(t *TaskHandle) *list.Element {
	return tl.l.PushFront(t)
}

func (tl *taskList) moveToFront(e *list.Element) {
	tl.l.MoveToFront(e)
}

func (tl *taskList) moveToBack(e *list.Element) {
	tl.l.MoveToBack(e)
}

func (tl *taskList) remove(e *list.Element) {
	tl.l.Remove(e)
}

func (tl *taskList) front() *list.Element {
	return tl.l.Front()
}

func (tl *taskList) len() int {
	return tl.l.Len()
}
