package service

import "famtasks/internal/model"

// CanRead reports whether user may view task: the creator always may, and so
// may any member of the task's family. Pure predicate over two loaded values;
// callers fetch the task (and raise TASK_NOT_FOUND) before asking.
func CanRead(user model.AuthUser, task *model.Task) bool {
	if user.ID == task.CreatorID {
		return true
	}
	return user.FamilyID != nil && *user.FamilyID == task.FamilyID
}

// CanWrite reports whether user may update or delete task. The rule is
// deliberately as permissive as CanRead: any family member can mutate any
// family task. Restricting writes to creator/assignee would be a product
// change, so it gets its own function rather than an alias.
func CanWrite(user model.AuthUser, task *model.Task) bool {
	return CanRead(user, task)
}
