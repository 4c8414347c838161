package api

import (
	"context"

	taskdomain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

const (
	msgTaskCreated      = "Task Created Successfully!"
	msgTaskCreateFailed = "Task Creation Failed!"
	msgTasksFound       = "Here are the tasks!"
	msgTasksFailed      = "Failed to get task!"
	msgStatsFound       = "Here are the task stats!"
	msgStatsFailed      = "Failed to get task stats!"
	msgTaskDeleted      = "Task Deleted Successfuly!"
	msgTaskDeleteFailed = "Task Deletion Failed!"
	msgTaskRestored     = "Task Restored Successfully!"
	msgTaskRestoreFail  = "Task Restoration Failed!"
	msgTaskUpdated      = "Task Updated Successfully!"
	msgTaskUpdateFailed = "Task Updation Filed!"
)

// createTask handles POST /task.
func (m *Module) createTask(c *fiber.Ctx) error {
	var req task.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return m.taskFailure(c, bindFailure(err, MsgInvalidJSON), err)
	}

	created, err := m.tasks.CreateTask(c.UserContext(), req)
	if err != nil {
		return m.taskFailure(c, classify(err, MsgInvalidJSON, msgTaskCreateFailed), err)
	}
	return c.Status(fiber.StatusCreated).JSON(TaskEnvelope{
		Success: true,
		Message: msgTaskCreated,
		Task:    created,
	})
}

// listActiveTasks handles GET /task/:id.
func (m *Module) listActiveTasks(c *fiber.Ctx) error {
	return m.listTasks(c, m.tasks.ListActiveTasks)
}

// listArchivedTasks handles GET /task/archived/:id.
func (m *Module) listArchivedTasks(c *fiber.Ctx) error {
	return m.listTasks(c, m.tasks.ListArchivedTasks)
}

// listDeletedTasks handles GET /task/recently-deleted/:id.
func (m *Module) listDeletedTasks(c *fiber.Ctx) error {
	return m.listTasks(c, m.tasks.ListDeletedTasks)
}

func (m *Module) listTasks(c *fiber.Ctx, list func(ctx context.Context, userID string) ([]taskdomain.Task, error)) error {
	userID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(BaseResponse{Success: false, Message: MsgParamIDMissing})
	}

	tasks, err := list(c.UserContext(), userID)
	if err != nil {
		f := classify(err, MsgInvalidJSON, msgTasksFailed)
		m.logFailure(c, f, err)
		return c.Status(f.status).JSON(TasksEnvelope{
			Success: false,
			Message: f.message,
			Errors:  f.errors,
		})
	}
	return c.JSON(TasksEnvelope{
		Success: true,
		Message: msgTasksFound,
		Tasks:   tasks,
	})
}

// getStats handles GET /task/stats/:id.
func (m *Module) getStats(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(BaseResponse{Success: false, Message: MsgParamIDMissing})
	}

	stats, err := m.tasks.GetStats(c.UserContext(), userID)
	if err != nil {
		f := classify(err, MsgInvalidJSON, msgStatsFailed)
		m.logFailure(c, f, err)
		return c.Status(f.status).JSON(StatsEnvelope{
			Success: false,
			Message: f.message,
			Errors:  f.errors,
		})
	}
	return c.JSON(StatsEnvelope{
		Success: true,
		Message: msgStatsFound,
		Stats:   &stats,
	})
}

// deleteTask handles DELETE /task.
func (m *Module) deleteTask(c *fiber.Ctx) error {
	return m.refMutation(c, m.tasks.DeleteTask, msgTaskDeleted, msgTaskDeleteFailed)
}

// restoreTask handles POST /task/restore.
func (m *Module) restoreTask(c *fiber.Ctx) error {
	return m.refMutation(c, m.tasks.RestoreTask, msgTaskRestored, msgTaskRestoreFail)
}

func (m *Module) refMutation(
	c *fiber.Ctx,
	mutate func(ctx context.Context, ref task.TaskRefRequest) (*taskdomain.Task, error),
	okMsg, failMsg string,
) error {
	var ref task.TaskRefRequest
	if err := c.BodyParser(&ref); err != nil {
		return m.taskFailure(c, bindFailure(err, MsgInvalidJSON), err)
	}

	updated, err := mutate(c.UserContext(), ref)
	if err != nil {
		return m.taskFailure(c, classify(err, MsgInvalidJSON, failMsg), err)
	}
	return c.JSON(TaskEnvelope{
		Success: true,
		Message: okMsg,
		Task:    updated,
	})
}

// updateTask handles PUT /task.
func (m *Module) updateTask(c *fiber.Ctx) error {
	var req task.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return m.updateTaskFailure(c, bindFailure(err, MsgInvalidJSON), err)
	}

	prev, curr, err := m.tasks.UpdateTask(c.UserContext(), req)
	if err != nil {
		return m.updateTaskFailure(c, classify(err, MsgInvalidJSON, msgTaskUpdateFailed), err)
	}
	return c.JSON(UpdateTaskEnvelope{
		Success:      true,
		Message:      msgTaskUpdated,
		PreviousTask: &prev,
		CurrentTask:  &curr,
	})
}

func (m *Module) taskFailure(c *fiber.Ctx, f failure, err error) error {
	m.logFailure(c, f, err)
	return c.Status(f.status).JSON(TaskEnvelope{
		Success: false,
		Message: f.message,
		Errors:  f.errors,
	})
}

func (m *Module) updateTaskFailure(c *fiber.Ctx, f failure, err error) error {
	m.logFailure(c, f, err)
	return c.Status(f.status).JSON(UpdateTaskEnvelope{
		Success: false,
		Message: f.message,
		Errors:  f.errors,
	})
}
