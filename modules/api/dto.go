package api

import (
	taskdomain "github.com/example/task-tracker/domain/task"
	userdomain "github.com/example/task-tracker/domain/user"
)

// BaseResponse is the envelope shared by every response.
type BaseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TaskEnvelope carries a single task.
type TaskEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Task    *taskdomain.Task `json:"task"`
	Errors  any              `json:"errors"`
}

// TasksEnvelope carries a task list.
type TasksEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Tasks   []taskdomain.Task `json:"tasks"`
	Errors  any               `json:"errors"`
}

// StatsEnvelope carries task stats.
type StatsEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Stats   *taskdomain.Stats `json:"stats"`
	Errors  any               `json:"errors"`
}

// UpdateTaskEnvelope carries both snapshots of an updated task.
type UpdateTaskEnvelope struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	PreviousTask *taskdomain.Task `json:"previousTask"`
	CurrentTask  *taskdomain.Task `json:"currentTask"`
	Errors       any              `json:"errors"`
}

// UserEnvelope carries a single user.
type UserEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	User    *userdomain.SafeUser `json:"user"`
	Errors  any                  `json:"errors"`
}

// UsersEnvelope carries a user list.
type UsersEnvelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Users   []userdomain.SafeUser `json:"users"`
	Errors  any                   `json:"errors"`
}

// UpdateUserEnvelope carries both snapshots of an updated user.
type UpdateUserEnvelope struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message"`
	PreviousUser *userdomain.SafeUser `json:"previousUser"`
	CurrentUser  *userdomain.SafeUser `json:"currentUser"`
	Errors       any                  `json:"errors"`
}

// HealthEnvelope reports the health of every checked module.
type HealthEnvelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Modules map[string]ModuleHealth `json:"modules"`
}

// ModuleHealth is the health of one module.
type ModuleHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}

// RegisterBody is the body of POST /auth/register.
type RegisterBody struct {
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
}

// LoginBody is the body of POST /auth/login.
type LoginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserBody is the body of PUT /user/:id.
type UpdateUserBody struct {
	User userdomain.Profile `json:"user"`
}
