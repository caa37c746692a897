// Package policy decides which actor may perform which action. Every
// guarded mutation in the stores goes through CanPerform or Authorize.
package policy

import (
	"errors"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Action names a guarded operation.
type Action int

const (
	CreateTask Action = iota + 1
	UpdateTask
	DeleteTask
	AssignTask
	AddComment
	CreateProject
	UpdateProject
	DeleteProject
	ListAccesses
	CreateAccess
	UpdateAccess
	DeleteAccess
	AddUser
	RemoveUser
	SetRole
)

var actionNames = map[Action]string{
	CreateTask:    "create_task",
	UpdateTask:    "update_task",
	DeleteTask:    "delete_task",
	AssignTask:    "assign_task",
	AddComment:    "add_comment",
	CreateProject: "create_project",
	UpdateProject: "update_project",
	DeleteProject: "delete_project",
	ListAccesses:  "list_accesses",
	CreateAccess:  "create_access",
	UpdateAccess:  "update_access",
	DeleteAccess:  "delete_access",
	AddUser:       "add_user",
	RemoveUser:    "remove_user",
	SetRole:       "set_role",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Resource carries what a decision needs beyond the actor: the task for
// creator checks and the role being granted for user administration.
type Resource struct {
	Task       *types.Task
	TargetRole types.Role
}

// ErrForbidden is matched by every *AuthorizationError.
var ErrForbidden = errors.New("forbidden")

// AuthorizationError is returned by Authorize. Message is user-facing text
// meant to be shown as-is.
type AuthorizationError struct {
	Action  Action
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func (e *AuthorizationError) Is(target error) bool { return target == ErrForbidden }

// Messages shown to the user on denial.
var messages = map[Action]string{
	CreateTask:    "Только менеджер может создавать задачи",
	UpdateTask:    "Только менеджер или автор задачи может её изменять",
	DeleteTask:    "Только менеджер или автор задачи может её удалить",
	AssignTask:    "Только менеджер или автор задачи может назначать исполнителей",
	AddComment:    "Только авторизованные пользователи могут комментировать",
	CreateProject: "Только менеджер может создавать проекты",
	UpdateProject: "Только менеджер может изменять проекты",
	DeleteProject: "Только менеджер может удалять проекты",
	ListAccesses:  "Только менеджер может просматривать доступы",
	CreateAccess:  "Только менеджер может добавлять доступы",
	UpdateAccess:  "Только менеджер может изменять доступы",
	DeleteAccess:  "Только менеджер может удалять доступы",
	AddUser:       "Только менеджер может добавлять пользователей",
	RemoveUser:    "Только владелец может удалять пользователей",
	SetRole:       "Только владелец может менять роли",
}

// MsgNoAccess is used when there is no current user.
const MsgNoAccess = "Нет доступа"

// msgAddOwner is used when a manager tries to grant the owner role.
const msgAddOwner = "Только владелец может добавить владельца"

// CanPerform reports whether actor may perform action on res. A nil actor
// may do nothing.
func CanPerform(action Action, actor *types.User, res Resource) bool {
	if actor == nil {
		return false
	}
	manager := actor.Role.AtLeastManager()

	switch action {
	case CreateTask,
		CreateProject, UpdateProject, DeleteProject,
		ListAccesses, CreateAccess, UpdateAccess, DeleteAccess:
		return manager
	case UpdateTask, DeleteTask, AssignTask:
		return manager || (res.Task != nil && res.Task.CreatorID == actor.ID)
	case AddComment:
		return true
	case AddUser:
		if res.TargetRole == types.RoleOwner {
			return actor.Role == types.RoleOwner
		}
		return manager
	case RemoveUser, SetRole:
		return actor.Role == types.RoleOwner
	default:
		return false
	}
}

// Authorize returns nil when CanPerform allows the action, otherwise an
// *AuthorizationError.
func Authorize(action Action, actor *types.User, res Resource) error {
	if CanPerform(action, actor, res) {
		return nil
	}
	msg := messages[action]
	switch {
	case actor == nil || msg == "":
		msg = MsgNoAccess
	case action == AddUser && res.TargetRole == types.RoleOwner && actor.Role.AtLeastManager():
		msg = msgAddOwner
	}
	return &AuthorizationError{Action: action, Message: msg}
}
