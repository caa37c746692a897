// Package store keeps the cached collections the user interface reads and
// routes every mutation through the role policy.
//
// A guarded action runs in four steps: read the session (and pre-fetch the
// target when the decision depends on it), authorize, call the repository,
// then refetch the whole collection. A rejected action never reaches the
// repository and leaves the cache as it was. Readers always get copies.
package store

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskdesk/internal/logging"
	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/internal/session"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Stores bundles the domain stores sharing one session.
type Stores struct {
	Users     *UserStore
	Projects  *ProjectStore
	Tasks     *TaskStore
	Accesses  *AccessStore
	Comments  *CommentStore
	Assignees *AssigneeStore
}

// New builds every store over the repositories.
func New(r *repo.Repos, sess *session.Session, logger *zap.Logger) *Stores {
	g := guard{session: sess, logger: logging.OrNop(logger)}
	return &Stores{
		Users:     &UserStore{guard: g, repo: r.Users},
		Projects:  &ProjectStore{guard: g, repo: r.Projects},
		Tasks:     &TaskStore{guard: g, repo: r.Tasks},
		Accesses:  &AccessStore{guard: g, repo: r.Accesses},
		Comments:  &CommentStore{guard: g, repo: r.Comments, byTask: make(map[string][]types.Comment)},
		Assignees: &AssigneeStore{guard: g, repo: r.Assignees, tasks: r.Tasks, byTask: make(map[string][]string)},
	}
}

// guard is the authorization step shared by the stores.
type guard struct {
	session *session.Session
	logger  *zap.Logger
}

// authorize checks action for the session user and returns the actor on
// success.
func (g guard) authorize(action policy.Action, res policy.Resource) (*types.User, error) {
	actor := g.session.User()
	if err := policy.Authorize(action, actor, res); err != nil {
		g.logger.Info("action denied",
			zap.Stringer("action", action),
			zap.String("actor", actorID(actor)))
		return nil, err
	}
	return actor, nil
}

// requireUser fails with the policy's no-access error when nobody is
// logged in. Used before pre-fetching a target so that an anonymous caller
// learns nothing about which ids exist.
func (g guard) requireUser(action policy.Action) error {
	if g.session.User() == nil {
		_, err := g.authorize(action, policy.Resource{})
		return err
	}
	return nil
}

func (g guard) done(action policy.Action, actor *types.User, id string) {
	g.logger.Debug("action applied",
		zap.Stringer("action", action),
		zap.String("actor", actorID(actor)),
		zap.String("id", id))
}

func actorID(u *types.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

// LoadError reports a failed refetch with the user-facing text for the
// collection.
type LoadError struct {
	Collection string
	Err        error
}

var loadMessages = map[string]string{
	types.TableUsers:     "Ошибка загрузки пользователей",
	types.TableProjects:  "Ошибка загрузки проектов",
	types.TableTasks:     "Ошибка загрузки задач",
	types.TableAccesses:  "Ошибка загрузки доступов",
	types.TableComments:  "Ошибка загрузки комментариев",
	types.TableAssignees: "Ошибка загрузки исполнителей",
}

func (e *LoadError) Error() string {
	return loadMessages[e.Collection] + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }
