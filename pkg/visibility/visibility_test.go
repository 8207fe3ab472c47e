package visibility

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/klokku/workload/pkg/project"
	"github.com/klokku/workload/pkg/task"
	"github.com/klokku/workload/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usersStub = user.NewStubUserRepository()
var authStub = project.NewAuthorizationStub()

func setup(t *testing.T) (*Resolver, func()) {
	resolver := NewResolver(usersStub, authStub)
	return resolver, func() {
		t.Log("Teardown after test")
		usersStub.Reset()
		authStub.Reset()
	}
}

func addUser(username string, admin bool) user.User {
	return usersStub.AddUser(user.User{Uid: uuid.NewString(), Username: username, Admin: admin, Active: true})
}

func TestResolver_VisibleUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous sees nobody", func(t *testing.T) {
		resolver, teardown := setup(t)
		defer teardown()
		addUser("someone", false)

		users, err := resolver.VisibleUsers(ctx, user.Anonymous)

		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("user without role sees only themselves", func(t *testing.T) {
		resolver, teardown := setup(t)
		defer teardown()
		me := addUser("me", false)
		addUser("other", false)

		users, err := resolver.VisibleUsers(ctx, me)

		require.NoError(t, err)
		assert.Equal(t, []user.User{me}, users)
	})

	t.Run("admin sees all active users", func(t *testing.T) {
		resolver, teardown := setup(t)
		defer teardown()
		admin := addUser("admin", true)
		other := addUser("other", false)
		usersStub.AddUser(user.User{Uid: uuid.NewString(), Username: "locked", Active: false})

		users, err := resolver.VisibleUsers(ctx, admin)

		require.NoError(t, err)
		assert.Equal(t, []user.User{admin, other}, users)
	})

	t.Run("workload viewer sees the members of their projects", func(t *testing.T) {
		resolver, teardown := setup(t)
		defer teardown()
		manager := addUser("manager", false)
		dev := addUser("dev", false)
		tester := addUser("tester", false)
		outsider := addUser("outsider", false)
		authStub.AddMember(manager, 1, project.ViewProjectWorkload)
		authStub.AddMember(dev, 1)
		authStub.AddMember(tester, 1)
		authStub.AddMember(tester, 2)
		authStub.AddMember(manager, 2, "edit_issues")
		authStub.AddMember(outsider, 3)

		users, err := resolver.VisibleUsers(ctx, manager)

		require.NoError(t, err)
		assert.Equal(t, []user.User{manager, dev, tester}, users)
	})

	t.Run("authorization failures are propagated", func(t *testing.T) {
		resolver, teardown := setup(t)
		defer teardown()
		me := addUser("me", false)
		authStub.Err = errors.New("connection refused")

		_, err := resolver.VisibleUsers(ctx, me)

		assert.ErrorIs(t, err, authStub.Err)
	})
}

func TestResolver_CanSeeTask(t *testing.T) {
	ctx := context.Background()
	resolver, teardown := setup(t)
	defer teardown()
	admin := addUser("admin", true)
	member := addUser("member", false)
	stranger := addUser("stranger", false)
	authStub.AddMember(member, 1)

	private := task.Task{Project: project.Project{Id: 1}}
	public := task.Task{Project: project.Project{Id: 2, Public: true}}

	tests := []struct {
		name     string
		acting   user.User
		task     task.Task
		expected bool
	}{
		{"admin sees private tasks", admin, private, true},
		{"member sees private tasks of their project", member, private, true},
		{"stranger does not see private tasks", stranger, private, false},
		{"stranger sees public tasks", stranger, public, true},
		{"anonymous sees public tasks", user.Anonymous, public, true},
		{"anonymous does not see private tasks", user.Anonymous, private, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canSee, err := resolver.CanSeeTask(ctx, tt.acting, tt.task)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, canSee)

			visible, err := resolver.TaskVisibility(ctx, tt.acting)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, visible(tt.task))
		})
	}
}
