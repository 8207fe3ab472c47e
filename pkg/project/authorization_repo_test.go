package project

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/workload/internal/test_utils"
	"github.com/klokku/workload/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupTestAuthorization(t *testing.T) (context.Context, *AuthorizationImpl) {
	test_utils.RequireDB(t, db)
	test_utils.Truncate(t, db)
	return context.Background(), NewAuthorization(db)
}

func TestAuthorizationImpl_ProjectsWithPermission(t *testing.T) {
	// given
	ctx, auth := setupTestAuthorization(t)
	manager := test_utils.InsertUser(t, db, "manager", false, true)
	managerRole := test_utils.InsertRole(t, db, "Manager", ViewProjectWorkload, "edit_issues")
	developerRole := test_utils.InsertRole(t, db, "Developer", "edit_issues")
	managed := test_utils.InsertProject(t, db, "managed", false)
	developed := test_utils.InsertProject(t, db, "developed", false)
	test_utils.InsertMembership(t, db, manager.Id, managed, managerRole)
	test_utils.InsertMembership(t, db, manager.Id, developed, developerRole)

	// when
	ids, err := auth.ProjectsWithPermission(ctx, manager.Id, ViewProjectWorkload)

	// then
	require.NoError(t, err)
	assert.Equal(t, []int{managed}, ids)
}

func TestAuthorizationImpl_ProjectsWithPermission_NoMemberships(t *testing.T) {
	ctx, auth := setupTestAuthorization(t)
	loner := test_utils.InsertUser(t, db, "loner", false, true)

	ids, err := auth.ProjectsWithPermission(ctx, loner.Id, ViewProjectWorkload)

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAuthorizationImpl_Members(t *testing.T) {
	// given
	ctx, auth := setupTestAuthorization(t)
	role := test_utils.InsertRole(t, db, "Developer")
	alpha := test_utils.InsertProject(t, db, "alpha", false)
	beta := test_utils.InsertProject(t, db, "beta", false)
	gamma := test_utils.InsertProject(t, db, "gamma", false)
	anna := test_utils.InsertUser(t, db, "anna", false, true)
	bob := test_utils.InsertUser(t, db, "bob", false, true)
	locked := test_utils.InsertUser(t, db, "locked", false, false)
	outsider := test_utils.InsertUser(t, db, "outsider", false, true)
	test_utils.InsertMembership(t, db, anna.Id, alpha, role)
	test_utils.InsertMembership(t, db, anna.Id, beta, role)
	test_utils.InsertMembership(t, db, bob.Id, beta, role)
	test_utils.InsertMembership(t, db, locked.Id, alpha, role)
	test_utils.InsertMembership(t, db, outsider.Id, gamma, role)

	// when
	members, err := auth.Members(ctx, []int{alpha, beta})

	// then
	require.NoError(t, err)
	assert.Equal(t, []user.User{anna, bob}, members)

	t.Run("no projects give no members", func(t *testing.T) {
		members, err := auth.Members(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, members)
	})
}

func TestAuthorizationImpl_IsMemberAndProjectIdsOf(t *testing.T) {
	ctx, auth := setupTestAuthorization(t)
	role := test_utils.InsertRole(t, db, "Reporter")
	alpha := test_utils.InsertProject(t, db, "alpha", false)
	beta := test_utils.InsertProject(t, db, "beta", true)
	anna := test_utils.InsertUser(t, db, "anna", false, true)
	test_utils.InsertMembership(t, db, anna.Id, alpha, role)

	member, err := auth.IsMember(ctx, anna.Id, alpha)
	require.NoError(t, err)
	assert.True(t, member)

	member, err = auth.IsMember(ctx, anna.Id, beta)
	require.NoError(t, err)
	assert.False(t, member)

	ids, err := auth.ProjectIdsOf(ctx, anna.Id)
	require.NoError(t, err)
	assert.Equal(t, []int{alpha}, ids)
}
