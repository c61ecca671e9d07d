package db_test

import (
	"testing"

	"approval-routing-backend/db"
	directorystore "approval-routing-backend/lib/directory/store"
	"approval-routing-backend/lib/utils/testdb"

	"github.com/stretchr/testify/require"
)

func TestFillDirectory(t *testing.T) {
	tx := testdb.Open(t)
	require.Nil(t, db.FillDirectory(tx, "../static_preload"))

	directory := directorystore.NewInstance(tx)
	dept, err := directory.GetDepartmentByID("d-hr")
	require.Nil(t, err)
	require.Equal(t, "u-hr-head", dept.HeadOfDepartmentID)
	require.Equal(t, "u-hr-deputy", dept.HeadOfDepartmentSubstituteID)

	members, err := directory.GetUsersInGroup("g-service-desk")
	require.Nil(t, err)
	require.Len(t, members, 3)
	require.Equal(t, "u-sd", members[0].ID)

	users, err := directory.GetAllUsers()
	require.Nil(t, err)
	require.Len(t, users, 9)

	t.Run(`second run is a no-op`, func(t *testing.T) {
		require.Nil(t, db.FillDirectory(tx, "../static_preload"))
		users, err := directory.GetAllUsers()
		require.Nil(t, err)
		require.Len(t, users, 9)
	})
}
