package approverresolver

import (
	"testing"

	"approval-routing-backend/lib/utils/fakes"
	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func getDirectory() *fakes.Directory {
	directory := fakes.NewDirectory()
	directory.AddUser("submitter", "sales", models.EmployeeRole)
	directory.AddUser("head", "sales", models.EmployeeRole)
	directory.AddUser("deputy", "sales", models.EmployeeRole)
	directory.AddUser("director", "sales", models.EmployeeRole)
	directory.AddUser("hr1", "hr", models.HRManagerRole)
	directory.AddUser("hr2", "hr", models.HRManagerRole)
	directory.AddDepartment(dbmodels.Department{
		BaseModel:                    dbmodels.BaseModel{ID: "sales"},
		Name:                         "Продажи",
		HeadOfDepartmentID:           "head",
		HeadOfDepartmentSubstituteID: "deputy",
		DirectorID:                   "director",
	})
	directory.AddDepartment(dbmodels.Department{
		BaseModel:          dbmodels.BaseModel{ID: "hr"},
		Name:               "HR",
		HeadOfDepartmentID: "hr1",
	})
	return directory
}

func tmplOf(approverType models.ApproverType) dbmodels.StepTemplate {
	return dbmodels.StepTemplate{ApproverType: approverType, MinimumApprovals: 1}
}

func TestResolve(t *testing.T) {
	directory := getDirectory()
	i := NewInstance(directory)
	submitter := directory.Users["submitter"]

	t.Run(`DirectSupervisor check`, func(t *testing.T) {
		approver, err := i.Resolve(tmplOf(models.ApproverDirectSupervisor), submitter)
		require.Nil(t, err)
		require.NotNil(t, approver)
		require.Equal(t, "head", approver.ID)
	})

	t.Run(`DirectSupervisor self-approval guard`, func(t *testing.T) {
		approver, err := i.Resolve(tmplOf(models.ApproverDirectSupervisor), directory.Users["head"])
		require.Nil(t, err)
		require.Nil(t, approver)
	})

	t.Run(`DirectSupervisor without department`, func(t *testing.T) {
		orphan := directory.AddUser("orphan", "", models.EmployeeRole)
		approver, err := i.Resolve(tmplOf(models.ApproverDirectSupervisor), orphan)
		require.Nil(t, err)
		require.Nil(t, approver)

		lost := directory.AddUser("lost", "missing-dept", models.EmployeeRole)
		approver, err = i.Resolve(tmplOf(models.ApproverDirectSupervisor), lost)
		require.Nil(t, err)
		require.Nil(t, approver)
	})

	t.Run(`DepartmentDirector check`, func(t *testing.T) {
		approver, err := i.Resolve(tmplOf(models.ApproverDepartmentDirector), submitter)
		require.Nil(t, err)
		require.Equal(t, "director", approver.ID)

		approver, err = i.Resolve(tmplOf(models.ApproverDepartmentDirector), directory.Users["director"])
		require.Nil(t, err)
		require.Nil(t, approver)

		approver, err = i.Resolve(tmplOf(models.ApproverDepartmentDirector), directory.Users["hr2"])
		require.Nil(t, err)
		require.Nil(t, approver, "директор не назначен")
	})

	t.Run(`SpecificUser check`, func(t *testing.T) {
		tmpl := tmplOf(models.ApproverSpecificUser)
		tmpl.SpecificUserID = "hr2"
		approver, err := i.Resolve(tmpl, submitter)
		require.Nil(t, err)
		require.Equal(t, "hr2", approver.ID)

		tmpl.SpecificUserID = "nobody"
		approver, err = i.Resolve(tmpl, submitter)
		require.Nil(t, err)
		require.Nil(t, approver)
	})

	t.Run(`UserGroup check`, func(t *testing.T) {
		directory.SetGroup("g1", "hr2", "hr1")
		tmpl := tmplOf(models.ApproverUserGroup)
		tmpl.ApproverGroupID = "g1"
		approver, err := i.Resolve(tmpl, submitter)
		require.Nil(t, err)
		require.Equal(t, "hr2", approver.ID)

		tmpl.ApproverGroupID = "empty"
		approver, err = i.Resolve(tmpl, submitter)
		require.Nil(t, err)
		require.Nil(t, approver)
	})

	t.Run(`SpecificDepartment check`, func(t *testing.T) {
		tmpl := tmplOf(models.ApproverSpecificDepartment)
		tmpl.SpecificDepartmentID = "hr"
		approver, err := i.Resolve(tmpl, submitter)
		require.Nil(t, err)
		require.Equal(t, "hr1", approver.ID)

		tmpl.SpecificDepartmentID = "missing"
		approver, err = i.Resolve(tmpl, submitter)
		require.Nil(t, err)
		require.Nil(t, approver)
	})

	t.Run(`Submitter check`, func(t *testing.T) {
		approver, err := i.Resolve(tmplOf(models.ApproverSubmitter), submitter)
		require.Nil(t, err)
		require.Equal(t, "submitter", approver.ID)
	})

	t.Run(`unknown and Role policies resolve to none`, func(t *testing.T) {
		approver, err := i.Resolve(tmplOf("SOMETHING_ELSE"), submitter)
		require.Nil(t, err)
		require.Nil(t, approver)

		tmpl := tmplOf(models.ApproverRole)
		tmpl.ApproverRoleTarget = models.HRManagerRole
		approver, err = i.Resolve(tmpl, submitter)
		require.Nil(t, err)
		require.Nil(t, approver)
	})

	t.Run(`store failure propagates`, func(t *testing.T) {
		broken := getDirectory()
		broken.Err = errors.New("connection reset")
		approver, err := NewInstance(broken).Resolve(tmplOf(models.ApproverDirectSupervisor), submitter)
		require.NotNil(t, err)
		require.Nil(t, approver)
	})
}

func ids(users []dbmodels.User) []string {
	result := make([]string, 0, len(users))
	for _, user := range users {
		result = append(result, user.ID)
	}
	return result
}

func TestResolveMany(t *testing.T) {
	directory := getDirectory()
	i := NewInstance(directory)
	submitter := directory.Users["submitter"]

	t.Run(`UserGroup excludes submitter`, func(t *testing.T) {
		directory.AddUser("u1", "sales", models.EmployeeRole)
		directory.SetGroup("g", "submitter", "u1")
		tmpl := tmplOf(models.ApproverUserGroup)
		tmpl.ApproverGroupID = "g"
		list, err := i.ResolveMany(tmpl, submitter)
		require.Nil(t, err)
		require.Equal(t, []string{"u1"}, ids(list))
	})

	t.Run(`UserGroup collapses duplicates keeping first`, func(t *testing.T) {
		directory.SetGroup("dup", "hr2", "hr1", "hr2", "head")
		tmpl := tmplOf(models.ApproverUserGroup)
		tmpl.ApproverGroupID = "dup"
		list, err := i.ResolveMany(tmpl, submitter)
		require.Nil(t, err)
		require.Equal(t, []string{"hr2", "hr1", "head"}, ids(list))
	})

	t.Run(`SpecificDepartment head and substitute`, func(t *testing.T) {
		tmpl := tmplOf(models.ApproverSpecificDepartment)
		tmpl.SpecificDepartmentID = "sales"
		list, err := i.ResolveMany(tmpl, submitter)
		require.Nil(t, err)
		require.Equal(t, []string{"head", "deputy"}, ids(list))

		list, err = i.ResolveMany(tmpl, directory.Users["head"])
		require.Nil(t, err)
		require.Equal(t, []string{"deputy"}, ids(list))

		tmpl.SpecificDepartmentID = "hr"
		list, err = i.ResolveMany(tmpl, submitter)
		require.Nil(t, err)
		require.Equal(t, []string{"hr1"}, ids(list))
	})

	t.Run(`Role returns every qualifying user`, func(t *testing.T) {
		tmpl := tmplOf(models.ApproverRole)
		tmpl.ApproverRoleTarget = models.HRManagerRole
		list, err := i.ResolveMany(tmpl, directory.Users["hr1"])
		require.Nil(t, err)
		require.Equal(t, []string{"hr2"}, ids(list))
	})

	t.Run(`other policies degrade to singular`, func(t *testing.T) {
		list, err := i.ResolveMany(tmplOf(models.ApproverDirectSupervisor), submitter)
		require.Nil(t, err)
		require.Equal(t, []string{"head"}, ids(list))

		list, err = i.ResolveMany(tmplOf(models.ApproverSubmitter), submitter)
		require.Nil(t, err)
		require.Empty(t, list, "автор всегда исключается из параллельных согласующих")
	})
}
