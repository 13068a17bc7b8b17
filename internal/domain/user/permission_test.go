package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleOwner, PermissionLeaveApprove, true},
		{RoleHR, PermissionBalanceAccrue, true},
		{RoleManager, PermissionLeaveApprove, true},
		{RoleManager, PermissionBalanceAccrue, false},
		{RoleHR, PermissionAttendanceManage, true},
		{RoleManager, PermissionAttendanceManage, false},
		{RoleEmployee, PermissionAttendanceManage, false},
		{RoleEmployee, PermissionLeaveCreate, true},
		{RoleEmployee, PermissionLeaveApprove, false},
		{RolePending, PermissionLeaveCreate, false},
		{Role("intern"), PermissionLeaveViewOwn, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestIdentity(t *testing.T) {
	id := Identity{EmployeeID: "emp-1", Role: RoleEmployee}

	assert.True(t, id.IsSelf("emp-1"))
	assert.False(t, id.IsSelf("emp-2"))
	assert.False(t, Identity{}.IsSelf(""))
	assert.True(t, id.Can(PermissionAttendanceCreate))
	assert.False(t, id.Can(PermissionAttendanceViewAll))
	assert.True(t, RoleHR.IsValid())
	assert.False(t, Role("root").IsValid())
}
