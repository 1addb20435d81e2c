package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		requested     Page
		authenticated bool
		role          Role
		want          Page
	}{
		{"unauthenticated lands on login", PageEmployeeHome, false, "", PageLogin},
		{"unauthenticated may open signup", PageSignup, false, "", PageSignup},
		{"employee reaches own pages", PageEmployeeMyApplications, true, RoleEmployee, PageEmployeeMyApplications},
		{"employee blocked from admin pages", PageAdminForms, true, RoleEmployee, PageEmployeeHome},
		{"admin reaches own pages", PageAdminUserChat, true, RoleAdmin, PageAdminUserChat},
		{"admin blocked from employee pages", PageEmployeeMessages, true, RoleAdmin, PageAdminHome},
		{"authenticated never sees login", PageLogin, true, RoleEmployee, PageEmployeeHome},
		{"authenticated never sees signup", PageSignup, true, RoleAdmin, PageAdminHome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.requested, tt.authenticated, tt.role))
		})
	}
}

func TestAllowedFor(t *testing.T) {
	employeePages := []Page{
		PageEmployeeHome, PageEmployeeApplications, PageEmployeeApplicationDetail,
		PageEmployeeMyApplications, PageEmployeeMessages, PageEmployeeMessageDetail,
	}
	adminPages := []Page{
		PageAdminHome, PageAdminForms, PageAdminFormEditor,
		PageAdminUsers, PageAdminUserChat,
	}

	for _, p := range employeePages {
		assert.True(t, p.AllowedFor(RoleEmployee), p.String())
		assert.False(t, p.AllowedFor(RoleAdmin), p.String())
	}
	for _, p := range adminPages {
		assert.True(t, p.AllowedFor(RoleAdmin), p.String())
		assert.False(t, p.AllowedFor(RoleEmployee), p.String())
	}
	assert.False(t, PageLogin.AllowedFor(RoleEmployee))
	assert.False(t, PageSignup.AllowedFor(RoleAdmin))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("employee")
	assert.True(t, ok)
	assert.Equal(t, RoleEmployee, role)

	role, ok = ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

func TestDefaultPage(t *testing.T) {
	assert.Equal(t, PageAdminHome, DefaultPage(RoleAdmin))
	assert.Equal(t, PageEmployeeHome, DefaultPage(RoleEmployee))
	assert.Equal(t, PageEmployeeHome, DefaultPage(""))
}
