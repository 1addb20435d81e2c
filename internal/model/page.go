package model

// Page identifies a screen in the single-page client. Pages are partitioned
// into three reachability classes: unauthenticated, employee and admin. A
// request for a page outside the current class is silently substituted with
// the class default instead of producing an error.
type Page int

const (
	PageLogin Page = iota
	PageSignup

	PageEmployeeHome
	PageEmployeeApplications
	PageEmployeeApplicationDetail
	PageEmployeeMyApplications
	PageEmployeeMessages
	PageEmployeeMessageDetail

	PageAdminHome
	PageAdminForms
	PageAdminFormEditor
	PageAdminUsers
	PageAdminUserChat
)

func (p Page) String() string {
	switch p {
	case PageLogin:
		return "login"
	case PageSignup:
		return "signup"
	case PageEmployeeHome:
		return "employee-home"
	case PageEmployeeApplications:
		return "employee-applications"
	case PageEmployeeApplicationDetail:
		return "employee-application-detail"
	case PageEmployeeMyApplications:
		return "employee-my-applications"
	case PageEmployeeMessages:
		return "employee-messages"
	case PageEmployeeMessageDetail:
		return "employee-message-detail"
	case PageAdminHome:
		return "admin-home"
	case PageAdminForms:
		return "admin-forms"
	case PageAdminFormEditor:
		return "admin-form-editor"
	case PageAdminUsers:
		return "admin-users"
	case PageAdminUserChat:
		return "admin-user-chat"
	}
	return "unknown"
}

// DefaultPage is the home page for a role, and the substitution target for
// unreachable page requests.
func DefaultPage(role Role) Page {
	if role == RoleAdmin {
		return PageAdminHome
	}
	return PageEmployeeHome
}

// AllowedFor reports whether the page belongs to the reachability class of
// the given role. Unauthenticated pages are never allowed once logged in;
// the caller substitutes the role default instead.
func (p Page) AllowedFor(role Role) bool {
	switch p {
	case PageLogin, PageSignup:
		return false
	case PageEmployeeHome, PageEmployeeApplications, PageEmployeeApplicationDetail,
		PageEmployeeMyApplications, PageEmployeeMessages, PageEmployeeMessageDetail:
		return role == RoleEmployee
	case PageAdminHome, PageAdminForms, PageAdminFormEditor,
		PageAdminUsers, PageAdminUserChat:
		return role == RoleAdmin
	}
	return false
}

// Resolve maps a requested page to the page that will actually render for
// the given authentication state.
func Resolve(requested Page, authenticated bool, role Role) Page {
	if !authenticated {
		if requested == PageSignup {
			return PageSignup
		}
		return PageLogin
	}
	if !requested.AllowedFor(role) {
		return DefaultPage(role)
	}
	return requested
}
