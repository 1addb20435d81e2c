package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"formdesk/internal/model"
	"formdesk/internal/portal"
)

// PortalView is the root component. It renders whatever page the
// controller currently exposes; every user event is forwarded to a
// controller operation and followed by a re-render.
type PortalView struct {
	app.Compo

	ctl   *portal.Controller
	ready bool

	noticeMu sync.Mutex
	notices  []portal.Notice

	// Form state, local to the view.
	loginEmail    string
	loginPassword string

	signupName     string
	signupEmail    string
	signupPassword string
	signupRole     string

	itemTitle string
	itemMemo  string

	editLoaded      bool
	editName        string
	editDescription string
	editMethod      string
	editURL         string
	editNotes       string
	editPublished   bool

	chatInput   string
	searchQuery string
}

func NewPortalView(client *Client) *PortalView {
	v := &PortalView{signupRole: string(model.RoleEmployee)}
	v.ctl = portal.New(client, client, portal.Options{
		Notify: v.pushNotice,
	})
	return v
}

func (v *PortalView) pushNotice(n portal.Notice) {
	v.noticeMu.Lock()
	v.notices = append(v.notices, n)
	v.noticeMu.Unlock()
}

func (v *PortalView) takeNotices() []portal.Notice {
	v.noticeMu.Lock()
	defer v.noticeMu.Unlock()
	return append([]portal.Notice(nil), v.notices...)
}

func (v *PortalView) noticeCount() int {
	v.noticeMu.Lock()
	defer v.noticeMu.Unlock()
	return len(v.notices)
}

// expireNotices drops the oldest n notices: the ones that were already
// showing when the expiry timer was armed. Notices raised by later actions
// keep their own timers and stay up.
func (v *PortalView) expireNotices(n int) {
	v.noticeMu.Lock()
	defer v.noticeMu.Unlock()
	if n > len(v.notices) {
		n = len(v.notices)
	}
	v.notices = append([]portal.Notice(nil), v.notices[n:]...)
}

func (v *PortalView) OnMount(ctx app.Context) {
	ctx.Async(func() {
		v.ctl.Init()
		ctx.Dispatch(func(ctx app.Context) {
			v.ready = true
		})
	})
}

// do runs a blocking controller operation off the UI goroutine, then
// re-renders. Notices showing at that point fade after a few seconds.
func (v *PortalView) do(ctx app.Context, fn func()) {
	ctx.Async(func() {
		fn()
		ctx.Dispatch(func(ctx app.Context) {})
		n := v.noticeCount()
		if n == 0 {
			return
		}
		time.Sleep(4 * time.Second)
		ctx.Dispatch(func(ctx app.Context) {
			v.expireNotices(n)
		})
	})
}

func (v *PortalView) Render() app.UI {
	if !v.ready {
		return app.Div().Class("loading").Text("Loading…")
	}

	var page app.UI
	switch v.ctl.Page() {
	case model.PageLogin:
		page = v.renderLogin()
	case model.PageSignup:
		page = v.renderSignup()
	case model.PageEmployeeHome:
		page = v.renderEmployeeHome()
	case model.PageEmployeeApplications:
		page = v.renderEmployeeApplications()
	case model.PageEmployeeApplicationDetail:
		page = v.renderEmployeeApplicationDetail()
	case model.PageEmployeeMyApplications:
		page = v.renderEmployeeMyApplications()
	case model.PageEmployeeMessages:
		page = v.renderEmployeeMessages()
	case model.PageEmployeeMessageDetail:
		page = v.renderEmployeeMessageDetail()
	case model.PageAdminHome:
		page = v.renderAdminHome()
	case model.PageAdminForms:
		page = v.renderAdminForms()
	case model.PageAdminFormEditor:
		page = v.renderAdminFormEditor()
	case model.PageAdminUsers:
		page = v.renderAdminUsers()
	case model.PageAdminUserChat:
		page = v.renderAdminUserChat()
	default:
		page = v.renderLogin()
	}

	return app.Div().Class("portal").Body(
		page,
		v.renderNotices(),
	)
}

func (v *PortalView) renderNotices() app.UI {
	notices := v.takeNotices()
	if len(notices) == 0 {
		return app.Div().Class("notices")
	}
	return app.Div().Class("notices").Body(
		app.Range(notices).Slice(func(i int) app.UI {
			n := notices[i]
			class := "notice notice-success"
			if n.Kind == portal.NoticeError {
				class = "notice notice-error"
			}
			return app.Div().Class(class).Text(n.Text)
		}),
	)
}

func (v *PortalView) navigate(ctx app.Context, p model.Page) {
	v.do(ctx, func() { v.ctl.NavigateTo(p) })
}

// renderHeader is the shared top bar: navigation for the role, the unread
// badge, and logout.
func (v *PortalView) renderHeader() app.UI {
	user, ok := v.ctl.CurrentUser()
	if !ok {
		return app.Header()
	}

	unread := v.ctl.UnreadCount()
	var nav []app.UI
	if user.Role == model.RoleAdmin {
		nav = append(nav,
			v.navButton("Home", model.PageAdminHome),
			v.navButton("Forms", model.PageAdminForms),
			v.navButton("Users", model.PageAdminUsers),
		)
	} else {
		messagesLabel := "Messages"
		if unread > 0 {
			messagesLabel = fmt.Sprintf("Messages (%d)", unread)
		}
		nav = append(nav,
			v.navButton("Home", model.PageEmployeeHome),
			v.navButton("Applications", model.PageEmployeeApplications),
			v.navButton("My Applications", model.PageEmployeeMyApplications),
			v.navButton(messagesLabel, model.PageEmployeeMessages),
		)
	}

	return app.Header().Class("header").Body(
		app.H1().Text("FormDesk"),
		app.Nav().Body(nav...),
		app.Div().Class("header-user").Body(
			app.Span().Text(user.Name),
			app.Button().Text("Log out").OnClick(func(ctx app.Context, e app.Event) {
				v.do(ctx, v.ctl.Logout)
			}),
		),
	)
}

func (v *PortalView) navButton(label string, p model.Page) app.UI {
	return app.Button().Text(label).OnClick(func(ctx app.Context, e app.Event) {
		v.navigate(ctx, p)
	})
}
