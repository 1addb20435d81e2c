package main

import (
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"formdesk/internal/model"
	"formdesk/internal/portal"
)

func (v *PortalView) renderAdminHome() app.UI {
	apps := v.ctl.Applications()
	published := 0
	for _, a := range apps {
		if a.IsPublished {
			published++
		}
	}

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			app.H2().Text("Admin"),
			app.Div().Class("cards").Body(
				v.summaryCard("Published forms", published, model.PageAdminForms),
				v.summaryCard("Unread messages", v.ctl.UnreadCount(), model.PageAdminUsers),
			),
		),
	)
}

func (v *PortalView) renderAdminForms() app.UI {
	apps := v.ctl.Applications()

	var rows []app.UI
	for _, a := range apps {
		a := a
		state := "Draft"
		if a.IsPublished {
			state = "Published"
		}
		rows = append(rows, app.Div().Class("list-row").Body(
			app.Div().Class("list-row-body").Body(
				app.H3().Text(a.Name),
				app.P().Class("muted").Text(a.Description),
				app.Span().Class("status").Text(state),
			),
			app.Button().Text("Edit").OnClick(func(ctx app.Context, e app.Event) {
				v.editLoaded = false
				v.do(ctx, func() { v.ctl.EditForm(a.ID) })
			}),
			app.Button().Class("danger").Text("Delete").
				OnClick(func(ctx app.Context, e app.Event) {
					v.do(ctx, func() { v.ctl.DeleteApplication(a.ID) })
				}),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, app.P().Class("empty").Text("No forms yet."))
	}

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			app.H2().Text("Form management"),
			app.Button().Text("New form").OnClick(func(ctx app.Context, e app.Event) {
				v.editLoaded = false
				v.do(ctx, func() { v.ctl.EditForm("") })
			}),
			app.Div().Class("list").Body(rows...),
		),
	)
}

// loadEditor seeds the editor fields once per visit. Editing an existing
// form starts from its current values; a new form starts blank.
func (v *PortalView) loadEditor() {
	if v.editLoaded {
		return
	}
	v.editLoaded = true
	v.editName, v.editDescription = "", ""
	v.editMethod, v.editURL, v.editNotes = "", "", ""
	v.editPublished = false

	id := v.ctl.EditingFormID()
	if id == "" {
		return
	}
	if a, ok := v.ctl.Application(id); ok {
		v.editName = a.Name
		v.editDescription = a.Description
		v.editMethod = a.SubmissionMethod
		v.editURL = a.SubmissionURL
		v.editNotes = a.Notes
		v.editPublished = a.IsPublished
	}
}

func (v *PortalView) renderAdminFormEditor() app.UI {
	v.loadEditor()
	id := v.ctl.EditingFormID()
	title := "New form"
	if id != "" {
		title = "Edit form"
	}

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			v.backButton("Back to forms", model.PageAdminForms),
			app.H2().Text(title),
			app.Form().Class("editor").OnSubmit(func(ctx app.Context, e app.Event) {
				e.PreventDefault()
				form := model.ApplicationForm{
					Name:             strings.TrimSpace(v.editName),
					Description:      v.editDescription,
					SubmissionMethod: v.editMethod,
					SubmissionURL:    v.editURL,
					Notes:            v.editNotes,
					IsPublished:      v.editPublished,
				}
				if form.Name == "" {
					v.pushNotice(portal.Notice{Kind: portal.NoticeError, Text: "Name is required"})
					return
				}
				v.editLoaded = false
				v.do(ctx, func() { v.ctl.SaveApplication(form, id) })
			}).Body(
				app.Label().Text("Name"),
				app.Input().Type("text").Value(v.editName).
					OnInput(func(ctx app.Context, e app.Event) {
						v.editName = ctx.JSSrc().Get("value").String()
					}),
				app.Label().Text("Description"),
				app.Textarea().Text(v.editDescription).
					OnInput(func(ctx app.Context, e app.Event) {
						v.editDescription = ctx.JSSrc().Get("value").String()
					}),
				app.Label().Text("Submission method"),
				app.Input().Type("text").Value(v.editMethod).
					OnInput(func(ctx app.Context, e app.Event) {
						v.editMethod = ctx.JSSrc().Get("value").String()
					}),
				app.Label().Text("Submission URL"),
				app.Input().Type("url").Value(v.editURL).
					OnInput(func(ctx app.Context, e app.Event) {
						v.editURL = ctx.JSSrc().Get("value").String()
					}),
				app.Label().Text("Notes"),
				app.Textarea().Text(v.editNotes).
					OnInput(func(ctx app.Context, e app.Event) {
						v.editNotes = ctx.JSSrc().Get("value").String()
					}),
				app.Label().Class("checkbox").Body(
					app.Input().Type("checkbox").Checked(v.editPublished).
						OnChange(func(ctx app.Context, e app.Event) {
							v.editPublished = ctx.JSSrc().Get("checked").Bool()
						}),
					app.Span().Text("Published"),
				),
				app.Button().Type("submit").Text("Save"),
			),
		),
	)
}

func (v *PortalView) renderAdminUsers() app.UI {
	users := v.ctl.Users()

	var rows []app.UI
	for _, u := range users {
		u := u
		preview := "No messages yet."
		when := ""
		if latest, ok := v.ctl.LatestMessageWith(u.ID); ok {
			preview = latest.Content
			when = latest.SentAt.Format("Jan 2 15:04")
		}
		unread := v.ctl.UnreadFromUser(u.ID)

		rows = append(rows, app.Div().Class("list-row").OnClick(func(ctx app.Context, e app.Event) {
			v.do(ctx, func() {
				v.ctl.ViewUserChat(u.ID)
				v.ctl.AcknowledgeVisibleMessages()
			})
		}).Body(
			app.Div().Class("list-row-body").Body(
				app.H3().Text(u.Name),
				app.P().Class("muted").Text(u.Email),
				app.P().Class("muted").Text(preview),
				app.Span().Class("muted").Text(when),
			),
			app.If(unread > 0, func() app.UI {
				return app.Span().Class("badge").Textf("%d", unread)
			}),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, app.P().Class("empty").Text("No users yet."))
	}

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			app.H2().Text("Users"),
			app.Div().Class("list").Body(rows...),
		),
	)
}

func (v *PortalView) renderAdminUserChat() app.UI {
	counterpartID := v.ctl.ChatUserID()
	thread := v.ctl.ThreadWith(counterpartID)
	user, _ := v.ctl.CurrentUser()

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Class("chat").Body(
			v.backButton("Back to users", model.PageAdminUsers),
			app.H2().Text(v.ctl.UserName(counterpartID)),
			v.renderThread(thread, user.ID),
			v.renderChatInput(func(ctx app.Context, content string) {
				v.do(ctx, func() { v.ctl.SendMessage(counterpartID, content) })
			}),
		),
	)
}
