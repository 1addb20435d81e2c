package main

import (
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"formdesk/internal/model"
)

func (v *PortalView) renderEmployeeHome() app.UI {
	items := v.ctl.MyApplications()
	open := 0
	for _, it := range items {
		if !it.IsCompleted {
			open++
		}
	}
	unread := v.ctl.UnreadCount()

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			app.H2().Text("Home"),
			app.Div().Class("cards").Body(
				v.summaryCard("Open applications", open, model.PageEmployeeMyApplications),
				v.summaryCard("Unread messages", unread, model.PageEmployeeMessages),
			),
		),
	)
}

func (v *PortalView) summaryCard(label string, count int, target model.Page) app.UI {
	return app.Div().Class("card").OnClick(func(ctx app.Context, e app.Event) {
		v.navigate(ctx, target)
	}).Body(
		app.Span().Class("card-count").Textf("%d", count),
		app.Span().Class("card-label").Text(label),
	)
}

func (v *PortalView) renderEmployeeApplications() app.UI {
	apps := v.ctl.Applications()
	query := strings.ToLower(strings.TrimSpace(v.searchQuery))

	var rows []app.UI
	for _, a := range apps {
		if query != "" && !strings.Contains(strings.ToLower(a.Name), query) &&
			!strings.Contains(strings.ToLower(a.Description), query) {
			continue
		}
		a := a
		rows = append(rows, app.Div().Class("list-row").OnClick(func(ctx app.Context, e app.Event) {
			v.do(ctx, func() { v.ctl.ViewApplicationDetail(a.ID) })
		}).Body(
			app.H3().Text(a.Name),
			app.P().Text(a.Description),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, app.P().Class("empty").Text("No applications available."))
	}

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			app.H2().Text("Applications"),
			app.Input().Type("search").Placeholder("Search…").Value(v.searchQuery).
				OnInput(func(ctx app.Context, e app.Event) {
					v.searchQuery = ctx.JSSrc().Get("value").String()
				}),
			app.Div().Class("list").Body(rows...),
		),
	)
}

func (v *PortalView) renderEmployeeApplicationDetail() app.UI {
	appn, ok := v.ctl.Application(v.ctl.SelectedApplicationID())
	if !ok {
		return app.Div().Class("page").Body(
			v.renderHeader(),
			app.Main().Body(
				app.P().Class("empty").Text("Application not found."),
				v.backButton("Back to applications", model.PageEmployeeApplications),
			),
		)
	}

	var submission app.UI
	if appn.SubmissionURL != "" {
		submission = app.A().Href(appn.SubmissionURL).Target("_blank").Text(appn.SubmissionURL)
	} else {
		submission = app.Span().Text(appn.SubmissionMethod)
	}

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			v.backButton("Back to applications", model.PageEmployeeApplications),
			app.H2().Text(appn.Name),
			app.P().Text(appn.Description),
			app.Dl().Body(
				app.Dt().Text("How to submit"),
				app.Dd().Body(submission),
				app.Dt().Text("Notes"),
				app.Dd().Text(appn.Notes),
			),
			app.Form().Class("track-form").OnSubmit(func(ctx app.Context, e app.Event) {
				e.PreventDefault()
				title := strings.TrimSpace(v.itemTitle)
				if title == "" {
					title = appn.Name
				}
				memo := v.itemMemo
				v.itemTitle, v.itemMemo = "", ""
				v.do(ctx, func() { v.ctl.AddMyApplication(appn.ID, title, memo) })
			}).Body(
				app.H3().Text("Track this application"),
				app.Input().Type("text").Placeholder(appn.Name).Value(v.itemTitle).
					OnInput(func(ctx app.Context, e app.Event) {
						v.itemTitle = ctx.JSSrc().Get("value").String()
					}),
				app.Textarea().Placeholder("Memo (optional)").Text(v.itemMemo).
					OnInput(func(ctx app.Context, e app.Event) {
						v.itemMemo = ctx.JSSrc().Get("value").String()
					}),
				app.Button().Type("submit").Text("Add to my applications"),
			),
		),
	)
}

func (v *PortalView) renderEmployeeMyApplications() app.UI {
	items := v.ctl.MyApplications()

	var rows []app.UI
	for _, it := range items {
		it := it
		rowClass := "list-row"
		if it.IsCompleted {
			rowClass += " completed"
		}
		status := "In progress"
		if it.IsCompleted {
			status = "Completed"
			if it.CompletedAt != nil {
				status = "Completed " + it.CompletedAt.Format("2006-01-02")
			}
		}
		rows = append(rows, app.Div().Class(rowClass).Body(
			app.Input().Type("checkbox").Checked(it.IsCompleted).
				OnChange(func(ctx app.Context, e app.Event) {
					v.do(ctx, func() { v.ctl.ToggleMyApplicationCompleted(it.ID) })
				}),
			app.Div().Class("list-row-body").Body(
				app.H3().Text(it.Title),
				app.P().Class("muted").Text(v.ctl.ApplicationName(it.ApplicationID)),
				app.If(it.Memo != "", func() app.UI {
					return app.P().Text(it.Memo)
				}),
				app.Span().Class("status").Text(status),
			),
			app.Button().Class("danger").Text("Delete").
				OnClick(func(ctx app.Context, e app.Event) {
					v.do(ctx, func() { v.ctl.DeleteMyApplication(it.ID) })
				}),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, app.P().Class("empty").Text("Nothing tracked yet."))
	}

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			app.H2().Text("My Applications"),
			app.Div().Class("list").Body(rows...),
		),
	)
}

func (v *PortalView) renderEmployeeMessages() app.UI {
	latest, ok := v.ctl.LatestMessageWith(v.adminHubID())
	unread := v.ctl.UnreadCount()

	preview := "No messages yet."
	when := ""
	if ok {
		preview = latest.Content
		when = latest.SentAt.Format("Jan 2 15:04")
	}

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Body(
			app.H2().Text("Messages"),
			app.Div().Class("list-row").OnClick(func(ctx app.Context, e app.Event) {
				v.do(ctx, func() {
					v.ctl.NavigateTo(model.PageEmployeeMessageDetail)
					v.ctl.AcknowledgeVisibleMessages()
				})
			}).Body(
				app.Div().Class("list-row-body").Body(
					app.H3().Text("Support"),
					app.P().Class("muted").Text(preview),
					app.Span().Class("muted").Text(when),
				),
				app.If(unread > 0, func() app.UI {
					return app.Span().Class("badge").Textf("%d", unread)
				}),
			),
		),
	)
}

func (v *PortalView) adminHubID() string {
	for _, u := range v.ctl.Users() {
		if u.Role == model.RoleAdmin {
			return u.ID
		}
	}
	return ""
}

func (v *PortalView) renderEmployeeMessageDetail() app.UI {
	thread := v.ctl.AdminThread()
	user, _ := v.ctl.CurrentUser()

	return app.Div().Class("page").Body(
		v.renderHeader(),
		app.Main().Class("chat").Body(
			v.backButton("Back to messages", model.PageEmployeeMessages),
			app.H2().Text("Support"),
			v.renderThread(thread, user.ID),
			v.renderChatInput(func(ctx app.Context, content string) {
				v.do(ctx, func() { v.ctl.SendToAdmin(content) })
			}),
		),
	)
}

// renderThread lists a conversation oldest-first. Read acknowledgement
// happens when the chat page is entered, not here.
func (v *PortalView) renderThread(thread []model.Message, viewerID string) app.UI {
	var bubbles []app.UI
	for _, m := range thread {
		class := "bubble incoming"
		if m.SenderID == viewerID {
			class = "bubble outgoing"
		}
		bubbles = append(bubbles, app.Div().Class(class).Body(
			app.P().Text(m.Content),
			app.Span().Class("muted").Text(m.SentAt.Format("Jan 2 15:04")),
		))
	}
	if len(bubbles) == 0 {
		bubbles = append(bubbles, app.P().Class("empty").Text("No messages yet."))
	}

	return app.Div().Class("thread").Body(bubbles...)
}

func (v *PortalView) renderChatInput(send func(app.Context, string)) app.UI {
	return app.Form().Class("chat-input").OnSubmit(func(ctx app.Context, e app.Event) {
		e.PreventDefault()
		content := v.chatInput
		v.chatInput = ""
		send(ctx, content)
	}).Body(
		app.Input().Type("text").Placeholder("Write a message…").Value(v.chatInput).
			OnInput(func(ctx app.Context, e app.Event) {
				v.chatInput = ctx.JSSrc().Get("value").String()
			}),
		app.Button().Type("submit").Text("Send"),
	)
}

func (v *PortalView) backButton(label string, p model.Page) app.UI {
	return app.Button().Class("link").Text("← "+label).
		OnClick(func(ctx app.Context, e app.Event) {
			v.navigate(ctx, p)
		})
}
