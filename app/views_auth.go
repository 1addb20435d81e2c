package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"formdesk/internal/model"
)

func (v *PortalView) renderLogin() app.UI {
	return app.Div().Class("auth-page").Body(
		app.H1().Text("FormDesk"),
		app.Form().Class("auth-form").OnSubmit(func(ctx app.Context, e app.Event) {
			e.PreventDefault()
			email, password := v.loginEmail, v.loginPassword
			v.do(ctx, func() { v.ctl.Login(email, password) })
		}).Body(
			app.H2().Text("Log in"),
			app.Input().Type("email").Placeholder("Email").Value(v.loginEmail).
				OnInput(func(ctx app.Context, e app.Event) {
					v.loginEmail = ctx.JSSrc().Get("value").String()
				}),
			app.Input().Type("password").Placeholder("Password").Value(v.loginPassword).
				OnInput(func(ctx app.Context, e app.Event) {
					v.loginPassword = ctx.JSSrc().Get("value").String()
				}),
			app.Button().Type("submit").Text("Log in"),
		),
		app.Button().Class("link").Text("Create an account").
			OnClick(func(ctx app.Context, e app.Event) {
				v.navigate(ctx, model.PageSignup)
			}),
	)
}

func (v *PortalView) renderSignup() app.UI {
	return app.Div().Class("auth-page").Body(
		app.H1().Text("FormDesk"),
		app.Form().Class("auth-form").OnSubmit(func(ctx app.Context, e app.Event) {
			e.PreventDefault()
			name, email, password := v.signupName, v.signupEmail, v.signupPassword
			role, ok := model.ParseRole(v.signupRole)
			if !ok {
				role = model.RoleEmployee
			}
			v.do(ctx, func() { v.ctl.Signup(name, email, password, role) })
		}).Body(
			app.H2().Text("Sign up"),
			app.Input().Type("text").Placeholder("Name").Value(v.signupName).
				OnInput(func(ctx app.Context, e app.Event) {
					v.signupName = ctx.JSSrc().Get("value").String()
				}),
			app.Input().Type("email").Placeholder("Email").Value(v.signupEmail).
				OnInput(func(ctx app.Context, e app.Event) {
					v.signupEmail = ctx.JSSrc().Get("value").String()
				}),
			app.Input().Type("password").Placeholder("Password").Value(v.signupPassword).
				OnInput(func(ctx app.Context, e app.Event) {
					v.signupPassword = ctx.JSSrc().Get("value").String()
				}),
			app.Select().OnChange(func(ctx app.Context, e app.Event) {
				v.signupRole = ctx.JSSrc().Get("value").String()
			}).Body(
				app.Option().Value(string(model.RoleEmployee)).Text("Employee").
					Selected(v.signupRole == string(model.RoleEmployee)),
				app.Option().Value(string(model.RoleAdmin)).Text("Admin").
					Selected(v.signupRole == string(model.RoleAdmin)),
			),
			app.Button().Type("submit").Text("Sign up"),
		),
		app.Button().Class("link").Text("Back to login").
			OnClick(func(ctx app.Context, e app.Event) {
				v.navigate(ctx, model.PageLogin)
			}),
	)
}
