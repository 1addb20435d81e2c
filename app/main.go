package main

import (
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

func main() {
	app.Route("/", func() app.Composer {
		client := NewClient("", 15*time.Second)
		return NewPortalView(client)
	})
	app.RunWhenOnBrowser()
}
