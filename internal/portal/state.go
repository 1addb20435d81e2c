package portal

import (
	"formdesk/internal/conversation"
	"formdesk/internal/model"
)

// Accessors return copies; the controller stays the only writer of the
// underlying lists.

func (c *Controller) Page() model.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) CurrentUser() (model.UserProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return model.UserProfile{}, false
	}
	return *c.user, true
}

func (c *Controller) SelectedApplicationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedAppID
}

func (c *Controller) EditingFormID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingFormID
}

func (c *Controller) ChatUserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatUserID
}

func (c *Controller) Applications() []model.Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Application(nil), c.applications...)
}

func (c *Controller) MyApplications() []model.MyApplicationItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.MyApplicationItem(nil), c.myItems...)
}

func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Message(nil), c.messages...)
}

// Users returns every known profile except the viewer's own, matching the
// admin user list.
func (c *Controller) Users() []model.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.UserProfile
	for _, u := range c.users {
		if c.user != nil && u.ID == c.user.ID {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Application looks up a form template by id.
func (c *Controller) Application(id string) (model.Application, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.applications {
		if a.ID == id {
			return a, true
		}
	}
	return model.Application{}, false
}

// ApplicationName resolves the display name for a tracked item's form
// template. Items may reference a deleted template; those render a
// placeholder instead of erroring.
func (c *Controller) ApplicationName(applicationID string) string {
	if a, ok := c.Application(applicationID); ok {
		return a.Name
	}
	return "Unknown application"
}

// UserName resolves a profile name for message display.
func (c *Controller) UserName(userID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.users {
		if u.ID == userID {
			return u.Name
		}
	}
	return "Unknown user"
}

// UnreadCount recounts unread messages addressed to the viewer from the
// flat list.
func (c *Controller) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return 0
	}
	return conversation.UnreadCount(c.user.ID, c.messages)
}

// UnreadFromUser is the per-employee badge count on the admin user list.
func (c *Controller) UnreadFromUser(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return 0
	}
	return conversation.UnreadFrom(c.user.ID, userID, c.messages)
}

// ThreadWith returns the viewer's conversation with one counterpart in
// chronological order.
func (c *Controller) ThreadWith(counterpartID string) []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	return conversation.Thread(c.user.ID, counterpartID, c.messages)
}

// AdminThread is the employee's conversation with the admin hub.
func (c *Controller) AdminThread() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	hub, ok := conversation.AdminHub(c.users)
	if !ok {
		return nil
	}
	return conversation.Thread(c.user.ID, hub.ID, c.messages)
}

// LatestMessageWith returns the newest message exchanged with one
// counterpart, for list previews.
func (c *Controller) LatestMessageWith(counterpartID string) (model.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return model.Message{}, false
	}
	return conversation.LatestMessage(c.user.ID, counterpartID, c.messages)
}
