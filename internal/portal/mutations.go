package portal

import (
	"strings"

	"github.com/google/uuid"

	"formdesk/internal/conversation"
	"formdesk/internal/model"
)

// Mutations follow one shape: role checks and the optimistic local update
// happen under the lock, the lock is released for the repository call so
// the rest of the UI stays live, then it is re-acquired to reconcile. On
// success the optimistic entry is replaced by the server-canonical row; on
// failure it is rolled back and a transient notification reports the
// problem. The user may simply retry. A reconcile whose epoch no longer
// matches (a logout raced the call) is dropped.

// AddMyApplication creates a tracking entry for a form template.
func (c *Controller) AddMyApplication(applicationID, title, memo string) {
	c.mu.Lock()
	if c.user == nil || c.user.Role != model.RoleEmployee {
		c.mu.Unlock()
		return
	}
	item := model.MyApplicationItem{
		ID:            "tmp-" + uuid.NewString(),
		ApplicationID: applicationID,
		UserID:        c.user.ID,
		Title:         title,
		Memo:          memo,
		IsCompleted:   false,
		AddedAt:       c.now(),
	}
	c.myItems = append([]model.MyApplicationItem{item}, c.myItems...)
	epoch := c.epoch
	c.mu.Unlock()

	created, err := c.repo.AddMyApplication(applicationID, title, memo)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	if err != nil {
		c.removeMyItem(item.ID)
		c.fail("Failed to add to my applications", err)
		return
	}
	c.replaceMyItem(item.ID, created)
	c.notify(Notice{NoticeSuccess, "Added to my applications"})
}

// UpdateMyApplication edits the title and memo of a tracking entry.
func (c *Controller) UpdateMyApplication(id, title, memo string) {
	c.mu.Lock()
	idx := c.myItemIndex(id)
	if c.user == nil || idx < 0 {
		c.mu.Unlock()
		return
	}
	prev := c.myItems[idx]
	next := prev
	next.Title = title
	next.Memo = memo
	c.myItems[idx] = next
	epoch := c.epoch
	c.mu.Unlock()

	updated, err := c.repo.UpdateMyApplication(next)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	if err != nil {
		c.replaceMyItem(id, prev)
		c.fail("Failed to update item", err)
		return
	}
	c.replaceMyItem(id, updated)
}

// ToggleMyApplicationCompleted flips completion. CompletedAt is stamped on
// the false->true transition; on reopening it is cleared unless the
// controller was configured to keep the first completion time.
func (c *Controller) ToggleMyApplicationCompleted(id string) {
	c.mu.Lock()
	idx := c.myItemIndex(id)
	if c.user == nil || idx < 0 {
		c.mu.Unlock()
		return
	}
	prev := c.myItems[idx]
	next := prev
	next.IsCompleted = !prev.IsCompleted
	if next.IsCompleted {
		t := c.now()
		next.CompletedAt = &t
	} else if !c.keepCompletedAt {
		next.CompletedAt = nil
	}
	c.myItems[idx] = next
	epoch := c.epoch
	c.mu.Unlock()

	updated, err := c.repo.UpdateMyApplication(next)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	if err != nil {
		c.replaceMyItem(id, prev)
		c.fail("Failed to update item", err)
		return
	}
	c.replaceMyItem(id, updated)
}

// DeleteMyApplication removes a tracking entry. The optimistic removal is
// restored if the repository rejects it.
func (c *Controller) DeleteMyApplication(id string) {
	c.mu.Lock()
	idx := c.myItemIndex(id)
	if c.user == nil || idx < 0 {
		c.mu.Unlock()
		return
	}
	removed := c.myItems[idx]
	c.myItems = append(c.myItems[:idx], c.myItems[idx+1:]...)
	epoch := c.epoch
	c.mu.Unlock()

	err := c.repo.DeleteMyApplication(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	if err != nil {
		rest := c.myItems
		at := min(idx, len(rest))
		c.myItems = make([]model.MyApplicationItem, 0, len(rest)+1)
		c.myItems = append(c.myItems, rest[:at]...)
		c.myItems = append(c.myItems, removed)
		c.myItems = append(c.myItems, rest[at:]...)
		c.fail("Failed to delete item", err)
		return
	}
	c.notify(Notice{NoticeSuccess, "Removed from my applications"})
}

// SaveApplication creates or updates a form template. Admin only. The
// editor always returns to form management, even on failure; the failure is
// reported through the notification, not a blocking dialog.
func (c *Controller) SaveApplication(form model.ApplicationForm, existingID string) {
	c.mu.Lock()
	if c.user == nil || c.user.Role != model.RoleAdmin {
		c.mu.Unlock()
		return
	}
	c.setPage(model.PageAdminForms)

	var prev, tmp model.Application
	if existingID != "" {
		idx := c.appIndex(existingID)
		if idx < 0 {
			c.mu.Unlock()
			c.notify(Notice{NoticeError, "Form not found"})
			return
		}
		prev = c.applications[idx]
		next := prev
		applyForm(&next, form)
		c.applications[idx] = next
	} else {
		tmp = model.Application{ID: "tmp-" + uuid.NewString(), CreatedAt: c.now()}
		applyForm(&tmp, form)
		c.applications = append(c.applications, tmp)
	}
	epoch := c.epoch
	c.mu.Unlock()

	saved, err := c.repo.SaveApplication(existingID, form)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	if existingID != "" {
		if err != nil {
			if idx := c.appIndex(existingID); idx >= 0 {
				c.applications[idx] = prev
			}
			c.fail("Failed to save form", err)
			return
		}
		if idx := c.appIndex(existingID); idx >= 0 {
			c.applications[idx] = saved
		}
		c.notify(Notice{NoticeSuccess, "Form updated"})
		return
	}
	if err != nil {
		c.removeApplication(tmp.ID)
		c.fail("Failed to save form", err)
		return
	}
	if idx := c.appIndex(tmp.ID); idx >= 0 {
		c.applications[idx] = saved
	}
	c.notify(Notice{NoticeSuccess, "Form created"})
}

// DeleteApplication removes a form template. Tracking items that reference
// it become orphaned and render a placeholder name.
func (c *Controller) DeleteApplication(id string) {
	c.mu.Lock()
	if c.user == nil || c.user.Role != model.RoleAdmin {
		c.mu.Unlock()
		return
	}
	idx := c.appIndex(id)
	if idx < 0 {
		c.mu.Unlock()
		return
	}
	removed := c.applications[idx]
	c.applications = append(c.applications[:idx], c.applications[idx+1:]...)
	epoch := c.epoch
	c.mu.Unlock()

	err := c.repo.DeleteApplication(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	if err != nil {
		rest := c.applications
		at := min(idx, len(rest))
		c.applications = make([]model.Application, 0, len(rest)+1)
		c.applications = append(c.applications, rest[:at]...)
		c.applications = append(c.applications, removed)
		c.applications = append(c.applications, rest[at:]...)
		c.fail("Failed to delete form", err)
		return
	}
	c.notify(Notice{NoticeSuccess, "Form deleted"})
}

// SendMessage sends to an explicit receiver. Blank content and missing
// sessions are silent no-ops. The server-canonical row is appended on
// success rather than a locally fabricated one, so its id can never
// collide with acknowledgement tracking.
func (c *Controller) SendMessage(receiverID, content string) {
	c.sendMessage(receiverID, content)
}

// SendToAdmin sends the employee's message to the admin hub.
func (c *Controller) SendToAdmin(content string) {
	c.mu.Lock()
	hub, ok := conversation.AdminHub(c.users)
	c.mu.Unlock()
	if !ok {
		c.notify(Notice{NoticeError, "No administrator available"})
		return
	}
	c.sendMessage(hub.ID, content)
}

func (c *Controller) sendMessage(receiverID, content string) {
	content = strings.TrimSpace(content)

	c.mu.Lock()
	if c.user == nil || content == "" {
		c.mu.Unlock()
		return
	}
	epoch := c.epoch
	c.mu.Unlock()

	msg, err := c.repo.SendMessage(receiverID, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	if err != nil {
		c.fail("Failed to send message", err)
		return
	}
	c.messages = append(c.messages, msg)
}

// AcknowledgeVisibleMessages marks the unread messages of the active
// conversation as read: the admin-hub thread for an employee, the selected
// employee's thread for an admin. Safe to call on every render; claimed
// messages are not re-submitted while their mark call is in flight.
func (c *Controller) AcknowledgeVisibleMessages() {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return
	}
	var counterpartID string
	switch c.user.Role {
	case model.RoleEmployee:
		hub, ok := conversation.AdminHub(c.users)
		if !ok {
			c.mu.Unlock()
			return
		}
		counterpartID = hub.ID
	case model.RoleAdmin:
		if c.chatUserID == "" {
			c.mu.Unlock()
			return
		}
		counterpartID = c.chatUserID
	default:
		c.mu.Unlock()
		return
	}
	ids := c.ack.Begin(c.user.ID, counterpartID, c.messages)
	epoch := c.epoch
	c.mu.Unlock()

	if len(ids) == 0 {
		return
	}
	results := make(map[string]error, len(ids))
	for _, id := range ids {
		results[id] = c.repo.MarkMessageRead(id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	c.ack.Finish(c.messages, results)
}

func applyForm(a *model.Application, form model.ApplicationForm) {
	a.Name = form.Name
	a.Description = form.Description
	a.SubmissionMethod = form.SubmissionMethod
	a.SubmissionURL = form.SubmissionURL
	a.Notes = form.Notes
	a.IsPublished = form.IsPublished
}

func (c *Controller) myItemIndex(id string) int {
	for i, it := range c.myItems {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) replaceMyItem(id string, item model.MyApplicationItem) {
	if idx := c.myItemIndex(id); idx >= 0 {
		c.myItems[idx] = item
	}
}

func (c *Controller) removeMyItem(id string) {
	if idx := c.myItemIndex(id); idx >= 0 {
		c.myItems = append(c.myItems[:idx], c.myItems[idx+1:]...)
	}
}

func (c *Controller) appIndex(id string) int {
	for i, a := range c.applications {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) removeApplication(id string) {
	if idx := c.appIndex(id); idx >= 0 {
		c.applications = append(c.applications[:idx], c.applications[idx+1:]...)
	}
}
