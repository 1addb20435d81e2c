package portal

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdesk/internal/apperr"
	"formdesk/internal/model"
)

// fakeRepo is an in-memory Repository with switchable failure injection.
type fakeRepo struct {
	mu    sync.Mutex
	apps  []model.Application
	items []model.MyApplicationItem
	msgs  []model.Message
	users []model.UserProfile

	failSave   error
	failDelete error
	failAdd    error
	failUpdate error
	failRemove error
	failSend   error
	failMark   error

	// sendStarted/sendGate stall SendMessage so tests can observe the
	// controller while a remote call is in flight.
	sendStarted chan struct{}
	sendGate    chan struct{}

	marked []string
	nextID int
}

func (f *fakeRepo) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeRepo) ListApplications() ([]model.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Application(nil), f.apps...), nil
}

func (f *fakeRepo) SaveApplication(id string, form model.ApplicationForm) (model.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return model.Application{}, f.failSave
	}
	a := model.Application{
		ID:               id,
		Name:             form.Name,
		Description:      form.Description,
		SubmissionMethod: form.SubmissionMethod,
		SubmissionURL:    form.SubmissionURL,
		Notes:            form.Notes,
		IsPublished:      form.IsPublished,
	}
	if a.ID == "" {
		a.ID = f.id("app")
	}
	return a, nil
}

func (f *fakeRepo) DeleteApplication(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failDelete
}

func (f *fakeRepo) ListMyApplications() ([]model.MyApplicationItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.MyApplicationItem(nil), f.items...), nil
}

func (f *fakeRepo) AddMyApplication(applicationID, title, memo string) (model.MyApplicationItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdd != nil {
		return model.MyApplicationItem{}, f.failAdd
	}
	return model.MyApplicationItem{
		ID:            f.id("item"),
		ApplicationID: applicationID,
		Title:         title,
		Memo:          memo,
	}, nil
}

func (f *fakeRepo) UpdateMyApplication(item model.MyApplicationItem) (model.MyApplicationItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return model.MyApplicationItem{}, f.failUpdate
	}
	return item, nil
}

func (f *fakeRepo) DeleteMyApplication(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failRemove
}

func (f *fakeRepo) ListMessages() ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Message(nil), f.msgs...), nil
}

func (f *fakeRepo) SendMessage(receiverID, content string) (model.Message, error) {
	if f.sendStarted != nil {
		f.sendStarted <- struct{}{}
	}
	if f.sendGate != nil {
		<-f.sendGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend != nil {
		return model.Message{}, f.failSend
	}
	return model.Message{
		ID:         f.id("msg"),
		ReceiverID: receiverID,
		Content:    content,
		SentAt:     time.Now(),
	}, nil
}

func (f *fakeRepo) MarkMessageRead(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMark != nil {
		return f.failMark
	}
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeRepo) ListUsers() ([]model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.UserProfile(nil), f.users...), nil
}

// fakeSessions always accepts credentials and hands out the configured
// profile.
type fakeSessions struct {
	user      model.UserProfile
	active    bool
	failLogin error
}

func (f *fakeSessions) Login(email, password string) (model.UserProfile, error) {
	if f.failLogin != nil {
		return model.UserProfile{}, f.failLogin
	}
	f.active = true
	return f.user, nil
}

func (f *fakeSessions) Signup(name, email, password string, role model.Role) (model.UserProfile, error) {
	f.active = true
	u := model.UserProfile{ID: "new-user", Name: name, Email: email, Role: role}
	f.user = u
	return u, nil
}

func (f *fakeSessions) Logout() error {
	f.active = false
	return nil
}

func (f *fakeSessions) CurrentUser() (model.UserProfile, bool, error) {
	if !f.active {
		return model.UserProfile{}, false, nil
	}
	return f.user, true, nil
}

var (
	employee = model.UserProfile{ID: "e1", Name: "Erin", Email: "erin@example.com", Role: model.RoleEmployee}
	admin    = model.UserProfile{ID: "a1", Name: "Ada", Email: "ada@example.com", Role: model.RoleAdmin}
)

func newTestController(t *testing.T, repo *fakeRepo, user model.UserProfile, opts Options) (*Controller, *[]Notice) {
	t.Helper()
	var notices []Notice
	base := opts
	base.Notify = func(n Notice) { notices = append(notices, n) }
	if base.Now == nil {
		base.Now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	}
	c := New(repo, &fakeSessions{user: user}, base)
	c.Login(user.Email, "secret")
	return c, &notices
}

func TestLoginLoadsModelsAndLandsOnHome(t *testing.T) {
	repo := &fakeRepo{
		apps:  []model.Application{{ID: "app1", Name: "Expense report", IsPublished: true}},
		users: []model.UserProfile{employee, admin},
	}
	c, _ := newTestController(t, repo, employee, Options{})

	assert.Equal(t, model.PageEmployeeHome, c.Page())
	user, ok := c.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "e1", user.ID)
	assert.Len(t, c.Applications(), 1)
}

func TestLoginFailureStaysOnLogin(t *testing.T) {
	var notices []Notice
	c := New(&fakeRepo{}, &fakeSessions{failLogin: errors.New("denied")}, Options{
		Notify: func(n Notice) { notices = append(notices, n) },
	})
	c.Login("erin@example.com", "wrong")

	assert.Equal(t, model.PageLogin, c.Page())
	_, ok := c.CurrentUser()
	assert.False(t, ok)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
}

func TestInitRestoresSession(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{admin}}
	c := New(repo, &fakeSessions{user: admin, active: true}, Options{})
	c.Init()

	assert.Equal(t, model.PageAdminHome, c.Page())
}

func TestInitWithoutSessionStaysOnLogin(t *testing.T) {
	c := New(&fakeRepo{}, &fakeSessions{}, Options{})
	c.Init()
	assert.Equal(t, model.PageLogin, c.Page())
}

func TestNavigationSubstitutesUnreachablePages(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee, admin}}
	c, _ := newTestController(t, repo, employee, Options{})

	c.NavigateTo(model.PageAdminForms)
	assert.Equal(t, model.PageEmployeeHome, c.Page(), "admin pages substitute the employee home")

	c.NavigateTo(model.PageEmployeeMessages)
	assert.Equal(t, model.PageEmployeeMessages, c.Page())

	c.NavigateTo(model.PageLogin)
	assert.Equal(t, model.PageEmployeeHome, c.Page(), "login is unreachable while authenticated")
}

func TestNavigationClearsStaleSelections(t *testing.T) {
	repo := &fakeRepo{
		apps:  []model.Application{{ID: "app1", Name: "Expense report"}},
		users: []model.UserProfile{employee, admin},
	}
	c, _ := newTestController(t, repo, employee, Options{})

	c.ViewApplicationDetail("app1")
	assert.Equal(t, model.PageEmployeeApplicationDetail, c.Page())
	assert.Equal(t, "app1", c.SelectedApplicationID())

	c.NavigateTo(model.PageEmployeeApplications)
	assert.Empty(t, c.SelectedApplicationID())
}

func TestLogoutClearsEverything(t *testing.T) {
	repo := &fakeRepo{
		apps:  []model.Application{{ID: "app1"}},
		users: []model.UserProfile{employee, admin},
	}
	c, _ := newTestController(t, repo, employee, Options{})

	c.Logout()
	assert.Equal(t, model.PageLogin, c.Page())
	_, ok := c.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, c.Applications())
	assert.Empty(t, c.Messages())
}

func TestAddMyApplicationReplacesOptimisticEntry(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee, admin}}
	c, _ := newTestController(t, repo, employee, Options{})

	c.AddMyApplication("app1", "My expense report", "")
	items := c.MyApplications()
	require.Len(t, items, 1)
	assert.Equal(t, "item-1", items[0].ID, "the optimistic id is replaced by the server one")
	assert.Equal(t, "My expense report", items[0].Title)
}

func TestAddMyApplicationRollsBackOnFailure(t *testing.T) {
	repo := &fakeRepo{
		users:   []model.UserProfile{employee, admin},
		failAdd: errors.New("boom"),
	}
	c, notices := newTestController(t, repo, employee, Options{})
	*notices = nil

	c.AddMyApplication("app1", "My expense report", "")
	assert.Empty(t, c.MyApplications(), "the optimistic entry is rolled back")
	require.Len(t, *notices, 1)
	assert.Equal(t, NoticeError, (*notices)[0].Kind)
}

func TestAddMyApplicationRequiresEmployee(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee, admin}}
	c, _ := newTestController(t, repo, admin, Options{})

	c.AddMyApplication("app1", "Nope", "")
	assert.Empty(t, c.MyApplications())
}

func TestToggleCompletedStampsAndClears(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []model.MyApplicationItem{{ID: "item-1", Title: "Report"}},
		users: []model.UserProfile{employee, admin},
	}
	c, _ := newTestController(t, repo, employee, Options{Now: func() time.Time { return now }})

	c.ToggleMyApplicationCompleted("item-1")
	items := c.MyApplications()
	require.True(t, items[0].IsCompleted)
	require.NotNil(t, items[0].CompletedAt)
	assert.Equal(t, now, *items[0].CompletedAt)

	c.ToggleMyApplicationCompleted("item-1")
	items = c.MyApplications()
	assert.False(t, items[0].IsCompleted)
	assert.Nil(t, items[0].CompletedAt, "reopening clears the completion time")
}

func TestToggleCompletedKeepsTimestampWhenConfigured(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		items: []model.MyApplicationItem{{ID: "item-1", Title: "Report"}},
		users: []model.UserProfile{employee, admin},
	}
	c, _ := newTestController(t, repo, employee, Options{
		Now:             func() time.Time { return now },
		KeepCompletedAt: true,
	})

	c.ToggleMyApplicationCompleted("item-1")
	c.ToggleMyApplicationCompleted("item-1")
	items := c.MyApplications()
	assert.False(t, items[0].IsCompleted)
	require.NotNil(t, items[0].CompletedAt)
	assert.Equal(t, now, *items[0].CompletedAt)
}

func TestDeleteMyApplicationRestoresOnFailure(t *testing.T) {
	repo := &fakeRepo{
		items: []model.MyApplicationItem{
			{ID: "item-1", Title: "First"},
			{ID: "item-2", Title: "Second"},
			{ID: "item-3", Title: "Third"},
		},
		users:      []model.UserProfile{employee, admin},
		failRemove: errors.New("boom"),
	}
	c, _ := newTestController(t, repo, employee, Options{})

	c.DeleteMyApplication("item-2")
	items := c.MyApplications()
	require.Len(t, items, 3, "the removed entry is restored")
	assert.Equal(t, "item-2", items[1].ID, "restored at its original position")
}

func TestSaveApplicationCreateNavigatesToForms(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee, admin}}
	c, _ := newTestController(t, repo, admin, Options{})

	c.SaveApplication(model.ApplicationForm{Name: "Travel request", IsPublished: true}, "")
	assert.Equal(t, model.PageAdminForms, c.Page())
	apps := c.Applications()
	require.Len(t, apps, 1, "no duplicate from the optimistic entry")
	assert.Equal(t, "app-1", apps[0].ID)
	assert.Equal(t, "Travel request", apps[0].Name)
}

func TestSaveApplicationUpdateRollsBackOnFailure(t *testing.T) {
	repo := &fakeRepo{
		apps:     []model.Application{{ID: "app1", Name: "Old name"}},
		users:    []model.UserProfile{employee, admin},
		failSave: errors.New("boom"),
	}
	c, _ := newTestController(t, repo, admin, Options{})

	c.SaveApplication(model.ApplicationForm{Name: "New name"}, "app1")
	apps := c.Applications()
	require.Len(t, apps, 1)
	assert.Equal(t, "Old name", apps[0].Name, "the edit is rolled back")
	assert.Equal(t, model.PageAdminForms, c.Page(), "the editor closes either way")
}

func TestSaveApplicationRequiresAdmin(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee, admin}}
	c, _ := newTestController(t, repo, employee, Options{})

	c.SaveApplication(model.ApplicationForm{Name: "Nope"}, "")
	assert.Empty(t, c.Applications())
}

func TestDeleteApplicationRestoresOnFailure(t *testing.T) {
	repo := &fakeRepo{
		apps:       []model.Application{{ID: "app1"}, {ID: "app2"}},
		users:      []model.UserProfile{employee, admin},
		failDelete: errors.New("boom"),
	}
	c, _ := newTestController(t, repo, admin, Options{})

	c.DeleteApplication("app1")
	apps := c.Applications()
	require.Len(t, apps, 2)
	assert.Equal(t, "app1", apps[0].ID)
}

func TestSendMessageAppendsCanonicalRow(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee, admin}}
	c, _ := newTestController(t, repo, employee, Options{})

	c.SendToAdmin("  hello  ")
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "msg-1", msgs[0].ID)
	assert.Equal(t, "a1", msgs[0].ReceiverID)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestSendMessageBlankIsNoOp(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee, admin}}
	c, notices := newTestController(t, repo, employee, Options{})
	*notices = nil

	c.SendToAdmin("   ")
	assert.Empty(t, c.Messages())
	assert.Empty(t, *notices, "no error either; a blank send is silently dropped")
}

func TestSendToAdminWithoutAdminNotifies(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee}}
	c, notices := newTestController(t, repo, employee, Options{})
	*notices = nil

	c.SendToAdmin("hello")
	assert.Empty(t, c.Messages())
	require.Len(t, *notices, 1)
	assert.Equal(t, NoticeError, (*notices)[0].Kind)
}

func TestAcknowledgeVisibleMessagesEmployee(t *testing.T) {
	repo := &fakeRepo{
		msgs: []model.Message{
			{ID: "m1", SenderID: "a1", ReceiverID: "e1", SentAt: time.Now()},
			{ID: "m2", SenderID: "e1", ReceiverID: "a1", SentAt: time.Now()},
		},
		users: []model.UserProfile{employee, admin},
	}
	c, _ := newTestController(t, repo, employee, Options{})

	c.AcknowledgeVisibleMessages()
	assert.Equal(t, []string{"m1"}, repo.marked, "only incoming unread messages are marked")
	assert.Equal(t, 0, c.UnreadCount())

	c.AcknowledgeVisibleMessages()
	assert.Equal(t, []string{"m1"}, repo.marked, "a second pass submits nothing")
}

func TestAcknowledgeVisibleMessagesAdminNeedsSelection(t *testing.T) {
	repo := &fakeRepo{
		msgs: []model.Message{
			{ID: "m1", SenderID: "e1", ReceiverID: "a1", SentAt: time.Now()},
		},
		users: []model.UserProfile{employee, admin},
	}
	c, _ := newTestController(t, repo, admin, Options{})

	c.AcknowledgeVisibleMessages()
	assert.Empty(t, repo.marked, "no chat selected, nothing marked")

	c.ViewUserChat("e1")
	c.AcknowledgeVisibleMessages()
	assert.Equal(t, []string{"m1"}, repo.marked)
}

func TestSessionExpiryForcesLogin(t *testing.T) {
	repo := &fakeRepo{
		users:   []model.UserProfile{employee, admin},
		failAdd: apperr.Unauthenticated("session expired"),
	}
	c, notices := newTestController(t, repo, employee, Options{})
	*notices = nil

	c.AddMyApplication("app1", "Report", "")
	assert.Equal(t, model.PageLogin, c.Page())
	_, ok := c.CurrentUser()
	assert.False(t, ok)
	require.Len(t, *notices, 1)
	assert.Contains(t, (*notices)[0].Text, "log in again")
}

func TestReadsStayLiveDuringRemoteCall(t *testing.T) {
	repo := &fakeRepo{
		users:       []model.UserProfile{employee, admin},
		sendStarted: make(chan struct{}),
		sendGate:    make(chan struct{}),
	}
	c, _ := newTestController(t, repo, employee, Options{})

	go c.SendMessage("a1", "hello")
	<-repo.sendStarted

	pageRead := make(chan model.Page, 1)
	go func() { pageRead <- c.Page() }()
	select {
	case p := <-pageRead:
		assert.Equal(t, model.PageEmployeeHome, p)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("reads blocked while a send was in flight")
	}

	// Unrelated mutations stay live too.
	navDone := make(chan struct{})
	go func() { c.NavigateTo(model.PageEmployeeMessages); close(navDone) }()
	select {
	case <-navDone:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("navigation blocked while a send was in flight")
	}

	close(repo.sendGate)
	require.Eventually(t, func() bool { return len(c.Messages()) == 1 },
		time.Second, 10*time.Millisecond)
}

func TestLogoutDuringRemoteCallDiscardsResult(t *testing.T) {
	repo := &fakeRepo{
		users:       []model.UserProfile{employee, admin},
		sendStarted: make(chan struct{}),
		sendGate:    make(chan struct{}),
	}
	c, _ := newTestController(t, repo, employee, Options{})

	done := make(chan struct{})
	go func() { c.SendMessage("a1", "hello"); close(done) }()
	<-repo.sendStarted

	c.Logout()
	close(repo.sendGate)
	<-done

	assert.Equal(t, model.PageLogin, c.Page())
	assert.Empty(t, c.Messages(), "a result landing after logout is dropped")
}

func TestApplicationNameFallsBackForOrphans(t *testing.T) {
	repo := &fakeRepo{
		apps:  []model.Application{{ID: "app1", Name: "Expense report"}},
		users: []model.UserProfile{employee, admin},
	}
	c, _ := newTestController(t, repo, employee, Options{})

	assert.Equal(t, "Expense report", c.ApplicationName("app1"))
	assert.Equal(t, "Unknown application", c.ApplicationName("deleted-app"))
}

func TestUsersExcludesViewer(t *testing.T) {
	repo := &fakeRepo{users: []model.UserProfile{employee, admin}}
	c, _ := newTestController(t, repo, admin, Options{})

	users := c.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "e1", users[0].ID)
}
