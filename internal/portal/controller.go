// Package portal implements the client-side state controller: it owns the
// canonical in-memory copies of the four read models, gates which page is
// reachable from the current session, and applies user mutations with an
// optimistic-local-update-then-reconcile discipline against the remote
// repository.
package portal

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"formdesk/internal/apperr"
	"formdesk/internal/conversation"
	"formdesk/internal/model"
)

// Repository is the remote entity store the controller reconciles against.
// Every call is scoped to the authenticated user by the transport layer.
type Repository interface {
	ListApplications() ([]model.Application, error)
	SaveApplication(id string, form model.ApplicationForm) (model.Application, error)
	DeleteApplication(id string) error

	ListMyApplications() ([]model.MyApplicationItem, error)
	AddMyApplication(applicationID, title, memo string) (model.MyApplicationItem, error)
	UpdateMyApplication(item model.MyApplicationItem) (model.MyApplicationItem, error)
	DeleteMyApplication(id string) error

	ListMessages() ([]model.Message, error)
	SendMessage(receiverID, content string) (model.Message, error)
	MarkMessageRead(id string) error

	ListUsers() ([]model.UserProfile, error)
}

// SessionStore is the external auth collaborator. Credentials and tokens
// are its business; the controller only sees profiles.
type SessionStore interface {
	Login(email, password string) (model.UserProfile, error)
	Signup(name, email, password string, role model.Role) (model.UserProfile, error)
	Logout() error
	CurrentUser() (model.UserProfile, bool, error)
}

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a transient, non-blocking notification for the view layer.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Options tune controller behavior. Zero values are usable.
type Options struct {
	// Notify receives transient notifications. Nil drops them.
	Notify func(Notice)
	// Now overrides the clock, for tests.
	Now func() time.Time
	// KeepCompletedAt preserves the first completion timestamp when an
	// item is reopened instead of clearing it.
	KeepCompletedAt bool
	Logger          *zap.Logger
}

// Controller is the single writer of the four read models. The view layer
// reads snapshots and requests mutations; nothing else touches the lists.
type Controller struct {
	mu       sync.Mutex
	repo     Repository
	sessions SessionStore
	log      *zap.Logger
	ack      *conversation.Acknowledger

	notify          func(Notice)
	now             func() time.Time
	keepCompletedAt bool

	user          *model.UserProfile
	page          model.Page
	selectedAppID string
	editingFormID string
	chatUserID    string

	// epoch increments on every reset. A mutation that released the lock
	// for its remote call compares epochs before reconciling, so a result
	// that lands after a logout or forced reset is discarded instead of
	// resurrecting stale state.
	epoch int

	applications []model.Application
	myItems      []model.MyApplicationItem
	messages     []model.Message
	users        []model.UserProfile
}

func New(repo Repository, sessions SessionStore, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(Notice) {}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		repo:            repo,
		sessions:        sessions,
		log:             log,
		ack:             conversation.NewAcknowledger(log),
		notify:          notify,
		now:             now,
		keepCompletedAt: opts.KeepCompletedAt,
		page:            model.PageLogin,
	}
}

// Init checks for an existing session and, when one is found, loads the
// read models and lands on the role's home page.
func (c *Controller) Init() {
	user, ok, err := c.sessions.CurrentUser()
	if err != nil {
		c.log.Debug("session check failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	c.beginSession(user)
}

func (c *Controller) Login(email, password string) {
	user, err := c.sessions.Login(email, password)
	if err != nil {
		c.notify(Notice{NoticeError, "Login failed"})
		return
	}
	if c.beginSession(user) {
		c.notify(Notice{NoticeSuccess, "Logged in"})
	}
}

func (c *Controller) Signup(name, email, password string, role model.Role) {
	user, err := c.sessions.Signup(name, email, password, role)
	if err != nil {
		c.notify(Notice{NoticeError, "Signup failed"})
		return
	}
	if c.beginSession(user) {
		c.notify(Notice{NoticeSuccess, "Account created"})
	}
}

// beginSession installs the profile, fetches the read models with the lock
// released, and lands on the role's home page. Reports whether the session
// actually came up.
func (c *Controller) beginSession(user model.UserProfile) bool {
	c.mu.Lock()
	c.user = &user
	epoch := c.epoch
	c.mu.Unlock()

	apps, items, msgs, users, err := c.fetchAll()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	if err != nil {
		c.fail("Failed to load data", err)
		return false
	}
	c.applications = apps
	c.myItems = items
	c.messages = msgs
	c.users = users
	c.page = model.DefaultPage(user.Role)
	return true
}

// Logout drops the session and clears every read model so nothing leaks
// into the next login; the next session reloads everything fresh.
func (c *Controller) Logout() {
	if err := c.sessions.Logout(); err != nil {
		c.log.Warn("logout failed", zap.Error(err))
	}
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	c.notify(Notice{NoticeSuccess, "Logged out"})
}

func (c *Controller) reset() {
	c.user = nil
	c.applications = nil
	c.myItems = nil
	c.messages = nil
	c.users = nil
	c.selectedAppID = ""
	c.editingFormID = ""
	c.chatUserID = ""
	c.page = model.PageLogin
	c.epoch++
}

// fetchAll fetches the four read models in parallel. Runs without c.mu so
// reads and unrelated mutations stay live while the fetch is outstanding.
func (c *Controller) fetchAll() ([]model.Application, []model.MyApplicationItem, []model.Message, []model.UserProfile, error) {
	var (
		wg    sync.WaitGroup
		apps  []model.Application
		items []model.MyApplicationItem
		msgs  []model.Message
		users []model.UserProfile
		errs  [4]error
	)
	wg.Add(4)
	go func() { defer wg.Done(); apps, errs[0] = c.repo.ListApplications() }()
	go func() { defer wg.Done(); items, errs[1] = c.repo.ListMyApplications() }()
	go func() { defer wg.Done(); msgs, errs[2] = c.repo.ListMessages() }()
	go func() { defer wg.Done(); users, errs[3] = c.repo.ListUsers() }()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	return apps, items, msgs, users, nil
}

// fail reports a remote failure as a transient notification. An
// unauthenticated failure additionally forces the login page, per the
// propagation policy: nothing here is fatal to the process.
func (c *Controller) fail(text string, err error) {
	c.log.Warn(text, zap.Error(err))
	if apperr.CodeOf(err) == apperr.CodeUnauthenticated {
		c.reset()
		c.notify(Notice{NoticeError, "Session expired, please log in again"})
		return
	}
	c.notify(Notice{NoticeError, text})
}

// NavigateTo requests a page change. Pages outside the current role's
// reachability class silently resolve to the role's home page; there is no
// error page and no history push. Auxiliary selections are dropped when
// the page moves away from the screen they belong to.
func (c *Controller) NavigateTo(p model.Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPage(p)
}

func (c *Controller) setPage(p model.Page) {
	role := model.Role("")
	if c.user != nil {
		role = c.user.Role
	}
	resolved := model.Resolve(p, c.user != nil, role)
	if resolved != model.PageEmployeeApplicationDetail {
		c.selectedAppID = ""
	}
	if resolved != model.PageAdminFormEditor {
		c.editingFormID = ""
	}
	if resolved != model.PageAdminUserChat {
		c.chatUserID = ""
	}
	c.page = resolved
}

// ViewApplicationDetail selects an application and moves to its detail
// page. Page-transition side channel: the selection only means something
// while the detail page is active.
func (c *Controller) ViewApplicationDetail(applicationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPage(model.PageEmployeeApplicationDetail)
	if c.page == model.PageEmployeeApplicationDetail {
		c.selectedAppID = applicationID
	}
}

// EditForm opens the admin form editor. An empty id means a new form.
func (c *Controller) EditForm(formID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPage(model.PageAdminFormEditor)
	if c.page == model.PageAdminFormEditor {
		c.editingFormID = formID
	}
}

// ViewUserChat opens the admin chat with one employee.
func (c *Controller) ViewUserChat(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPage(model.PageAdminUserChat)
	if c.page == model.PageAdminUserChat {
		c.chatUserID = userID
	}
}
