package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"formdesk/internal/apperr"
	"formdesk/internal/model"
)

// Client talks to the /api endpoints. It implements both
// portal.Repository and portal.SessionStore. Every request carries the
// session cookie the browser holds and is bounded by the client timeout so
// a hung call surfaces as a recoverable failure instead of a stuck screen.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) request(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Transient("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return apperr.New(apperr.FromStatus(resp.StatusCode), e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Transient("decode response", err)
	}
	return nil
}

// SessionStore

func (c *Client) Login(email, password string) (model.UserProfile, error) {
	var resp struct {
		User model.UserProfile `json:"user"`
	}
	err := c.request(http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &resp)
	return resp.User, err
}

func (c *Client) Signup(name, email, password string, role model.Role) (model.UserProfile, error) {
	var resp struct {
		User model.UserProfile `json:"user"`
	}
	err := c.request(http.MethodPost, "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": password, "role": string(role),
	}, &resp)
	return resp.User, err
}

func (c *Client) Logout() error {
	return c.request(http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) CurrentUser() (model.UserProfile, bool, error) {
	var resp struct {
		User model.UserProfile `json:"user"`
	}
	err := c.request(http.MethodGet, "/api/auth/me", nil, &resp)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeUnauthenticated {
			return model.UserProfile{}, false, nil
		}
		return model.UserProfile{}, false, err
	}
	return resp.User, true, nil
}

// Repository

func (c *Client) ListApplications() ([]model.Application, error) {
	var resp struct {
		Applications []model.Application `json:"applications"`
	}
	err := c.request(http.MethodGet, "/api/applications", nil, &resp)
	return resp.Applications, err
}

func (c *Client) SaveApplication(id string, form model.ApplicationForm) (model.Application, error) {
	var resp struct {
		Application model.Application `json:"application"`
	}
	payload := struct {
		ID string `json:"id,omitempty"`
		model.ApplicationForm
	}{ID: id, ApplicationForm: form}
	err := c.request(http.MethodPost, "/api/applications", payload, &resp)
	return resp.Application, err
}

func (c *Client) DeleteApplication(id string) error {
	return c.request(http.MethodDelete, "/api/applications/"+id, nil, nil)
}

func (c *Client) ListMyApplications() ([]model.MyApplicationItem, error) {
	var resp struct {
		Items []model.MyApplicationItem `json:"items"`
	}
	err := c.request(http.MethodGet, "/api/my-applications", nil, &resp)
	return resp.Items, err
}

func (c *Client) AddMyApplication(applicationID, title, memo string) (model.MyApplicationItem, error) {
	var resp struct {
		Item model.MyApplicationItem `json:"item"`
	}
	err := c.request(http.MethodPost, "/api/my-applications", map[string]string{
		"applicationId": applicationID, "title": title, "memo": memo,
	}, &resp)
	return resp.Item, err
}

func (c *Client) UpdateMyApplication(item model.MyApplicationItem) (model.MyApplicationItem, error) {
	var resp struct {
		Item model.MyApplicationItem `json:"item"`
	}
	payload := struct {
		Title       string     `json:"title"`
		Memo        string     `json:"memo"`
		IsCompleted bool       `json:"isCompleted"`
		CompletedAt *time.Time `json:"completedAt"`
	}{item.Title, item.Memo, item.IsCompleted, item.CompletedAt}
	err := c.request(http.MethodPut, "/api/my-applications/"+item.ID, payload, &resp)
	return resp.Item, err
}

func (c *Client) DeleteMyApplication(id string) error {
	return c.request(http.MethodDelete, "/api/my-applications/"+id, nil, nil)
}

func (c *Client) ListMessages() ([]model.Message, error) {
	var resp struct {
		Messages []model.Message `json:"messages"`
	}
	err := c.request(http.MethodGet, "/api/messages", nil, &resp)
	return resp.Messages, err
}

func (c *Client) SendMessage(receiverID, content string) (model.Message, error) {
	var resp struct {
		Message model.Message `json:"message"`
	}
	err := c.request(http.MethodPost, "/api/messages", map[string]string{
		"receiverId": receiverID, "content": content,
	}, &resp)
	return resp.Message, err
}

func (c *Client) MarkMessageRead(id string) error {
	return c.request(http.MethodPut, "/api/messages/"+id+"/read", nil, nil)
}

func (c *Client) ListUsers() ([]model.UserProfile, error) {
	var resp struct {
		Users []model.UserProfile `json:"users"`
	}
	err := c.request(http.MethodGet, "/api/users", nil, &resp)
	return resp.Users, err
}
