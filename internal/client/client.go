// Package client talks to the contacts REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

const defaultTimeout = 30 * time.Second

// ErrNotFound is returned by Get when the service does not know the id.
var ErrNotFound = errors.New("contact not found")

// StatusError is returned when the service answers with an unexpected status code.
type StatusError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("unexpected status %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Client is a typed wrapper around the endpoints below the API base URL, e.g.
// http://localhost:8080/api/contacts.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API at baseURL. A nil httpClient is replaced by one with a
// sensible timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Create stores a new contact and returns its id.
func (c *Client) Create(ctx context.Context, fields model.Fields) (int64, error) {
	var created model.CreatedResponse
	if err := c.do(ctx, http.MethodPost, "", fields, &created, http.StatusCreated); err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	return created.Id, nil
}

// ListActive returns the contacts that have not been deleted.
func (c *Client) ListActive(ctx context.Context) ([]model.Contact, error) {
	contacts := []model.Contact{}
	if err := c.do(ctx, http.MethodGet, "", nil, &contacts, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// ListDeleted returns the soft-deleted contacts.
func (c *Client) ListDeleted(ctx context.Context) ([]model.Contact, error) {
	contacts := []model.Contact{}
	if err := c.do(ctx, http.MethodGet, "/deleted", nil, &contacts, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list deleted contacts: %w", err)
	}
	return contacts, nil
}

// Get returns a single contact. It returns ErrNotFound for an unknown id.
func (c *Client) Get(ctx context.Context, id int64) (model.Contact, error) {
	var contact model.Contact
	err := c.do(ctx, http.MethodGet, "/"+idPath(id), nil, &contact, http.StatusOK)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("get contact %d: %w", id, err)
	}
	return contact, nil
}

// Update replaces all fields of the contact.
func (c *Client) Update(ctx context.Context, id int64, fields model.Fields) error {
	if err := c.do(ctx, http.MethodPut, "/"+idPath(id), fields, nil, http.StatusOK); err != nil {
		return fmt.Errorf("update contact %d: %w", id, err)
	}
	return nil
}

// SoftDelete moves the contact to the deleted list.
func (c *Client) SoftDelete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodPut, "/delete/"+idPath(id), nil, nil, http.StatusOK); err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return nil
}

// Recover moves the contact back to the active list.
func (c *Client) Recover(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodPut, "/recover/"+idPath(id), nil, nil, http.StatusOK); err != nil {
		return fmt.Errorf("recover contact %d: %w", id, err)
	}
	return nil
}

// PermanentDelete removes the contact for good.
func (c *Client) PermanentDelete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/permanent/"+idPath(id), nil, nil, http.StatusOK); err != nil {
		return fmt.Errorf("permanently delete contact %d: %w", id, err)
	}
	return nil
}

func idPath(id int64) string {
	return strconv.FormatInt(id, 10)
}

// do sends the request, checks the status code and decodes the response into out if it is
// not nil.
func (c *Client) do(ctx context.Context, method, path string, in any, out any, want int) error {
	var bodyReader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not marshal JSON: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	if res.StatusCode != want {
		statusErr := &StatusError{StatusCode: res.StatusCode}
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(resBody, &body) == nil {
			statusErr.Message = body.Message
			statusErr.Detail = body.Error
		}
		return statusErr
	}
	if out != nil {
		if err := json.Unmarshal(resBody, out); err != nil {
			return fmt.Errorf("could not unmarshal JSON: %w", err)
		}
	}
	return nil
}
