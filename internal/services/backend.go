package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/models"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// BackendClient talks to the ConcertFever REST API over HTTP.
type BackendClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewBackendClient creates a client for the API rooted at baseURL
func NewBackendClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *BackendClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *BackendClient) CheckUserPassword(ctx context.Context, email, password string) (bool, error) {
	var valid bool
	query := url.Values{"email": {email}, "password": {password}}
	if err := c.do(ctx, http.MethodGet, "/user/checkuserpassword", query, nil, &valid); err != nil {
		return false, err
	}
	return valid, nil
}

func (c *BackendClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/user/getuserbyemail", url.Values{"email": {email}}, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *BackendClient) UpdateUserLoginTime(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPut, "/user/updateuserlogintime", url.Values{"email": {email}}, nil, nil)
}

func (c *BackendClient) CreateNewUser(ctx context.Context, req *models.NewUserRequest) error {
	return c.do(ctx, http.MethodPost, "/user/createnewuser", nil, req, nil)
}

func (c *BackendClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPut, "/user/forgot-password", url.Values{"email": {email}}, nil, nil)
}

func (c *BackendClient) ChangeUserPassword(ctx context.Context, req *models.ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPut, "/user/changeuserpassword", nil, req, nil)
}

func (c *BackendClient) GetUserAccountBalance(ctx context.Context, email string) (float64, error) {
	var balance float64
	if err := c.do(ctx, http.MethodGet, "/user/getuseraccountbalance", url.Values{"email": {email}}, nil, &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func (c *BackendClient) TopUpAccountBalance(ctx context.Context, email string, amount float64) error {
	query := url.Values{
		"email": {email},
		"topUp": {strconv.FormatFloat(amount, 'f', -1, 64)},
	}
	return c.do(ctx, http.MethodPut, "/user/topupaccountbalance", query, nil, nil)
}

func (c *BackendClient) GetAllEvents(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	if err := c.do(ctx, http.MethodGet, "/event/getalleventsfulldetails", nil, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *BackendClient) GetEventsByCategory(ctx context.Context, category string) ([]*models.Event, error) {
	var events []*models.Event
	query := url.Values{"category": {category}}
	if err := c.do(ctx, http.MethodGet, "/event/geteventfulldetailsbycategory", query, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *BackendClient) GetEventByID(ctx context.Context, eventID int) (*models.Event, error) {
	var event models.Event
	query := url.Values{"eventId": {strconv.Itoa(eventID)}}
	if err := c.do(ctx, http.MethodGet, "/event/geteventfulldetailsbyeventid", query, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// PurchaseTickets succeeds only on 201 Created.
func (c *BackendClient) PurchaseTickets(ctx context.Context, req *models.PurchaseRequest) error {
	resp, body, err := c.send(ctx, http.MethodPost, "/ticket/purchasetickets", nil, req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return c.handleAPIError(http.MethodPost, "/ticket/purchasetickets", resp.StatusCode, body)
	}
	return nil
}

func (c *BackendClient) GetUserTickets(ctx context.Context, email string) ([]*models.Ticket, error) {
	var tickets []*models.Ticket
	query := url.Values{"email": {email}}
	if err := c.do(ctx, http.MethodGet, "/ticket/getalluserticketsbyemail", query, nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// do sends the request, requires a 2xx answer and decodes the body into out
// when out is not nil.
func (c *BackendClient) do(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	resp, body, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleAPIError(method, path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *BackendClient) send(ctx context.Context, method, path string, query url.Values, payload interface{}) (*http.Response, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Warn("Backend request failed")
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("Backend request completed")

	return resp, body, nil
}

// handleAPIError wraps a non-2xx answer into an *APIError
func (c *BackendClient) handleAPIError(method, path string, statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
	entry := c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": statusCode,
	})
	if statusCode >= 500 {
		entry.Error("Backend returned server error")
	} else {
		entry.Warn("Backend rejected request")
	}
	return apiErr
}
