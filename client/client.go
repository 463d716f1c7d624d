package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"CareDesk/models"
)

// APIError is a non 2xx answer decoded from the {"error","code"} body.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Client calls the CareDesk HTTP API and carries the bearer token
// returned by register or login.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

/*
* Encode the body, attach the bearer token
* Decode a 2xx answer into out, anything else into an APIError
 */
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var failed struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.NewDecoder(resp.Body).Decode(&failed) == nil {
			apiErr.Message, apiErr.Code = failed.Error, failed.Code
		}
		return apiErr
	}
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	err := c.do(ctx, http.MethodPost, "/checkEmail", nil, models.CheckEmailRequest{Email: email}, &out)
	return out.Exists, err
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/registerUser", nil, req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, models.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out.User, nil
}

// Logout revokes the token server side and forgets it locally either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, updates, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) PublicDoctors(ctx context.Context) ([]models.DoctorSummary, error) {
	var out []models.DoctorSummary
	err := c.do(ctx, http.MethodGet, "/doctors", nil, nil, &out)
	return out, err
}

func (c *Client) AllDoctors(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, http.MethodGet, "/admin/doctors", nil, nil, &out)
	return out, err
}

func (c *Client) CreateDoctor(ctx context.Context, req models.CreateDoctorRequest) (*models.User, error) {
	var out struct {
		Doctor models.User `json:"doctor"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/doctors", nil, req, &out); err != nil {
		return nil, err
	}
	return &out.Doctor, nil
}

func (c *Client) DeleteDoctor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/doctors/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) BookAppointment(ctx context.Context, req models.BookAppointmentRequest) (*models.Appointment, error) {
	var out struct {
		Appointment models.Appointment `json:"appointment"`
	}
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out.Appointment, nil
}

// Appointments lists bookings, filtered by patient and/or doctor when given.
func (c *Client) Appointments(ctx context.Context, userID, doctorID string) ([]models.Appointment, error) {
	query := url.Values{}
	if userID != "" {
		query.Set("userId", userID)
	}
	if doctorID != "" {
		query.Set("doctorId", doctorID)
	}
	var out []models.Appointment
	err := c.do(ctx, http.MethodGet, "/appointments", query, nil, &out)
	return out, err
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, req models.UpdateStatusRequest) (*models.Appointment, error) {
	var out struct {
		Appointment models.Appointment `json:"appointment"`
	}
	if err := c.do(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id)+"/status", nil, req, &out); err != nil {
		return nil, err
	}
	return &out.Appointment, nil
}

func (c *Client) AskSymptoms(ctx context.Context, req models.SymptomRequest) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	err := c.do(ctx, http.MethodPost, "/ai/symptoms", nil, req, &out)
	return out.Reply, err
}
