// Package client is a thin typed wrapper over the HTTP API. It decodes the
// uniform response envelope and turns failure envelopes into errors.
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
	"time"

	"github.com/noah-isme/school-data-api/internal/models"
	"github.com/noah-isme/school-data-api/pkg/response"
)

const defaultTimeout = 10 * time.Second

// Client calls the API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*response.Envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var envelope response.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !envelope.Success && resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{Status: resp.StatusCode, Message: envelope.Message, Errors: envelope.Errors}
	}
	return &envelope, nil
}

func decodeData(envelope *response.Envelope, dest interface{}) error {
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		return fmt.Errorf("re-encode data: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func bulkResult(envelope *response.Envelope) *models.BulkResult {
	result := &models.BulkResult{Errors: envelope.Errors}
	if envelope.TotalProcessed != nil {
		result.TotalProcessed = *envelope.TotalProcessed
	}
	if envelope.Successful != nil {
		result.Successful = *envelope.Successful
	}
	if envelope.Failed != nil {
		result.Failed = *envelope.Failed
	}
	return result
}

// CreatePerson creates a person record.
func (c *Client) CreatePerson(ctx context.Context, body interface{}) (*models.Person, error) {
	envelope, err := c.do(ctx, http.MethodPost, "/api/v1/persons", body)
	if err != nil {
		return nil, err
	}
	var person models.Person
	if err := decodeData(envelope, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// GetPerson fetches a person by id.
func (c *Client) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	envelope, err := c.do(ctx, http.MethodGet, "/api/v1/persons/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var person models.Person
	if err := decodeData(envelope, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// UpdatePerson applies a partial update to a person.
func (c *Client) UpdatePerson(ctx context.Context, id string, body interface{}) (*models.Person, error) {
	envelope, err := c.do(ctx, http.MethodPut, "/api/v1/persons/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	var person models.Person
	if err := decodeData(envelope, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// DeletePerson removes a person.
func (c *Client) DeletePerson(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/persons/"+url.PathEscape(id), nil)
	return err
}

// CreateStudent creates a student record.
func (c *Client) CreateStudent(ctx context.Context, body interface{}) (*models.Student, error) {
	envelope, err := c.do(ctx, http.MethodPost, "/api/v1/students", body)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := decodeData(envelope, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// GetStudent fetches a student by id.
func (c *Client) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	envelope, err := c.do(ctx, http.MethodGet, "/api/v1/students/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := decodeData(envelope, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent applies a partial update to a student.
func (c *Client) UpdateStudent(ctx context.Context, id string, body interface{}) (*models.Student, error) {
	envelope, err := c.do(ctx, http.MethodPut, "/api/v1/students/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := decodeData(envelope, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// DeleteStudent removes a student.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/students/"+url.PathEscape(id), nil)
	return err
}

// CreateTeacher creates a teacher record.
func (c *Client) CreateTeacher(ctx context.Context, body interface{}) (*models.Teacher, error) {
	envelope, err := c.do(ctx, http.MethodPost, "/api/v1/teachers", body)
	if err != nil {
		return nil, err
	}
	var teacher models.Teacher
	if err := decodeData(envelope, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// GetTeacher fetches a teacher by id.
func (c *Client) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	envelope, err := c.do(ctx, http.MethodGet, "/api/v1/teachers/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var teacher models.Teacher
	if err := decodeData(envelope, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// UpdateTeacher applies a partial update to a teacher.
func (c *Client) UpdateTeacher(ctx context.Context, id string, body interface{}) (*models.Teacher, error) {
	envelope, err := c.do(ctx, http.MethodPut, "/api/v1/teachers/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	var teacher models.Teacher
	if err := decodeData(envelope, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// DeleteTeacher removes a teacher.
func (c *Client) DeleteTeacher(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/teachers/"+url.PathEscape(id), nil)
	return err
}

// CreateClass creates a class record.
func (c *Client) CreateClass(ctx context.Context, body interface{}) (*models.Class, error) {
	envelope, err := c.do(ctx, http.MethodPost, "/api/v1/classes", body)
	if err != nil {
		return nil, err
	}
	var class models.Class
	if err := decodeData(envelope, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// GetClass fetches a class by id.
func (c *Client) GetClass(ctx context.Context, id string) (*models.Class, error) {
	envelope, err := c.do(ctx, http.MethodGet, "/api/v1/classes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var class models.Class
	if err := decodeData(envelope, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// UpdateClass applies a partial update to a class.
func (c *Client) UpdateClass(ctx context.Context, id string, body interface{}) (*models.Class, error) {
	envelope, err := c.do(ctx, http.MethodPut, "/api/v1/classes/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	var class models.Class
	if err := decodeData(envelope, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// DeleteClass removes a class.
func (c *Client) DeleteClass(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/classes/"+url.PathEscape(id), nil)
	return err
}

// EnrollStudents enrolls students into a class and returns per-item counters.
func (c *Client) EnrollStudents(ctx context.Context, classID string, studentIDs []string) (*models.BulkResult, error) {
	envelope, err := c.do(ctx, http.MethodPost, "/api/v1/classes/"+url.PathEscape(classID)+"/students",
		map[string]interface{}{"student_ids": studentIDs})
	if err != nil {
		return nil, err
	}
	return bulkResult(envelope), nil
}

// AssignTeacher assigns a teacher to a class for one subject.
func (c *Client) AssignTeacher(ctx context.Context, classID, teacherID, subject string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/classes/"+url.PathEscape(classID)+"/teacher",
		map[string]interface{}{"teacher_id": teacherID, "subject": subject})
	return err
}

// AddScores submits assessment scores.
func (c *Client) AddScores(ctx context.Context, body interface{}) (*models.BulkResult, error) {
	envelope, err := c.do(ctx, http.MethodPost, "/api/v1/scores", body)
	if err != nil {
		return nil, err
	}
	return bulkResult(envelope), nil
}

// Bulk runs a batched mutation.
func (c *Client) Bulk(ctx context.Context, body interface{}) (*models.BulkResult, error) {
	envelope, err := c.do(ctx, http.MethodPost, "/api/v1/bulk", body)
	if err != nil {
		return nil, err
	}
	return bulkResult(envelope), nil
}

// Aggregate runs a generic aggregate query.
func (c *Client) Aggregate(ctx context.Context, body interface{}) (*models.AggregateResult, error) {
	envelope, err := c.do(ctx, http.MethodPost, "/api/v1/aggregates", body)
	if err != nil {
		return nil, err
	}
	return aggregateResult(envelope)
}

// Breakdown fetches a canonical per-class analytic. classID may be empty to
// cover all classes.
func (c *Client) Breakdown(ctx context.Context, name, classID string) (*models.AggregateResult, error) {
	path := "/api/v1/analytics/" + url.PathEscape(name)
	if classID != "" {
		path += "?class_id=" + url.QueryEscape(classID)
	}
	envelope, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return aggregateResult(envelope)
}

func aggregateResult(envelope *response.Envelope) (*models.AggregateResult, error) {
	var data struct {
		Results []map[string]interface{} `json:"results"`
	}
	if err := decodeData(envelope, &data); err != nil {
		return nil, err
	}
	result := &models.AggregateResult{Results: data.Results}
	if envelope.Count != nil {
		result.Count = *envelope.Count
	}
	return result, nil
}

// Health reports whether the server answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: status %d", resp.StatusCode)
	}
	return nil
}
