// Package client is a typed caller for the specialty workflow API. Error
// responses are mapped back onto the same sentinel errors the server uses,
// so callers can match them with errors.Is.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/util"
	"pathfinder_backend/internal/workflow"
)

var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer. It unwraps to the matching sentinel.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func classify(status int, message string) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return util.ErrPermissionDenied
	case http.StatusNotFound:
		return util.ErrNotFound
	case http.StatusPreconditionFailed:
		return workflow.ErrPreconditionFailed
	case http.StatusConflict:
		switch {
		case strings.Contains(message, workflow.ErrAlreadySubmitted.Error()):
			return workflow.ErrAlreadySubmitted
		case strings.Contains(message, util.ErrDuplicate.Error()):
			return util.ErrDuplicate
		}
		return workflow.ErrInvalidTransition
	case http.StatusBadRequest:
		if strings.Contains(message, workflow.ErrEmptyReport.Error()) {
			return workflow.ErrEmptyReport
		}
		return util.ErrInvalidInput
	}
	return nil
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Now     func() time.Time
}

// New returns a client for baseURL, e.g. "http://localhost:8080/api".
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Now:     time.Now,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg, kind: classify(resp.StatusCode, msg)}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (c *Client) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Actions mirrors the server's guard predicates for the caller.
type Actions struct {
	Status          model.ApprovalStatus `json:"status"`
	CanSubmitReport bool                 `json:"canSubmitReport"`
	CanApprove      bool                 `json:"canApprove"`
	CanReject       bool                 `json:"canReject"`
	CanDelete       bool                 `json:"canDelete"`
	RequiredRoles   []model.UserRole     `json:"requiredRoles"`
	Terminal        bool                 `json:"terminal"`
	Rejected        bool                 `json:"rejected"`
}

func (c *Client) CreateAssociation(ctx context.Context, memberID, specialtyID uint) (*model.SpecialtyAssociation, error) {
	var a model.SpecialtyAssociation
	body := map[string]uint{"memberId": memberID, "specialtyId": specialtyID}
	if err := c.do(ctx, http.MethodPost, "/associations", body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) GetAssociation(ctx context.Context, id string) (*model.SpecialtyAssociation, error) {
	var a model.SpecialtyAssociation
	if err := c.do(ctx, http.MethodGet, "/associations/"+id, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Actions(ctx context.Context, id string) (*Actions, error) {
	var a Actions
	if err := c.do(ctx, http.MethodGet, "/associations/"+id+"/actions", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) ListMemberAssociations(ctx context.Context, memberID uint) ([]model.SpecialtyAssociation, error) {
	var list []model.SpecialtyAssociation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/members/%d/associations", memberID), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) DeleteAssociation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/associations/"+id, nil, nil)
}

// SubmitReport sends the report in its positional [text, timestamp] form.
func (c *Client) SubmitReport(ctx context.Context, id string, memberID, specialtyID uint, text string) (*model.SpecialtyAssociation, error) {
	body := map[string]interface{}{
		"memberId":    memberID,
		"specialtyId": specialtyID,
		"report":      []interface{}{text, c.now().Format(time.RFC3339)},
	}
	var a model.SpecialtyAssociation
	if err := c.do(ctx, http.MethodPut, "/associations/"+id+"/report", body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Approve(ctx context.Context, actor workflow.Actor, memberID, specialtyID uint, comment string) (*model.SpecialtyAssociation, error) {
	return c.decide(ctx, workflow.Approve, actor, memberID, specialtyID, comment)
}

func (c *Client) Reject(ctx context.Context, actor workflow.Actor, memberID, specialtyID uint, comment string) (*model.SpecialtyAssociation, error) {
	return c.decide(ctx, workflow.Reject, actor, memberID, specialtyID, comment)
}

func (c *Client) decide(ctx context.Context, decision workflow.Decision, actor workflow.Actor, memberID, specialtyID uint, comment string) (*model.SpecialtyAssociation, error) {
	body := map[string]interface{}{
		"actorId": actor.ID,
		"comment": []interface{}{comment, c.now().Format(time.RFC3339), actor.Name},
	}
	path := fmt.Sprintf("/associations/%s/member/%d/specialty/%d", decision, memberID, specialtyID)
	var a model.SpecialtyAssociation
	if err := c.do(ctx, http.MethodPut, path, body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) RecordQuizResult(ctx context.Context, id, attemptID string) (*model.SpecialtyAssociation, error) {
	var a model.SpecialtyAssociation
	if err := c.do(ctx, http.MethodPut, "/associations/"+id+"/quiz-result", map[string]string{"attemptId": attemptID}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) GetQuiz(ctx context.Context, id uint) (*model.Quiz, error) {
	var q model.Quiz
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/quizzes/%d", id), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ListMemberAttempts returns the member's attempts, all quizzes when quizID is 0.
func (c *Client) ListMemberAttempts(ctx context.Context, memberID, quizID uint) ([]model.QuizAttempt, error) {
	path := fmt.Sprintf("/members/%d/quiz-attempts", memberID)
	if quizID != 0 {
		path += fmt.Sprintf("?quizId=%d", quizID)
	}
	var list []model.QuizAttempt
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i].MemberID = memberID
	}
	return list, nil
}

// SubmitAttempt scores a quiz attempt. It satisfies quizsession.Submitter.
func (c *Client) SubmitAttempt(ctx context.Context, memberID, quizID uint, answers []model.QuizAttemptAnswer) (*model.QuizAttempt, error) {
	type answer struct {
		QuestionID uint `json:"questionId"`
		AnswerID   uint `json:"answerId"`
	}
	list := make([]answer, 0, len(answers))
	for _, a := range answers {
		list = append(list, answer{QuestionID: a.QuestionID, AnswerID: a.AnswerID})
	}
	body := map[string]interface{}{
		"memberId": memberID,
		"quizId":   quizID,
		"answers":  list,
	}
	var attempt model.QuizAttempt
	if err := c.do(ctx, http.MethodPost, "/quiz-attempts", body, &attempt); err != nil {
		return nil, err
	}
	attempt.MemberID = memberID
	attempt.QuizID = quizID
	return &attempt, nil
}
