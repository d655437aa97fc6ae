// Package gateway is the request/response layer to the sankalp GraphQL
// backend. Every operation has a typed result; malformed responses are
// rejected at this boundary as transport errors, and backend-reported errors
// are joined into one semantic error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/vishwaskamath/sankalp-cli/internal/errors"
	"github.com/vishwaskamath/sankalp-cli/internal/logger"
	"github.com/vishwaskamath/sankalp-cli/internal/models"
)

const (
	getTodaysActivitiesQuery = `query GetTodaysActivities($userId: ID!) {
  getTodaysActivities(userId: $userId) { activityId text done date }
}`

	getTodaysHabitsQuery = `query GetTodaysHabits($userId: ID!) {
  getTodaysHabits(userId: $userId) { habitId text recurrence goal createdDate completions { completionId date } }
}`

	addActivityMutation = `mutation AddActivity($text: String!, $userId: ID!) {
  addActivity(text: $text, userId: $userId) { activityId text done date }
}`

	addHabitMutation = `mutation AddHabit($text: String!, $recurrence: String!, $goal: Int!, $userId: ID!) {
  addHabit(text: $text, recurrence: $recurrence, goal: $goal, userId: $userId) { habitId text recurrence goal createdDate completions { completionId date } }
}`

	toggleActivityMutation = `mutation ToggleActivity($activityId: ID!) {
  toggleActivityDone(activityId: $activityId) { activityId text done date }
}`

	toggleHabitMutation = `mutation ToggleHabit($habitId: ID!) {
  toggleHabitDone(habitId: $habitId) { habitId text recurrence goal createdDate completions { completionId date } }
}`

	registerUserMutation = `mutation RegisterUser($username: String!, $email: String!, $password: String!) {
  registerUser(username: $username, email: $email, password: $password) { userId username email }
}`

	loginUserMutation = `mutation LoginUser($email: String!, $password: String!) {
  loginUser(email: $email, password: $password) { userId username email }
}`
)

// Client speaks GraphQL-over-HTTP to the sankalp backend.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a gateway client for the given GraphQL endpoint.
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type responseError struct {
	Message string `json:"message"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []responseError `json:"errors"`
}

// do posts one GraphQL document and decodes the data payload into out.
func (c *Client) do(ctx context.Context, op, query string, variables map[string]interface{}, out interface{}) error {
	reqID := uuid.New().String()

	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return &errs.TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &errs.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("gateway request", "id", reqID, "op", op)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("gateway request failed", "id", reqID, "op", op, "error", err)
		return &errs.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &errs.TransportError{Op: op, Err: err}
	}

	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		logger.Debug("gateway semantic error", "id", reqID, "op", op, "messages", strings.Join(msgs, "; "))
		return &errs.SemanticError{Messages: msgs}
	}

	if len(env.Data) == 0 {
		return transportf(op, "empty response data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &errs.TransportError{Op: op, Err: err}
	}
	return nil
}

// TodaysActivities fetches today's activities for the user.
func (c *Client) TodaysActivities(ctx context.Context, userID string) ([]models.Activity, error) {
	var data struct {
		Activities []models.Activity `json:"getTodaysActivities"`
	}
	err := c.do(ctx, "getTodaysActivities", getTodaysActivitiesQuery,
		map[string]interface{}{"userId": userID}, &data)
	if err != nil {
		return nil, err
	}
	for _, a := range data.Activities {
		if a.ID == "" {
			return nil, transportf("getTodaysActivities", "activity missing id")
		}
	}
	return data.Activities, nil
}

// TodaysHabits fetches the user's habit set with completion histories.
func (c *Client) TodaysHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	var data struct {
		Habits []models.Habit `json:"getTodaysHabits"`
	}
	err := c.do(ctx, "getTodaysHabits", getTodaysHabitsQuery,
		map[string]interface{}{"userId": userID}, &data)
	if err != nil {
		return nil, err
	}
	for _, h := range data.Habits {
		if h.ID == "" {
			return nil, transportf("getTodaysHabits", "habit missing id")
		}
	}
	return data.Habits, nil
}

// AddActivity creates a one-off activity for today.
func (c *Client) AddActivity(ctx context.Context, text, userID string) (models.Activity, error) {
	var data struct {
		Activity models.Activity `json:"addActivity"`
	}
	err := c.do(ctx, "addActivity", addActivityMutation,
		map[string]interface{}{"text": text, "userId": userID}, &data)
	if err != nil {
		return models.Activity{}, err
	}
	if data.Activity.ID == "" {
		return models.Activity{}, transportf("addActivity", "activity missing id")
	}
	return data.Activity, nil
}

// AddHabit creates a recurring habit.
func (c *Client) AddHabit(ctx context.Context, text string, recurrence models.RecurrenceType, goal int, userID string) (models.Habit, error) {
	var data struct {
		Habit models.Habit `json:"addHabit"`
	}
	err := c.do(ctx, "addHabit", addHabitMutation, map[string]interface{}{
		"text":       text,
		"recurrence": string(recurrence),
		"goal":       goal,
		"userId":     userID,
	}, &data)
	if err != nil {
		return models.Habit{}, err
	}
	if data.Habit.ID == "" {
		return models.Habit{}, transportf("addHabit", "habit missing id")
	}
	return data.Habit, nil
}

// ToggleActivityDone toggles an activity and returns the backend's version.
func (c *Client) ToggleActivityDone(ctx context.Context, activityID string) (models.Activity, error) {
	var data struct {
		Activity models.Activity `json:"toggleActivityDone"`
	}
	err := c.do(ctx, "toggleActivityDone", toggleActivityMutation,
		map[string]interface{}{"activityId": activityID}, &data)
	if err != nil {
		return models.Activity{}, err
	}
	if data.Activity.ID == "" {
		return models.Activity{}, transportf("toggleActivityDone", "activity missing id")
	}
	return data.Activity, nil
}

// ToggleHabitDone records a habit completion and returns the backend's
// version, including the updated completions set.
func (c *Client) ToggleHabitDone(ctx context.Context, habitID string) (models.Habit, error) {
	var data struct {
		Habit models.Habit `json:"toggleHabitDone"`
	}
	err := c.do(ctx, "toggleHabitDone", toggleHabitMutation,
		map[string]interface{}{"habitId": habitID}, &data)
	if err != nil {
		return models.Habit{}, err
	}
	if data.Habit.ID == "" {
		return models.Habit{}, transportf("toggleHabitDone", "habit missing id")
	}
	return data.Habit, nil
}

// RegisterUser creates a new account. Empty fields are rejected locally,
// before any network call.
func (c *Client) RegisterUser(ctx context.Context, username, email, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" {
		return models.User{}, errs.Validationf("username cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return models.User{}, errs.Validationf("email cannot be empty")
	}
	if password == "" {
		return models.User{}, errs.Validationf("password cannot be empty")
	}

	var data struct {
		User models.User `json:"registerUser"`
	}
	err := c.do(ctx, "registerUser", registerUserMutation, map[string]interface{}{
		"username": strings.TrimSpace(username),
		"email":    strings.TrimSpace(email),
		"password": password,
	}, &data)
	if err != nil {
		return models.User{}, err
	}
	if data.User.ID == "" {
		return models.User{}, transportf("registerUser", "user missing id")
	}
	return data.User, nil
}

// LoginUser authenticates and returns the user identity.
func (c *Client) LoginUser(ctx context.Context, email, password string) (models.User, error) {
	if strings.TrimSpace(email) == "" {
		return models.User{}, errs.Validationf("email cannot be empty")
	}
	if password == "" {
		return models.User{}, errs.Validationf("password cannot be empty")
	}

	var data struct {
		User models.User `json:"loginUser"`
	}
	err := c.do(ctx, "loginUser", loginUserMutation, map[string]interface{}{
		"email":    strings.TrimSpace(email),
		"password": password,
	}, &data)
	if err != nil {
		return models.User{}, err
	}
	if data.User.ID == "" {
		return models.User{}, transportf("loginUser", "user missing id")
	}
	return data.User, nil
}

func transportf(op, msg string) error {
	return &errs.TransportError{Op: op, Err: &malformedResponse{msg: msg}}
}

type malformedResponse struct {
	msg string
}

func (e *malformedResponse) Error() string {
	return "malformed response: " + e.msg
}
