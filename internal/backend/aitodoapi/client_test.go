package aitodoapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitodo/internal/service"
)

// recordedReq captures the last request a test server saw.
type recordedReq struct {
	method string
	path   string
	body   []byte
}

func newTestServer(t *testing.T, status int, response string) (*Client, *recordedReq) {
	t.Helper()
	rec := &recordedReq{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL, srv.Client()), rec
}

func TestPendingReminders(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `[
		{"id": 1, "title": "standup", "reminder_time": "2026-08-31T09:00:00",
		 "reminder_type": "recurring_daily", "status": "pending"},
		{"id": 2, "title": "dentist", "message": "bring card",
		 "reminder_time": "2026-08-31T14:30:00+02:00",
		 "reminder_type": "one_time", "status": "pending", "task_id": 5}
	]`)

	reminders, err := client.PendingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/reminders/pending", rec.path)

	require.Len(t, reminders, 2)
	assert.Equal(t, "standup", reminders[0].Title)
	assert.Equal(t, service.ReminderRecurringDaily, reminders[0].ReminderType)
	assert.Equal(t, 9, reminders[0].ReminderTime.Hour(), "naive backend timestamps parse")
	require.NotNil(t, reminders[1].TaskID)
	assert.Equal(t, 5, *reminders[1].TaskID)
}

func TestMarkReminderSent(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"id": 3, "status": "sent"}`)

	require.NoError(t, client.MarkReminderSent(context.Background(), 3))
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/reminders/3/sent", rec.path)
}

func TestDismissReminder(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"id": 3, "status": "dismissed"}`)

	require.NoError(t, client.DismissReminder(context.Background(), 3))
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/reminders/3/dismiss", rec.path)
}

func TestGoalTasks(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `[
		{"id": 1, "title": "write report", "subtasks": [
			{"id": 2, "title": "gather sources", "parent_id": 1}
		]}
	]`)

	tasks, err := client.GoalTasks(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "/goals/7/tasks", rec.path)

	require.Len(t, tasks, 1)
	require.Len(t, tasks[0].Subtasks, 1)
	assert.Equal(t, "gather sources", tasks[0].Subtasks[0].Title)
}

func TestCreateTask(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"id": 10, "title": "new task", "goal_id": 7}`)

	parent := 3
	task, err := client.CreateTask(context.Background(), 7, service.TaskCreate{
		Title:    "new task",
		Priority: service.PriorityHigh,
		ParentID: &parent,
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/goals/7/tasks", rec.path)
	assert.Equal(t, 10, task.ID)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, "new task", sent["title"])
	assert.Equal(t, float64(3), sent["parent_id"])
}

func TestUpdateTaskPartial(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"id": 4}`)

	completed := true
	err := client.UpdateTask(context.Background(), 4, service.TaskUpdate{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/tasks/4", rec.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, map[string]any{"completed": true}, sent, "nil fields are omitted")
}

func TestUpdateTaskClearParent(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"id": 4}`)

	err := client.UpdateTask(context.Background(), 4, service.TaskUpdate{ClearParent: true})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	val, present := sent["parent_id"]
	assert.True(t, present, "moving to root sends an explicit parent_id")
	assert.Nil(t, val)
}

func TestUpdateTaskClearsTags(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"id": 4}`)

	err := client.UpdateTask(context.Background(), 4, service.TaskUpdate{Tags: []string{}})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	val, present := sent["tags"]
	assert.True(t, present, "clearing tags sends an explicit empty array")
	assert.Equal(t, []any{}, val)
}

func TestDeleteTask(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"ok": true}`)

	require.NoError(t, client.DeleteTask(context.Background(), 9))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/tasks/9", rec.path)
}

func TestUnauthorizedMapsToLoginHint(t *testing.T) {
	client, _ := newTestServer(t, http.StatusUnauthorized, `{"detail": "Not authenticated"}`)

	_, err := client.PendingReminders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aitodo login")
}

func TestNotFound(t *testing.T) {
	client, _ := newTestServer(t, http.StatusNotFound, `{"detail": "Task not found"}`)

	_, err := client.Task(context.Background(), 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBackendDetailSurfaced(t *testing.T) {
	client, _ := newTestServer(t, http.StatusUnprocessableEntity, `{"detail": "title must not be empty"}`)

	_, err := client.CreateTask(context.Background(), 7, service.TaskCreate{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title must not be empty")
}
