package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/terraincognita07/nudge/internal/models"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	sent []Reminder
	err  error
}

func (stub *recordingNotifier) Notify(_ context.Context, reminder Reminder) error {
	if stub.err != nil {
		return stub.err
	}
	stub.sent = append(stub.sent, reminder)
	return nil
}

func TestReminderRunOnceSendsDueRemindersOncePerDay(t *testing.T) {
	now := time.Date(2026, time.March, 4, 9, 0, 30, 0, time.UTC)
	users := &stubUsers{users: []models.User{
		{ID: 1, Username: "due", Email: "due@example.com"},
		{ID: 2, Username: "checked-in"},
		{ID: 3, Username: "push-off"},
		{ID: 4, Username: "later"},
	}}
	settings := newStubSettings()
	pushOff := models.DefaultSetting(3)
	pushOff.PushNotifications = false
	settings.settings[3] = pushOff
	later := models.DefaultSetting(4)
	later.ReminderTime = "18:00"
	settings.settings[4] = later
	entries := &stubEntries{entries: []models.Entry{{ID: 1, UserID: 2, Date: now.Add(-time.Hour)}}}
	notifier := &recordingNotifier{}

	service := NewReminderService(users, settings, entries, notifier, time.UTC, 0, zap.NewNop(), nil)

	if sent := service.RunOnce(context.Background(), now); sent != 1 {
		t.Fatalf("expected one reminder, got %d", sent)
	}
	if notifier.sent[0].UserID != 1 || notifier.sent[0].Email != "due@example.com" || notifier.sent[0].ReminderTime != "09:00" {
		t.Fatalf("unexpected reminder %+v", notifier.sent[0])
	}

	if sent := service.RunOnce(context.Background(), now.Add(10*time.Second)); sent != 0 {
		t.Fatalf("expected dedupe within the same day, got %d", sent)
	}
	// user 2 has not checked in on the next day either
	if sent := service.RunOnce(context.Background(), now.AddDate(0, 0, 1)); sent != 2 {
		t.Fatalf("expected two reminders on the next day, got %d", sent)
	}
}

func TestReminderRunOnceCatchesUpAfterMissedMinute(t *testing.T) {
	notifier := &recordingNotifier{}
	service := NewReminderService(&stubUsers{users: []models.User{{ID: 1}}}, newStubSettings(), &stubEntries{}, notifier, time.UTC, time.Minute, zap.NewNop(), nil)

	early := time.Date(2026, time.March, 4, 8, 59, 59, 0, time.UTC)
	if sent := service.RunOnce(context.Background(), early); sent != 0 {
		t.Fatalf("expected no reminder before 09:00, got %d", sent)
	}

	delayed := time.Date(2026, time.March, 4, 9, 3, 12, 0, time.UTC)
	if sent := service.RunOnce(context.Background(), delayed); sent != 1 {
		t.Fatalf("expected delayed tick to deliver the reminder, got %d", sent)
	}
	if sent := service.RunOnce(context.Background(), delayed.Add(2*time.Hour)); sent != 0 {
		t.Fatalf("expected one reminder per day, got %d", sent)
	}
}

func TestReminderDue(t *testing.T) {
	cases := []struct {
		reminderTime string
		clock        string
		want         bool
	}{
		{reminderTime: "09:00", clock: "08:59", want: false},
		{reminderTime: "09:00", clock: "09:00", want: true},
		{reminderTime: "09:00", clock: "23:59", want: true},
		{reminderTime: "18:30", clock: "09:00", want: false},
		{reminderTime: "", clock: "12:00", want: false},
	}
	for _, tc := range cases {
		if got := reminderDue(tc.reminderTime, tc.clock); got != tc.want {
			t.Fatalf("reminderDue(%q, %q) = %v, want %v", tc.reminderTime, tc.clock, got, tc.want)
		}
	}
}

func TestReminderRunOnceRetriesAfterFailure(t *testing.T) {
	now := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)
	notifier := &recordingNotifier{err: errors.New("unreachable")}
	service := NewReminderService(&stubUsers{users: []models.User{{ID: 1}}}, newStubSettings(), &stubEntries{}, notifier, time.UTC, time.Minute, zap.NewNop(), nil)

	if sent := service.RunOnce(context.Background(), now); sent != 0 {
		t.Fatalf("expected failed delivery not to count, got %d", sent)
	}
	notifier.err = nil
	if sent := service.RunOnce(context.Background(), now); sent != 1 {
		t.Fatalf("expected retry on the next tick, got %d", sent)
	}
}

func TestReminderWithoutNotifierIsDisabled(t *testing.T) {
	service := NewReminderService(&stubUsers{users: []models.User{{ID: 1}}}, newStubSettings(), &stubEntries{}, nil, time.UTC, time.Minute, zap.NewNop(), nil)

	if sent := service.RunOnce(context.Background(), time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)); sent != 0 {
		t.Fatalf("expected no reminders without a notifier, got %d", sent)
	}
	service.Start(context.Background())()
}

func TestWebhookNotifierPostsJSON(t *testing.T) {
	received := make(chan Reminder, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var reminder Reminder
		if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received <- reminder
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, time.Second)
	if err := notifier.Notify(context.Background(), Reminder{UserID: 7, Username: "alice", Message: "hi"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	reminder := <-received
	if reminder.UserID != 7 || reminder.Username != "alice" {
		t.Fatalf("unexpected payload %+v", reminder)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer failing.Close()
	if err := NewWebhookNotifier(failing.URL, time.Second).Notify(context.Background(), Reminder{}); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
