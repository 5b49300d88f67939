package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/terraincognita07/nudge/internal/ai"
	"github.com/terraincognita07/nudge/internal/models"
)

var errStubStorage = errors.New("stub storage failure")

type stubUsers struct {
	users     []models.User
	listErr   error
	createErr error
}

func (stub *stubUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range stub.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubUsers) FindByEmail(_ context.Context, email string) (models.User, bool, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

func (stub *stubUsers) FindByID(_ context.Context, userID uint) (models.User, bool, error) {
	for _, user := range stub.users {
		if user.ID == userID {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

func (stub *stubUsers) CreateWithSettings(_ context.Context, user *models.User) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	user.ID = uint(len(stub.users) + 1)
	stub.users = append(stub.users, *user)
	return nil
}

func (stub *stubUsers) ListAll(context.Context) ([]models.User, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	return append([]models.User(nil), stub.users...), nil
}

type stubEntries struct {
	mu        sync.Mutex
	entries   []models.Entry
	createErr error
}

func (stub *stubEntries) Create(_ context.Context, entry *models.Entry) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.createErr != nil {
		return stub.createErr
	}
	entry.ID = uint(len(stub.entries) + 1)
	stub.entries = append(stub.entries, *entry)
	return nil
}

func (stub *stubEntries) ListByUser(_ context.Context, userID uint) ([]models.Entry, error) {
	result := stub.filter(userID, nil, nil)
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (stub *stubEntries) ListByUserRange(_ context.Context, userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Entry, error) {
	result := stub.filter(userID, fromStart, toEnd)
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (stub *stubEntries) CountByUserRange(_ context.Context, userID uint, fromStart time.Time, toEnd time.Time) (int64, error) {
	return int64(len(stub.filter(userID, &fromStart, &toEnd))), nil
}

func (stub *stubEntries) FindOwned(_ context.Context, entryID uint, userID uint) (models.Entry, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	for _, entry := range stub.entries {
		if entry.ID == entryID && entry.UserID == userID {
			return entry, true, nil
		}
	}
	return models.Entry{}, false, nil
}

func (stub *stubEntries) MarkCompleted(_ context.Context, entryID uint, userID uint) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	for index := range stub.entries {
		if stub.entries[index].ID == entryID && stub.entries[index].UserID == userID {
			stub.entries[index].Completed = true
		}
	}
	return nil
}

func (stub *stubEntries) filter(userID uint, fromStart *time.Time, toEnd *time.Time) []models.Entry {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	result := make([]models.Entry, 0)
	for _, entry := range stub.entries {
		if entry.UserID != userID {
			continue
		}
		if fromStart != nil && entry.Date.Before(*fromStart) {
			continue
		}
		if toEnd != nil && !entry.Date.Before(*toEnd) {
			continue
		}
		result = append(result, entry)
	}
	return result
}

type stubSummaries struct {
	mu        sync.Mutex
	summaries []models.Summary
	createErr error
	findErr   error
}

func (stub *stubSummaries) FindByWeek(_ context.Context, userID uint, weekStarting time.Time) (models.Summary, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.findErr != nil {
		return models.Summary{}, false, stub.findErr
	}
	for _, summary := range stub.summaries {
		if summary.UserID == userID && summary.WeekStarting.Equal(weekStarting) {
			return summary, true, nil
		}
	}
	return models.Summary{}, false, nil
}

func (stub *stubSummaries) CreateOrGet(_ context.Context, summary *models.Summary) (models.Summary, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.createErr != nil {
		return models.Summary{}, stub.createErr
	}
	for _, existing := range stub.summaries {
		if existing.UserID == summary.UserID && existing.WeekStarting.Equal(summary.WeekStarting) {
			return existing, nil
		}
	}
	summary.ID = uint(len(stub.summaries) + 1)
	stub.summaries = append(stub.summaries, *summary)
	return *summary, nil
}

func (stub *stubSummaries) ListByUser(_ context.Context, userID uint) ([]models.Summary, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	result := make([]models.Summary, 0)
	for _, summary := range stub.summaries {
		if summary.UserID == userID {
			result = append(result, summary)
		}
	}
	return result, nil
}

type stubSettings struct {
	mu       sync.Mutex
	settings map[uint]models.Setting
	err      error
}

func newStubSettings() *stubSettings {
	return &stubSettings{settings: make(map[uint]models.Setting)}
}

func (stub *stubSettings) GetOrCreate(_ context.Context, userID uint) (models.Setting, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return models.Setting{}, stub.err
	}
	setting, ok := stub.settings[userID]
	if !ok {
		setting = models.DefaultSetting(userID)
		stub.settings[userID] = setting
	}
	return setting, nil
}

func (stub *stubSettings) UpdateByUser(_ context.Context, userID uint, updates map[string]any) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	setting := stub.settings[userID]
	for column, value := range updates {
		switch column {
		case "reminder_time":
			setting.ReminderTime = value.(string)
		case "push_notifications":
			setting.PushNotifications = value.(bool)
		case "weekly_summary":
			setting.WeeklySummary = value.(bool)
		case "ai_tone":
			setting.AITone = models.Tone(value.(string))
		}
	}
	stub.settings[userID] = setting
	return nil
}

type stubNudges struct {
	tones []string
}

func (stub *stubNudges) Nudge(_ context.Context, task string, tone string) string {
	stub.tones = append(stub.tones, tone)
	return "nudge for " + task
}

type stubSummarizer struct {
	mu    sync.Mutex
	calls int
	lines []ai.EntryLine
}

func (stub *stubSummarizer) WeeklySummary(_ context.Context, entries []ai.EntryLine) ai.WeeklySummary {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.calls++
	stub.lines = entries
	return ai.WeeklySummary{Achievements: "a", Patterns: "p", Themes: "t"}
}
