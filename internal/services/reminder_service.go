package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/terraincognita07/nudge/internal/metrics"
	"github.com/terraincognita07/nudge/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultReminderInterval = time.Minute
	reminderMessage         = "Time for your daily check-in: what's the one task you want to finish today?"
)

type Reminder struct {
	UserID       uint   `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ReminderTime string `json:"reminderTime"`
	Message      string `json:"message"`
}

type ReminderNotifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

type ReminderEntryCounter interface {
	CountByUserRange(ctx context.Context, userID uint, fromStart time.Time, toEnd time.Time) (int64, error)
}

// WebhookNotifier POSTs each reminder as JSON to a fixed URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (notifier *WebhookNotifier) Notify(ctx context.Context, reminder Reminder) error {
	payload, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notifier.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := notifier.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// ReminderService nudges users who have not checked in by their reminder time.
type ReminderService struct {
	users    UserLister
	settings SettingsRepository
	entries  ReminderEntryCounter
	notifier ReminderNotifier
	location *time.Location
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu      sync.Mutex
	sentDay map[uint]string
}

func NewReminderService(
	users UserLister,
	settings SettingsRepository,
	entries ReminderEntryCounter,
	notifier ReminderNotifier,
	location *time.Location,
	interval time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &ReminderService{
		users:    users,
		settings: settings,
		entries:  entries,
		notifier: notifier,
		location: location,
		interval: interval,
		logger:   logger.Named("reminders"),
		metrics:  m,
		now:      time.Now,
		sentDay:  make(map[uint]string),
	}
}

// Start is a no-op without a notifier.
func (service *ReminderService) Start(ctx context.Context) (stop func()) {
	if service.notifier == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(service.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				service.RunOnce(ctx, service.now())
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}

// RunOnce sends due reminders and returns how many were delivered.
func (service *ReminderService) RunOnce(ctx context.Context, now time.Time) int {
	if service.notifier == nil {
		return 0
	}

	users, err := service.users.ListAll(ctx)
	if err != nil {
		service.logger.Error("list users failed", zap.Error(err))
		return 0
	}

	local := now.In(service.location)
	clock := local.Format("15:04")
	today := local.Format("2006-01-02")
	dayStart, dayEnd := DayBounds(now, service.location)

	sent := 0
	for _, user := range users {
		if ctx.Err() != nil {
			break
		}

		setting, err := service.settings.GetOrCreate(ctx, user.ID)
		if err != nil {
			service.logger.Warn("load settings failed", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		if !setting.PushNotifications || !reminderDue(setting.ReminderTime, clock) {
			continue
		}

		checkedIn, err := service.entries.CountByUserRange(ctx, user.ID, dayStart, dayEnd)
		if err != nil {
			service.logger.Warn("count entries failed", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		if checkedIn > 0 || !service.shouldSend(user.ID, today) {
			continue
		}

		if err := service.notifier.Notify(ctx, reminderFor(user, setting)); err != nil {
			service.forget(user.ID)
			service.logger.Warn("send reminder failed", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		service.metrics.RemindersSentTotal.Inc()
		sent++
	}
	return sent
}

// reminderDue reports whether clock is at or past reminderTime. Both are
// zero-padded HH:MM values.
func reminderDue(reminderTime string, clock string) bool {
	return reminderTime != "" && clock >= reminderTime
}

func reminderFor(user models.User, setting models.Setting) Reminder {
	return Reminder{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		ReminderTime: setting.ReminderTime,
		Message:      reminderMessage,
	}
}

func (service *ReminderService) shouldSend(userID uint, today string) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.sentDay[userID] == today {
		return false
	}
	service.sentDay[userID] = today
	return true
}

func (service *ReminderService) forget(userID uint) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sentDay, userID)
}
