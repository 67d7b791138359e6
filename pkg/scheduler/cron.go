package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/robfig/cron/v3"
)

// DefaultScheduleTime is used when a time based trigger leaves scheduleTime empty.
const DefaultScheduleTime = "09:00"

var ErrInvalidSchedule = errors.New("invalid schedule")

// CronSpec converts a time based trigger into a standard five field cron expression in UTC.
func CronSpec(trigger models.TimeBasedTrigger) (string, error) {
	clock := trigger.ScheduleTime
	if clock == "" {
		clock = DefaultScheduleTime
	}

	at, err := time.Parse("15:04", clock)
	if err != nil {
		return "", fmt.Errorf("%w: scheduleTime %q is not HH:MM", ErrInvalidSchedule, clock)
	}

	var spec string

	switch trigger.ScheduleType {
	case models.ScheduleDaily, "":
		spec = fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
	case models.ScheduleWeekly:
		days, err := dayList(trigger.ScheduleDays, 0, 6)
		if err != nil {
			return "", err
		}

		spec = fmt.Sprintf("%d %d * * %s", at.Minute(), at.Hour(), days)
	case models.ScheduleMonthly:
		days, err := dayList(trigger.ScheduleDays, 1, 31)
		if err != nil {
			return "", err
		}

		spec = fmt.Sprintf("%d %d %s * *", at.Minute(), at.Hour(), days)
	default:
		return "", fmt.Errorf("%w: unknown scheduleType %q", ErrInvalidSchedule, trigger.ScheduleType)
	}

	_, err = cron.ParseStandard(spec)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	return spec, nil
}

func dayList(days []int, lowest, highest int) (string, error) {
	if len(days) == 0 {
		return "", fmt.Errorf("%w: scheduleDays is required", ErrInvalidSchedule)
	}

	sorted := slices.Clone(days)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	parts := make([]string, 0, len(sorted))

	for _, day := range sorted {
		if day < lowest || day > highest {
			return "", fmt.Errorf("%w: day %d outside %d-%d", ErrInvalidSchedule, day, lowest, highest)
		}

		parts = append(parts, strconv.Itoa(day))
	}

	return strings.Join(parts, ","), nil
}

// cronLogger routes robfig/cron's logging into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
