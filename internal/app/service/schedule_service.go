package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukadfagundes/bwaincell/internal/infra/storage"
)

var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

type ScheduleService struct {
	schedule ScheduleRepo
}

func NewScheduleService(schedule ScheduleRepo) *ScheduleService {
	return &ScheduleService{schedule: schedule}
}

func (s *ScheduleService) Set(ctx context.Context, guildID, userID, weekday, slotTime, activity string) (string, error) {
	day := -1
	for i, name := range weekdays {
		if strings.EqualFold(weekday, name) {
			day = i
			break
		}
	}
	if day < 0 {
		return "⚠️ Weekday must be one of: " + strings.Join(weekdays, ", ") + ".", nil
	}

	err := s.schedule.Upsert(ctx, storage.ScheduleSlot{
		GuildID:  guildID,
		UserID:   userID,
		Weekday:  day,
		SlotTime: slotTime,
		Activity: activity,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ %s %s → %s.", weekdays[day], slotTime, activity), nil
}

func (s *ScheduleService) Show(ctx context.Context, guildID, userID string) (string, error) {
	slots, err := s.schedule.Week(ctx, guildID, userID)
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		return "ℹ️ Your schedule is empty. Fill it with `/schedule set`.", nil
	}

	var b strings.Builder
	b.WriteString("🗓️ **Weekly schedule**\n")
	for _, sl := range slots {
		fmt.Fprintf(&b, "%s %s — %s\n", weekdays[sl.Weekday], sl.SlotTime, sl.Activity)
	}
	return b.String(), nil
}
