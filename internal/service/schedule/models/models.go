package models

import (
	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// Request модели

// DayScheduleRequest расписание площадки на один день недели
type DayScheduleRequest struct {
	DayOfWeek int     `json:"dayOfWeek"` // 0=воскресенье .. 6=суббота
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
	IsClosed  bool    `json:"isClosed"`
}

// UpdateWeekRequest запрос на обновление недельного расписания площадки
type UpdateWeekRequest struct {
	Days []DayScheduleRequest `json:"days"`
}

// ToDomainSchedule конвертирует request в domain модель
func (r *DayScheduleRequest) ToDomainSchedule(venueID int64) *domain.Schedule {
	sched := &domain.Schedule{
		VenueID:   venueID,
		DayOfWeek: r.DayOfWeek,
		IsClosed:  r.IsClosed,
	}
	if r.OpenTime != nil {
		sched.OpenTime = types.TimeString(*r.OpenTime)
	}
	if r.CloseTime != nil {
		sched.CloseTime = types.TimeString(*r.CloseTime)
	}
	return sched
}

// Response модели

// DayScheduleResponse расписание на один день недели
type DayScheduleResponse struct {
	DayOfWeek int     `json:"dayOfWeek"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
	IsClosed  bool    `json:"isClosed"`
}

// WeekScheduleResponse недельное расписание площадки
type WeekScheduleResponse struct {
	VenueID int64                 `json:"venueId"`
	Days    []DayScheduleResponse `json:"days"`
}

// Методы конвертации

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.Schedule) DayScheduleResponse {
	resp := DayScheduleResponse{
		DayOfWeek: s.DayOfWeek,
		IsClosed:  s.IsClosed,
	}
	if !s.IsClosed {
		open := s.OpenTime.String()
		closeTime := s.CloseTime.String()
		resp.OpenTime = &open
		resp.CloseTime = &closeTime
	}
	return resp
}

// FromDomainWeek конвертирует недельное расписание в DTO
func FromDomainWeek(venueID int64, schedules []*domain.Schedule) *WeekScheduleResponse {
	resp := &WeekScheduleResponse{
		VenueID: venueID,
		Days:    make([]DayScheduleResponse, 0, len(schedules)),
	}
	for _, s := range schedules {
		resp.Days = append(resp.Days, FromDomainSchedule(s))
	}
	return resp
}
