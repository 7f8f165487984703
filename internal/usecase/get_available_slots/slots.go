package get_available_slots

import (
	"github.com/m04kA/VMP-BookingService/internal/domain"
)

// generateSlots генерирует упорядоченный список слотов на день по расписанию площадки
//
// Алгоритм: курсор стартует от open_time; слот [cursor, cursor+durationHours)
// принимается, только если его конец не выходит за close_time; курсор сдвигается
// на durationHours + bufferMinutes. Слот, заканчивающийся ровно в close_time, включается.
//
// Слоты не пересекаются: buffer >= 0 даёт либо зазор, либо точное примыкание.
// Для закрытого дня возвращается пустой список.
func generateSlots(schedule *domain.Schedule, durationHours, bufferMinutes int) ([]domain.Slot, error) {
	if schedule == nil || schedule.IsClosed {
		return []domain.Slot{}, nil
	}
	if durationHours < domain.MinBookingDurationHours {
		return []domain.Slot{}, nil
	}

	slots := make([]domain.Slot, 0)
	cursor := schedule.OpenTime

	for {
		slotEnd, err := cursor.AddHours(durationHours)
		if err != nil {
			// Конец слота вышел за границы суток - дальше слоты не поместятся
			break
		}

		// Слот принимается, только если помещается до закрытия (конец включительно)
		if slotEnd.IsAfter(schedule.CloseTime) {
			break
		}

		slots = append(slots, domain.Slot{
			StartTime:     cursor,
			EndTime:       slotEnd,
			DurationHours: durationHours,
		})

		next, err := slotEnd.AddMinutes(bufferMinutes)
		if err != nil {
			break
		}
		cursor = next
	}

	return slots, nil
}

// markAvailability проставляет признак доступности каждому слоту
// Слот занят, если пересекается хотя бы с одним активным бронированием
// Граничные случаи (примыкание интервалов) пересечением не считаются
func markAvailability(slots []domain.Slot, bookings []*domain.Booking) []Slot {
	result := make([]Slot, len(slots))

	for i, slot := range slots {
		available := true
		for _, booking := range bookings {
			if !booking.IsActive() {
				continue
			}
			if booking.Overlaps(slot.StartTime, slot.EndTime) {
				available = false
				break
			}
		}

		result[i] = Slot{
			StartTime:     slot.StartTime,
			EndTime:       slot.EndTime,
			DurationHours: slot.DurationHours,
			Available:     available,
		}
	}

	return result
}
