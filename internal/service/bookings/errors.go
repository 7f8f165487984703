package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidTransition возвращается, когда переход статуса нарушает state machine
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrVenueClosed возвращается, когда площадка не работает в указанный день
	ErrVenueClosed = errors.New("venue is closed on this date")

	// ErrOutsideOperatingHours возвращается, когда интервал выходит за рабочие часы
	ErrOutsideOperatingHours = errors.New("time window is outside operating hours")

	// ErrSlotNotAvailable возвращается, когда новый интервал пересекается с активным бронированием
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrOfferExhausted возвращается, когда лимит использований предложения исчерпан при подтверждении
	ErrOfferExhausted = errors.New("offer usage limit exhausted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidBookingDate возвращается при некорректной дате бронирования
	ErrInvalidBookingDate = errors.New("invalid booking date")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
