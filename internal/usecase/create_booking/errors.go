package create_booking

import "errors"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = errors.New("create_booking: venue not found")

	// ErrVenueInactive возвращается, когда площадка снята с публикации
	ErrVenueInactive = errors.New("create_booking: venue is not active")

	// ErrVenueClosed возвращается, когда площадка не работает в указанный день
	ErrVenueClosed = errors.New("create_booking: venue is closed on this date")

	// ErrOutsideOperatingHours возвращается, когда интервал выходит за рабочие часы площадки
	ErrOutsideOperatingHours = errors.New("create_booking: time window is outside operating hours")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активным бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrOfferNotFound возвращается, когда предложение не найдено или принадлежит другой площадке
	ErrOfferNotFound = errors.New("create_booking: offer not found")

	// ErrOfferNotValid возвращается, когда предложение неактивно, истекло или исчерпано
	ErrOfferNotValid = errors.New("create_booking: offer is not valid")

	// ErrOfferMinHoursNotMet возвращается, когда длительность бронирования меньше минимальной для предложения
	ErrOfferMinHoursNotMet = errors.New("create_booking: booking does not meet minimum hours for offer")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
