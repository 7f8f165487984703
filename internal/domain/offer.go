package domain

import (
	"errors"
	"math"
	"time"
)

// DiscountType тип скидки предложения
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var (
	// ErrOfferNotValid возвращается, когда предложение неактивно, истекло или исчерпано
	ErrOfferNotValid = errors.New("offer is not valid")

	// ErrOfferMinHoursNotMet возвращается, когда длительность бронирования меньше минимальной для предложения
	ErrOfferMinHoursNotMet = errors.New("booking does not meet minimum hours for offer")
)

// Offer represents a discount offer attached to a venue
type Offer struct {
	ID      int64
	VenueID int64
	Title   string

	DiscountType  DiscountType
	DiscountValue float64

	MinBookingHours *int   // nil = без ограничения
	MaxUses         *int64 // nil = без ограничения
	UsedCount       int64

	StartDate time.Time
	EndDate   time.Time
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidAt проверяет валидность предложения на момент now:
// активно, now внутри [StartDate, EndDate], лимит использований не исчерпан
func (o *Offer) IsValidAt(now time.Time) bool {
	if !o.IsActive {
		return false
	}
	if now.Before(o.StartDate) || now.After(o.EndDate) {
		return false
	}
	if o.MaxUses != nil && o.UsedCount >= *o.MaxUses {
		return false
	}
	return true
}

// CalculateDiscount вычисляет сумму скидки для цены price
// Процентная скидка округляется до 2 знаков; фиксированная не превышает цену
func (o *Offer) CalculateDiscount(price float64) float64 {
	switch o.DiscountType {
	case DiscountPercentage:
		discount := math.Round(price*o.DiscountValue) / 100
		if discount > price {
			return price
		}
		return discount
	case DiscountFixed:
		if o.DiscountValue > price {
			return price
		}
		return o.DiscountValue
	default:
		return 0
	}
}

// OfferApplication результат применения предложения к цене бронирования
type OfferApplication struct {
	Applied    bool
	Discount   float64
	FinalPrice float64
}

// Apply применяет предложение к цене бронирования длительностью bookingHours часов
// Инкремент used_count здесь НЕ происходит - он выполняется однократно при подтверждении бронирования
func (o *Offer) Apply(price float64, bookingHours int, now time.Time) (OfferApplication, error) {
	if !o.IsValidAt(now) {
		return OfferApplication{}, ErrOfferNotValid
	}
	if o.MinBookingHours != nil && bookingHours < *o.MinBookingHours {
		return OfferApplication{}, ErrOfferMinHoursNotMet
	}

	discount := o.CalculateDiscount(price)
	return OfferApplication{
		Applied:    true,
		Discount:   discount,
		FinalPrice: price - discount,
	}, nil
}
