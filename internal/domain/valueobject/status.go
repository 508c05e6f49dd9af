package valueobject

import "github.com/ignatzorin/handyman-backend/internal/pkg/apperror"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	// BookingStatusDisputed — валидное хранимое значение, которое не выставляется
	// ни одним переходом.
	BookingStatusDisputed BookingStatus = "disputed"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusDisputed:
		return true
	}
	return false
}

// IsSettable сообщает, может ли статус фигурировать в запросе на переход.
func (s BookingStatus) IsSettable() bool {
	switch s {
	case BookingStatusAccepted, BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal сообщает, что из статуса нет исходящих переходов.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusDisputed
}

// CanTransitionTo проверяет переход по таблице жизненного цикла заявки.
// Переходы только вперёд: возврат из completed и повторное завершение запрещены.
func (s BookingStatus) CanTransitionTo(newStatus BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusPending:    {BookingStatusAccepted, BookingStatusCancelled},
		BookingStatusAccepted:   {BookingStatusInProgress, BookingStatusCancelled},
		BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
		BookingStatusCompleted:  {},
		BookingStatusCancelled:  {},
		BookingStatusDisputed:   {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

// Actor — кто запрашивает переход статуса.
type Actor string

const (
	ActorHandyman Actor = "handyman"
	ActorCustomer Actor = "customer"
)

// TransitionAllowed — единая точка политики переходов.
// Назначенный мастер двигает заявку по таблице жизненного цикла,
// заказчик может только отменить заявку в статусе pending.
func TransitionAllowed(actor Actor, current, next BookingStatus) bool {
	switch actor {
	case ActorHandyman:
		return current.CanTransitionTo(next)
	case ActorCustomer:
		return current == BookingStatusPending && next == BookingStatusCancelled
	}
	return false
}

func NewBookingStatus(status string) (BookingStatus, error) {
	s := BookingStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заявки")
	}
	return s, nil
}
