package models

// Роли пользователей
const (
	RoleCustomer = "customer"
	RoleHandyman = "handyman"
	RoleAdmin    = "admin"
)

// BookingStatus константы статусов заявок
const (
	BookingStatusPending    = "pending"
	BookingStatusAccepted   = "accepted"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
	// BookingStatusDisputed присутствует в схеме, но ни один код не выставляет его.
	BookingStatusDisputed = "disputed"
)

// EarningStatus константы статусов выплат
const (
	EarningStatusPending  = "pending"
	EarningStatusPaid     = "paid"
	EarningStatusDisputed = "disputed"
)

// CertificationLevel константы уровней сертификации
const (
	CertificationBeginner     = "beginner"
	CertificationIntermediate = "intermediate"
	CertificationExpert       = "expert"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleCustomer: {},
	RoleHandyman: {},
	RoleAdmin:    {},
}

// ValidCertificationLevels список валидных уровней сертификации
var ValidCertificationLevels = map[string]struct{}{
	CertificationBeginner:     {},
	CertificationIntermediate: {},
	CertificationExpert:       {},
}

// ValidEarningStatuses список валидных статусов выплат
var ValidEarningStatuses = map[string]struct{}{
	EarningStatusPending:  {},
	EarningStatusPaid:     {},
	EarningStatusDisputed: {},
}
