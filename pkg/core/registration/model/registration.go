package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusConfirmed = "confirmed"

	PaymentCompleted = "completed"
)

// Registration 一名跑者在某赛事某组别下的报名记录
type Registration struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	UserID     int64 `gorm:"index;not null"`
	EventID    int64 `gorm:"index;not null"`
	CategoryID int64 `gorm:"index;not null"`

	FirstName    string `gorm:"type:varchar(100);not null"`
	LastName     string `gorm:"type:varchar(155)"`
	Email        string `gorm:"type:varchar(255);not null"`
	Phone        string `gorm:"type:varchar(32);not null"`
	BirthDate    string `gorm:"type:varchar(10);not null"`
	Gender       string `gorm:"type:varchar(20);not null"`
	BloodGroup   string `gorm:"type:varchar(5);not null"`
	FitnessLevel string `gorm:"type:varchar(30)"`

	Allergies             string `gorm:"type:varchar(512)"`
	Medications           string `gorm:"type:varchar(512)"`
	DietaryRestrictions   string `gorm:"type:varchar(512)"`
	HasDisability         bool
	DisabilityDescription string `gorm:"type:varchar(512)"`

	EmergencyContactName         string `gorm:"type:varchar(255)"`
	EmergencyContactRelationship string `gorm:"type:varchar(50)"`
	EmergencyContactPhone        string `gorm:"type:varchar(32)"`
	EmergencyContactEmail        string `gorm:"type:varchar(255)"`

	Division string `gorm:"type:varchar(100)"`
	District string `gorm:"type:varchar(100)"`
	Upazilla string `gorm:"type:varchar(100)"`

	TShirtSize string `gorm:"column:tshirt_size;type:varchar(5);not null"`
	Notes      string `gorm:"type:text"`

	Status    string    `gorm:"type:varchar(20);default:confirmed;not null"`
	Payment   Payment   `gorm:"foreignKey:RegistrationID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Registration) TableName() string {
	return "registrations"
}

func (r Registration) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

type Payment struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	RegistrationID int64     `gorm:"uniqueIndex;not null"`
	Method         string    `gorm:"type:varchar(30);not null"`
	TransactionID  string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Amount         float64   `gorm:"not null"`
	Status         string    `gorm:"type:varchar(20);default:completed;not null"`
	PaidAt         time.Time `gorm:"not null"`
}

func (Payment) TableName() string {
	return "registration_payments"
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='报名与支付记录'").
		AutoMigrate(&Registration{}, &Payment{})
}
