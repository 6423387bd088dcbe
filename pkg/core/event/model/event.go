package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusUpcoming   = "upcoming"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
	StatusCancelled  = "cancelled"
)

const (
	UnitKilometre = "km"
	UnitMile      = "mi"
)

type Event struct {
	ID                    int64      `gorm:"primaryKey;autoIncrement"`
	Name                  string     `gorm:"type:varchar(255);not null"`
	Description           string     `gorm:"type:text"`
	EventDate             time.Time  `gorm:"index;not null"`
	Location              string     `gorm:"type:varchar(255)"`
	StartTime             string     `gorm:"type:varchar(8)"` // HH:MM:SS
	RegistrationOpenDate  time.Time  `gorm:"not null"`
	RegistrationCloseDate time.Time  `gorm:"not null"`
	MaxParticipants       int        `gorm:"not null"`
	EventStatus           string     `gorm:"type:varchar(20);index;default:upcoming;not null"`
	DisplayOrder          int        `gorm:"default:1;not null"`
	IsFeatured            bool       `gorm:"default:false"`
	WebsiteURL            string     `gorm:"type:varchar(512)"`
	Categories            []Category `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time  `gorm:"autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "marathon_events"
}

// RegistrationOpen 判断给定时刻是否处于报名窗口内
func (e Event) RegistrationOpen(at time.Time) bool {
	if e.EventStatus != StatusUpcoming {
		return false
	}
	return !at.Before(e.RegistrationOpenDate) && at.Before(e.RegistrationCloseDate)
}

// Category 赛事下的组别（全马、半马、10K 等）
type Category struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement"`
	EventID             int64     `gorm:"index;not null"`
	Name                string    `gorm:"type:varchar(255);not null"`
	Distance            float64   `gorm:"not null"`
	DistanceUnit        string    `gorm:"type:varchar(5);default:km;not null"`
	StartTime           string    `gorm:"type:varchar(8)"`
	EntryFee            int       `gorm:"not null"`
	MaxParticipants     int       `gorm:"not null"`
	AgeMin              int       `gorm:"not null"`
	AgeMax              int       `gorm:"not null"`
	CurrentParticipants int       `gorm:"default:0;not null"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "race_categories"
}

func (c Category) HasCapacity() bool {
	return c.CurrentParticipants < c.MaxParticipants
}

// Preset 常用组别模板
type Preset struct {
	Name         string  `json:"name"`
	Distance     float64 `json:"distance"`
	DistanceUnit string  `json:"distanceUnit"`
}

var racePresets = []Preset{
	{Name: "Full Marathon", Distance: 42.195, DistanceUnit: UnitKilometre},
	{Name: "Half Marathon", Distance: 21.0975, DistanceUnit: UnitKilometre},
	{Name: "10K Run", Distance: 10, DistanceUnit: UnitKilometre},
	{Name: "5K Run", Distance: 5, DistanceUnit: UnitKilometre},
	{Name: "3K Fun Run", Distance: 3, DistanceUnit: UnitKilometre},
}

func Presets() []Preset {
	out := make([]Preset, len(racePresets))
	copy(out, racePresets)
	return out
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='赛事与组别'").
		AutoMigrate(&Event{}, &Category{})
}
