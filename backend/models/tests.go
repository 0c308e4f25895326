package models

import (
	"strings"

	"gorm.io/gorm"
)

type TestStatus string

const (
	StatusActive    TestStatus = "ACTIVE"
	StatusCancelled TestStatus = "CANCELLED"
)

// Option slots a question can mark as correct.
var OptionSlots = []string{"A", "B", "C", "D"}

type Test struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Time        int64      // per question, multiplied by the question count on read
	Status      TestStatus `gorm:"type:varchar(16);default:'ACTIVE'"`
	// Nullable so rows created before codes existed do not collide on the unique index.
	TestCode  *string      `gorm:"type:varchar(6);uniqueIndex"`
	Questions []Question   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Results   []TestResult `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// IsActive treats an empty status as ACTIVE.
func (t *Test) IsActive() bool {
	return t.Status == StatusActive || t.Status == ""
}

func (t *Test) Code() string {
	if t.TestCode == nil {
		return ""
	}
	return *t.TestCode
}

func (t *Test) SetCode(code string) {
	c := strings.ToUpper(strings.TrimSpace(code))
	t.TestCode = &c
}

// TotalTime is the time allotted for the whole test.
func (t *Test) TotalTime() int64 {
	return t.Time * int64(len(t.Questions))
}

type Question struct {
	gorm.Model
	TestID        uint   `gorm:"not null;index"`
	Content       string `gorm:"not null"`
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string `gorm:"type:varchar(1);not null"`
}

// NormalizeOption uppercases a selected or correct option, returning ok=false when it is
// not one of the four slots.
func NormalizeOption(option string) (string, bool) {
	o := strings.ToUpper(strings.TrimSpace(option))
	for _, slot := range OptionSlots {
		if o == slot {
			return o, true
		}
	}
	return o, false
}

type TestResult struct {
	gorm.Model
	TestID         uint `gorm:"not null;index"`
	UserID         uint `gorm:"not null;index"`
	TotalQuestions int
	CorrectAnswers int
	Percentage     float64
}

// NewTestResult derives the percentage from the counts. totalQuestions must be positive.
func NewTestResult(testID, userID uint, totalQuestions, correctAnswers int) TestResult {
	return TestResult{
		TestID:         testID,
		UserID:         userID,
		TotalQuestions: totalQuestions,
		CorrectAnswers: correctAnswers,
		Percentage:     float64(correctAnswers) / float64(totalQuestions) * 100,
	}
}
