package models

import "time"

type TestDTO struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Time        int64      `json:"time"`
	Status      TestStatus `json:"status"`
	TestCode    string     `json:"testCode"`
}

type QuestionDTO struct {
	ID            uint   `json:"id"`
	TestID        uint   `json:"testId"`
	Content       string `json:"content"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectOption string `json:"correctOption"`
}

type TestDetailsDTO struct {
	TestDTO   TestDTO       `json:"testDTO"`
	Questions []QuestionDTO `json:"questions"`
}

// WithoutAnswers returns a copy with every correct option blanked.
func (d TestDetailsDTO) WithoutAnswers() TestDetailsDTO {
	questions := make([]QuestionDTO, len(d.Questions))
	for i, q := range d.Questions {
		q.CorrectOption = ""
		questions[i] = q
	}
	d.Questions = questions
	return d
}

type QuestionResponse struct {
	QuestionID     uint   `json:"questionId"`
	SelectedOption string `json:"selectedOption"`
}

type SubmitTestDTO struct {
	TestID    uint               `json:"testId"`
	UserID    uint               `json:"userId"`
	Responses []QuestionResponse `json:"responses"`
}

type TestResultDTO struct {
	ID             uint      `json:"id"`
	TestID         uint      `json:"testId"`
	UserID         uint      `json:"userId"`
	TestName       string    `json:"testName,omitempty"`
	UserName       string    `json:"userName,omitempty"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	Percentage     float64   `json:"percentage"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LeaderboardEntryDTO carries the counts of the user's best attempt.
type LeaderboardEntryDTO struct {
	Rank           int     `json:"rank"`
	UserID         uint    `json:"userId"`
	UserName       string  `json:"userName,omitempty"`
	Percentage     float64 `json:"percentage"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
}

type TestAnalyticsDTO struct {
	TestID       uint    `json:"testId"`
	Attempts     int     `json:"attempts"`
	Participants int     `json:"participants"`
	Average      float64 `json:"average"`
	Highest      float64 `json:"highest"`
	Lowest       float64 `json:"lowest"`
}

type UserDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ToDTO copies the stored fields. Time is the stored per-question value; reads that
// display the total duration overwrite it.
func (t *Test) ToDTO() TestDTO {
	status := t.Status
	if status == "" {
		status = StatusActive
	}
	return TestDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Time:        t.Time,
		Status:      status,
		TestCode:    t.Code(),
	}
}

func (q *Question) ToDTO() QuestionDTO {
	return QuestionDTO{
		ID:            q.ID,
		TestID:        q.TestID,
		Content:       q.Content,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectOption: q.CorrectOption,
	}
}

func (r *TestResult) ToDTO() TestResultDTO {
	return TestResultDTO{
		ID:             r.ID,
		TestID:         r.TestID,
		UserID:         r.UserID,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		Percentage:     r.Percentage,
		CreatedAt:      r.CreatedAt,
	}
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
