package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTestResultPercentage(t *testing.T) {
	cases := []struct {
		name    string
		total   int
		correct int
		want    float64
	}{
		{"all correct", 4, 4, 100},
		{"none correct", 4, 0, 0},
		{"half", 2, 1, 50},
		{"thirds", 3, 1, 100.0 / 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewTestResult(1, 2, tc.total, tc.correct)
			assert.InDelta(t, tc.want, r.Percentage, 1e-9)
			assert.Equal(t, tc.total, r.TotalQuestions)
			assert.Equal(t, tc.correct, r.CorrectAnswers)
		})
	}
}

func TestNormalizeOption(t *testing.T) {
	o, ok := NormalizeOption(" b ")
	assert.True(t, ok)
	assert.Equal(t, "B", o)

	_, ok = NormalizeOption("E")
	assert.False(t, ok)

	_, ok = NormalizeOption("")
	assert.False(t, ok)
}

func TestTestCodeAndStatus(t *testing.T) {
	test := Test{Title: "Math", Time: 10, Questions: make([]Question, 3)}
	assert.Equal(t, "", test.Code())
	assert.True(t, test.IsActive())

	test.SetCode(" abc123 ")
	assert.Equal(t, "ABC123", test.Code())
	assert.Equal(t, int64(30), test.TotalTime())

	test.Status = StatusCancelled
	assert.False(t, test.IsActive())

	dto := test.ToDTO()
	assert.Equal(t, "ABC123", dto.TestCode)
	assert.Equal(t, int64(10), dto.Time)
	assert.Equal(t, StatusCancelled, dto.Status)
}

func TestDetailsWithoutAnswers(t *testing.T) {
	details := TestDetailsDTO{Questions: []QuestionDTO{
		{ID: 1, Content: "1+1", CorrectOption: "A"},
		{ID: 2, Content: "2+2", CorrectOption: "C"},
	}}

	hidden := details.WithoutAnswers()
	for _, q := range hidden.Questions {
		assert.NotEmpty(t, q.Content)
		assert.Empty(t, q.CorrectOption)
	}
	assert.Equal(t, "A", details.Questions[0].CorrectOption)
}
