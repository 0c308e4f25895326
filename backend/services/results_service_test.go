package services

import (
	"context"
	"testing"

	"quizserver/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultListings(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.db.addUser("alice")
	bob := f.db.addUser("bob")
	math := f.createTest(t, "Math", 1, "")
	mq := f.addQuestions(t, math.ID, "A", "B")
	art := f.createTest(t, "Art", 1, "")
	aq := f.addQuestions(t, art.ID, "C")

	submit := func(testID, userID uint, r []models.QuestionResponse) {
		_, err := f.scoring.SubmitTest(ctx, models.SubmitTestDTO{TestID: testID, UserID: userID, Responses: r})
		require.NoError(t, err)
	}
	submit(math.ID, alice.ID, answers(mq, "A", "B"))
	submit(art.ID, alice.ID, answers(aq, "A"))
	submit(math.ID, bob.ID, answers(mq, "A"))

	all, err := f.results.ListAllResults(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Math", all[0].TestName)
	assert.Equal(t, "alice", all[0].UserName)
	assert.Equal(t, "Art", all[1].TestName)

	mine, err := f.results.ListResultsForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, r := range mine {
		assert.Equal(t, alice.ID, r.UserID)
	}

	forMath, err := f.results.ListResultsForTest(ctx, math.ID)
	require.NoError(t, err)
	require.Len(t, forMath, 2)
	assert.Equal(t, "bob", forMath[1].UserName)
	assert.Equal(t, 50.0, forMath[1].Percentage)
}

func TestResultListingsEmpty(t *testing.T) {
	f := newFixture()

	none, err := f.results.ListResultsForUser(context.Background(), 123)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := f.results.ListAllResults(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = f.results.ListResultsForTest(context.Background(), 123)
	assert.Equal(t, KindNotFound, KindOf(err))
}
