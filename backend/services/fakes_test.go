package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"quizserver/backend/models"
	"quizserver/backend/repository"
)

// memDB backs the in-memory stores. Each store type is a view over it, so cross-entity
// reads (a test's questions) behave like the GORM preload.
type memDB struct {
	mu        sync.Mutex
	nextID    uint
	tests     map[uint]*models.Test
	questions map[uint]*models.Question
	results   []models.TestResult
	users     map[uint]*models.User

	createErr error // returned once by the next test Create
	saves     int
}

func newMemDB() *memDB {
	return &memDB{
		tests:     map[uint]*models.Test{},
		questions: map[uint]*models.Question{},
		users:     map[uint]*models.User{},
	}
}

func (m *memDB) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memDB) testsStore() *fakeTestStore         { return &fakeTestStore{m} }
func (m *memDB) questionsStore() *fakeQuestionStore { return &fakeQuestionStore{m} }
func (m *memDB) resultsStore() *fakeResultStore     { return &fakeResultStore{m} }
func (m *memDB) usersStore() *fakeUserStore         { return &fakeUserStore{m} }

func (m *memDB) addUser(name string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{Name: name, Email: name + "@example.com", Role: models.RoleUser}
	u.ID = m.id()
	m.users[u.ID] = u
	return u
}

func (m *memDB) resultCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

type fakeTestStore struct{ m *memDB }

func (s *fakeTestStore) Create(_ context.Context, test *models.Test) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.createErr; err != nil {
		s.m.createErr = nil
		return err
	}
	if code := test.Code(); code != "" {
		for _, t := range s.m.tests {
			if t.Code() == code {
				return repository.ErrDuplicateKey
			}
		}
	}
	test.ID = s.m.id()
	stored := *test
	stored.Questions = nil
	s.m.tests[test.ID] = &stored
	return nil
}

func (s *fakeTestStore) load(t *models.Test) *models.Test {
	out := *t
	out.Questions = nil
	for _, q := range s.m.questions {
		if q.TestID == t.ID {
			out.Questions = append(out.Questions, *q)
		}
	}
	sort.Slice(out.Questions, func(i, j int) bool { return out.Questions[i].ID < out.Questions[j].ID })
	return &out
}

func (s *fakeTestStore) FindByID(_ context.Context, id uint) (*models.Test, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.load(t), nil
}

func (s *fakeTestStore) FindByCode(_ context.Context, code string) (*models.Test, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, t := range s.m.tests {
		if t.Code() == code {
			return s.load(t), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeTestStore) CodeExists(_ context.Context, code string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, t := range s.m.tests {
		if t.Code() == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeTestStore) List(_ context.Context) ([]models.Test, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.Test, 0, len(s.m.tests))
	for _, t := range s.m.tests {
		out = append(out, *s.load(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeTestStore) Save(_ context.Context, test *models.Test) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	stored, ok := s.m.tests[test.ID]
	if !ok {
		return repository.ErrNotFound
	}
	s.m.saves++
	stored.Title = test.Title
	stored.Description = test.Description
	stored.Time = test.Time
	stored.Status = test.Status
	stored.TestCode = test.TestCode
	return nil
}

type fakeQuestionStore struct{ m *memDB }

func (s *fakeQuestionStore) Create(_ context.Context, q *models.Question) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tests[q.TestID]; !ok {
		return repository.ErrMissingParent
	}
	q.ID = s.m.id()
	stored := *q
	s.m.questions[q.ID] = &stored
	return nil
}

func (s *fakeQuestionStore) FindByID(_ context.Context, id uint) (*models.Question, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	q, ok := s.m.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *q
	return &out, nil
}

func (s *fakeQuestionStore) ListByTest(_ context.Context, testID uint) ([]models.Question, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.Question{}
	for _, q := range s.m.questions {
		if q.TestID == testID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeResultStore struct{ m *memDB }

func (s *fakeResultStore) Create(_ context.Context, r *models.TestResult) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r.ID = s.m.id()
	s.m.results = append(s.m.results, *r)
	return nil
}

func (s *fakeResultStore) filter(keep func(models.TestResult) bool) []models.TestResult {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.TestResult{}
	for _, r := range s.m.results {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *fakeResultStore) List(_ context.Context) ([]models.TestResult, error) {
	return s.filter(func(models.TestResult) bool { return true }), nil
}

func (s *fakeResultStore) ListByUser(_ context.Context, userID uint) ([]models.TestResult, error) {
	return s.filter(func(r models.TestResult) bool { return r.UserID == userID }), nil
}

func (s *fakeResultStore) ListByTest(_ context.Context, testID uint) ([]models.TestResult, error) {
	return s.filter(func(r models.TestResult) bool { return r.TestID == testID }), nil
}

type fakeUserStore struct{ m *memDB }

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u.ID = s.m.id()
	stored := *u
	s.m.users[u.ID] = &stored
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id uint) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *fakeUserStore) FindByName(_ context.Context, name string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Name == name {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fixedCodes is a CodeChecker that reports the listed codes as taken.
type fixedCodes map[string]bool

func (f fixedCodes) CodeExists(_ context.Context, code string) (bool, error) {
	return f[code], nil
}

// sequenceReader replays the given bytes forever.
type sequenceReader struct {
	data []byte
	pos  int
}

func (r *sequenceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.data[r.pos%len(r.data)]
		r.pos++
	}
	return len(p), nil
}

// recordingBoard is an in-memory ScoreBoard. A test's board is complete once filled.
type recordingBoard struct {
	mu          sync.Mutex
	scores      map[uint]map[uint]repository.LeaderboardScore
	complete    map[uint]bool
	records     int
	fills       int
	failing     bool
	failRecords bool
}

func newRecordingBoard() *recordingBoard {
	return &recordingBoard{
		scores:   map[uint]map[uint]repository.LeaderboardScore{},
		complete: map[uint]bool{},
	}
}

var errBoardDown = errors.New("board unavailable")

func (b *recordingBoard) merge(testID uint, score repository.LeaderboardScore) {
	if b.scores[testID] == nil {
		b.scores[testID] = map[uint]repository.LeaderboardScore{}
	}
	if current, ok := b.scores[testID][score.UserID]; !ok || score.Percentage > current.Percentage {
		b.scores[testID][score.UserID] = score
	}
}

func (b *recordingBoard) Record(_ context.Context, testID uint, score repository.LeaderboardScore) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing || b.failRecords {
		return errBoardDown
	}
	b.records++
	b.merge(testID, score)
	return nil
}

func (b *recordingBoard) Fill(_ context.Context, testID uint, scores []repository.LeaderboardScore) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return errBoardDown
	}
	b.fills++
	for _, score := range scores {
		b.merge(testID, score)
	}
	b.complete[testID] = true
	return nil
}

func (b *recordingBoard) Invalidate(_ context.Context, testID uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return errBoardDown
	}
	delete(b.scores, testID)
	delete(b.complete, testID)
	return nil
}

func (b *recordingBoard) Top(_ context.Context, testID uint, limit int64) ([]repository.LeaderboardScore, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return nil, false, errBoardDown
	}
	if !b.complete[testID] {
		return nil, false, nil
	}
	out := []repository.LeaderboardScore{}
	for _, score := range b.scores[testID] {
		out = append(out, score)
	}
	sortScores(out)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, true, nil
}
