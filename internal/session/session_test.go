package session

import (
	"context"
	"testing"

	"github.com/bz888/medirag/internal/api"
	"github.com/bz888/medirag/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Query(ctx context.Context, req api.QueryRequest) (*api.QueryResponse, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*api.QueryResponse)
	return resp, args.Error(1)
}

// blockingQuerier holds every query until release is closed.
type blockingQuerier struct {
	started chan api.QueryRequest
	release chan struct{}
}

func newBlockingQuerier() *blockingQuerier {
	return &blockingQuerier{started: make(chan api.QueryRequest, 1), release: make(chan struct{})}
}

func (b *blockingQuerier) Query(ctx context.Context, req api.QueryRequest) (*api.QueryResponse, error) {
	b.started <- req
	<-b.release
	return &api.QueryResponse{Answer: "done", ModelUsed: string(req.Model)}, nil
}

func TestNewSessionIsIdle(t *testing.T) {
	s := New(new(MockQuerier), false)
	v := s.Snapshot()

	assert.Equal(t, Idle, v.Phase)
	assert.Equal(t, model.Ollama, v.Model)
	assert.False(t, v.Loading())
	assert.False(t, v.Failed())
	assert.Empty(t, v.Query)

	assert.Equal(t, model.Gemini, New(new(MockQuerier), true).Snapshot().Model)
}

func TestSubmitBlankIsNoop(t *testing.T) {
	q := new(MockQuerier)
	s := New(q, false)

	for _, text := range []string{"", "   ", "\n\t"} {
		assert.False(t, s.Submit(context.Background(), text))
	}

	assert.Equal(t, Idle, s.Snapshot().Phase)
	q.AssertNotCalled(t, "Query", mock.Anything)
}

func TestSubmitSuccess(t *testing.T) {
	q := new(MockQuerier)
	q.On("Query", api.QueryRequest{Question: "Can I take it with milk?", Model: model.Gemini}).
		Return(&api.QueryResponse{Answer: "Take with food.", ModelUsed: "gemini"}, nil)

	s := New(q, true)
	require.True(t, s.Submit(context.Background(), "  Can I take it with milk?  "))

	v := s.Snapshot()
	assert.Equal(t, Answered, v.Phase)
	assert.Equal(t, "Can I take it with milk?", v.Query)
	assert.Equal(t, "Take with food.", v.Response)
	assert.Equal(t, "gemini", v.ModelUsed)
	q.AssertExpectations(t)
}

func TestSubmitFailureKeepsSessionUsable(t *testing.T) {
	q := new(MockQuerier)
	q.On("Query", mock.Anything).
		Return(nil, &api.StatusError{StatusCode: 500, Detail: "backend down"}).Once()
	q.On("Query", mock.Anything).
		Return(&api.QueryResponse{Answer: "Recovered.", ModelUsed: "ollama"}, nil).Once()

	s := New(q, false)
	require.True(t, s.Submit(context.Background(), "first"))

	v := s.Snapshot()
	assert.Equal(t, Failed, v.Phase)
	assert.True(t, v.Failed())
	assert.Equal(t, "backend down", v.Response)
	assert.Empty(t, v.ModelUsed)

	require.True(t, s.Submit(context.Background(), "second"))
	v = s.Snapshot()
	assert.Equal(t, Answered, v.Phase)
	assert.Equal(t, "Recovered.", v.Response)
	q.AssertNumberOfCalls(t, "Query", 2)
}

func TestSubmitTransportFailure(t *testing.T) {
	q := new(MockQuerier)
	q.On("Query", mock.Anything).Return(nil, &api.TransportError{Op: "send request", Err: context.DeadlineExceeded})

	s := New(q, false)
	s.Submit(context.Background(), "anyone there?")

	v := s.Snapshot()
	assert.Equal(t, Failed, v.Phase)
	assert.Equal(t, "Could not reach the MediRAG API. Make sure the server is running.", v.Response)
}

func TestWhileLoadingSubmitAndToggleAreBlocked(t *testing.T) {
	bq := newBlockingQuerier()
	s := New(bq, false)

	done := make(chan bool)
	go func() {
		done <- s.Submit(context.Background(), "first question")
	}()
	<-bq.started

	v := s.Snapshot()
	assert.True(t, v.Loading())
	assert.False(t, v.Failed())
	assert.Equal(t, "first question", v.Query)
	assert.Empty(t, v.Response)

	_, ok := s.Begin("second question")
	assert.False(t, ok)
	assert.ErrorIs(t, s.SelectModel(model.Gemini), ErrBusy)
	assert.ErrorIs(t, s.CycleModel(), ErrBusy)
	assert.ErrorIs(t, s.Reset(), ErrBusy)

	close(bq.release)
	assert.True(t, <-done)

	v = s.Snapshot()
	assert.Equal(t, Answered, v.Phase)
	assert.Equal(t, "first question", v.Query)
	assert.Equal(t, model.Ollama, v.Model)
}

func TestBeginClearsPreviousOutcome(t *testing.T) {
	s := New(new(MockQuerier), false)

	_, ok := s.Begin("one")
	require.True(t, ok)
	s.Complete(&api.QueryResponse{Answer: "a", ModelUsed: "ollama"}, nil)

	req, ok := s.Begin("two")
	require.True(t, ok)
	assert.Equal(t, api.QueryRequest{Question: "two", Model: model.Ollama}, req)

	v := s.Snapshot()
	assert.Equal(t, Loading, v.Phase)
	assert.Empty(t, v.Response)
	assert.Empty(t, v.ModelUsed)
}

func TestCompleteOutsideLoadingIsIgnored(t *testing.T) {
	s := New(new(MockQuerier), false)
	s.Complete(&api.QueryResponse{Answer: "stray"}, nil)

	assert.Equal(t, Idle, s.Snapshot().Phase)
	assert.Empty(t, s.Snapshot().Response)
}

func TestCompleteWithNothingIsAFailure(t *testing.T) {
	s := New(new(MockQuerier), false)
	_, ok := s.Begin("q")
	require.True(t, ok)

	s.Complete(nil, nil)
	v := s.Snapshot()
	assert.Equal(t, Failed, v.Phase)
	assert.Equal(t, "An unexpected error occurred.", v.Response)
}

func TestSelectModel(t *testing.T) {
	q := new(MockQuerier)
	s := New(q, false)

	require.NoError(t, s.SelectModel(model.Gemini))
	assert.Equal(t, model.Gemini, s.Snapshot().Model)
	assert.Equal(t, Idle, s.Snapshot().Phase)

	require.NoError(t, s.CycleModel())
	assert.Equal(t, model.Ollama, s.Snapshot().Model)

	assert.ErrorIs(t, s.SelectModel(model.Model("mistral")), model.ErrUnknownModel)
	q.AssertNotCalled(t, "Query", mock.Anything)
}

func TestSelectModelProduction(t *testing.T) {
	s := New(new(MockQuerier), true)

	assert.ErrorIs(t, s.SelectModel(model.Ollama), ErrUnavailable)
	assert.NoError(t, s.CycleModel())
	assert.Equal(t, model.Gemini, s.Snapshot().Model)

	options := s.Snapshot().Options
	require.Len(t, options, 2)
	assert.False(t, options[0].Available)
	assert.True(t, options[1].Selected)
}

func TestReset(t *testing.T) {
	q := new(MockQuerier)
	q.On("Query", mock.Anything).Return(&api.QueryResponse{Answer: "a", ModelUsed: "gemini"}, nil)
	s := New(q, false)
	require.NoError(t, s.SelectModel(model.Gemini))
	s.Submit(context.Background(), "q")

	require.NoError(t, s.Reset())
	v := s.Snapshot()
	assert.Equal(t, Idle, v.Phase)
	assert.Empty(t, v.Query)
	assert.Equal(t, model.Gemini, v.Model)
}
