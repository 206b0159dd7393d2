package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitpad/domain/core"
	"digitpad/domain/prediction"
	"digitpad/domain/sketch"
	"digitpad/internal"
	"digitpad/internal/session"
)

type predictorFunc func(ctx context.Context, image io.Reader) (prediction.Result, error)

func (f predictorFunc) Predict(ctx context.Context, image io.Reader) (prediction.Result, error) {
	return f(ctx, image)
}

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	return NewSessionManager(session.NewMemoryStore[*Session](), SessionConfig{
		Width:  64,
		Height: 64,
		TTL:    time.Minute,
	}, quietLogger())
}

func TestSessionManagerLifecycle(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Create()
	require.NoError(t, err)
	assert.True(t, s.IsBlank())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Remove(s.ID))
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.ErrorIs(t, m.Remove(s.ID), core.ErrSessionNotFound)
}

func TestSessionManagerSweep(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Create()
	require.NoError(t, err)

	assert.Equal(t, 0, m.Sweep())

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 0, m.Len())
}

func TestSessionManagerRunClampsInterval(t *testing.T) {
	m := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 0) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestApplyResultReturnsRowsOfThatResult(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create()
	require.NoError(t, err)

	stale := s.seq.Next()
	latest := s.seq.Next()

	rows, applied, err := s.applyResult(stale, prediction.Result{0.5, 0.5})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, rows)

	rows, applied, err = s.applyResult(latest, prediction.Result{0.2, 0.3, 0.5})
	require.NoError(t, err)
	assert.True(t, applied)
	require.Len(t, rows, 3)
	assert.Equal(t, "0.5", string(rows[2].Value))

	// later changes to the table do not leak into the returned rows
	_, _, err = s.applyResult(s.seq.Next(), prediction.Result{1})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSessionDrawAndClear(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create()
	require.NoError(t, err)

	n, err := s.Apply([]sketch.Event{
		{Type: sketch.EventStart},
		{Type: sketch.EventMove, X: 10, Y: 10},
		{Type: sketch.EventMove, X: 40, Y: 40},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, s.Dragging())
	assert.False(t, s.IsBlank())

	s.Clear()
	assert.True(t, s.IsBlank())
}

func TestPredictRendersTable(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create()
	require.NoError(t, err)

	var uploaded int
	svc := NewPredictorService(predictorFunc(func(ctx context.Context, image io.Reader) (prediction.Result, error) {
		data, _ := io.ReadAll(image)
		uploaded = len(data)
		return prediction.Result{0.05, 0.95}, nil
	}), quietLogger())

	out, err := svc.Predict(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, out.Applied)
	assert.Equal(t, uint64(1), out.Seq)
	assert.NotZero(t, uploaded, "blank drawings are still uploaded as PNG")
	assert.Equal(t, []prediction.Row{
		{Index: "0", Value: "0.05"},
		{Index: "1", Value: "0.95"},
	}, s.Rows())
}

func TestPredictFailureKeepsRows(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create()
	require.NoError(t, err)

	calls := 0
	boom := errors.New("connection refused")
	svc := NewPredictorService(predictorFunc(func(ctx context.Context, image io.Reader) (prediction.Result, error) {
		calls++
		if calls == 1 {
			return prediction.Result{0.1, 0.9}, nil
		}
		return nil, boom
	}), quietLogger())

	_, err = svc.Predict(context.Background(), s)
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), s)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.Rows(), 2)
}

func TestPredictDiscardsStaleResponse(t *testing.T) {
	m := newTestManager(t)
	s, err := m.Create()
	require.NoError(t, err)

	var calls int32
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	svc := NewPredictorService(predictorFunc(func(ctx context.Context, image io.Reader) (prediction.Result, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(firstEntered)
			<-releaseFirst
			return prediction.Result{0.1, 0.9}, nil
		}
		return prediction.Result{0.2, 0.3, 0.5}, nil
	}), quietLogger())

	var wg sync.WaitGroup
	var slow *Outcome
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow, slowErr = svc.Predict(context.Background(), s)
	}()
	<-firstEntered

	// drawing still works while a request is in flight
	_, err = s.Apply([]sketch.Event{{Type: sketch.EventStart}, {Type: sketch.EventMove, X: 1, Y: 1}})
	require.NoError(t, err)

	fast, err := svc.Predict(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, fast.Applied)

	close(releaseFirst)
	wg.Wait()
	require.NoError(t, slowErr)

	assert.False(t, slow.Applied)
	assert.Less(t, slow.Seq, fast.Seq)
	assert.Len(t, s.Rows(), 3, "stale response must not overwrite the newer table")
}

func TestPredictBatch(t *testing.T) {
	var inFlight, peak int32
	svc := NewPredictorService(predictorFunc(func(ctx context.Context, image io.Reader) (prediction.Result, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		data, _ := io.ReadAll(image)
		if string(data) == "bad" {
			return nil, errors.New("unreadable image")
		}
		return prediction.Result{0.25, 0.75}, nil
	}), quietLogger())

	inputs := []BatchInput{
		{Name: "a", Image: []byte("ok")},
		{Name: "b", Image: []byte("bad")},
		{Name: "c", Image: []byte("ok")},
		{Name: "d", Image: []byte("ok")},
	}
	outcomes, err := svc.PredictBatch(context.Background(), inputs, 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	for i, out := range outcomes {
		assert.Equal(t, inputs[i].Name, out.Name)
	}
	assert.Error(t, outcomes[1].Err)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, 2, outcomes[3].Table.Len())
}
