package main

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gradguide/backend/internal/domain/lawmatch"
	"github.com/gradguide/backend/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubmitter struct {
	seen   map[string]bool
	failOn int
	calls  int
	inputs []client.SubmissionInput
}

func (f *fakeSubmitter) SubmitExperience(_ context.Context, in client.SubmissionInput) (*client.Submission, bool, error) {
	f.calls++
	f.inputs = append(f.inputs, in)
	if f.calls == f.failOn {
		return nil, false, &client.FetchFailedError{Op: "SubmitExperience", StatusCode: 502, Message: "down"}
	}
	if f.seen[in.IdempotencyKey] {
		return &client.Submission{ID: 1}, true, nil
	}
	f.seen[in.IdempotencyKey] = true
	return &client.Submission{ID: int64(f.calls), Company: in.Company}, false, nil
}

func TestFakeReport(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 50; i++ {
		in := fakeReport(f)
		require.NotEmpty(t, in.Company)
		require.NotEmpty(t, in.Role)
		require.NotNil(t, in.Theme)
		require.NotNil(t, in.SalaryBenefits)
		assert.NotEmpty(t, in.IdempotencyKey)
		if *in.Theme == "law" {
			assert.Contains(t, lawmatch.Firms, in.Company)
		}
	}
}

func TestFakeReport_Deterministic(t *testing.T) {
	a := fakeReport(gofakeit.New(7))
	b := fakeReport(gofakeit.New(7))
	assert.Equal(t, a, b)
}

func TestRun(t *testing.T) {
	s := &fakeSubmitter{seen: map[string]bool{}, failOn: 3}
	created, replayed, failed := run(context.Background(), s, gofakeit.New(1), 5, zap.NewNop())

	assert.Equal(t, 5, s.calls)
	assert.Equal(t, 4, created)
	assert.Equal(t, 0, replayed)
	assert.Equal(t, 1, failed)
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &fakeSubmitter{seen: map[string]bool{}}
	created, _, _ := run(ctx, s, gofakeit.New(1), 5, zap.NewNop())
	assert.Zero(t, created)
	assert.Zero(t, s.calls)
}

func TestRun_CountsFetchFailures(t *testing.T) {
	s := &fakeSubmitter{seen: map[string]bool{}, failOn: 1}
	_, _, failed := run(context.Background(), s, gofakeit.New(1), 1, zap.NewNop())
	assert.Equal(t, 1, failed)
	assert.True(t, errors.Is(&client.FetchFailedError{}, client.ErrFetchFailed))
}
