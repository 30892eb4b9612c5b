package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/glucosim/internal/loop"
)

func testResult() *loop.Result {
	return &loop.Result{
		Records: []loop.StepRecord{
			{Time: "0", CGM: 120, Basal: 0.05},
			{Time: "1", CGM: 118, Meal: 30, Basal: 0.05, Bolus: 1},
		},
		Summary: loop.Summary{Mean: 119, Min: 118, Max: 120},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	runID, err := s.Save("adolescent#003", "safety", 1, testResult())
	require.NoError(t, err)
	assert.Contains(t, runID, "adolescent-003_")

	meta, err := s.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "adolescent#003", meta.Subject)
	assert.Equal(t, "safety", meta.Controller)
	assert.Equal(t, 2, meta.Steps)
	assert.Equal(t, 119.0, meta.MeanCGM)

	recs, err := s.LoadRecords(runID)
	require.NoError(t, err)
	assert.Equal(t, testResult().Records, recs)
}

func TestStoreList(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	_, err := s.Save("a#1", "safety", 1, testResult())
	require.NoError(t, err)
	_, err = s.Save("b#2", "pid", 2, testResult())
	require.NoError(t, err)

	runs, err := s.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStoreListMissingDir(t *testing.T) {
	s := New(t.TempDir() + "/missing")
	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreIDsUnique(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	a, err := s.Save("x#1", "safety", 1, testResult())
	require.NoError(t, err)
	b, err := s.Save("x#1", "safety", 1, testResult())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
