package progress_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/progress"
)

const today = "2024-01-01"

func TestDecodeDailyRecordRoundTrip(t *testing.T) {
	rec := progress.NewDailyRecord(today, challenge.Tiers())
	rec.Progress["Easy"] = &progress.Progress{
		Attempts:       []progress.Attempt{{Chapter: 80}, {Chapter: 99, Correct: true}},
		Solved:         true,
		Completed:      true,
		HintUsed:       true,
		UnlockedVerses: 2,
		LastPaneIndex:  1,
		StatsRecorded:  true,
	}
	rec.Progress["Medium"] = &progress.Progress{
		Attempts:       []progress.Attempt{},
		UnlockedVerses: 1,
		HintsExhausted: true,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	got, err := progress.DecodeDailyRecord(data, today, challenge.Tiers())
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecodeDailyRecordResetsOnNewDay(t *testing.T) {
	data := []byte(`{"date":"2023-12-31","progress":{"Easy":{"attempts":[{"chapter":80,"correct":true}],"solved":true,"completed":true,"hintUsed":false,"statsRecorded":true}}}`)

	got, err := progress.DecodeDailyRecord(data, today, challenge.Tiers())
	require.NoError(t, err)
	assert.Equal(t, today, got.Date)
	for _, tier := range challenge.Tiers() {
		assert.Equal(t, progress.Fresh(), got.Progress[tier.Name], tier.Name)
	}
}

func TestDecodeDailyRecordMalformed(t *testing.T) {
	for _, data := range []string{``, `{`, `[]`, `{"date":"2024-01-01","progress":[]}`} {
		got, err := progress.DecodeDailyRecord([]byte(data), today, challenge.Tiers())
		assert.ErrorIs(t, err, progress.ErrCorruptRecord, data)
		require.NotNil(t, got)
		assert.Equal(t, progress.NewDailyRecord(today, challenge.Tiers()), got)
	}
}

func TestDecodeDailyRecordUpgradesOptionalFields(t *testing.T) {
	// The record predates unlockedVerses and lastPaneIndex.
	data := []byte(`{"date":"2024-01-01","progress":{
		"Medium":{"attempts":[{"chapter":40,"correct":false}],"solved":false,"completed":false,"hintUsed":false,"statsRecorded":false}
	}}`)

	got, err := progress.DecodeDailyRecord(data, today, challenge.Tiers())
	require.NoError(t, err)

	m := got.Progress["Medium"]
	assert.Equal(t, 1, m.UnlockedVerses)
	assert.Equal(t, 0, m.LastPaneIndex)
	assert.Equal(t, []progress.Attempt{{Chapter: 40}}, m.Attempts)

	// Tiers absent from the record start fresh.
	assert.Equal(t, progress.Fresh(), got.Progress["Easy"])
	assert.Equal(t, progress.Fresh(), got.Progress["Hard"])
}

func TestDecodeDailyRecordResetsInvalidTiers(t *testing.T) {
	valid := `{"attempts":[],"solved":false,"completed":false,"hintUsed":false,"statsRecorded":false}`

	tests := []struct {
		name string
		tier string
		body string
	}{
		{"missing attempts", "Easy", `{"solved":false,"completed":false,"hintUsed":false,"statsRecorded":false}`},
		{"missing solved", "Easy", `{"attempts":[],"completed":false,"hintUsed":false,"statsRecorded":false}`},
		{"missing completed", "Easy", `{"attempts":[],"solved":false,"hintUsed":false,"statsRecorded":false}`},
		{"missing hintUsed", "Easy", `{"attempts":[],"solved":false,"completed":false,"statsRecorded":false}`},
		{"missing statsRecorded", "Easy", `{"attempts":[],"solved":false,"completed":false,"hintUsed":false}`},
		{"wrong type", "Easy", `{"attempts":"none","solved":false,"completed":false,"hintUsed":false,"statsRecorded":false}`},
		{"too many attempts", "Hard", `{"attempts":[{"chapter":1},{"chapter":2},{"chapter":3},{"chapter":4}],"solved":false,"completed":true,"hintUsed":false,"statsRecorded":false}`},
		{"solved without win", "Easy", `{"attempts":[{"chapter":80}],"solved":true,"completed":true,"hintUsed":false,"statsRecorded":false}`},
		{"exhausted but open", "Hard", `{"attempts":[{"chapter":1},{"chapter":2},{"chapter":3}],"solved":false,"completed":false,"hintUsed":false,"statsRecorded":false}`},
		{"too many verses", "Easy", `{"attempts":[],"solved":false,"completed":false,"hintUsed":true,"unlockedVerses":4,"statsRecorded":false}`},
		{"hint in hard", "Hard", `{"attempts":[],"solved":false,"completed":false,"hintUsed":true,"unlockedVerses":2,"statsRecorded":false}`},
		{"stats before end", "Medium", `{"attempts":[],"solved":false,"completed":false,"hintUsed":false,"statsRecorded":true}`},
		{"hints exhausted in hard", "Hard", `{"attempts":[],"solved":false,"completed":false,"hintUsed":false,"hintsExhausted":true,"statsRecorded":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := "Medium"
			if tt.tier == "Medium" {
				other = "Easy"
			}
			data := []byte(`{"date":"2024-01-01","progress":{"` + tt.tier + `":` + tt.body + `,"` + other + `":` + valid + `}}`)

			got, err := progress.DecodeDailyRecord(data, today, challenge.Tiers())
			assert.ErrorIs(t, err, progress.ErrCorruptRecord)
			assert.Equal(t, progress.Fresh(), got.Progress[tt.tier])
			assert.NotNil(t, got.Progress[other])
		})
	}
}

func TestDecodeDailyRecordClampsPaneIndex(t *testing.T) {
	data := []byte(`{"date":"2024-01-01","progress":{"Easy":{"attempts":[],"solved":false,"completed":false,"hintUsed":true,"unlockedVerses":2,"lastPaneIndex":5,"statsRecorded":false}}}`)

	got, err := progress.DecodeDailyRecord(data, today, challenge.Tiers())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress["Easy"].LastPaneIndex)
	assert.Equal(t, 2, got.Progress["Easy"].UnlockedVerses)
}

func TestDecodeDailyRecordIgnoresUnknownTiers(t *testing.T) {
	data := []byte(`{"date":"2024-01-01","progress":{"Expert":{"attempts":[]}}}`)

	got, err := progress.DecodeDailyRecord(data, today, challenge.Tiers())
	require.NoError(t, err)
	assert.Len(t, got.Progress, 3)
	assert.NotContains(t, got.Progress, "Expert")
}
