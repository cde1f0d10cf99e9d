package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.UTC)
	a, err := New("a", "  Buy milk ", created)
	require.NoError(t, err)
	a.Completed = true
	a.Touch(created.Add(time.Hour))

	b, err := New("b", "Call dentist", created.Add(2*time.Hour))
	require.NoError(t, err)

	data, err := Encode([]Task{b, a})
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []Task{b, a}, got)
	assert.Equal(t, "Buy milk", got[1].Text)
}

func TestEncodeWritesISOTimestamps(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	tk, err := New("1709285400000", "Water plants", created)
	require.NoError(t, err)

	data, err := Encode([]Task{tk})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1709285400000","text":"Water plants","completed":false,"createdAt":"2024-03-01T09:30:00.000Z","updatedAt":"2024-03-01T09:30:00.000Z"}]`, string(data))
}

func TestEncodeNilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecodeLegacyRecordWithoutUpdatedAt(t *testing.T) {
	got, err := Decode([]byte(`[{"id":"1700000000000","text":"Old","completed":true,"createdAt":"2023-11-14T22:13:20.000Z"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, got[0].CreatedAt, got[0].UpdatedAt)
	assert.True(t, got[0].Completed)
}

func TestDecodeCorruptPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":      `{{{`,
		"object":        `{"id":"x"}`,
		"missing id":    `[{"text":"x","createdAt":"2024-01-01T00:00:00.000Z"}]`,
		"blank text":    `[{"id":"1","text":"  ","createdAt":"2024-01-01T00:00:00.000Z"}]`,
		"bad timestamp": `[{"id":"1","text":"x","createdAt":"yesterday"}]`,
		"duplicate id":  `[{"id":"1","text":"x","createdAt":"2024-01-01T00:00:00.000Z"},{"id":"1","text":"y","createdAt":"2024-01-01T00:00:00.000Z"}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
		})
	}
}

func TestDecodeNullIsEmpty(t *testing.T) {
	got, err := Decode([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
