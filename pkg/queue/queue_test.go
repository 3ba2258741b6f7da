package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueSheetAppendPushesToSheetsQueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	q := NewQueue(db, nil)
	leadID := uuid.New()

	mock.CustomMatch(func(expected, actual []interface{}) error {
		if len(actual) != 3 {
			return fmt.Errorf("want 3 args, got %d", len(actual))
		}
		if actual[1] != QueueSheets {
			return fmt.Errorf("pushed to %v, want %s", actual[1], QueueSheets)
		}
		raw, ok := actual[2].(string)
		if !ok {
			if b, isBytes := actual[2].([]byte); isBytes {
				raw = string(b)
			} else {
				return fmt.Errorf("unexpected value type %T", actual[2])
			}
		}
		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return err
		}
		if job.Type != JobTypeSheetAppend || job.Attempt != 0 || job.ID == "" {
			return fmt.Errorf("bad job envelope: %+v", job)
		}
		var payload SheetAppendPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		if payload.FormType != "workshop" || payload.LeadID != leadID {
			return fmt.Errorf("bad payload: %+v", payload)
		}
		return nil
	}).ExpectRPush(QueueSheets, "job").SetVal(1)

	err := q.EnqueueSheetAppend(context.Background(), SheetAppendPayload{
		FormType: "workshop",
		LeadID:   leadID,
		Row:      map[string]string{"email": "a@x.com"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDequeueReturnsJobAndSource(t *testing.T) {
	db, mock := redismock.NewClientMock()
	q := NewQueue(db, nil)

	job := Job{
		ID:        "j1",
		Type:      JobTypeEmail,
		Payload:   json.RawMessage(`{"recipient":"a@x.com"}`),
		CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(job)
	require.NoError(t, err)
	mock.ExpectBLPop(0, QueueSheets, QueueEmails).SetVal([]string{QueueEmails, string(raw)})

	got, source, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "j1", got.ID)
	assert.Equal(t, JobTypeEmail, got.Type)
	assert.Equal(t, QueueEmails, source)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDequeueSkipsMalformedJob(t *testing.T) {
	db, mock := redismock.NewClientMock()
	q := NewQueue(db, nil)

	mock.ExpectBLPop(0, QueueSheets, QueueEmails).SetVal([]string{QueueSheets, "not json"})

	got, _, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRetryReenqueuesWithIncrementedAttempt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	q := NewQueue(db, nil)

	job := &Job{
		ID:        "j2",
		Type:      JobTypeSheetAppend,
		Payload:   json.RawMessage(`{}`),
		Attempt:   0,
		CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	retried := *job
	retried.Attempt = 1
	raw, err := json.Marshal(&retried)
	require.NoError(t, err)
	mock.ExpectRPush(QueueSheets, raw).SetVal(1)

	require.NoError(t, q.Retry(context.Background(), job))
	assert.Equal(t, 1, job.Attempt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryMovesExhaustedJobToDLQ(t *testing.T) {
	db, mock := redismock.NewClientMock()
	q := NewQueue(db, nil)

	job := &Job{
		ID:        "j3",
		Type:      JobTypeEmail,
		Payload:   json.RawMessage(`{}`),
		Attempt:   MaxRetries - 1,
		CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	dead := *job
	dead.Attempt = MaxRetries
	raw, err := json.Marshal(&dead)
	require.NoError(t, err)
	mock.ExpectRPush(QueueDLQ, raw).SetVal(1)

	require.NoError(t, q.Retry(context.Background(), job))
	require.NoError(t, mock.ExpectationsWereMet())
}
