package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/orb"
)

type fixedRNG struct{ val int }

func (r fixedRNG) Intn(n int) int { return r.val % n }

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ask", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question string `json:"question"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "a-1", "question": req.Question, "answer": "그래.", "createdAt": created,
		})
	})
	mux.HandleFunc("GET /api/daily-fortune", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fortune":"별이 길을 비춥니다"}`))
	})
	mux.HandleFunc("GET /api/answers", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") == "nobody" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "a-2", "question": "둘째\n질문", "answer": "아니.", "createdAt": created.Add(time.Second), "userId": nil},
			{"id": "a-1", "question": "첫째", "answer": "그래.", "createdAt": created, "userId": nil},
		})
	})
	mux.HandleFunc("GET /api/answers/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "a-1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"답변을 찾을 수 없습니다"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "a-1", "question": "첫째", "answer": "그래.", "createdAt": created, "userId": nil,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, tty bool, server string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := &cli{
		out:   &out,
		isTTY: func() bool { return tty },
		seq:   orb.DefaultSequence.Scaled(0.001),
		rng:   fixedRNG{val: 0},
	}
	root := newRootCmd(c)
	root.SetArgs(append([]string{"--server", server}, args...))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAsk_Plain(t *testing.T) {
	srv := fakeServer(t)

	out, err := execute(t, false, srv.URL, "ask", "내일", "비가", "올까요?")
	require.NoError(t, err)
	assert.Equal(t, "그래.\n", out)
}

func TestAsk_TerminalPlaysSequenceBeforeAnswer(t *testing.T) {
	srv := fakeServer(t)

	out, err := execute(t, true, srv.URL, "ask", "내일 비가 올까요?")
	require.NoError(t, err)

	explosion := strings.Index(out, phaseLabels[orb.Explosion])
	answer := strings.Index(out, "그래.")
	require.GreaterOrEqual(t, explosion, 0)
	require.GreaterOrEqual(t, answer, 0)
	assert.Less(t, strings.Index(out, phaseLabels[orb.Shake]), explosion)
	assert.Less(t, explosion, answer, "answer printed after the last phase")
	assert.Contains(t, out, "솜라고동의 답변")
}

func TestAsk_BlankQuestionRejectedLocally(t *testing.T) {
	// No server: validation must fail before any request.
	_, err := execute(t, false, "http://127.0.0.1:1", "ask", "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.MsgQuestionRequired, err.Error())
}

func TestFortune(t *testing.T) {
	srv := fakeServer(t)

	out, err := execute(t, false, srv.URL, "fortune")
	require.NoError(t, err)
	assert.Equal(t, "별이 길을 비춥니다\n", out)
}

func TestInstant(t *testing.T) {
	out, err := execute(t, false, "http://127.0.0.1:1", "instant")
	require.NoError(t, err)
	assert.Equal(t, "오늘의 사랑에 밝은 에너지가 감싸고 있어요\n", out)
}

func TestHistory(t *testing.T) {
	srv := fakeServer(t)

	out, err := execute(t, false, srv.URL, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "a-2")
	assert.Contains(t, lines[0], "둘째 질문")
	assert.Contains(t, lines[1], "a-1")

	out, err = execute(t, false, srv.URL, "history", "--user", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "아직 저장된 답변이 없습니다")
}

func TestHistory_Table(t *testing.T) {
	srv := fakeServer(t)

	out, err := execute(t, true, srv.URL, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "질문")
	assert.Contains(t, out, "a-2")
}

func TestShow(t *testing.T) {
	srv := fakeServer(t)

	out, err := execute(t, false, srv.URL, "show", "a-1")
	require.NoError(t, err)
	assert.Contains(t, out, "첫째\n그래.\n")

	_, err = execute(t, false, srv.URL, "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "답변을 찾을 수 없습니다")
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine(" a\n b\tc "))
	long := strings.Repeat("가", 50)
	got := []rune(oneLine(long))
	assert.Len(t, got, 40)
	assert.Equal(t, '…', got[39])
}
