package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/browser-agent/agent"
	"github.com/BaSui01/browser-agent/api"
	"github.com/BaSui01/browser-agent/types"
)

// spyExecutor records what was executed and returns a canned outcome.
type spyExecutor struct {
	calls   *int
	prompt  *string
	opts    *agent.Options
	result  string
	execErr error
}

func (s *spyExecutor) Execute(ctx context.Context, prompt string, opts agent.Options) (string, error) {
	*s.calls++
	*s.prompt = prompt
	*s.opts = opts
	return s.result, s.execErr
}

type spyFactory struct {
	calls  int
	prompt string
	opts   agent.Options

	result  string
	execErr error
}

func (s *spyFactory) factory() agent.Factory {
	return func(opts agent.Options) agent.Executor {
		return &spyExecutor{
			calls:   &s.calls,
			prompt:  &s.prompt,
			opts:    &s.opts,
			result:  s.result,
			execErr: s.execErr,
		}
	}
}

func postTask(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeTaskResponse(t *testing.T, rec *httptest.ResponseRecorder) api.TaskResponse {
	t.Helper()
	var resp api.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleBrowse_Success(t *testing.T) {
	spy := &spyFactory{result: "homepage lists three products"}
	h := NewTaskHandler(spy.factory(), nil, zap.NewNop())

	rec := postTask(t, h.HandleBrowse, `{"task":"describe the homepage"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeTaskResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "homepage lists three products", resp.Result)
	assert.Empty(t, resp.Error)
	assert.Equal(t, agent.TaskID(agent.PrefixBrowse, "describe the homepage"), resp.TaskID)

	assert.Equal(t, 1, spy.calls)
	assert.Equal(t, "describe the homepage", spy.prompt, "browse forwards the task text untouched")
	assert.True(t, spy.opts.Headless)
	assert.Equal(t, 10, spy.opts.MaxTurns)
}

func TestHandleBrowse_ExecutorFailureIsStill200(t *testing.T) {
	spy := &spyFactory{execErr: types.NewError(types.ErrRuntimeUnavailable, "browser runtime unreachable")}
	h := NewTaskHandler(spy.factory(), nil, zap.NewNop())

	rec := postTask(t, h.HandleBrowse, `{"task":"describe the homepage"}`)

	require.Equal(t, http.StatusOK, rec.Code, "runtime failures are reported in the envelope, not the status")
	resp := decodeTaskResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Result)
	assert.Contains(t, resp.Error, "browser runtime unreachable")
	assert.Equal(t, agent.TaskID(agent.PrefixBrowse, "describe the homepage"), resp.TaskID,
		"failure keeps the same task id as success")
}

func TestHandleBrowse_ValidationNeverReachesRuntime(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing task", `{}`},
		{"empty task", `{"task":""}`},
		{"negative max_turns", `{"task":"t","max_turns":-1}`},
		{"malformed JSON", `{"task":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyFactory{}
			h := NewTaskHandler(spy.factory(), nil, zap.NewNop())

			rec := postTask(t, h.HandleBrowse, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, spy.calls, "validation failures must not invoke the runtime")
		})
	}
}

func TestHandleScrollApp(t *testing.T) {
	spy := &spyFactory{result: "explored 4 pages"}
	h := NewTaskHandler(spy.factory(), nil, zap.NewNop())

	rec := postTask(t, h.HandleScrollApp,
		`{"task":"explore everything","app_url":"https://example.com","headless":false,"max_turns":20}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeTaskResponse(t, rec)
	assert.True(t, resp.Success)
	// Scroll ids derive from the app URL, not the task text.
	assert.Equal(t, agent.TaskID(agent.PrefixScroll, "https://example.com"), resp.TaskID)

	assert.Contains(t, spy.prompt, "Navigate to https://example.com and perform a comprehensive exploration")
	assert.False(t, spy.opts.Headless)
	assert.Equal(t, 20, spy.opts.MaxTurns)
}

func TestHandleScrollApp_MissingAppURL(t *testing.T) {
	spy := &spyFactory{}
	h := NewTaskHandler(spy.factory(), nil, zap.NewNop())

	rec := postTask(t, h.HandleScrollApp, `{"task":"explore everything"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "app_url is required for scrolling")
	assert.Zero(t, spy.calls)
}

func TestHandleSearchDocument(t *testing.T) {
	spy := &spyFactory{result: "Found pricing page at /pricing"}
	h := NewTaskHandler(spy.factory(), nil, zap.NewNop())

	rec := postTask(t, h.HandleSearchDocument,
		`{"task":"pricing","app_url":"https://example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeTaskResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Found pricing page at /pricing", resp.Result)
	assert.Equal(t, fmt.Sprintf("search_%d", xxhash.Sum64String("pricing")), resp.TaskID,
		"search ids derive from the query text")

	assert.Contains(t, spy.prompt, `search for the following: "pricing"`)
	assert.Contains(t, spy.prompt, "Focus on finding comprehensive information related to: pricing")
}

func TestHandleSearchDocument_MissingAppURL(t *testing.T) {
	spy := &spyFactory{}
	h := NewTaskHandler(spy.factory(), nil, zap.NewNop())

	rec := postTask(t, h.HandleSearchDocument, `{"task":"pricing"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "app_url is required for document search")
	assert.Zero(t, spy.calls)
}

func TestRunTask_SameIDOnBothOutcomes(t *testing.T) {
	body := `{"task":"pricing","app_url":"https://example.com"}`

	okSpy := &spyFactory{result: "found it"}
	okRec := postTask(t, NewTaskHandler(okSpy.factory(), nil, zap.NewNop()).HandleSearchDocument, body)

	failSpy := &spyFactory{execErr: errors.New("boom")}
	failRec := postTask(t, NewTaskHandler(failSpy.factory(), nil, zap.NewNop()).HandleSearchDocument, body)

	okResp := decodeTaskResponse(t, okRec)
	failResp := decodeTaskResponse(t, failRec)
	assert.Equal(t, okResp.TaskID, failResp.TaskID)
}

func TestRunTask_ZeroMaxTurnsGetsDefault(t *testing.T) {
	spy := &spyFactory{result: "ok"}
	h := NewTaskHandler(spy.factory(), nil, zap.NewNop())

	postTask(t, h.HandleBrowse, `{"task":"t","max_turns":0}`)

	assert.Equal(t, 10, spy.opts.MaxTurns)
}
