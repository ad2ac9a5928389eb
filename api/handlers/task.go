package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/browser-agent/agent"
	"github.com/BaSui01/browser-agent/api"
	"github.com/BaSui01/browser-agent/internal/metrics"
	"github.com/BaSui01/browser-agent/types"
)

// taskRoute describes one browsing endpoint: how to validate its
// request, which field seeds the task id, and how to build the prompt.
type taskRoute struct {
	name          string
	idPrefix      string
	needsAppURL   bool
	appURLMissing string
	idInput       func(*api.TaskRequest) string
	buildPrompt   func(*api.TaskRequest) string
}

var (
	browseRoute = taskRoute{
		name:     "browse",
		idPrefix: agent.PrefixBrowse,
		idInput:  func(r *api.TaskRequest) string { return r.Task },
		buildPrompt: func(r *api.TaskRequest) string {
			return agent.BrowsePrompt(r.Task)
		},
	}

	scrollRoute = taskRoute{
		name:          "scroll",
		idPrefix:      agent.PrefixScroll,
		needsAppURL:   true,
		appURLMissing: "app_url is required for scrolling",
		idInput:       func(r *api.TaskRequest) string { return r.AppURL },
		buildPrompt: func(r *api.TaskRequest) string {
			return agent.ScrollPrompt(r.AppURL)
		},
	}

	searchRoute = taskRoute{
		name:          "search",
		idPrefix:      agent.PrefixSearch,
		needsAppURL:   true,
		appURLMissing: "app_url is required for document search",
		idInput:       func(r *api.TaskRequest) string { return r.Task },
		buildPrompt: func(r *api.TaskRequest) string {
			return agent.SearchPrompt(r.AppURL, r.Task)
		},
	}
)

// TaskHandler serves the three browsing routes on top of a per-request
// executor factory.
type TaskHandler struct {
	factory   agent.Factory
	logger    *zap.Logger
	collector *metrics.Collector
}

// NewTaskHandler builds the handler. The collector may be nil.
func NewTaskHandler(factory agent.Factory, collector *metrics.Collector, logger *zap.Logger) *TaskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskHandler{factory: factory, logger: logger, collector: collector}
}

// HandleBrowse forwards a free-form task to the browser runtime.
func (h *TaskHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	h.runTask(w, r, browseRoute)
}

// HandleScrollApp explores an application URL systematically.
func (h *TaskHandler) HandleScrollApp(w http.ResponseWriter, r *http.Request) {
	h.runTask(w, r, scrollRoute)
}

// HandleSearchDocument searches an application URL for the given task.
func (h *TaskHandler) HandleSearchDocument(w http.ResponseWriter, r *http.Request) {
	h.runTask(w, r, searchRoute)
}

// runTask is the single boundary between HTTP and the runtime: decode,
// validate, derive the task id once, execute, and answer 200 with the
// outcome envelope. Only validation failures leave with a non-200
// status, and those never reach the runtime.
func (h *TaskHandler) runTask(w http.ResponseWriter, r *http.Request, route taskRoute) {
	var req api.TaskRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	if req.Task == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"task is required", h.logger)
		return
	}
	if route.needsAppURL && req.AppURL == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			route.appURLMissing, h.logger)
		return
	}
	if req.MaxTurns < 0 {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"max_turns must not be negative", h.logger)
		return
	}

	taskID := agent.TaskID(route.idPrefix, route.idInput(&req))
	prompt := route.buildPrompt(&req)
	opts := agent.Options{
		Headless: req.EffectiveHeadless(),
		MaxTurns: req.EffectiveMaxTurns(),
	}

	if h.collector != nil {
		h.collector.RecordPromptTokens(route.name, agent.EstimateTokens(prompt))
	}

	h.logger.Info("dispatching browser task",
		zap.String("route", route.name),
		zap.String("task_id", taskID),
		zap.Bool("headless", opts.Headless),
		zap.Int("max_turns", opts.MaxTurns),
	)

	start := time.Now()
	result, err := h.factory(opts).Execute(r.Context(), prompt, opts)
	elapsed := time.Since(start)

	if err != nil {
		if h.collector != nil {
			h.collector.RecordAgentRun(route.name, "error", elapsed)
		}
		h.logger.Warn("browser task failed",
			zap.String("route", route.name),
			zap.String("task_id", taskID),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		WriteJSON(w, http.StatusOK, api.TaskResponse{
			Success: false,
			Error:   err.Error(),
			TaskID:  taskID,
		})
		return
	}

	if h.collector != nil {
		h.collector.RecordAgentRun(route.name, "success", elapsed)
	}
	h.logger.Info("browser task completed",
		zap.String("route", route.name),
		zap.String("task_id", taskID),
		zap.Duration("elapsed", elapsed),
	)
	WriteJSON(w, http.StatusOK, api.TaskResponse{
		Success: true,
		Result:  result,
		TaskID:  taskID,
	})
}
