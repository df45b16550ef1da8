package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ivlev/script2video/internal/composer"
	"github.com/ivlev/script2video/internal/script"
)

// Handler serves composition requests over HTTP.
type Handler struct {
	composer *composer.Composer
	logger   zerolog.Logger
}

// composeRequest is the shared request body: a script plus run options.
type composeRequest struct {
	Title    string           `json:"title"`
	Sections []script.Section `json:"sections" binding:"required"`
	Options  *runOptions      `json:"options"`
}

// runOptions is the externally tunable subset of composer.Options.
// Placeholder generation and worker sizing stay server-side decisions.
type runOptions struct {
	MinScore      float64        `json:"min_score"`
	Overrides     map[int]string `json:"overrides"`
	Usage         map[string]int `json:"usage"`
	MaxQueryTerms int            `json:"max_query_terms"`
}

func (r *composeRequest) composerOptions() *composer.Options {
	opts := &composer.Options{Title: r.Title}
	if r.Options != nil {
		opts.MinScore = r.Options.MinScore
		opts.Overrides = r.Options.Overrides
		opts.Usage = r.Options.Usage
		opts.MaxQueryTerms = r.Options.MaxQueryTerms
	}
	return opts
}

// Compose runs a full composition and returns the timeline plan.
func (h *Handler) Compose(ctx *gin.Context) {
	var req composeRequest
	if !h.bind(ctx, &req) {
		return
	}

	plan, err := h.composer.Compose(ctx.Request.Context(), req.Sections, req.composerOptions())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, plan)
}

// DryRun returns the ranked candidates per section without assembling a
// plan.
func (h *Handler) DryRun(ctx *gin.Context) {
	var req composeRequest
	if !h.bind(ctx, &req) {
		return
	}

	ranked, err := h.composer.DryRun(ctx.Request.Context(), req.Sections, req.composerOptions())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"sections": ranked})
}

// CoverageReport runs the scoring pass and summarises pool coverage.
func (h *Handler) CoverageReport(ctx *gin.Context) {
	var req composeRequest
	if !h.bind(ctx, &req) {
		return
	}
	opts := req.composerOptions()

	ranked, err := h.composer.DryRun(ctx.Request.Context(), req.Sections, opts)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, composer.Coverage(ranked, opts.MinScore))
}

// PreviewTransitions resolves the transition chain for a script.
func (h *Handler) PreviewTransitions(ctx *gin.Context) {
	var req composeRequest
	if !h.bind(ctx, &req) {
		return
	}

	decisions, err := h.composer.PreviewTransitions(ctx.Request.Context(), req.Sections)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"transitions": decisions})
}

func (h *Handler) bind(ctx *gin.Context, req *composeRequest) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	for i := range req.Sections {
		req.Sections[i].Label = script.ParseLabel(string(req.Sections[i].Label))
	}
	return true
}

// fail maps composer errors onto status codes: structural script problems
// are client errors, everything else is a server-side failure.
func (h *Handler) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, script.ErrInvalid) {
		status = http.StatusUnprocessableEntity
	}
	h.logger.Error().
		Str("request_id", ctx.GetString("request_id")).
		Err(err).
		Msg("request failed")
	ctx.JSON(status, gin.H{"error": err.Error()})
}
