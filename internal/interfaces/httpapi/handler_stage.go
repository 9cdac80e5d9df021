package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/team"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

func (h *Handler) GetStages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStages")
	defer span.End()

	stages, err := h.stages.StageMap(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, stages)
}

type setStageRequest struct {
	Team  string `json:"team" validate:"required"`
	Stage string `json:"stage"`
}

func (h *Handler) SetStage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetStage")
	defer span.End()

	var req setStageRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.stages.SetStage(ctx, req.Team, team.Stage(req.Stage)); err != nil {
		h.logger.WarnContext(ctx, "set stage failed", "team", req.Team, "stage", req.Stage, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}
