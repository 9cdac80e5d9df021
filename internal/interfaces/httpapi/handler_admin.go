package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/admin"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

const logTailMaxBytes = 64 * 1024

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSettings")
	defer span.End()

	settings, err := h.settings.Get(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSettings")
	defer span.End()

	var req admin.Settings
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	updated, err := h.settings.Update(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "update settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBackups")
	defer span.End()

	backups, err := h.backups.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, backups)
}

func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBackup")
	defer span.End()

	name, err := h.backups.Create(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "create backup failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, map[string]string{"name": name})
}

func (h *Handler) DownloadBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DownloadBackup")
	defer span.End()

	path, err := h.backups.Path(r.PathValue("name"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", r.PathValue("name")))
	http.ServeFile(w, r, path)
}

func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RestoreBackup")
	defer span.End()

	name := r.PathValue("name")
	if err := h.backups.Restore(ctx, name); err != nil {
		h.logger.ErrorContext(ctx, "restore backup failed", "name", name, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}

var cogActions = map[string]string{
	"load":   command.KindCogLoad,
	"unload": command.KindCogUnload,
	"reload": command.KindCogReload,
}

var botActions = map[string]string{
	"start":   command.KindBotStart,
	"stop":    command.KindBotStop,
	"restart": command.KindBotRestart,
}

type cogRequest struct {
	Cog string `json:"cog" validate:"required"`
}

// CogControl queues a cog lifecycle command for the bot process.
func (h *Handler) CogControl(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CogControl")
	defer span.End()

	kind, ok := cogActions[r.PathValue("action")]
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown cog action %q", usecase.ErrInvalidInput, r.PathValue("action")))
		return
	}

	var req cogRequest
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

	if err := h.queue.Enqueue(ctx, command.New(h.now(), kind, map[string]any{"cog": req.Cog})); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusAccepted, nil)
}

// BotControl queues a start/stop/restart command for the bot process.
func (h *Handler) BotControl(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BotControl")
	defer span.End()

	kind, ok := botActions[r.PathValue("action")]
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown bot action %q", usecase.ErrInvalidInput, r.PathValue("action")))
		return
	}

	if err := h.queue.Enqueue(ctx, command.New(h.now(), kind, map[string]any{})); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusAccepted, nil)
}

// TailLogs returns the last chunk of the panel log file.
func (h *Handler) TailLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TailLogs")
	defer span.End()

	if h.logFile == "" {
		writeSuccess(ctx, w, http.StatusOK, map[string]any{"lines": []string{}})
		return
	}

	file, err := os.Open(h.logFile)
	if err != nil {
		if os.IsNotExist(err) {
			writeSuccess(ctx, w, http.StatusOK, map[string]any{"lines": []string{}})
			return
		}
		writeError(ctx, w, fmt.Errorf("%w: open log file: %v", usecase.ErrStorageUnavailable, err))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: stat log file: %v", usecase.ErrStorageUnavailable, err))
		return
	}

	offset := int64(0)
	if info.Size() > logTailMaxBytes {
		offset = info.Size() - logTailMaxBytes
	}
	buf := make([]byte, info.Size()-offset)
	if _, err := file.ReadAt(buf, offset); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read log file: %v", usecase.ErrStorageUnavailable, err))
		return
	}

	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	if offset > 0 && len(lines) > 0 {
		// The first line is almost certainly cut mid-record after seeking.
		lines = lines[1:]
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"lines": lines})
}

func (h *Handler) DownloadLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DownloadLogs")
	defer span.End()

	if h.logFile == "" {
		writeError(ctx, w, fmt.Errorf("%w: log file is not configured", usecase.ErrNotFound))
		return
	}
	if _, err := os.Stat(h.logFile); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: log file", usecase.ErrNotFound))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bot.log"`)
	http.ServeFile(w, r, h.logFile)
}

func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearLogs")
	defer span.End()

	if h.logFile == "" {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}
	if err := os.Truncate(h.logFile, 0); err != nil && !os.IsNotExist(err) {
		writeError(ctx, w, fmt.Errorf("%w: truncate log file: %v", usecase.ErrStorageUnavailable, err))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}

type masqueradeRequest struct {
	DiscordID string `json:"discord_id" validate:"required"`
}

// StartMasquerade pins a target identity onto the admin's session. Per-user
// reads then act as that identity until the masquerade stops.
func (h *Handler) StartMasquerade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMasquerade")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	var req masqueradeRequest
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

	session.MasqueradeID = req.DiscordID
	if err := h.sessions.Update(ctx, session); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "masquerade started", "admin_id", session.DiscordID, "target_id", req.DiscordID)
	writeSuccess(ctx, w, http.StatusOK, nil)
}

func (h *Handler) StopMasquerade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StopMasquerade")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	session.MasqueradeID = ""
	if err := h.sessions.Update(ctx, session); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}
