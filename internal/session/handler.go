package session

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tobi-oke/clipchat-backend/internal/conversation"
	"github.com/tobi-oke/clipchat-backend/internal/dto"
	"github.com/tobi-oke/clipchat-backend/internal/prompt"
	"github.com/tobi-oke/clipchat-backend/internal/shared"
	"github.com/tobi-oke/clipchat-backend/internal/video"
)

type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateSession)
	g.GET("/:id", h.GetSession)
	g.DELETE("/:id", h.DeleteSession)
	g.POST("/:id/video", h.UploadVideo)
	g.POST("/:id/messages", h.PostMessage)
	g.GET("/:id/history", h.GetHistory)
	g.POST("/:id/reset", h.ResetSession)
}

func (h *Handler) CreateSession(c echo.Context) error {
	sess, err := h.manager.Create(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		return shared.InternalError("create_failed", "failed to create session")
	}

	return c.JSON(http.StatusCreated, dto.CreateSessionResponse{
		ID:        sess.ID,
		Status:    string(StatusActive),
		StartedAt: sess.rec.StartedAt,
	})
}

func (h *Handler) GetSession(c echo.Context) error {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		return shared.NotFound("session_not_found", "session not found")
	}

	resp := dto.SessionResponse{
		ID:        sess.ID,
		Status:    string(StatusActive),
		Mode:      string(sess.Mode()),
		TurnCount: len(sess.History()),
	}
	if artifact, err := sess.Active(); err == nil {
		resp.Video = videoToResponse(artifact)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.manager.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return shared.NotFound("session_not_found", "session not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UploadVideo(c echo.Context) error {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		return shared.NotFound("session_not_found", "session not found")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return shared.BadRequest("missing_file", "multipart field 'file' is required")
	}

	durationText := c.FormValue("duration_seconds")
	if durationText == "" {
		return shared.BadRequest("missing_duration", "form field 'duration_seconds' is required")
	}
	duration, err := strconv.ParseFloat(durationText, 64)
	if err != nil {
		return shared.BadRequest("invalid_duration", "duration_seconds must be a number")
	}

	format := c.FormValue("format")
	if format == "" {
		format = filepath.Ext(fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.BadRequest("unreadable_file", "failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return shared.BadRequest("unreadable_file", "failed to read uploaded file")
	}

	artifact, err := sess.UploadVideo(c.Request().Context(), video.Upload{
		Data:            data,
		Filename:        fileHeader.Filename,
		Format:          format,
		DurationSeconds: duration,
	})
	if err != nil {
		var verr *shared.ValidationError
		if errors.As(err, &verr) {
			return shared.BadRequest("invalid_upload", verr.Error())
		}
		h.logger.Error("upload failed", "error", err, "session_id", sess.ID)
		return shared.InternalError("upload_failed", "failed to store video")
	}

	return c.JSON(http.StatusCreated, dto.UploadResponse{
		SessionID:      sess.ID,
		Video:          *videoToResponse(artifact),
		HistoryCleared: true,
	})
}

func (h *Handler) PostMessage(c echo.Context) error {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		return shared.NotFound("session_not_found", "session not found")
	}

	var req dto.MessageRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	opts := prompt.AnalysisOptions{}
	if req.Options != nil {
		opts.Summary = req.Options.Summary
		opts.Timeline = req.Options.Timeline
	}

	turn, err := sess.Request(c.Request().Context(), conversation.Mode(req.Mode), req.Prompt, opts)
	if err != nil {
		return h.mapRequestError(c, sess.ID, err)
	}

	return c.JSON(http.StatusOK, turnToResponse(turn))
}

func (h *Handler) mapRequestError(c echo.Context, sessionID string, err error) error {
	var verr *shared.ValidationError
	switch {
	case errors.As(err, &verr):
		return shared.BadRequest("invalid_request", verr.Error())
	case errors.Is(err, shared.ErrInvalidOptions):
		return shared.BadRequest("invalid_options", "select at least one of summary or timeline")
	case errors.Is(err, shared.ErrNoActiveVideo):
		return shared.Conflict("no_active_video", "upload a video before sending messages")
	case errors.Is(err, shared.ErrResponseFormat):
		return shared.BadGateway("bad_model_response", "the model response could not be interpreted; retry the prompt")
	default:
		h.logger.Error("model request failed", "error", err, "session_id", sessionID)
		return shared.BadGateway("model_unavailable", "the visual model could not be reached")
	}
}

func (h *Handler) GetHistory(c echo.Context) error {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		return shared.NotFound("session_not_found", "session not found")
	}

	turns := sess.History()
	resp := dto.HistoryResponse{
		SessionID: sess.ID,
		Turns:     make([]dto.TurnResponse, len(turns)),
	}
	for i := range turns {
		resp.Turns[i] = turnToResponse(&turns[i])
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ResetSession(c echo.Context) error {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		return shared.NotFound("session_not_found", "session not found")
	}

	sess.Reset(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func videoToResponse(a *video.Artifact) *dto.VideoResponse {
	return &dto.VideoResponse{
		ID:              a.ID,
		Filename:        a.Filename,
		Format:          string(a.Format),
		DurationSeconds: a.DurationSeconds,
		SizeBytes:       a.SizeBytes,
		UploadedAt:      a.UploadedAt,
	}
}

func turnToResponse(t *conversation.Turn) dto.TurnResponse {
	resp := dto.TurnResponse{
		SequenceNo: t.SequenceNo,
		Role:       string(t.Role),
		Mode:       string(t.Mode),
		Content:    t.Content,
		CreatedAt:  t.CreatedAt,
	}
	if t.Analysis != nil {
		analysis := &dto.AnalysisResponse{
			Summary:  t.Analysis.Summary,
			Warnings: t.Analysis.Warnings,
			Timeline: make([]dto.TimelineEntryResponse, len(t.Analysis.Timeline)),
		}
		for i, e := range t.Analysis.Timeline {
			analysis.Timeline[i] = dto.TimelineEntryResponse{
				TimestampSeconds: e.TimestampSeconds,
				Label:            e.Label,
				Description:      e.Description,
			}
		}
		resp.Analysis = analysis
	}
	return resp
}
