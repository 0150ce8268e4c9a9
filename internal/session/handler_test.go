package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tobi-oke/clipchat-backend/internal/conversation"
	"github.com/tobi-oke/clipchat-backend/internal/dto"
	"github.com/tobi-oke/clipchat-backend/internal/prompt"
	"github.com/tobi-oke/clipchat-backend/internal/shared"
)

func newTestHandler(t *testing.T, model *fakeModel) (*Handler, *Manager) {
	t.Helper()
	m := newTestManager(t, model)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(m, logger), m
}

func doJSON(h echo.HandlerFunc, method, target, body string, params map[string]string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return rec, h(c)
}

func multipartUpload(t *testing.T, data []byte, duration string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "clip.mp4")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(data)
	if duration != "" {
		w.WriteField("duration_seconds", duration)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, _ := newTestHandler(t, &fakeModel{})
	e := echo.New()
	h.RegisterRoutes(e.Group("/v1/sessions"))

	want := map[string]bool{
		"/v1/sessions":              false,
		"/v1/sessions/:id":          false,
		"/v1/sessions/:id/video":    false,
		"/v1/sessions/:id/messages": false,
		"/v1/sessions/:id/history":  false,
		"/v1/sessions/:id/reset":    false,
	}
	for _, r := range e.Routes() {
		if _, ok := want[r.Path]; ok {
			want[r.Path] = true
		}
	}
	for path, seen := range want {
		if !seen {
			t.Errorf("expected route %s to be registered", path)
		}
	}
}

func TestHandler_CreateSession(t *testing.T) {
	h, m := newTestHandler(t, &fakeModel{})

	rec, err := doJSON(h.CreateSession, http.MethodPost, "/v1/sessions", "", nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.CreateSessionResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ID == "" {
		t.Fatal("response should carry a session id")
	}
	if _, err := m.Get(resp.ID); err != nil {
		t.Error("created session should be retrievable")
	}
}

func TestHandler_UploadVideo(t *testing.T) {
	h, m := newTestHandler(t, &fakeModel{})
	sess, _ := m.Create(context.Background())

	data := make([]byte, 64)
	copy(data[4:8], "ftyp")
	body, contentType := multipartUpload(t, data, "30")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/video", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sess.ID)

	if err := h.UploadVideo(c); err != nil {
		t.Fatalf("upload handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.UploadResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Video.Format != "mp4" || resp.Video.DurationSeconds != 30 {
		t.Errorf("unexpected video response: %+v", resp.Video)
	}
	if !resp.HistoryCleared {
		t.Error("upload response should signal the history reset")
	}
}

func TestHandler_UploadVideo_Invalid(t *testing.T) {
	h, m := newTestHandler(t, &fakeModel{})
	sess, _ := m.Create(context.Background())

	cases := []struct {
		name     string
		data     []byte
		duration string
		wantCode int
	}{
		{"over limit", func() []byte { d := make([]byte, 64); copy(d[4:8], "ftyp"); return d }(), "300", http.StatusBadRequest},
		{"missing duration", func() []byte { d := make([]byte, 64); copy(d[4:8], "ftyp"); return d }(), "", http.StatusBadRequest},
		{"bad signature", make([]byte, 64), "10", http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, tc.data, tc.duration)

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.ID+"/video", body)
			req.Header.Set(echo.HeaderContentType, contentType)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(sess.ID)

			err := h.UploadVideo(c)
			if err == nil {
				t.Fatal("expected error")
			}
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError, got %T", err)
			}
			if httpErr.Code != tc.wantCode {
				t.Errorf("expected status %d, got %d", tc.wantCode, httpErr.Code)
			}
		})
	}
}

func TestHandler_PostMessage_Chat(t *testing.T) {
	h, m := newTestHandler(t, &fakeModel{response: "The car is red."})
	sess, _ := m.Create(context.Background())
	uploadTestVideo(t, sess, 30)

	body := `{"mode":"chat","prompt":"what color is the car?"}`
	rec, err := doJSON(h.PostMessage, http.MethodPost, "/v1/sessions/x/messages", body, map[string]string{"id": sess.ID})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.TurnResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.SequenceNo != 2 || resp.Role != "assistant" {
		t.Errorf("unexpected turn response: %+v", resp)
	}
	if resp.Content != "The car is red." {
		t.Errorf("unexpected content %q", resp.Content)
	}
}

func TestHandler_PostMessage_Analysis(t *testing.T) {
	h, m := newTestHandler(t, &fakeModel{response: "SUMMARY:\nA car drives by.\n\nTIMELINE:\n2 | car | enters\n"})
	sess, _ := m.Create(context.Background())
	uploadTestVideo(t, sess, 30)

	body := `{"mode":"analysis","prompt":"analyze","options":{"summary":true,"timeline":true}}`
	rec, err := doJSON(h.PostMessage, http.MethodPost, "/v1/sessions/x/messages", body, map[string]string{"id": sess.ID})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp dto.TurnResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Analysis == nil {
		t.Fatal("analysis response should carry the structured result")
	}
	if resp.Analysis.Summary == "" || len(resp.Analysis.Timeline) != 1 {
		t.Errorf("unexpected analysis payload: %+v", resp.Analysis)
	}
}

func TestHandler_PostMessage_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		model    *fakeModel
		upload   bool
		body     string
		wantCode int
		wantAPI  string
	}{
		{
			name:     "no active video",
			model:    &fakeModel{},
			body:     `{"mode":"chat","prompt":"q"}`,
			wantCode: http.StatusConflict,
			wantAPI:  "no_active_video",
		},
		{
			name:     "invalid options",
			model:    &fakeModel{},
			upload:   true,
			body:     `{"mode":"analysis","prompt":"q","options":{"summary":false,"timeline":false}}`,
			wantCode: http.StatusBadRequest,
			wantAPI:  "invalid_options",
		},
		{
			name:     "format error",
			model:    &fakeModel{response: "garbage"},
			upload:   true,
			body:     `{"mode":"analysis","prompt":"q","options":{"summary":true}}`,
			wantCode: http.StatusBadGateway,
			wantAPI:  "bad_model_response",
		},
		{
			name:     "transport error",
			model:    &fakeModel{err: io.ErrUnexpectedEOF},
			upload:   true,
			body:     `{"mode":"chat","prompt":"q"}`,
			wantCode: http.StatusBadGateway,
			wantAPI:  "model_unavailable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, m := newTestHandler(t, tc.model)
			sess, _ := m.Create(context.Background())
			if tc.upload {
				uploadTestVideo(t, sess, 30)
			}

			_, err := doJSON(h.PostMessage, http.MethodPost, "/v1/sessions/x/messages", tc.body, map[string]string{"id": sess.ID})
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError, got %v", err)
			}
			if httpErr.Code != tc.wantCode {
				t.Errorf("expected status %d, got %d", tc.wantCode, httpErr.Code)
			}
			apiErr, ok := httpErr.Message.(*shared.APIError)
			if !ok {
				t.Fatalf("expected APIError body, got %T", httpErr.Message)
			}
			if apiErr.Code != tc.wantAPI {
				t.Errorf("expected api code %q, got %q", tc.wantAPI, apiErr.Code)
			}
			if len(sess.History()) != 0 {
				t.Error("failed request must leave the log unchanged")
			}
		})
	}
}

func TestHandler_History(t *testing.T) {
	h, m := newTestHandler(t, &fakeModel{response: "ok"})
	sess, _ := m.Create(context.Background())
	uploadTestVideo(t, sess, 30)
	if _, err := sess.Request(context.Background(), conversation.ModeChat, "first question", prompt.AnalysisOptions{}); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	rec, err := doJSON(h.GetHistory, http.MethodGet, "/v1/sessions/x/history", "", map[string]string{"id": sess.ID})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp dto.HistoryResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(resp.Turns))
	}
	if resp.Turns[0].Content != "first question" {
		t.Errorf("unexpected first turn %+v", resp.Turns[0])
	}
}

func TestHandler_UnknownSession(t *testing.T) {
	h, _ := newTestHandler(t, &fakeModel{})

	endpoints := []echo.HandlerFunc{h.GetSession, h.GetHistory, h.ResetSession, h.DeleteSession, h.PostMessage}
	for _, fn := range endpoints {
		_, err := doJSON(fn, http.MethodGet, "/v1/sessions/x", "", map[string]string{"id": "sess_missing"})
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusNotFound {
			t.Errorf("expected 404 for unknown session, got %v", err)
		}
	}
}
