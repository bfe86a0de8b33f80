package editor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"qforge/internal/app/apiresp"
	"qforge/internal/codec"
	"qforge/internal/export"
	"qforge/internal/generate"
	"qforge/internal/question"
)

type Handler struct {
	svc     editorService
	content contentClient
}

type editorService interface {
	Create(ctx context.Context, sourceText string) (*View, error)
	ReplaceSource(ctx context.Context, id, sourceText string) (*View, error)
	Get(ctx context.Context, id string) (*View, error)
	Select(ctx context.Context, id string, in SelectionInput) (*View, error)
	Fields(ctx context.Context, id string) (question.EditableFields, error)
	UpdateFields(ctx context.Context, id string, f question.EditableFields) (question.EditableFields, error)
	Source(ctx context.Context, id string) (map[string]string, error)
	Generate(ctx context.Context, id string) (*BatchResult, error)
	ExportZip(ctx context.Context, id string) ([]byte, error)
	ExportFlatCSV(ctx context.Context, id, technology, topicTag, subTopicTag string) (string, error)
	ExportMCQCSV(ctx context.Context, id, topicTag, subTopicTag string) (string, error)
	ExportXLSX(ctx context.Context, id string) ([]byte, error)
}

type contentClient interface {
	Prompt(ctx context.Context, processName string) (string, error)
	Generate(ctx context.Context, req generate.GenerateRequest) ([]question.Record, error)
	Curate(ctx context.Context, contexts []generate.CurationContext) ([]byte, error)
}

type sourceRequest struct {
	Source string `json:"source"`
}

type promptRequest struct {
	Technology        string `json:"technology"`
	Topic             string `json:"topic"`
	NumberOfQuestions string `json:"number_of_questions"`
	Difficulty        string `json:"difficulty"`
	TopicTag          string `json:"topic_tag"`
	SubTopicTag       string `json:"sub_topic_tag"`
	Syllabus          string `json:"syllabus"`
}

type curateRequest struct {
	Contexts []generate.CurationContext `json:"contexts"`
}

func NewHandler(svc *Service, content *generate.Client) *Handler {
	return &Handler{svc: svc, content: content}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Put("/source", h.ReplaceSource)
		r.Get("/source", h.GetSource)
		r.Post("/selection", h.Select)
		r.Get("/fields", h.GetFields)
		r.Put("/fields", h.UpdateFields)
		r.Post("/generate", h.Generate)
		r.Get("/export/zip", h.ExportZip)
		r.Get("/export/csv", h.ExportFlatCSV)
		r.Get("/export/mcq-csv", h.ExportMCQCSV)
		r.Get("/export/xlsx", h.ExportXLSX)
	})
	r.Post("/prompt", h.Prompt)
	r.Post("/mcq/generate", h.GenerateMCQ)
	r.Post("/curate", h.Curate)
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.svc.Create(r.Context(), req.Source)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, view)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, view)
}

func (h *Handler) ReplaceSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.svc.ReplaceSource(r.Context(), chi.URLParam(r, "id"), req.Source)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, view)
}

func (h *Handler) GetSource(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Source(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, groups)
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.svc.Select(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, view)
}

func (h *Handler) GetFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.svc.Fields(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, fields)
}

func (h *Handler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	var req question.EditableFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	fields, err := h.svc.UpdateFields(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, fields)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Generate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		var remote *generate.RemoteError
		switch {
		case errors.As(err, &remote):
			apiresp.WriteError(w, r, http.StatusBadGateway, err.Error())
		case errors.Is(err, ErrNoGenerator):
			apiresp.WriteError(w, r, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, ErrSessionNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, err.Error())
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, result)
}

func (h *Handler) ExportZip(w http.ResponseWriter, r *http.Request) {
	blob, err := h.svc.ExportZip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeAttachment(w, "application/zip", export.ZipFilename, blob)
}

func (h *Handler) ExportFlatCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text, err := h.svc.ExportFlatCSV(r.Context(), chi.URLParam(r, "id"),
		q.Get("technology"), q.Get("topic_tag"), q.Get("sub_topic_tag"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv", export.FlatCSVFilename, []byte(text))
}

func (h *Handler) ExportMCQCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text, err := h.svc.ExportMCQCSV(r.Context(), chi.URLParam(r, "id"),
		q.Get("topic_tag"), q.Get("sub_topic_tag"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv", export.MCQFilename(q.Get("technology"), time.Now()), []byte(text))
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	blob, err := h.svc.ExportXLSX(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.XLSXFilename, blob)
}

func (h *Handler) Prompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	process := generate.ProcessName(req.Technology)
	if process == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "unsupported technology")
		return
	}

	template, err := h.content.Prompt(r.Context(), process)
	if err != nil {
		h.writeRemoteError(w, r, err)
		return
	}
	filled := generate.FillPrompt(template, generate.PromptValues{
		Technology:        req.Technology,
		Topic:             req.Topic,
		NumberOfQuestions: req.NumberOfQuestions,
		Difficulty:        req.Difficulty,
		TopicTag:          req.TopicTag,
		SubTopicTag:       req.SubTopicTag,
		Syllabus:          req.Syllabus,
	})
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"template": template, "prompt": filled})
}

func (h *Handler) GenerateMCQ(w http.ResponseWriter, r *http.Request) {
	var req generate.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "prompt is required")
		return
	}

	records, err := h.content.Generate(r.Context(), req)
	if err != nil {
		h.writeRemoteError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]any{"questions": records})
}

func (h *Handler) Curate(w http.ResponseWriter, r *http.Request) {
	var req curateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Contexts) == 0 {
		apiresp.WriteError(w, r, http.StatusBadRequest, "contexts are required")
		return
	}

	csv, err := h.content.Curate(r.Context(), req.Contexts)
	if err != nil {
		h.writeRemoteError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv", "curated_questions.csv", csv)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrGroupNotFound):
		apiresp.WriteError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, codec.ErrParse), errors.Is(err, question.ErrTopLevelShape):
		apiresp.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNoSelection):
		apiresp.WriteError(w, r, http.StatusConflict, err.Error())
	default:
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeRemoteError(w http.ResponseWriter, r *http.Request, err error) {
	var remote *generate.RemoteError
	if errors.As(err, &remote) {
		apiresp.WriteError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(body)
}
