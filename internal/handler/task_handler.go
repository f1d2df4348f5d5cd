package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/langitlangit/creatortrack/internal/middleware"
	"github.com/langitlangit/creatortrack/internal/model"
	"github.com/langitlangit/creatortrack/internal/presenter"
	"github.com/langitlangit/creatortrack/internal/task"
)

// TaskQueryView はタスク一覧ハンドラーが必要とするビューインターフェース。
type TaskQueryView interface {
	Query(filter task.Filter, mode task.SortMode) ([]model.Task, bool)
	Find(id string) (*model.Task, bool)
}

// TaskServiceInterface はタスク書き込みハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	Create(ctx context.Context, creator *model.Profile, in task.CreateInput) (*model.Task, error)
	Update(ctx context.Context, actor *model.Profile, id string, in task.UpdateInput) (*model.Task, error)
	Delete(ctx context.Context, actor *model.Profile, id string) error
}

// TaskMetrics はタスク操作の計測インターフェース。
type TaskMetrics interface {
	RecordTaskMutation(operation string)
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	view    TaskQueryView
	service TaskServiceInterface
	metrics TaskMetrics
}

// NewTaskHandler はTaskHandlerを生成する。metricsはnil可。
func NewTaskHandler(view TaskQueryView, service TaskServiceInterface, metrics TaskMetrics) *TaskHandler {
	return &TaskHandler{
		view:    view,
		service: service,
		metrics: metrics,
	}
}

// taskResponse はタスクのAPIレスポンス。
type taskResponse struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Platform           string     `json:"platform"`
	ContentFor         string     `json:"contentFor"`
	ContentType        string     `json:"contentType"`
	Status             string     `json:"status"`
	StatusBadgeClass   string     `json:"statusBadgeClass"`
	Priority           string     `json:"priority"`
	PriorityBadgeClass string     `json:"priorityBadgeClass"`
	AssignedTo         string     `json:"assignedTo"`
	AssignedToName     string     `json:"assignedToName"`
	CreatedBy          string     `json:"createdBy"`
	Deadline           *time.Time `json:"deadline"`
	DeadlineDisplay    string     `json:"deadlineDisplay"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Platform:           t.Platform,
		ContentFor:         t.ContentFor,
		ContentType:        t.ContentType,
		Status:             string(t.Status),
		StatusBadgeClass:   presenter.StatusBadgeClass(t.Status),
		Priority:           string(t.Priority),
		PriorityBadgeClass: presenter.PriorityBadgeClass(t.Priority),
		AssignedTo:         t.AssignedTo,
		AssignedToName:     presenter.DisplayName(t.AssignedToName),
		CreatedBy:          t.CreatedBy,
		Deadline:           t.Deadline,
		DeadlineDisplay:    presenter.FormatDate(t.Deadline),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func toTaskListResponse(tasks []model.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i := range tasks {
		out[i] = toTaskResponse(&tasks[i])
	}
	return out
}

// List はタスク一覧を返す。絞り込みと並べ替えはクエリパラメータで指定する。
// GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	mode := task.SortMode(r.URL.Query().Get("sort"))

	tasks, ok := h.view.Query(filter, mode)
	if !ok {
		middleware.WriteError(w, model.NewDataUnavailableError("タスク一覧"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTaskListResponse(tasks))
}

// Get はタスク詳細を返す。キャッシュされたスナップショットから引く。
// GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, ok := h.view.Find(id)
	if !ok {
		middleware.WriteError(w, model.NewDataUnavailableError("タスク一覧"))
		return
	}
	if found == nil {
		middleware.WriteError(w, model.NewTaskNotFoundError(id))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTaskResponse(found))
}

// taskMutationRequest はタスク作成・更新リクエストのボディ。
type taskMutationRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Platform    *string    `json:"platform"`
	ContentFor  *string    `json:"contentFor"`
	ContentType *string    `json:"contentType"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssignedTo  *string    `json:"assignedTo"`
	Deadline    *time.Time `json:"deadline"`
}

// Create はタスクを新規作成する。
// POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, model.NewUnauthenticatedError())
		return
	}

	var req taskMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	in := task.CreateInput{Deadline: req.Deadline}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Platform != nil {
		in.Platform = *req.Platform
	}
	if req.ContentFor != nil {
		in.ContentFor = *req.ContentFor
	}
	if req.ContentType != nil {
		in.ContentType = *req.ContentType
	}
	if req.Status != nil {
		in.Status = model.Status(*req.Status)
	}
	if req.Priority != nil {
		in.Priority = model.Priority(*req.Priority)
	}
	if req.AssignedTo != nil {
		in.AssignedTo = *req.AssignedTo
	}

	created, err := h.service.Create(r.Context(), profile, in)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	h.recordMutation("create")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toTaskResponse(created))
}

// Update はタスクを部分更新する。
// PATCH /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, model.NewUnauthenticatedError())
		return
	}
	id := chi.URLParam(r, "id")

	var req taskMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	in := task.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Platform:    req.Platform,
		ContentFor:  req.ContentFor,
		ContentType: req.ContentType,
		AssignedTo:  req.AssignedTo,
		Deadline:    req.Deadline,
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		in.Status = &status
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		in.Priority = &priority
	}

	updated, err := h.service.Update(r.Context(), profile, id, in)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	h.recordMutation("update")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTaskResponse(updated))
}

// Delete はタスクを削除する。管理者のみ実行できる。
// DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, model.NewUnauthenticatedError())
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), profile, id); err != nil {
		middleware.WriteError(w, err)
		return
	}
	h.recordMutation("delete")

	w.WriteHeader(http.StatusNoContent)
}

// parseFilter はクエリパラメータから絞り込み条件を組み立てる。
func parseFilter(r *http.Request) (task.Filter, error) {
	q := r.URL.Query()
	filter := task.Filter{
		Status:         model.Status(q.Get("status")),
		Priority:       model.Priority(q.Get("priority")),
		Platform:       q.Get("platform"),
		AssignedToName: q.Get("assignedToName"),
		Search:         q.Get("search"),
	}

	if raw := q.Get("deadlineFrom"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return task.Filter{}, model.NewValidationError("deadlineFromの形式が不正です")
		}
		filter.DeadlineFrom = &from
	}
	if raw := q.Get("deadlineTo"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return task.Filter{}, model.NewValidationError("deadlineToの形式が不正です")
		}
		// 終端日はその日の終わりまで含める
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.DeadlineTo = &to
	}

	return filter, nil
}

func (h *TaskHandler) recordMutation(operation string) {
	if h.metrics != nil {
		h.metrics.RecordTaskMutation(operation)
	}
}
