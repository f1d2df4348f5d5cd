package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/langitlangit/creatortrack/internal/model"
	"github.com/langitlangit/creatortrack/internal/repository"
	"github.com/langitlangit/creatortrack/internal/security"
)

// Service はタスクのCRUD操作を提供する。
// 読み取りはListViewのキャッシュが担い、Serviceは書き込み側のみを扱う。
// 書き込み結果は購読ストリーム経由で各ビューに反映される。
type Service struct {
	taskRepo    repository.TaskRepository
	profileRepo repository.ProfileRepository
	sanitizer   security.InputSanitizerService
	logger      *slog.Logger
}

// NewService はServiceを生成する。
func NewService(
	taskRepo repository.TaskRepository,
	profileRepo repository.ProfileRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		taskRepo:    taskRepo,
		profileRepo: profileRepo,
		sanitizer:   security.NewInputSanitizer(),
		logger:      logger,
	}
}

// CreateInput はタスク作成の入力。
type CreateInput struct {
	Title       string
	Description string
	Platform    string
	ContentFor  string
	ContentType string
	Status      model.Status
	Priority    model.Priority
	AssignedTo  string
	Deadline    *time.Time
}

// Create はタスクを新規作成する。タイトルと説明はHTMLを除去して保存し、
// 担当者名はプロファイルから取り込んで非正規化する。
func (s *Service) Create(ctx context.Context, creator *model.Profile, in CreateInput) (*model.Task, error) {
	title := strings.TrimSpace(s.sanitizer.Sanitize(in.Title))
	if title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}

	status := in.Status
	if status == "" {
		status = model.StatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	assignedToName, err := s.resolveAssigneeName(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &model.Task{
		ID:             uuid.New().String(),
		Title:          title,
		Description:    s.sanitizer.Sanitize(in.Description),
		Platform:       in.Platform,
		ContentFor:     in.ContentFor,
		ContentType:    in.ContentType,
		Status:         status,
		Priority:       priority,
		AssignedTo:     in.AssignedTo,
		AssignedToName: assignedToName,
		CreatedBy:      creator.UID,
		Deadline:       in.Deadline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Info("タスクを作成しました",
		slog.String("task_id", task.ID),
		slog.String("created_by", creator.UID),
	)
	return task, nil
}

// UpdateInput はタスク更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Title         *string
	Description   *string
	Platform      *string
	ContentFor    *string
	ContentType   *string
	Status        *model.Status
	Priority      *model.Priority
	AssignedTo    *string
	Deadline      *time.Time
	ClearDeadline bool
}

// Update はタスクを部分更新する。作成者本人または管理者のみ更新できる。
func (s *Service) Update(ctx context.Context, actor *model.Profile, id string, in UpdateInput) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(id)
	}
	if !canEdit(actor, task) {
		return nil, model.NewForbiddenError()
	}

	if in.Title != nil {
		title := strings.TrimSpace(s.sanitizer.Sanitize(*in.Title))
		if title == "" {
			return nil, model.NewValidationError("タイトルは必須です")
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = s.sanitizer.Sanitize(*in.Description)
	}
	if in.Platform != nil {
		task.Platform = *in.Platform
	}
	if in.ContentFor != nil {
		task.ContentFor = *in.ContentFor
	}
	if in.ContentType != nil {
		task.ContentType = *in.ContentType
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		name, err := s.resolveAssigneeName(ctx, *in.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = *in.AssignedTo
		task.AssignedToName = name
	}
	if in.ClearDeadline {
		task.Deadline = nil
	} else if in.Deadline != nil {
		task.Deadline = in.Deadline
	}

	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return task, nil
}

// Delete はタスクを削除する。管理者のみ実行できる。
func (s *Service) Delete(ctx context.Context, actor *model.Profile, id string) error {
	if !actor.IsAdmin() {
		return model.NewForbiddenError()
	}

	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return model.NewTaskNotFoundError(id)
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("タスクを削除しました",
		slog.String("task_id", id),
		slog.String("deleted_by", actor.UID),
	)
	return nil
}

// resolveAssigneeName は担当者uidから表示名を引く。
// 未指定や参照切れは空文字のまま保存し、表示側でプレースホルダーに置き換える。
func (s *Service) resolveAssigneeName(ctx context.Context, uid string) (string, error) {
	if uid == "" {
		return "", nil
	}
	profile, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("failed to resolve assignee: %w", err)
	}
	if profile == nil {
		return "", nil
	}
	return profile.DisplayName, nil
}

// canEdit は作成者本人または管理者のみ許可する。
func canEdit(actor *model.Profile, task *model.Task) bool {
	return actor.IsAdmin() || task.CreatedBy == actor.UID
}
