// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// セッションの有効期限は認可判定時にも検査されるため、このジョブは
// ストレージの肥大化を防ぐための掃除であり、削除の遅延は安全に許容される。
package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// SessionPruner は期限切れセッションの一括削除を抽象化するインターフェース。
type SessionPruner interface {
	// DeleteExpired は有効期限がbeforeより前のセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}

// CleanupJob は期限切れセッションの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	pruner SessionPruner
	logger *slog.Logger
	now    func() time.Time
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(pruner SessionPruner, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		pruner: pruner,
		logger: logger,
		now:    time.Now,
	}
}

// Run は期限切れセッションを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := j.now()

	deleted, err := j.pruner.DeleteExpired(ctx, start)
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return err
	}

	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int("deleted_count", deleted),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return nil
}

// RunPeriodic はintervalごとにRunを繰り返し実行する。
// コンテキストのキャンセルで終了する。実行エラーはログに記録し、次回実行を継続する。
func (j *CleanupJob) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// エラーはRun内でログ済み。定期実行は止めない。
			_ = j.Run(ctx)
		}
	}
}
