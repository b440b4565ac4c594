package metric

import (
	"context"
	"time"
	"vcal/src-server/model"
	"vcal/src-server/utils"
)

func database(ctx context.Context, as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Calendar)(nil)).
		Where("id = ?", "").
		Exists(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
