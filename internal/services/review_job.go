package services

import (
	"context"

	"go.uber.org/zap"
)

type ReviewJob struct {
	sender   ReviewSender
	dispatch Dispatcher
	limit    int
	logger   *zap.Logger
}

func NewReviewJob(sender ReviewSender, dispatch Dispatcher, limit int, logger *zap.Logger) *ReviewJob {
	return &ReviewJob{
		sender:   sender,
		dispatch: dispatch,
		limit:    limit,
		logger:   logger,
	}
}

// Run hands SendPending to the chat loop and waits for it.
func (j *ReviewJob) Run(ctx context.Context) (int, error) {
	var sent int
	err := j.dispatch(ctx, func(ctx context.Context) error {
		n, err := j.sender.SendPending(ctx, j.limit)
		sent = n
		return err
	})
	if err != nil {
		return sent, err
	}

	j.logger.Info("review done", zap.Int("sent", sent))
	return sent, nil
}
