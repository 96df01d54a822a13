package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fanxian-next/internal/logger"
	"github.com/fanxian-next/internal/provider"
	"github.com/fanxian-next/internal/queue"
	"github.com/fanxian-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskRewardStatusEmail, c.handleRewardStatusEmail)
}

func (c *Consumer) handleRewardStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reward_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.RewardStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reward_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.RewardID == 0 {
		logger.Debugw("worker_reward_status_email_skip_invalid_payload", "reward_id", payload.RewardID)
		return nil
	}
	reward, err := c.RewardRepo.GetByID(payload.RewardID)
	if err != nil {
		logger.Warnw("worker_reward_status_email_fetch_reward_failed", "reward_id", payload.RewardID, "error", err)
		return err
	}
	if reward == nil {
		logger.Debugw("worker_reward_status_email_skip_reward_not_found", "reward_id", payload.RewardID)
		return nil
	}

	user, err := c.UserRepo.GetByID(reward.UserID)
	if err != nil {
		logger.Warnw("worker_reward_status_email_fetch_user_failed", "reward_id", reward.ID, "user_id", reward.UserID, "error", err)
		return err
	}
	if user == nil {
		logger.Debugw("worker_reward_status_email_skip_user_not_found", "reward_id", reward.ID, "user_id", reward.UserID)
		return nil
	}
	receiverEmail := strings.TrimSpace(user.Email)
	if receiverEmail == "" {
		logger.Debugw("worker_reward_status_email_skip_empty_receiver", "reward_id", reward.ID, "user_id", reward.UserID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_reward_status_email_skip_email_service_nil", "reward_id", reward.ID)
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = reward.Status
	}
	input := service.RewardStatusEmailInput{
		ProductName:     reward.ProductName,
		CouponCode:      reward.CouponCode,
		Status:          status,
		Amount:          reward.PaymentAmount,
		RejectionReason: reward.RejectionReason,
	}
	if err := c.EmailService.SendRewardStatusEmail(receiverEmail, input, strings.TrimSpace(user.Locale)); err != nil {
		logger.Warnw("worker_reward_status_email_send_failed",
			"reward_id", reward.ID,
			"receiver_email", receiverEmail,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}
