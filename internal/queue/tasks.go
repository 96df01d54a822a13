package queue

import (
	"encoding/json"

	"github.com/fanxian-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskRewardStatusEmail 返现审核状态邮件通知任务
	TaskRewardStatusEmail = constants.TaskRewardStatusEmail
)

// RewardStatusEmailPayload 返现状态邮件任务载荷
type RewardStatusEmailPayload struct {
	RewardID uint   `json:"reward_id"`
	Status   string `json:"status"`
}

// NewRewardStatusEmailTask 创建返现状态邮件任务
func NewRewardStatusEmailTask(payload RewardStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRewardStatusEmail, body), nil
}
