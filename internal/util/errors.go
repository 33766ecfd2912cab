package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")

	ErrSkillNotFound   = errors.New("no such skill found in the database")
	ErrNoTeachers      = errors.New("no users found with this skill")
	ErrNoSuitableMatch = errors.New("no suitable match found")

	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionNotCompleted = errors.New("session not completed yet")
	ErrAlreadyRated        = errors.New("session already rated")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrSelfSession         = errors.New("learner and teacher must be different users")

	ErrInsufficientXP = errors.New("insufficient xp balance")
	ErrSelfTransfer   = errors.New("cannot transfer xp to yourself")

	ErrMissingFields        = errors.New("missing required fields")
	ErrMatchUnavailable     = errors.New("match service unavailable")
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
	ErrSMSTimeout           = errors.New("sms provider timeout")
	ErrSMSDeliveryFailed    = errors.New("sms provider reported delivery failure")
)
