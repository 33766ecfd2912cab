package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/util"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Matcher NotificationService 对匹配逻辑的最小依赖
type Matcher interface {
	FindMatch(ctx context.Context, learnSkillName string) (*MatchResult, error)
}

// NotificationService 把排课信息通过短信网关发给用户。
// 发送前先经 Matcher 解析出教师姓名；网关调用带超时，瞬时故障重试一次。
type NotificationService struct {
	config  config.SMSConfig
	matcher Matcher
	client  *http.Client
}

func NewNotificationService(cfg config.SMSConfig, matcher Matcher) *NotificationService {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotificationService{
		config:  cfg,
		matcher: matcher,
		client:  &http.Client{Timeout: timeout},
	}
}

type SMSRequest struct {
	PhoneNumber   string
	SkillName     string
	ScheduledDate string
	Student       string
}

// SendSessionSMS 校验 → 匹配教师 → 组装消息 → 提交网关。
// 各失败环节映射到不同的哨兵错误，便于上层区分状态码。
func (s *NotificationService) SendSessionSMS(ctx context.Context, req SMSRequest) (string, error) {
	// 任一必填字段缺失都在发起网络调用之前拒绝
	if req.PhoneNumber == "" || req.SkillName == "" || req.ScheduledDate == "" || req.Student == "" {
		return "", util.ErrMissingFields
	}

	match, err := s.matcher.FindMatch(ctx, req.SkillName)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSkillNotFound),
			errors.Is(err, util.ErrNoTeachers),
			errors.Is(err, util.ErrNoSuitableMatch):
			return "", err
		default:
			return "", fmt.Errorf("%w: %v", util.ErrMatchUnavailable, err)
		}
	}

	message := s.formatMessage(req, match.Name)

	return s.submit(ctx, req.PhoneNumber, message)
}

// formatMessage 超出网关字符上限时截断
func (s *NotificationService) formatMessage(req SMSRequest, teacherName string) string {
	message := fmt.Sprintf("Hi %s, your %s session with %s is scheduled for %s.",
		req.Student, req.SkillName, teacherName, req.ScheduledDate)

	limit := s.config.MaxLength
	if limit <= 0 {
		limit = 160
	}

	runes := []rune(message)
	if len(runes) > limit {
		message = string(runes[:limit])
	}
	return message
}

// submit 表单编码提交网关，5xx 视为瞬时故障重试一次，4xx 直接失败
func (s *NotificationService) submit(ctx context.Context, phoneNumber, message string) (string, error) {
	form := url.Values{}
	form.Set("numbers", phoneNumber)
	form.Set("message", message)
	form.Set("sender_id", s.config.Sender)

	var responseBody string

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIURL, strings.NewReader(form.Encode()))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("authorization", s.config.APIKey)

		resp, err := s.client.Do(req)
		if err != nil {
			if isTimeout(err) {
				return util.ErrSMSTimeout
			}
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: status %d: %s", util.ErrSMSDeliveryFailed, resp.StatusCode, string(body))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("%w: status %d: %s", util.ErrSMSDeliveryFailed, resp.StatusCode, string(body)))
		}

		responseBody = string(body)
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 1)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return "", err
	}

	return responseBody, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
