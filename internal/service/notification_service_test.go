package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/util"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMatcher struct {
	result *MatchResult
	err    error
}

func (f *fakeMatcher) FindMatch(_ context.Context, _ string) (*MatchResult, error) {
	return f.result, f.err
}

func smsConfig(apiURL string) config.SMSConfig {
	return config.SMSConfig{
		APIURL:         apiURL,
		APIKey:         "test-key",
		Sender:         "SKILLBLOOM",
		MaxLength:      160,
		TimeoutSeconds: 2 * time.Second,
	}
}

func validSMSRequest() SMSRequest {
	return SMSRequest{
		PhoneNumber:   "9998887776",
		SkillName:     "Python",
		ScheduledDate: "2026-09-15 10:00",
		Student:       "Priya",
	}
}

func TestSendSessionSMS(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"numbers":   r.PostFormValue("numbers"),
			"message":   r.PostFormValue("message"),
			"sender_id": r.PostFormValue("sender_id"),
		}
		assert.Equal(t, "test-key", r.Header.Get("authorization"))
		w.Write([]byte(`{"return":true}`))
	}))
	defer server.Close()

	matcher := &fakeMatcher{result: &MatchResult{Name: "Alice"}}
	svc := NewNotificationService(smsConfig(server.URL), matcher)

	resp, err := svc.SendSessionSMS(context.Background(), validSMSRequest())
	require.NoError(t, err)
	assert.Contains(t, resp, "true")

	assert.Equal(t, "9998887776", gotForm["numbers"])
	assert.Equal(t, "SKILLBLOOM", gotForm["sender_id"])
	assert.Equal(t, "Hi Priya, your Python session with Alice is scheduled for 2026-09-15 10:00.", gotForm["message"])
}

func TestSendSessionSMSMissingFields(t *testing.T) {
	// 任何请求都不应到达网关
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request to SMS gateway")
	}))
	defer server.Close()

	svc := NewNotificationService(smsConfig(server.URL), &fakeMatcher{result: &MatchResult{Name: "Alice"}})

	for _, req := range []SMSRequest{
		{SkillName: "Python", ScheduledDate: "2026-09-15", Student: "Priya"},
		{PhoneNumber: "999", ScheduledDate: "2026-09-15", Student: "Priya"},
		{PhoneNumber: "999", SkillName: "Python", Student: "Priya"},
		{PhoneNumber: "999", SkillName: "Python", ScheduledDate: "2026-09-15"},
	} {
		_, err := svc.SendSessionSMS(context.Background(), req)
		assert.ErrorIs(t, err, util.ErrMissingFields)
	}
}

func TestSendSessionSMSNoTeacher(t *testing.T) {
	svc := NewNotificationService(smsConfig("http://unused"), &fakeMatcher{err: util.ErrNoTeachers})

	_, err := svc.SendSessionSMS(context.Background(), validSMSRequest())
	assert.ErrorIs(t, err, util.ErrNoTeachers)
}

func TestSendSessionSMSMatcherOutage(t *testing.T) {
	svc := NewNotificationService(smsConfig("http://unused"), &fakeMatcher{err: util.ErrEmbeddingUnavailable})

	_, err := svc.SendSessionSMS(context.Background(), validSMSRequest())
	assert.ErrorIs(t, err, util.ErrMatchUnavailable)
}

func TestSendSessionSMSTruncation(t *testing.T) {
	var sent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		sent = r.PostFormValue("message")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := smsConfig(server.URL)
	cfg.MaxLength = 40

	svc := NewNotificationService(cfg, &fakeMatcher{result: &MatchResult{Name: strings.Repeat("A", 100)}})

	_, err := svc.SendSessionSMS(context.Background(), validSMSRequest())
	require.NoError(t, err)
	assert.Len(t, []rune(sent), 40)
}

func TestSendSessionSMSRetriesTransientFailure(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	svc := NewNotificationService(smsConfig(server.URL), &fakeMatcher{result: &MatchResult{Name: "Alice"}})

	resp, err := svc.SendSessionSMS(context.Background(), validSMSRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.EqualValues(t, 2, atomic.LoadInt32(&attempts))
}

func TestSendSessionSMSClientErrorNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewNotificationService(smsConfig(server.URL), &fakeMatcher{result: &MatchResult{Name: "Alice"}})

	_, err := svc.SendSessionSMS(context.Background(), validSMSRequest())
	assert.ErrorIs(t, err, util.ErrSMSDeliveryFailed)
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts))
}

func TestSendSessionSMSPersistentServerError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewNotificationService(smsConfig(server.URL), &fakeMatcher{result: &MatchResult{Name: "Alice"}})

	_, err := svc.SendSessionSMS(context.Background(), validSMSRequest())
	assert.ErrorIs(t, err, util.ErrSMSDeliveryFailed)
	// 初次 + 一次重试
	assert.EqualValues(t, 2, atomic.LoadInt32(&attempts))
}

func TestSendSessionSMSGatewayTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("too late"))
	}))
	defer server.Close()

	cfg := smsConfig(server.URL)
	cfg.TimeoutSeconds = 100 * time.Millisecond

	svc := NewNotificationService(cfg, &fakeMatcher{result: &MatchResult{Name: "Alice"}})

	_, err := svc.SendSessionSMS(context.Background(), validSMSRequest())
	assert.ErrorIs(t, err, util.ErrSMSTimeout)
}
