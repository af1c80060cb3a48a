package mailqueue

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

// 模拟 mail worker 从队列中读取到的消息
func roundTrip(t *testing.T, msg domain.MailMessage) domain.MailMessage {
	t.Helper()

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	var out domain.MailMessage
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestRenderTimeOffDecision(t *testing.T) {
	msg := roundTrip(t, domain.MailMessage{
		Type: domain.MailTypeTimeOffDecision,
		To:   "alice@example.com",
		Data: domain.TimeOffDecisionMailData{
			Name:      "Alice",
			Date:      "2025-06-12",
			StartTime: "09:00",
			EndTime:   "12:00",
			Status:    domain.TimeOffApproved,
		},
	})

	subject, body, err := Render(msg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(subject, "请假审批") {
		t.Errorf("主题不正确: %s", subject)
	}
	for _, want := range []string{"Alice", "2025-06-12 09:00-12:00", "已通过"} {
		if !strings.Contains(body, want) {
			t.Errorf("正文缺少 %q:\n%s", want, body)
		}
	}
}

func TestRenderAssignmentConflict(t *testing.T) {
	msg := roundTrip(t, domain.MailMessage{
		Type: domain.MailTypeAssignmentConflict,
		To:   "bob@example.com",
		Data: domain.AssignmentConflictMailData{
			Name:      "Bob",
			Date:      "2025-06-13",
			StartTime: "22:00",
			EndTime:   "02:00",
			Reason:    "<family>",
		},
	})

	_, body, err := Render(msg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body, "22:00-02:00") {
		t.Errorf("正文缺少班次时间:\n%s", body)
	}
	if !strings.Contains(body, "&lt;family&gt;") {
		t.Errorf("请假原因应被转义:\n%s", body)
	}
}

func TestRenderUnsupportedType(t *testing.T) {
	_, _, err := Render(domain.MailMessage{Type: "create_user"})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("期望 ErrUnsupportedType，实际为 %v", err)
	}
}
