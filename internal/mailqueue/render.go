package mailqueue

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrUnsupportedType = errors.New("不支持的邮件类型")

type kind struct {
	template string
	subject  string
}

var kinds = map[string]kind{
	domain.MailTypeTimeOffDecision:    {template: "time_off_decision.html", subject: "QwikShifts - 请假审批结果"},
	domain.MailTypeAssignmentConflict: {template: "assignment_conflict.html", subject: "QwikShifts - 排班与请假冲突"},
}

// Render 根据邮件类型渲染主题和 HTML 正文
func Render(msg domain.MailMessage) (string, string, error) {
	k, ok := kinds[msg.Type]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, msg.Type)
	}

	var body strings.Builder
	if err := templates.ExecuteTemplate(&body, k.template, msg.Data); err != nil {
		return "", "", err
	}

	return k.subject, body.String(), nil
}
