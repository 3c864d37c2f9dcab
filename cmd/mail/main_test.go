package main

import (
	"bytes"
	"encoding/json"
	"html/template"
	"path/filepath"
	"testing"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 模拟邮件服务收到消息后的处理：先反序列化为 MailMessage 再渲染模板
func render(t *testing.T, mailType string, data any) string {
	t.Helper()

	body, err := json.Marshal(domain.MailMessage{Type: mailType, To: "someone@example.com", Data: data})
	require.NoError(t, err)

	mailMessage, err := decodeMailMessage(body)
	require.NoError(t, err)

	mt, ok := mailTemplates[mailMessage.Type]
	require.True(t, ok)

	tmpl, err := template.ParseFiles(filepath.Join("..", "..", mt.file))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, tmpl.Execute(buf, mailMessage.Data))
	return buf.String()
}

func TestMailTemplates(t *testing.T) {
	out := render(t, domain.MailTypeCreateAccount, domain.CreateAccountMailData{FullName: "김민수", Username: "minsu", Password: "p@ss"})
	assert.Contains(t, out, "minsu")
	assert.Contains(t, out, "p@ss")

	out = render(t, domain.MailTypeResetPassword, domain.ResetPasswordMailData{FullName: "김민수", OTP: "042137", Expiration: 15})
	assert.Contains(t, out, "042137")
	assert.Contains(t, out, "15 分钟")

	out = render(t, domain.MailTypePayslip, domain.PayslipMailData{
		FullName:  "김민수",
		StoreName: "测试门店",
		StartDate: "2024-02-01",
		EndDate:   "2024-02-29",
		BaseWage:  1500000,
		Total:     1500000,
	})
	assert.Contains(t, out, "测试门店")
	assert.Contains(t, out, "2024-02-29")
	assert.Contains(t, out, "1500000")
	assert.NotContains(t, out, "e+06")
}
