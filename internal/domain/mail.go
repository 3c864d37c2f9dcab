package domain

const (
	MailTypeCreateAccount = "create_account"
	MailTypeResetPassword = "reset_password"
	MailTypePayslip       = "payslip"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateAccountMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type PayslipMailData struct {
	FullName              string `json:"fullName"`
	StoreName             string `json:"storeName"`
	StartDate             string `json:"startDate"`
	EndDate               string `json:"endDate"`
	DayMinutes            int64  `json:"dayMinutes"`
	NightMinutes          int64  `json:"nightMinutes"`
	HolidayAllowanceWeeks int    `json:"holidayAllowanceWeeks"`
	BaseWage              int64  `json:"baseWage"`
	HolidayAllowance      int64  `json:"holidayAllowance"`
	Total                 int64  `json:"total"`
}
