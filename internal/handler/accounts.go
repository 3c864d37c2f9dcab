package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.repository.GetAllAccounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取账户列表成功", accounts)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountInfoCtx).(*domain.Account)
	h.successResponse(w, r, "获取账户信息成功", account)
}

// CreateAccount 用随机密码创建账户，并通过邮件告知对方
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,alphanum"`
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewAccount.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	account := &domain.Account{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Email:        req.Email,
	}

	if err := h.repository.CreateAccount(account); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "accounts_username_key":
				h.errorResponse(w, r, "用户名已存在")
			case "accounts_email_key":
				h.errorResponse(w, r, "邮箱已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	mailMessage := domain.MailMessage{
		Type: domain.MailTypeCreateAccount,
		To:   account.Email,
		Data: domain.CreateAccountMailData{
			FullName: account.FullName,
			Username: account.Username,
			Password: password,
		},
	}

	if err := h.publishJSON(h.config.RabbitMQ.MailQueue, mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "账户创建成功", account)
}
