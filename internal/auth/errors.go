package auth

import "badir-backend/internal/pkg/apperr"

var (
	ErrCredentialsRequired = apperr.New(apperr.Validation, "البريد الإلكتروني وكلمة المرور مطلوبان")
	ErrInvalidCredentials  = apperr.New(apperr.Forbidden, "البريد الإلكتروني أو كلمة المرور غير صحيحة")
	ErrAccountDisabled     = apperr.New(apperr.Forbidden, "تم تعطيل هذا الحساب")
)
