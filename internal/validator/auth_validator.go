package validator

import "strings"

// サインアップの入力を検証（形式だけ。重複は usecase で見る）
func ValidateRegister(email, password, name string) Fields {
	f := Fields{}
	f.email("email", email)
	if password == "" {
		f["password"] = "is required"
	}
	f.required("name", name)
	f.maxLen("name", name, 255)
	return f
}

// ログインの入力を検証
func ValidateLogin(email, password string) Fields {
	f := Fields{}
	if strings.TrimSpace(email) == "" {
		f["email"] = "is required"
	}
	if password == "" {
		f["password"] = "is required"
	}
	return f
}
