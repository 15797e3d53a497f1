// File: internal/credential/validator.go
package credential

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Field 表單欄位名稱（封閉集合）
type Field string

const (
	FieldIdentifier Field = "identifier"
	FieldSecret     Field = "secret"
)

// Input 使用者在表單上輸入的原始值，允許空字串
type Input struct {
	Identifier string
	Secret     string
	RememberMe bool
}

// Credential 通過驗證後的正規化帳密；Identifier 已去除前後空白，Secret 原樣保留
type Credential struct {
	Identifier string
	Secret     string
	RememberMe bool
}

// Result 驗證結果：Errors 為空即為有效，此時 Credential 才有值
type Result struct {
	Credential Credential
	Errors     map[Field]string
}

// Valid 回傳所有欄位是否皆通過
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Message 取得指定欄位的錯誤訊息
func (r Result) Message(f Field) (string, bool) {
	msg, ok := r.Errors[f]
	return msg, ok
}

// form 以 struct tag 描述每個欄位的規則，tag 順序即規則順序（每欄位第一個失敗者勝出）
type form struct {
	Identifier string `validate:"required,notblank"`
	Secret     string `validate:"required,min=3"`
}

var structFields = map[string]Field{
	"Identifier": FieldIdentifier,
	"Secret":     FieldSecret,
}

var messages = map[Field]map[string]string{
	FieldIdentifier: {
		"required": "Username is required",
		"notblank": "Username cannot be empty",
	},
	FieldSecret: {
		"required": "Password is required",
		"min":      "Password must be at least 3 characters",
	},
}

// Validator wraps go-playground/validator with the login form rule set.
type Validator struct {
	validate *validator.Validate
}

// New 建立帳密驗證器
func New() *Validator {
	v := validator.New()
	// 註冊失敗只會發生在 tag 名稱不合法時
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate 套用規則並一次回傳所有失敗欄位，不會短路；純函式，無副作用
func (v *Validator) Validate(in Input) Result {
	err := v.validate.Struct(form{Identifier: in.Identifier, Secret: in.Secret})
	if err == nil {
		return Result{Credential: Credential{
			Identifier: strings.TrimSpace(in.Identifier),
			Secret:     in.Secret,
			RememberMe: in.RememberMe,
		}}
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// form 一定是 struct，走到這裡代表程式錯誤
		panic(err)
	}
	errs := make(map[Field]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := structFields[fe.StructField()]
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = messages[field][fe.Tag()]
	}
	return Result{Errors: errs}
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Validate 使用共用的預設驗證器
func Validate(in Input) Result {
	defaultOnce.Do(func() { defaultValidator = New() })
	return defaultValidator.Validate(in)
}
