package handler

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/utils"
)

type customValidation struct {
	tag         string
	fn          func(s string) bool
	translation string
}

var customValidations = []customValidation{
	{tag: "clock", fn: utils.IsClock, translation: "{0}必须是 HH:MM 格式的时间"},
	{tag: "date", fn: utils.IsDate, translation: "{0}必须是 yyyy-MM-dd 格式的日期"},
}

// registerCustomValidations 注册时间和日期格式的校验规则及其中文提示
func registerCustomValidations(validate *validator.Validate, trans ut.Translator) error {
	for _, cv := range customValidations {
		fn := cv.fn
		if err := validate.RegisterValidation(cv.tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			return err
		}

		tag, translation := cv.tag, cv.translation
		err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, translation, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
