package util

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 注册自定义的 binding 校验标签
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || IsDate(s)
	}); err != nil {
		return err
	}
	return v.RegisterValidation("studentstatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "Running" || s == "Completed"
	})
}
