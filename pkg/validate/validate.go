package validate

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// appSlugPattern 应用标识：字母、数字、下划线、连字符、点，2-20位
	appSlugPattern = regexp.MustCompile(`^[\w\-\.]{2,20}$`)

	// mockURIPattern Mock接口URI：以/开头，段内允许{name}与{name?}占位符
	mockURIPattern = regexp.MustCompile(`^(/(([\w\-\.]+)|(\{[a-zA-Z_][\w]*\??\})))+/?$|^/$`)

	// virUIDPattern 公开用户标识：小写字母开头，4-24位
	virUIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_\-]{3,23}$`)
)

// Register 在gin的绑定校验器上注册自定义规则
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("app_slug", validateAppSlug); err != nil {
		return err
	}
	if err := v.RegisterValidation("mock_uri", validateMockURI); err != nil {
		return err
	}
	return v.RegisterValidation("vir_uid", validateVirUID)
}

func validateAppSlug(fl validator.FieldLevel) bool {
	return appSlugPattern.MatchString(fl.Field().String())
}

func validateMockURI(fl validator.FieldLevel) bool {
	return mockURIPattern.MatchString(fl.Field().String())
}

func validateVirUID(fl validator.FieldLevel) bool {
	return virUIDPattern.MatchString(fl.Field().String())
}
