package labels

import (
	"sync"

	"github.com/courierhub/labelqr/internal/domain/utils/validator"
	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidations adds the tracking_code binding tag to gin's validator.
func registerValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*playground.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("tracking_code", func(fl playground.FieldLevel) bool {
			return validator.TrackingCode(fl.Field().String())
		})
	})
}
