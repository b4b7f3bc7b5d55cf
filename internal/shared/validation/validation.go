// Package validation registers the resume field validators with gin's binding engine.
package validation

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"resume-builder/resume/model"
)

var once sync.Once

// Register installs the skilllevel and yearsstep tags. Safe to call repeatedly.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Install(v)
	})
}

// Install adds the resume tags to v.
func Install(v *validator.Validate) {
	_ = v.RegisterValidation("skilllevel", func(fl validator.FieldLevel) bool {
		return model.SkillLevel(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("yearsstep", func(fl validator.FieldLevel) bool {
		return model.ValidYears(fl.Field().Float())
	})
}
