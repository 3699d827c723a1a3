package echoweb

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"

	"github.com/flightcheck/backend/core"
)

type loginForm struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
	Next     string `form:"next" json:"next"`
}

func (f *loginForm) Validate(v *validator.Validate) error {
	f.Email = core.CleanString(f.Email, true)
	return v.Struct(f)
}

type signupForm struct {
	Name       string `form:"name" json:"name" validate:"required"`
	Email      string `form:"email" json:"email" validate:"required,email"`
	Password   string `form:"password" json:"password" validate:"required,min=6"`
	InviteCode string `form:"invite_code" json:"invite_code" validate:"required"`
	Next       string `form:"next" json:"next"`
}

func (f *signupForm) Validate(v *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.Email = core.CleanString(f.Email, true)
	f.InviteCode = core.CleanString(f.InviteCode)
	return v.Struct(f)
}

type scanForm struct {
	Payload string `form:"payload" json:"payload"`
}

type toggleForm struct {
	ItemID  string `form:"item_id" json:"item_id" validate:"required"`
	Cleared bool   `form:"cleared" json:"cleared"`
}

func (f *toggleForm) Validate(v *validator.Validate) error {
	return v.Struct(f)
}

// fieldErrors flattens validation failures into a field -> message map the
// form templates render inline. Non-validation errors yield nil.
func fieldErrors(err error, translator ut.Translator) map[string]string {
	switch origErr := pkgerrors.Cause(err).(type) {
	case validator.ValidationErrors:
		fldErrs := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fldErrs[vErr.Field()] = vErr.Translate(translator)
		}
		return fldErrs
	case *core.ValidationError:
		if origErr.Fields != nil {
			fldErrs := make(map[string]string, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			return fldErrs
		}
		return map[string]string{"__all__": origErr.Error()}
	}
	return nil
}
