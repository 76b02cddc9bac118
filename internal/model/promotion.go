package model

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Promotion is a gift-distribution campaign.
// ID zero means the promotion has not been created on the server yet.
type Promotion struct {
	ID                int64  `json:"id"`
	Name              string `json:"name" validate:"notblank"`
	Date              Date   `json:"date"`
	SentGifts         int    `json:"sentGifts" validate:"min=1"`
	DaysToTakeGift    int    `json:"daysToTakeGift" validate:"min=2"`
	DaysToReceiveGift int    `json:"daysToReceiveGift" validate:"min=2"`
	Description       string `json:"description,omitempty" validate:"max=500"`
	CardNumbers       string `json:"cardNumbers,omitempty" validate:"max=5000,cardnumbers"`
}

// Sort keys accepted by the promotions list endpoint.
const (
	SortByName      = "name"
	SortByDate      = "date"
	SortBySentGifts = "sentGifts"
	SortByID        = "id"
)

// IsPersisted reports whether the server has assigned an ID.
func (p Promotion) IsPersisted() bool {
	return p.ID != 0
}

// DeleteResponse is the body returned by DELETE /api/promotions/{id}.
type DeleteResponse struct {
	ID int64 `json:"id"`
}

var cardNumbersPattern = regexp.MustCompile(`^[0-9,]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("cardnumbers", func(fl validator.FieldLevel) bool {
		return cardNumbersPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks the promotion against the form rules and returns a
// *ValidationError listing every violation.
func (p Promotion) Validate() error {
	var fields []FieldError

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field: fe.Field(),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
	}

	if p.Date.IsZero() {
		fields = append(fields, FieldError{Field: "date", Rule: "required"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
