package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("catalog: validation failed")

// ValidationError is returned before any network attempt when caller input is
// unusable. Remote failures are never reported this way; they come back as a
// Result with Success == false.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrValidation) work.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Fields returns the per-field messages when the failure came from struct rules.
func (e *ValidationError) Fields() map[string]string {
	var verrs validation.Errors
	if !errors.As(e.Err, &verrs) {
		return nil
	}
	out := make(map[string]string)
	flattenErrors("", verrs, out)
	return out
}

func flattenErrors(prefix string, errs validation.Errors, out map[string]string) {
	for field, err := range errs {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flattenErrors(key, nested, out)
			continue
		}
		out[key] = err.Error()
	}
}

func invalid(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Op: op, Err: err}
}

var (
	notBlank = validation.NewStringRuleWithError(
		func(s string) bool { return strings.TrimSpace(s) != "" },
		validation.NewError("validation_blank", "must not be blank"),
	)
	dataURLPattern = regexp.MustCompile(`^data:[\w.+-]+/[\w.+-]+;base64,[A-Za-z0-9+/]+=*$`)
)

func required() []validation.Rule {
	return []validation.Rule{validation.Required, notBlank}
}

// Validate implements validation.Validatable.
func (in UploadImageInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ImageURL,
			validation.When(strings.TrimSpace(in.ImageBase64) == "",
				validation.Required.Error("imageUrl or imageBase64 is required")),
			is.URL,
		),
		validation.Field(&in.ImageBase64,
			validation.Match(dataURLPattern).Error("must be a data URL (data:<mime>;base64,<payload>)"),
		),
	)
}

// Validate implements validation.Validatable. Subproducts are validated element by element.
func (in ProductInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CategoryName, required()...),
		validation.Field(&in.SubcategoryName, required()...),
		validation.Field(&in.SourceProductID, required()...),
		validation.Field(&in.Name, required()...),
		validation.Field(&in.Subproducts, validation.Required.Error("must contain at least one subproduct")),
	)
}

// Validate implements validation.Validatable. A zero price or stock is valid;
// only a missing value is rejected.
func (s Subproduct) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.SourceProductID, required()...),
		validation.Field(&s.SourceName, required()...),
		validation.Field(&s.Price, validation.NotNil),
		validation.Field(&s.Stock, validation.NotNil),
	)
}

// Validate implements validation.Validatable.
func (q ListProductsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Limit, validation.Min(0)),
		validation.Field(&q.Offset, validation.Min(0)),
	)
}

func validateFriendlyID(id int64) error {
	return validation.Validate(id, validation.Required, validation.Min(int64(1)))
}
