package errors

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// imageExts are the link extensions accepted by the imageurl tag.
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// validatorInstance returns the shared validator. Field names in messages
// follow the json tags, so clients see "image_id" rather than "ImageId".
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		// only fails for an empty tag or nil func
		_ = validate.RegisterValidation("imageurl", isImageURL)
	})
	return validate
}

// isImageURL accepts absolute http(s) links whose path ends in a known image extension.
func isImageURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return imageExts[strings.ToLower(path.Ext(u.Path))]
}

// Validate checks req against its `validate` struct tags.
// Any failure comes back as InvalidArgument listing every bad field.
//
// Example:
//
//	if err := svcErr.Validate(&in); err != nil {
//		return nil, err
//	}
func Validate(req any) error {
	err := validatorInstance().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return status.Error(codes.InvalidArgument, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "imageurl":
		return field + " must be an http(s) link to a .jpg, .jpeg or .png image"
	case "number":
		return field + " must be a positive integer"
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
