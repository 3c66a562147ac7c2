// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package console

import (
	"bytes"
	"encoding/base64"
	"io"
	"reflect"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/notify"
)

// MaxImageSize is the largest image EncodeImage accepts.
const MaxImageSize = 5 << 20

// ErrNotImage is returned by EncodeImage for non image content.
var ErrNotImage = errors.New("file is not an image")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateForm checks form and toasts the first violation.
func (p *page) validateForm(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		err = errors.Errorf("%s %s", fieldErrs[0].Field(), describe(fieldErrs[0]))
	}
	p.notifier.Notify(notify.Failure("Validation failed", err.Error()))

	return err
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt", "gte", "lt", "lte":
		return "must be " + fe.Tag() + " " + fe.Param()
	case "datauri":
		return "must be a data uri"
	default:
		return "is invalid"
	}
}

// EncodeImage reads an image and returns it as a base64 data uri, the form
// logos and category images travel in.
func EncodeImage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", errors.Wrap(err, "read image")
	}
	if len(data) > MaxImageSize {
		return "", errors.Errorf("image is larger than %d bytes", MaxImageSize)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", errors.Wrapf(ErrNotImage, "detected %s", mime.String())
	}

	var buf bytes.Buffer
	buf.WriteString("data:")
	buf.WriteString(mime.String())
	buf.WriteString(";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(data))

	return buf.String(), nil
}
