package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/pkg/tz"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// DecodeJSON декодирует тело запроса; неизвестные поля - ошибка
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// DecodeAndValidate декодирует тело и проверяет теги validate
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
			}
			return fmt.Errorf("%w: invalid fields: %s", domain.ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// PathInt64 извлекает положительный id из пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// QueryInt читает целый query параметр; пустой - def
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidInput, name, raw)
	}
	return v, nil
}

// QueryBool читает булев query параметр; пустой - false
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidInput, name, raw)
	}
	return v, nil
}

// QueryDate читает обязательную дату YYYY-MM-DD
func QueryDate(r *http.Request, name string) (tz.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return tz.Date{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	d, err := tz.ParseDate(raw)
	if err != nil {
		return tz.Date{}, fmt.Errorf("%w: invalid %s %q, expected YYYY-MM-DD", domain.ErrInvalidInput, name, raw)
	}
	return d, nil
}

// QueryString возвращает указатель на непустой параметр
func QueryString(r *http.Request, name string) *string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	return &raw
}
