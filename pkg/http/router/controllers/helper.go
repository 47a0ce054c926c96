package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/gridwords/pkg/codec"
	"github.com/lintang-b-s/gridwords/pkg/geocoder"
	"github.com/lintang-b-s/gridwords/pkg/grid"
	"github.com/lintang-b-s/gridwords/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

// maxBodyBytes bounds POST bodies, enough for a full batch of points.
const maxBodyBytes = 2 << 20

func (api *geocodingAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *geocodingAPI) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesErr.Limit)
		}
		return fmt.Errorf("body contains badly-formed JSON: %w", err)
	}
	return r.Body.Close()
}

func (api *geocodingAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	resp := errorResponse{Error: errorBody{Code: code, Message: message}}
	if err := api.writeJSON(w, status, envelope{"error": resp.Error}, nil); err != nil {
		api.log.Error("write error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *geocodingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, errorCode(err), err.Error())
}

func (api *geocodingAPI) ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
}

func (api *geocodingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.Error(err),
		zap.String("method", r.Method), zap.String("path", r.URL.Path))
	api.errorResponse(w, r, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", util.MessageInternalServerError)
}

// getStatusCode writes the response for an error returned by the usecase layer.
func (api *geocodingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	var uerr *util.Error
	if !errors.As(err, &uerr) {
		api.ServerErrorResponse(w, r, err)
		return
	}

	switch uerr.Code() {
	case util.ErrBadParamInput:
		api.BadRequestResponse(w, r, err)
	case util.ErrNotFound:
		api.errorResponse(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

// errorCode names the domain error behind err for clients.
func errorCode(err error) string {
	var (
		oob       *grid.OutOfBoundsError
		unknown   *codec.UnknownWordError
		malformed *codec.MalformedTokenError
		small     *codec.VocabularyTooSmallError
	)
	switch {
	case errors.As(err, &oob):
		return "OUT_OF_BOUNDS"
	case errors.As(err, &unknown):
		return "UNKNOWN_WORD"
	case errors.As(err, &malformed):
		return "MALFORMED_TOKEN"
	case errors.As(err, &small):
		return "VOCABULARY_TOO_SMALL"
	case errors.Is(err, codec.ErrDisplayOnly):
		return "DISPLAY_ONLY"
	case errors.Is(err, geocoder.ErrWordsNotAccepted):
		return "WORDS_NOT_ACCEPTED"
	}
	return "BAD_REQUEST"
}

type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &requestValidator{validate: validate, trans: trans}
}

func (v *requestValidator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	vv := translateError(err, v.trans)
	vvString := make([]string, 0, len(vv))
	for _, e := range vv {
		vvString = append(vvString, e.Error())
	}
	return fmt.Errorf("validation error: %s", strings.Join(vvString, "; "))
}

func translateError(err error, trans ut.Translator) []error {
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func queryFloat(query url.Values, key string) (float64, error) {
	raw := query.Get(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := util.StringToFloat64(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid float", key)
	}
	return v, nil
}

// queryWords reads w1, w2 and w3. it returns nil when none is given, and all
// three (possibly empty) otherwise so validation can report the missing ones.
func queryWords(query url.Values) []string {
	words := []string{query.Get("w1"), query.Get("w2"), query.Get("w3")}
	if words[0] == "" && words[1] == "" && words[2] == "" {
		return nil
	}
	return words
}
