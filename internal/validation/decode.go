package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/Domenick1991/fastboat/internal/domain"
)

// DecodeJSON unmarshals body into dst. A value of the wrong JSON type does
// not abort decoding: it is reported as a FieldError, the key is dropped and
// the rest of the object is decoded, so the caller can still validate every
// other field. err is set only for bodies that are not a JSON object at all.
// An empty body leaves dst untouched and returns io.EOF.
func DecodeJSON(body []byte, dst any) ([]domain.FieldError, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, io.EOF
	}

	var fields []domain.FieldError
	for {
		err := json.Unmarshal(body, dst)
		if err == nil {
			return fields, nil
		}

		var ute *json.UnmarshalTypeError
		if !errors.As(err, &ute) || ute.Field == "" {
			return fields, err
		}
		key := strings.SplitN(ute.Field, ".", 2)[0]

		var object map[string]json.RawMessage
		if jerr := json.Unmarshal(body, &object); jerr != nil {
			return fields, err
		}
		if _, ok := object[key]; !ok {
			return fields, err
		}
		delete(object, key)

		fields = append(fields, domain.FieldError{Field: key, Message: typeMessage(key, ute.Type), Err: err})
		if body, err = json.Marshal(object); err != nil {
			return fields, err
		}
	}
}

func typeMessage(field string, t reflect.Type) string {
	name := humanize(field)
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("The %s must be an integer.", name)
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("The %s must be a number.", name)
	case reflect.String:
		return fmt.Sprintf("The %s must be a string.", name)
	case reflect.Bool:
		return fmt.Sprintf("The %s must be true or false.", name)
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}

// Merge returns fields followed by the entries of extra for fields not
// already reported. Neither argument is modified.
func Merge(fields []domain.FieldError, extra []domain.FieldError) []domain.FieldError {
	out := make([]domain.FieldError, 0, len(fields)+len(extra))
	seen := make(map[string]bool, len(fields)+len(extra))
	for _, list := range [][]domain.FieldError{fields, extra} {
		for _, f := range list {
			if !seen[f.Field] {
				seen[f.Field] = true
				out = append(out, f)
			}
		}
	}
	return out
}
