package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UnmarshalJSON only accepts the exact lowercase keys. encoding/json would
// otherwise fold "USERNAME" onto the username field.
func (r *RegisterRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	username, err := stringField(fields, "username")
	if err != nil {
		return err
	}
	password, err := stringField(fields, "password")
	if err != nil {
		return err
	}

	r.Username = username
	r.Password = password
	return nil
}

// stringField reads a string value by exact key. Absent keys and null
// values read as the empty string.
func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", nil
	}

	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", &json.UnmarshalTypeError{Value: "value", Type: reflect.TypeOf(""), Field: key}
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// Validate checks required fields are present and non-empty
func (r *RegisterRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username is required")
	}
	if strings.ContainsRune(r.Username, 0) {
		return errors.New("username must not contain NUL characters")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// Decode reads a single JSON object from the request body into dst.
// Wrong field types and trailing data are rejected.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return fmt.Errorf("%s must be a %s", typeErr.Field, typeErr.Type)
		}
		return errors.New("invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body")
	}
	return nil
}
