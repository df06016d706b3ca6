package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

var errEmptyBody = fmt.Errorf("%w: request body is required", errBadParam)

// bindBody decodes the request body into obj. Clients may send the payload
// flat ({...}) or wrapped under key ({"order": {...}}).
func bindBody(c *gin.Context, key string, obj any) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		var err error
		if bodyBytes, err = io.ReadAll(c.Request.Body); err != nil {
			return fmt.Errorf("%w: failed to read request body: %v", errBadParam, err)
		}
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return errEmptyBody
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &nested); err == nil {
		if val, ok := nested[key]; ok {
			return decodeJSON(val, obj)
		}
	}
	return decodeJSON(bodyBytes, obj)
}

func decodeJSON(data []byte, obj any) error {
	if err := json.Unmarshal(data, obj); err != nil {
		return fmt.Errorf("%w: %v", errBadParam, err)
	}
	return nil
}
