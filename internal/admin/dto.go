package admin

import (
	"bytes"
	"encoding/json"
)

// UpdateStatusDTO keeps is_active raw so that "true" or 1 are rejected
// instead of coerced.
type UpdateStatusDTO struct {
	IsActive json.RawMessage `json:"is_active"`
}

func (d UpdateStatusDTO) Value() (bool, error) {
	switch string(bytes.TrimSpace(d.IsActive)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, ErrInvalidActiveFlag
	}
}

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

type DeleteUserResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
