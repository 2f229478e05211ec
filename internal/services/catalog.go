package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/gaana/internal/models"
	"github.com/desertthunder/gaana/internal/shared"
)

// decodeList accepts either a bare JSON array or an object wrapping the array under key.
func decodeList[T any](resp *APIResponse, key string) ([]T, error) {
	items := []T{}
	if len(resp.Body) == 0 {
		return items, nil
	}

	if err := json.Unmarshal(resp.Body, &items); err == nil {
		return items, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	raw, ok := wrapped[key]
	if !ok || string(raw) == "null" {
		return []T{}, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return items, nil
}

// requireCreated rejects a create call the API answered with anything but 201.
func requireCreated(resp *APIResponse, path string) error {
	if resp.StatusCode == http.StatusCreated {
		return nil
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Method:     http.MethodPost,
		Path:       path,
		Message:    serverMessage(resp.Body),
		Body:       resp.Body,
	}
}

// decodeCreated returns the entity echoed by a create call, or nil when the body is not a JSON object.
func decodeCreated[T any](resp *APIResponse) *T {
	if !resp.IsJSON {
		return nil
	}
	if _, ok := resp.JSONData.(map[string]any); !ok {
		return nil
	}

	var v T
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return nil
	}
	return &v
}

func entityPath(collection string, id models.ID, action string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	p := collection + "/" + url.PathEscape(id.String())
	if action != "" {
		p += "/" + action
	}
	return p, nil
}
