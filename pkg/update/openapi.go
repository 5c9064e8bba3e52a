package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-inplace/pkg/model"
)

// OpenAPI describes the registered actions mounted under basePath as an
// OpenAPI 3 document. The document is loaded and validated with kin-openapi
// before it is returned.
func (r *Registry) OpenAPI(ctx context.Context, basePath, title, version string) (*openapi3.T, error) {
	if strings.TrimSpace(title) == "" {
		title = "In-place editing"
	}
	if strings.TrimSpace(version) == "" {
		version = "1.0.0"
	}

	paths := make(map[string]any)
	for _, action := range r.Actions() {
		var assoc model.Association
		if r.store != nil && action.Options.Association {
			assoc = r.store.Association(action.EntityType, action.Attribute)
		}
		paths[mountPath(basePath, action.Name)] = map[string]any{
			"post": describeOperation(action, http.MethodPost, assoc),
			"put":  describeOperation(action, http.MethodPut, assoc),
		}
	}

	raw, err := json.Marshal(map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   title,
			"version": version,
		},
		"paths": paths,
	})
	if err != nil {
		return nil, fmt.Errorf("update: encode openapi: %w", err)
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("update: load openapi: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("update: validate openapi: %w", err)
	}
	return doc, nil
}

func describeOperation(action Action, method string, assoc model.Association) map[string]any {
	valueSchema := map[string]any{"type": "string"}
	if assoc.IsSingle() {
		valueSchema["description"] = "Identifier of the associated " + assoc.Target
	}

	op := map[string]any{
		"operationId": action.Name + "_" + strings.ToLower(method),
		"summary":     "Update " + action.EntityType + "." + action.Attribute,
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				"application/x-www-form-urlencoded": map[string]any{
					"schema": map[string]any{
						"type":     "object",
						"required": []string{action.Options.IDParam},
						"properties": map[string]any{
							action.Options.IDParam:    map[string]any{"type": "string"},
							action.Options.ValueParam: valueSchema,
						},
					},
				},
			},
		},
		"responses": map[string]any{
			strconv.Itoa(http.StatusOK): map[string]any{
				"description": "Escaped display text of the stored value",
				"content": map[string]any{
					"text/html": map[string]any{"schema": map[string]any{"type": "string"}},
				},
			},
			strconv.Itoa(http.StatusNotFound):            map[string]any{"description": "Entity not found"},
			strconv.Itoa(http.StatusMethodNotAllowed):    map[string]any{"description": MethodNotAllowedBody},
			strconv.Itoa(http.StatusUnprocessableEntity): map[string]any{"description": "Request verification failed"},
		},
		"x-inplace": map[string]any{
			"entity":    action.EntityType,
			"attribute": action.Attribute,
		},
	}
	if assoc.IsSingle() {
		op["x-inplace"].(map[string]any)["association"] = assoc.Target
	}
	return op
}
