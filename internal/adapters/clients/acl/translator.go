package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/betterdays/inspiration-service/internal/adapters/clients"
)

// maxBodyBytes caps how much of an upstream body is decoded.
const maxBodyBytes = 64 << 10

// shape validates upstream DTOs. Field names are reported by their JSON tag.
var shape = newShapeValidator()

func newShapeValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// BaseAdapter holds what every upstream adapter needs: the instrumented
// client and the name it reports under.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter for serviceName.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the upstream service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET and returns the body of a 2xx response, which the
// caller must close. Any other outcome is returned as a domain error.
func (a *BaseAdapter) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err)
	}

	if !IsSuccess(resp.StatusCode) {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil)
	}

	return resp.Body, nil
}

// DecodeResponse reads a JSON body into T and closes it.
// An empty body is reported as io.EOF wrapped in the decode error.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// CheckShape runs the validate tags of an upstream DTO and reports the
// first offending field as an invalid response.
func CheckShape(dto any) error {
	err := shape.Struct(dto)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return invalidResponse(fieldErrs[0].Field())
	}

	return invalidResponse("")
}

// Translator converts a validated upstream DTO into a domain value.
type Translator[External any, Domain any] func(ext *External) (*Domain, error)

// DecodeAndTranslate decodes body into External, shape-checks it and
// translates it. Every decode or shape failure is an invalid response.
func DecodeAndTranslate[E any, D any](body io.ReadCloser, translate Translator[E, D]) (*D, error) {
	ext, err := DecodeResponse[E](body)
	if err != nil {
		return nil, invalidResponse("")
	}

	if err := CheckShape(ext); err != nil {
		return nil, err
	}

	return translate(ext)
}
