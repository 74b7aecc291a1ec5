package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/utils"
	"github.com/MKhiriev/go-care-keeper/models"
)

const (
	restPrefix          = "/rest/v1"
	tablePath           = restPrefix + "/{table}"
	recordPath          = restPrefix + "/{table}/{id}"
	idempotencyHeader   = "Idempotency-Key"
	preferHeader        = "Prefer"
	preferReturnMinimal = "return=minimal"
)

type restRemoteStore struct {
	client *utils.HTTPClient
	apiKey string

	logger *logger.Logger
}

// NewRESTRemoteStore constructs the HTTP/REST implementation of
// [RemoteStore]. The base URL is normalised from cfg.HTTPAddress; cfg.APIKey,
// when set, is sent as a bearer token with every request.
func NewRESTRemoteStore(cfg config.ClientAdapter, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &restRemoteStore{client: client, apiKey: strings.TrimSpace(cfg.APIKey), logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Insert implements [RemoteStore] as POST /rest/v1/{table}.
func (r *restRemoteStore) Insert(ctx context.Context, table string, payload models.Payload) error {
	resp, err := r.authedRequest(ctx).
		SetPathParam("table", table).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(tablePath)
	if err != nil {
		return fmt.Errorf("insert request (table=%s): %w", table, err)
	}

	return mapHTTPError(resp)
}

// Update implements [RemoteStore] as PATCH /rest/v1/{table}/{id}.
func (r *restRemoteStore) Update(ctx context.Context, table, id string, payload models.Payload) error {
	if id == "" {
		return ErrEmptyRecordID
	}

	resp, err := r.authedRequest(ctx).
		SetPathParams(map[string]string{"table": table, "id": id}).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Patch(recordPath)
	if err != nil {
		return fmt.Errorf("update request (table=%s, id=%s): %w", table, id, err)
	}

	return mapHTTPError(resp)
}

// Delete implements [RemoteStore] as DELETE /rest/v1/{table}/{id}.
func (r *restRemoteStore) Delete(ctx context.Context, table, id string) error {
	if id == "" {
		return ErrEmptyRecordID
	}

	resp, err := r.authedRequest(ctx).
		SetPathParams(map[string]string{"table": table, "id": id}).
		Delete(recordPath)
	if err != nil {
		return fmt.Errorf("delete request (table=%s, id=%s): %w", table, id, err)
	}

	return mapHTTPError(resp)
}

func (r *restRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := r.client.R().
		SetContext(ctx).
		SetHeader(preferHeader, preferReturnMinimal)
	if r.apiKey != "" {
		req.SetAuthToken(r.apiKey)
	}
	if key, ok := utils.GetIdempotencyKeyFromContext(ctx); ok {
		req.SetHeader(idempotencyHeader, key)
	}
	return req
}
