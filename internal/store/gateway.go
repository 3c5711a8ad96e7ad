// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jsonvc/jsonvc/internal/canon"
	jsonvcerrors "github.com/jsonvc/jsonvc/internal/errors"
)

// GatewayProvider stores and retrieves objects against an HTTP
// content-addressing gateway — generalized from an IPFS HTTP API (GET
// <gateway>/ipfs/<hash>, POST <rpcUploadURL> multipart upload) to any
// backend exposing that shape. It deliberately does not implement Index:
// enumerating a remote gateway's full object set isn't a capability these
// APIs expose, so a NodeCache built over one skips seed discovery, per
// §4.5/§4.2's "cache degrades gracefully" rule.
type GatewayProvider struct {
	GatewayURL   string
	RPCUploadURL string
	HTTPClient   *http.Client
}

// NewGatewayProvider returns a Provider backed by an HTTP gateway. If
// rpcUploadURL is empty, gatewayURL is also used for uploads.
func NewGatewayProvider(gatewayURL, rpcUploadURL string) *GatewayProvider {
	if rpcUploadURL == "" {
		rpcUploadURL = gatewayURL
	}
	return &GatewayProvider{
		GatewayURL:   gatewayURL,
		RPCUploadURL: rpcUploadURL,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GatewayProvider) client() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return http.DefaultClient
}

// Store implements Provider by uploading the canonical bytes and trusting
// the hash this module computes locally (the gateway's own CID, if it
// differs, is not surfaced here — see §4.2's ComputeHash contract note).
func (p *GatewayProvider) Store(value any) (string, error) {
	canonical, err := canon.Canonicalize(value)
	if err != nil {
		return "", &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	hash := canon.HashBytes(canonical)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", hash+".json")
	if err != nil {
		return "", &jsonvcerrors.StorageError{Op: "store", Reason: "build upload request", Err: err}
	}
	if _, err := part.Write(canonical); err != nil {
		return "", &jsonvcerrors.StorageError{Op: "store", Reason: "build upload request", Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &jsonvcerrors.StorageError{Op: "store", Reason: "build upload request", Err: err}
	}

	req, err := http.NewRequest(http.MethodPost, p.RPCUploadURL, &body)
	if err != nil {
		return "", &jsonvcerrors.StorageError{Op: "store", Reason: "build upload request", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client().Do(req)
	if err != nil {
		return "", &jsonvcerrors.StorageError{Op: "store", Reason: "upload object", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", &jsonvcerrors.StorageError{Op: "store", Reason: fmt.Sprintf("gateway returned status %d", resp.StatusCode)}
	}
	return hash, nil
}

// Load implements Provider.
func (p *GatewayProvider) Load(hash string) (any, error) {
	if !canon.IsWellFormedHash(hash) {
		return nil, &jsonvcerrors.StorageError{Op: "load", Reason: "hash is not well-formed"}
	}
	url := fmt.Sprintf("%s/ipfs/%s", p.GatewayURL, hash)
	resp, err := p.client().Get(url)
	if err != nil {
		return nil, &jsonvcerrors.StorageError{Op: "load", Reason: "fetch object", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, &jsonvcerrors.StorageError{Op: "load", Reason: fmt.Sprintf("gateway returned status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &jsonvcerrors.StorageError{Op: "load", Reason: "read response body", Err: err}
	}
	value, err := canon.Decode(data)
	if err != nil {
		return nil, &jsonvcerrors.IntegrityError{Hash: hash, Reason: "gateway returned bytes that are not valid JSON"}
	}
	actual, err := canon.Hash(value)
	if err != nil {
		return nil, &jsonvcerrors.SerializationError{Reason: err.Error()}
	}
	if actual != hash {
		return nil, &jsonvcerrors.IntegrityError{Hash: hash, Reason: "gateway returned bytes that do not hash to the requested CID"}
	}
	return value, nil
}

// Exists implements Provider by issuing a HEAD-style probe (GET with the
// response body discarded): the gateway API this backend targets does not
// guarantee a cheaper HEAD route.
func (p *GatewayProvider) Exists(hash string) bool {
	if !canon.IsWellFormedHash(hash) {
		return false
	}
	url := fmt.Sprintf("%s/ipfs/%s", p.GatewayURL, hash)
	resp, err := p.client().Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode < 300
}

// ComputeHash implements Provider.
func (p *GatewayProvider) ComputeHash(value any) (string, error) {
	return computeCanonicalHash(value)
}

var _ Provider = (*GatewayProvider)(nil)
