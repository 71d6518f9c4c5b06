package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Queue message contracts. Field names are part of the wire protocol and
// must round-trip exactly between producers and consumers.

// ConversionRequest is published by the ingest stage after the raw invoice
// blob is stored. ProcessedBlobID is always empty at this point; it is
// carried so both queue payloads share one envelope shape.
type ConversionRequest struct {
	InvoiceBlobID   string `json:"invoice_fid"`
	ProcessedBlobID string `json:"processed_fid,omitempty"`
	Requester       string `json:"username"`
	Format          string `json:"format"`
}

// Validate checks the fields a conversion worker depends on. A request that
// fails validation is rejected rather than processed on a best-effort basis.
func (r *ConversionRequest) Validate() error {
	if r.InvoiceBlobID == "" {
		return errors.New("conversion request: missing invoice_fid")
	}
	if r.Requester == "" {
		return errors.New("conversion request: missing username")
	}
	if r.Format == "" {
		return errors.New("conversion request: missing format")
	}
	return nil
}

// DecodeConversionRequest parses and validates a queue A payload.
func DecodeConversionRequest(data []byte) (*ConversionRequest, error) {
	var req ConversionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode conversion request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// DeliveryNotice is published by the conversion worker once the processed
// artifact is durably stored, and consumed by the notification worker.
type DeliveryNotice struct {
	InvoiceBlobID   string `json:"invoice_fid"`
	ProcessedBlobID string `json:"processed_fid"`
	Requester       string `json:"username"`
	Format          string `json:"format"`
	OutputExtension string `json:"output_extension"`
}

// Validate checks the fields the notification worker depends on.
func (n *DeliveryNotice) Validate() error {
	if n.ProcessedBlobID == "" {
		return errors.New("delivery notice: missing processed_fid")
	}
	if n.Requester == "" {
		return errors.New("delivery notice: missing username")
	}
	return nil
}

// DecodeDeliveryNotice parses and validates a queue B payload.
func DecodeDeliveryNotice(data []byte) (*DeliveryNotice, error) {
	var notice DeliveryNotice
	if err := json.Unmarshal(data, &notice); err != nil {
		return nil, fmt.Errorf("decode delivery notice: %w", err)
	}
	if err := notice.Validate(); err != nil {
		return nil, err
	}
	return &notice, nil
}
