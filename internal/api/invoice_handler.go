package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/sehoon/invoice-pipeline/internal/auth"
	"github.com/sehoon/invoice-pipeline/internal/blobstore"
	"github.com/sehoon/invoice-pipeline/internal/ingest"
	"github.com/sehoon/invoice-pipeline/internal/invoice"
	"github.com/sehoon/invoice-pipeline/internal/logger"
)

// maxUploadBytes caps the size of one invoice upload.
const maxUploadBytes = 10 << 20

// uploadResponse is the JSON response for an accepted upload.
type uploadResponse struct {
	InvoiceBlobID string `json:"invoice_fid"`
	Format        string `json:"format"`
}

// UploadInvoiceHandler handles POST /api/v1/invoices. The request is a
// multipart form with exactly one file field holding the invoice JSON; the
// optional "format" query parameter selects the output format.
func UploadInvoiceHandler(svc *ingest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := invoice.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		var fileCount int
		for _, headers := range r.MultipartForm.File {
			fileCount += len(headers)
		}
		if fileCount != 1 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("expected exactly one file, got %d", fileCount))
			return
		}

		var blob blobstore.Blob
		for _, headers := range r.MultipartForm.File {
			header := headers[0]
			file, err := header.Open()
			if err != nil {
				respondError(w, http.StatusBadRequest, "unreadable file")
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				respondError(w, http.StatusBadRequest, "unreadable file")
				return
			}
			blob = blobstore.Blob{
				Data:        data,
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
			}
		}

		requester := auth.IdentityFromContext(r.Context())
		blobID, err := svc.Accept(r.Context(), blob, format, requester)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Msg("upload rejected")
			respondError(w, http.StatusInternalServerError, "failed to accept invoice")
			return
		}

		respondJSON(w, http.StatusAccepted, uploadResponse{
			InvoiceBlobID: blobID,
			Format:        string(format),
		})
	}
}

// DownloadInvoiceHandler handles GET /api/v1/invoices/download?fid=<id>.
// It streams a processed artifact with its stored filename and content type.
func DownloadInvoiceHandler(processed blobstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fid := r.URL.Query().Get("fid")
		if fid == "" {
			respondError(w, http.StatusBadRequest, "fid query parameter is required")
			return
		}

		blob, err := processed.Get(r.Context(), fid)
		if err != nil {
			if errors.Is(err, blobstore.ErrNotFound) {
				respondError(w, http.StatusNotFound, "file not found")
				return
			}
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Str("fid", fid).Msg("download failed")
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		contentType := blob.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		if blob.Filename != "" {
			w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blob.Filename}))
		}
		w.WriteHeader(http.StatusOK)
		w.Write(blob.Data)
	}
}
