package endpoints

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/http/api"
	"github.com/nbu-it/website-backend/internal/http/api/admin/content/packets"
	"github.com/nbu-it/website-backend/internal/model"
	"github.com/nbu-it/website-backend/internal/storage"
)

// allowedMIMETypes is the upload allow-list: images plus the document
// formats the site links to. Checked against the file's magic bytes, not
// its extension or declared content type.
var allowedMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// UploadModule mounts the binary asset endpoint (token required).
func UploadModule(storageSystem storage.Storage, maxSize int64) api.Module {
	ctl := &UploadController{storage: storageSystem, maxSize: maxSize}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/upload", ctl.upload)
	})
}

type UploadController struct {
	storage storage.Storage
	maxSize int64
}

// POST /api/upload
//
// Stores one file and returns its retrieval URL. The URL is saved by the
// admin UI as a plain string field on another record; deleting that record
// later does not delete the asset.
// multipartOverhead is headroom over the file cap for boundaries and part
// headers, so a file just under the limit still parses.
const multipartOverhead = 4 << 10

func (c *UploadController) upload(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	// cap the body before multipart parsing buffers it
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxSize+multipartOverhead)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		if bodyTooLarge(err) {
			log.Warn().Str("path", ctx.FullPath()).Msg("upload rejected: body over transport cap")
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file exceeds the maximum allowed size"}
		}
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "no file uploaded"}
	}

	if fileHeader.Size > c.maxSize {
		log.Warn().Int64("size", fileHeader.Size).Str("file", fileHeader.Filename).Msg("upload rejected: too large")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file exceeds the maximum allowed size"}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not read uploaded file"}
	}
	mtype, err := mimetype.DetectReader(src)
	src.Close()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not read uploaded file"}
	}
	if !typeAllowed(mtype) {
		log.Warn().Str("detected", mtype.String()).Str("file", fileHeader.Filename).Msg("upload rejected: type not allowed")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file type not allowed"}
	}

	url, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("file", fileHeader.Filename).Msg("upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	return packets.UploadResponse{
		Success:      true,
		Filename:     path.Base(url),
		URL:          url,
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
	}, nil
}

// bodyTooLarge recognizes the MaxBytesReader limit error; the multipart
// parser has not always wrapped it, so the message is matched as a fallback.
func bodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large")
}

func typeAllowed(mtype *mimetype.MIME) bool {
	for _, allowed := range allowedMIMETypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}
