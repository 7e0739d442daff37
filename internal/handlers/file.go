package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-management-api/internal/constants"
	"github.com/yukikurage/event-management-api/internal/dto"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/services"
)

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

// FileHandler serves event file endpoints
type FileHandler struct {
	fileService *services.FileService
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) ListByEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	files, err := h.fileService.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFileDTOs(files))
}

// Upload stores the multipart field "arquivo" for the event
func (h *FileHandler) Upload(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxUploadSize+multipartOverhead)
	header, err := c.FormFile(constants.UploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.Respond(c, services.ErrFileTooLarge)
			return
		}
		apierrors.Respond(c, services.ErrFileRequired)
		return
	}

	content, err := header.Open()
	if err != nil {
		apierrors.Respond(c, services.ErrFileRequired)
		return
	}
	defer content.Close()

	file, err := h.fileService.Upload(c.Request.Context(), eventID, userID, services.UploadInput{
		Filename: header.Filename,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FileResponse{
		Message: "Arquivo enviado com sucesso",
		File:    dto.ToFileDTO(*file),
	})
}

func (h *FileHandler) GetFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := h.fileService.GetByID(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFileDTO(*file))
}

// Download streams the stored file with its original name
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, content, err := h.fileService.Open(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	defer content.Close()

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, file.Size, contentType, content, map[string]string{
		"Content-Disposition": `attachment; filename="` + file.Filename + `"`,
	})
}

func (h *FileHandler) DeleteFile(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "fileId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.fileService.Remove(c.Request.Context(), eventID, fileID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Arquivo removido com sucesso"})
}
