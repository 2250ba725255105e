package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/backupfile"
	"github.com/yungbote/landcontract-backend/internal/http/response"
	"github.com/yungbote/landcontract-backend/internal/services"
)

// maxRestoreBody bounds an uploaded restore document.
const maxRestoreBody = 32 << 20

type BackupHandler struct {
	backups services.BackupService
}

func NewBackupHandler(backups services.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// GET /api/backup?compress=zstd
func (h *BackupHandler) Backup(c *gin.Context) {
	enc, err := backupfile.ParseEncoding(c.Query("compress"))
	if err != nil {
		response.RespondErr(c, badRequest(err.Error()))
		return
	}
	file, err := h.backups.Backup(c.Request.Context(), enc)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// POST /api/restore
// body: raw backup document, plain JSON or zstd
func (h *BackupHandler) Restore(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRestoreBody))
	if err != nil {
		response.RespondErr(c, badRequest("could not read restore document: "+err.Error()))
		return
	}
	sum, err := h.backups.Restore(c.Request.Context(), raw)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"restored": sum})
}
