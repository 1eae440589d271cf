package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"moneybook/internal/models"
	"moneybook/internal/store"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BackupHandler writes, lists and restores encrypted snapshots of the
// caller's data.
type BackupHandler struct {
	Store     *store.Backups
	Cashbook  *store.Cashbook
	Cipher    *util.Cipher
	BackupDir string
}

func NewBackupHandler(s *store.Backups, cashbook *store.Cashbook, cipher *util.Cipher, backupDir string) *BackupHandler {
	return &BackupHandler{
		Store:     s,
		Cashbook:  cashbook,
		Cipher:    cipher,
		BackupDir: backupDir,
	}
}

func backupView(b *models.Backup) gin.H {
	return gin.H{
		"id":         b.ID,
		"file_name":  b.FileName,
		"size":       b.Size,
		"created_at": b.CreatedAt,
	}
}

func (h *BackupHandler) CreateBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !h.Cipher.Keyed() {
		util.Fail(c, util.Invalid("Backups are disabled: no encryption key configured"))
		return
	}
	ctx := c.Request.Context()

	snap, err := h.Store.Snapshot(ctx, user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		util.Fail(c, fmt.Errorf("encode snapshot: %w", err))
		return
	}
	enc, err := h.Cipher.Encrypt(raw)
	if err != nil {
		util.Fail(c, fmt.Errorf("encrypt snapshot: %w", err))
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Fail(c, fmt.Errorf("create backup dir: %w", err))
		return
	}
	fileName := fmt.Sprintf("backup-%d-%s.bin", user.ID, uuid.NewString())
	filePath := filepath.Join(h.BackupDir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		util.Fail(c, fmt.Errorf("write backup: %w", err))
		return
	}

	rec, err := h.Store.Record(ctx, user.ID, fileName, filePath, int64(len(enc)))
	if err != nil {
		_ = os.Remove(filePath)
		util.Fail(c, err)
		return
	}

	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"backup": backupView(rec),
		"rows":   snap.Rows(),
	})
}

func (h *BackupHandler) ListBackups(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Store.List(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, backupView(&list[i]))
	}
	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rec, err := h.Store.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", rec.FileName))
	c.File(rec.FilePath)
}

func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rec, err := h.Store.Delete(c.Request.Context(), user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := os.Remove(rec.FilePath); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("file", rec.FilePath).Warn("remove backup file")
	}
	util.Success(c, util.Response{
		"message": "Backup deleted",
	})
}

// RestoreBackup replaces the caller's data with the snapshot.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	rec, err := h.Store.Get(ctx, user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	encData, err := os.ReadFile(rec.FilePath)
	if err != nil {
		util.Fail(c, fmt.Errorf("read backup: %w", err))
		return
	}
	raw, err := h.Cipher.Decrypt(encData)
	if err != nil {
		util.Fail(c, util.Invalid("Backup file cannot be decrypted"))
		return
	}
	var snap store.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		util.Fail(c, util.Invalid("Backup file is corrupt"))
		return
	}
	if snap.UserID != 0 && snap.UserID != user.ID {
		util.Fail(c, util.Forbidden("Backup belongs to another account"))
		return
	}

	if err := h.Store.Restore(ctx, user.ID, &snap); err != nil {
		util.Fail(c, err)
		return
	}
	h.Cashbook.Invalidate(ctx, user.ID)

	util.Success(c, util.Response{
		"message": "Backup restored",
		"rows":    snap.Rows(),
	})
}
