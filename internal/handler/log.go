package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler lists the caller's audit trail.
type LogHandler struct {
	DB     *gorm.DB
	Cipher *util.Cipher
}

func NewLogHandler(db *gorm.DB, cipher *util.Cipher) *LogHandler {
	return &LogHandler{DB: db, Cipher: cipher}
}

type logResp struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *LogHandler) decode(l *models.AuditLog) logResp {
	return logResp{
		ID:        l.ID,
		Action:    h.Cipher.DecryptString(l.ActionEnc),
		Path:      h.Cipher.DecryptString(l.PathEnc),
		Method:    l.Method,
		Status:    l.Status,
		IP:        l.IP,
		UserAgent: l.UserAgent,
		CreatedAt: l.CreatedAt,
	}
}

func pageParams(c *gin.Context, defSize int) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defSize)))
	if size <= 0 || size > 100 {
		size = defSize
	}
	return page, size
}

func paginate(items []logResp, page, size int) []logResp {
	start := (page - 1) * size
	if start >= len(items) {
		return []logResp{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ListLogs supports ?page, ?page_size, ?start and ?end (YYYY-MM-DD) and a
// keyword ?q matched against the decrypted path and action.
func (h *LogHandler) ListLogs(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page, size := pageParams(c, 20)

	base := h.DB.WithContext(c.Request.Context()).Model(&models.AuditLog{}).Where("user_id = ?", user.ID)
	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid start date")
			return
		}
		base = base.Where("created_at >= ?", t)
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid end date")
			return
		}
		base = base.Where("created_at < ?", t.Add(24*time.Hour))
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		var total int64
		if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			util.Fail(c, err)
			return
		}
		var logs []models.AuditLog
		if err := base.Order("created_at DESC, id DESC").
			Limit(size).
			Offset((page - 1) * size).
			Find(&logs).Error; err != nil {
			util.Fail(c, err)
			return
		}
		items := make([]logResp, 0, len(logs))
		for i := range logs {
			items = append(items, h.decode(&logs[i]))
		}
		util.Success(c, util.Response{"items": items, "total": total, "page": page, "size": size})
		return
	}

	// path and action are encrypted, so keyword search happens after decrypting
	var logs []models.AuditLog
	if err := base.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		util.Fail(c, err)
		return
	}
	matched := make([]logResp, 0)
	for i := range logs {
		r := h.decode(&logs[i])
		if strings.Contains(strings.ToLower(r.Path), q) || strings.Contains(strings.ToLower(r.Action), q) {
			matched = append(matched, r)
		}
	}
	util.Success(c, util.Response{
		"items": paginate(matched, page, size),
		"total": len(matched),
		"page":  page,
		"size":  size,
	})
}

const cashbookPrefix = "/api/cashbook"

// ListCashbookHistory lists audit rows of cashbook mutations.
func (h *LogHandler) ListCashbookHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page, size := pageParams(c, 50)

	var logs []models.AuditLog
	if err := h.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		util.Fail(c, err)
		return
	}

	history := make([]logResp, 0)
	for i := range logs {
		r := h.decode(&logs[i])
		if strings.HasPrefix(r.Path, cashbookPrefix) {
			history = append(history, r)
		}
	}
	util.Success(c, util.Response{
		"items": paginate(history, page, size),
		"total": len(history),
		"page":  page,
		"size":  size,
	})
}
