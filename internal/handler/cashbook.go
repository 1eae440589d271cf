package handler

import (
	"net/http"

	"moneybook/internal/models"
	"moneybook/internal/store"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
)

// CashbookHandler serves the ledger endpoints.
type CashbookHandler struct {
	Store *store.Cashbook
}

func NewCashbookHandler(s *store.Cashbook) *CashbookHandler {
	return &CashbookHandler{Store: s}
}

type createEntryReq struct {
	Name            string      `json:"name"`
	TransactionType string      `json:"transactionType"`
	Amount          util.Amount `json:"amount"`
	Status          string      `json:"status"`
	Note            string      `json:"note" binding:"max=255"`
	Date            string      `json:"date"`
}

type updateEntryReq struct {
	Name            *string      `json:"name"`
	TransactionType *string      `json:"transactionType"`
	Amount          *util.Amount `json:"amount"`
	Status          *string      `json:"status"`
}

func (h *CashbookHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createEntryReq
	if !bindJSON(c, &req) {
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Fail(c, util.Invalid("%s", err.Error()))
		return
	}

	entry, err := h.Store.Create(c.Request.Context(), user.ID, store.EntryInput{
		Name:            req.Name,
		TransactionType: req.TransactionType,
		Amount:          req.Amount.Float(),
		Status:          req.Status,
		Note:            req.Note,
		Date:            date,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"message": "Cashbook entry created",
		"entry":   entry,
	})
}

func (h *CashbookHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	entries, err := h.Store.List(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"entries": entries,
	})
}

func (h *CashbookHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entry, err := h.Store.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"entry": entry,
	})
}

func (h *CashbookHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateEntryReq
	if !bindJSON(c, &req) {
		return
	}

	patch := store.EntryPatch{
		Name:            req.Name,
		TransactionType: req.TransactionType,
		Status:          req.Status,
	}
	if req.Amount != nil {
		amount := req.Amount.Float()
		patch.Amount = &amount
	}
	entry, err := h.Store.Update(c.Request.Context(), user.ID, id, patch)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Cashbook entry updated",
		"entry":   entry,
	})
}

func (h *CashbookHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.Delete(c.Request.Context(), user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Cashbook entry deleted",
	})
}

func (h *CashbookHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	sum, err := h.Store.Summary(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"totalCashIn":  sum.TotalCashIn,
		"totalCashOut": sum.TotalCashOut,
		"balance":      sum.Balance,
		"totalEntries": sum.TotalEntries,
	})
}

// viewEntry renders an entry for a status listing, leaving out omit.
func viewEntry(e *models.CashbookEntry, omit string) gin.H {
	out := gin.H{
		"id":              e.ID,
		"user":            e.UserID,
		"name":            e.Name,
		"transactionType": e.TransactionType,
		"cash_in":         e.CashIn,
		"cash_out":        e.CashOut,
		"status":          e.Status,
		"note":            e.Note,
		"date":            e.Date,
		"createdAt":       e.CreatedAt,
		"updatedAt":       e.UpdatedAt,
	}
	if omit != "" {
		delete(out, omit)
	}
	return out
}

// View returns a handler for one status listing, keyed as key in the reply.
func (h *CashbookHandler) View(view store.View, key, omit string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		entries, err := h.Store.View(c.Request.Context(), user.ID, view)
		if err != nil {
			util.Fail(c, err)
			return
		}
		items := make([]gin.H, 0, len(entries))
		for i := range entries {
			items = append(items, viewEntry(&entries[i], omit))
		}
		util.Success(c, util.Response{
			key: items,
		})
	}
}
