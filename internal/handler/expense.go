package handler

import (
	"net/http"

	"moneybook/internal/store"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	Store *store.Expenses
}

func NewExpenseHandler(s *store.Expenses) *ExpenseHandler {
	return &ExpenseHandler{Store: s}
}

type expenseItemReq struct {
	Title  string      `json:"title"`
	Amount util.Amount `json:"amount"`
}

func (r expenseItemReq) input() store.ItemInput {
	return store.ItemInput{Title: r.Title, Amount: r.Amount.Float()}
}

type createExpenseReq struct {
	Category string           `json:"category"`
	Expense  []expenseItemReq `json:"expense"`
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createExpenseReq
	if !bindJSON(c, &req) {
		return
	}
	items := make([]store.ItemInput, 0, len(req.Expense))
	for _, it := range req.Expense {
		items = append(items, it.input())
	}

	cat, err := h.Store.Create(c.Request.Context(), user.ID, req.Category, items)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"message": "Expense created",
		"expense": cat,
	})
}

func (h *ExpenseHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cats, err := h.Store.List(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"expenses": cats,
	})
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, total, err := h.Store.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"expense":            cat,
		"expenseTotalAmount": total,
	})
}

// GetItem returns a single line item.
func (h *ExpenseHandler) GetItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := h.Store.GetItem(c.Request.Context(), user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"expensesOne": item,
	})
}

func (h *ExpenseHandler) AddItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req expenseItemReq
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.Store.AddItem(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"message": "Expense added",
		"expense": cat,
	})
}

func (h *ExpenseHandler) UpdateItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req expenseItemReq
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.Store.UpdateItem(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":     "Expense updated",
		"expensesOne": item,
	})
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
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
		"message": "Expense deleted",
	})
}

func (h *ExpenseHandler) DeleteItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteItem(c.Request.Context(), user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Expense item deleted",
	})
}
