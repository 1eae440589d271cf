package handler

import (
	"net/http"

	"moneybook/internal/store"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
)

type NotebookHandler struct {
	Store *store.Notebooks
}

func NewNotebookHandler(s *store.Notebooks) *NotebookHandler {
	return &NotebookHandler{Store: s}
}

type noteReq struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func noteInputs(notes []noteReq) []store.NoteInput {
	out := make([]store.NoteInput, 0, len(notes))
	for _, n := range notes {
		out = append(out, store.NoteInput{ID: n.ID, Title: n.Title, Content: n.Content})
	}
	return out
}

type createNotebookReq struct {
	Notebook struct {
		Heading     string `json:"heading"`
		Description string `json:"description"`
	} `json:"notebook"`
	Notes []noteReq `json:"notes"`
}

type updateNotebookReq struct {
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	Notes       []noteReq `json:"notes"`
}

func (h *NotebookHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createNotebookReq
	if !bindJSON(c, &req) {
		return
	}
	nb, err := h.Store.Create(c.Request.Context(), user.ID, req.Notebook.Heading, req.Notebook.Description, noteInputs(req.Notes))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"message":     "Notebook created",
		"newNotebook": nb,
	})
}

func (h *NotebookHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	nbs, err := h.Store.List(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"notebooks": nbs,
	})
}

func (h *NotebookHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	nb, err := h.Store.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"notebook": nb,
	})
}

func (h *NotebookHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateNotebookReq
	if !bindJSON(c, &req) {
		return
	}
	nb, err := h.Store.Update(c.Request.Context(), user.ID, id, req.Heading, req.Description, noteInputs(req.Notes))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":  "Notebook updated",
		"notebook": nb,
	})
}

func (h *NotebookHandler) Delete(c *gin.Context) {
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
		"message": "Notebook deleted",
	})
}
