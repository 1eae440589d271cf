package handler

import (
	"net/http"
	"strconv"

	"moneybook/internal/metrics"
	"moneybook/internal/store"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SpinHandler serves prize groups and winner draws.
type SpinHandler struct {
	Store *store.Spins
}

func NewSpinHandler(s *store.Spins) *SpinHandler {
	return &SpinHandler{Store: s}
}

type participantReq struct {
	ID     uint        `json:"id"`
	Name   string      `json:"name"`
	Amount util.Amount `json:"amount"`
}

func (r participantReq) input() store.ParticipantInput {
	return store.ParticipantInput{ID: r.ID, Name: r.Name, Amount: r.Amount.Float()}
}

type spinGroupReq struct {
	Category    string           `json:"category"`
	TotalAmount util.Amount      `json:"totalAmount"`
	Users       []participantReq `json:"users"`
}

func (r spinGroupReq) participants() []store.ParticipantInput {
	out := make([]store.ParticipantInput, 0, len(r.Users))
	for _, u := range r.Users {
		out = append(out, u.input())
	}
	return out
}

func (h *SpinHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req spinGroupReq
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.Store.Create(c.Request.Context(), user.ID, req.Category, req.TotalAmount.Float(), req.participants())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"message": "Spin group created",
		"spin":    group,
	})
}

func (h *SpinHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	groups, err := h.Store.List(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"participants": groups,
	})
}

func (h *SpinHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	group, err := h.Store.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"spin": group,
	})
}

func (h *SpinHandler) AddParticipant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req participantReq
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.Store.AddParticipant(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"message": "Participant added",
		"spin":    group,
	})
}

func (h *SpinHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req spinGroupReq
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.Store.Update(c.Request.Context(), user.ID, id, req.Category, req.TotalAmount.Float(), req.participants())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Spin group updated",
		"spin":    group,
	})
}

func (h *SpinHandler) Delete(c *gin.Context) {
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
		"message": "Spin group deleted",
	})
}

func (h *SpinHandler) DeleteParticipant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	groupID, ok := paramID(c, "spinId")
	if !ok {
		return
	}
	participantID, ok := paramID(c, "spinGroupUserId")
	if !ok {
		return
	}
	group, err := h.Store.DeleteParticipant(c.Request.Context(), user.ID, groupID, participantID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Participant removed",
		"spin":    group,
	})
}

// Winner draws a winner for group :id, or records ?participant=<id> when
// the wheel was spun on the client.
func (h *SpinHandler) Winner(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var chosen uint
	if raw := c.Query("participant"); raw != "" {
		pid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || pid == 0 {
			util.Fail(c, util.Invalid("Invalid participant"))
			return
		}
		chosen = uint(pid)
	}

	res, err := h.Store.Draw(c.Request.Context(), user.ID, id, chosen)
	if err != nil {
		util.Fail(c, err)
		return
	}
	metrics.RecordDraw(chosen != 0)
	logrus.WithFields(logrus.Fields{
		"spin_group": id,
		"winner":     res.Winner.ID,
		"draws":      res.Winners,
	}).Info("spin winner recorded")

	util.Success(c, util.Response{
		"totalAmount": res.TotalAmount,
		"winnerUser":  res.Winner,
		"winners":     res.Winners,
	})
}
