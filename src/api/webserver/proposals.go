package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/stake-plus/dao-governance/src/gov"
)

type Proposals struct {
	eng       *gov.Engine
	sanitizer *bluemonday.Policy
}

func NewProposals(eng *gov.Engine) Proposals {
	return Proposals{eng: eng, sanitizer: bluemonday.StrictPolicy()}
}

func (p Proposals) Create(c *gin.Context) {
	var req struct {
		Type        string `json:"type" binding:"required,max=64"`
		Action      string `json:"action" binding:"required,oneof=discussion asset_transfer token_transfer policy_update org_update"`
		Title       string `json:"title" binding:"required,max=256"`
		Description string `json:"description" binding:"max=10000"`

		Transfer *gov.TransferPayload      `json:"transfer"`
		Token    *gov.TokenTransferPayload `json:"token"`
		Policy   *gov.PolicyUpdatePayload  `json:"policy"`
		Org      *gov.OrgUpdatePayload     `json:"org"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	draft := gov.Draft{
		Type:        req.Type,
		Title:       p.sanitizer.Sanitize(req.Title),
		Description: p.sanitizer.Sanitize(req.Description),
	}
	creator := c.GetString("addr")

	var (
		id  uint64
		err error
	)
	switch gov.Action(req.Action) {
	case gov.ActionDiscussion:
		id, err = p.eng.CreateDiscussion(creator, draft)
	case gov.ActionAssetTransfer:
		if req.Transfer == nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "transfer payload required"})
			return
		}
		id, err = p.eng.CreateAssetTransfer(creator, draft, *req.Transfer)
	case gov.ActionTokenTransfer:
		if req.Token == nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "token payload required"})
			return
		}
		id, err = p.eng.CreateTokenTransfer(creator, draft, *req.Token)
	case gov.ActionPolicyUpdate:
		if req.Policy == nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "policy payload required"})
			return
		}
		id, err = p.eng.CreatePolicyUpdate(creator, draft, *req.Policy)
	case gov.ActionOrgUpdate:
		if req.Org == nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "org payload required"})
			return
		}
		id, err = p.eng.CreateOrgUpdate(creator, draft, *req.Org)
	}
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (p Proposals) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	proposals, err := p.eng.Proposals(offset, limit)
	if err != nil {
		httpError(c, err)
		return
	}
	count, err := p.eng.ProposalCount()
	if err != nil {
		httpError(c, err)
		return
	}
	next, err := p.eng.NextProposalID()
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposals": proposals,
		"count":     count,
		"nextId":    next,
	})
}

func (p Proposals) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad proposal id"})
		return
	}
	prop, err := p.eng.Proposal(id)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (p Proposals) VoteOf(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad proposal id"})
		return
	}
	rec, err := p.eng.VoteOf(id, c.Param("addr"))
	if err != nil {
		httpError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "no vote recorded"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
