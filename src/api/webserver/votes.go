package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/dao-governance/src/gov"
)

type Votes struct{ eng *gov.Engine }

func NewVotes(eng *gov.Engine) Votes { return Votes{eng: eng} }

func (v Votes) Cast(c *gin.Context) {
	// pointer id so proposal 0 survives the required check
	var req struct {
		ProposalID *uint64 `json:"proposalId" binding:"required"`
		Choice     string  `json:"choice" binding:"required,oneof=approve reject abstain"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := v.eng.Vote(c.GetString("addr"), *req.ProposalID, gov.Choice(req.Choice)); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
