package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/dao-governance/src/gov"
)

type Policies struct{ eng *gov.Engine }

func NewPolicies(eng *gov.Engine) Policies { return Policies{eng: eng} }

func (p Policies) List(c *gin.Context) {
	types, err := p.eng.ProposalTypes()
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"policies": types})
}

func (p Policies) Get(c *gin.Context) {
	t, err := p.eng.ProposalType(c.Param("name"))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (p Policies) Upsert(c *gin.Context) {
	var req struct {
		Name               string `json:"name" binding:"required,max=64"`
		Duration           uint64 `json:"duration" binding:"required"`
		MinWeightToVote    uint64 `json:"minWeightToVote"`
		MinWeightToCreate  uint64 `json:"minWeightToCreate"`
		MinWeightToExecute uint64 `json:"minWeightToExecute"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	t := gov.ProposalType{
		Name:               req.Name,
		Duration:           req.Duration,
		MinWeightToVote:    req.MinWeightToVote,
		MinWeightToCreate:  req.MinWeightToCreate,
		MinWeightToExecute: req.MinWeightToExecute,
	}
	if err := p.eng.UpsertProposalType(c.GetString("addr"), t); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (p Policies) Remove(c *gin.Context) {
	if err := p.eng.RemoveProposalType(c.GetString("addr"), c.Param("name")); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
