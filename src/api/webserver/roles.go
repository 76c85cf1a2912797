package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/dao-governance/src/gov"
)

type Roles struct{ eng *gov.Engine }

func NewRoles(eng *gov.Engine) Roles { return Roles{eng: eng} }

func (r Roles) List(c *gin.Context) {
	roles, err := r.eng.Roles()
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

func (r Roles) Upsert(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required,max=64"`
		Weight uint64 `json:"weight" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := r.eng.UpsertRole(c.GetString("addr"), req.Name, req.Weight); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r Roles) Remove(c *gin.Context) {
	if err := r.eng.RemoveRole(c.GetString("addr"), c.Param("name")); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
