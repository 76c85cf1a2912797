package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/stake-plus/dao-governance/src/gov"
)

type Org struct {
	eng       *gov.Engine
	sanitizer *bluemonday.Policy
}

func NewOrg(eng *gov.Engine) Org {
	return Org{eng: eng, sanitizer: bluemonday.StrictPolicy()}
}

func (o Org) Init(c *gin.Context) {
	var req struct {
		Kind        string `json:"kind" binding:"required,oneof=standard guild hybrid"`
		Name        string `json:"name" binding:"required,max=128"`
		Description string `json:"description" binding:"max=4000"`
		ImageURL    string `json:"imageUrl" binding:"max=256"`
		TokenRef    string `json:"tokenRef" binding:"max=256"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	in := gov.InitInput{
		Kind:        gov.OrgKind(req.Kind),
		Name:        o.sanitizer.Sanitize(req.Name),
		Description: o.sanitizer.Sanitize(req.Description),
		ImageURL:    req.ImageURL,
		TokenRef:    req.TokenRef,
	}
	if err := o.eng.InitOrganization(c.GetString("addr"), in); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (o Org) Get(c *gin.Context) {
	org, err := o.eng.Organization()
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (o Org) SetFloors(c *gin.Context) {
	var req struct {
		AdminFloor      *uint64 `json:"adminFloor"`
		SuperAdminFloor *uint64 `json:"superAdminFloor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if req.AdminFloor == nil && req.SuperAdminFloor == nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "nothing to update"})
		return
	}

	addr := c.GetString("addr")
	if req.AdminFloor != nil {
		if err := o.eng.SetAdminFloor(addr, *req.AdminFloor); err != nil {
			httpError(c, err)
			return
		}
	}
	if req.SuperAdminFloor != nil {
		if err := o.eng.SetSuperAdminFloor(addr, *req.SuperAdminFloor); err != nil {
			httpError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}
