package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
	"github.com/OpenMSDQ/msdq/internal/workflow/service"
)

// QueryRouter exposes query lifecycle endpoints.
type QueryRouter struct {
	qs *service.QueryService
}

func NewQueryRouter(qs *service.QueryService) *QueryRouter {
	return &QueryRouter{qs: qs}
}

func parseQueryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("queryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// HandleRaiseQuery handles POST /api/v1/workflows/:workflowId/queries
func (r *QueryRouter) HandleRaiseQuery(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	workflowID, ok := parseWorkflowID(c)
	if !ok {
		return
	}

	var req model.RaiseQueryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	query, err := r.qs.RaiseQuery(c.Request.Context(), workflowID, &req, actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, query)
}

// HandleListWorkflowQueries handles GET /api/v1/workflows/:workflowId/queries
func (r *QueryRouter) HandleListWorkflowQueries(c *gin.Context) {
	workflowID, ok := parseWorkflowID(c)
	if !ok {
		return
	}

	queries, err := r.qs.GetQueriesByWorkflowID(c.Request.Context(), workflowID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, queries)
}

// HandleResolveQuery handles POST /api/v1/queries/:queryId/resolve
func (r *QueryRouter) HandleResolveQuery(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	queryID, ok := parseQueryID(c)
	if !ok {
		return
	}

	var req model.ResolveQueryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	query, err := r.qs.ResolveQuery(c.Request.Context(), queryID, req.Response, actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, query)
}

// HandleReassignQuery handles POST /api/v1/queries/:queryId/reassign
func (r *QueryRouter) HandleReassignQuery(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	queryID, ok := parseQueryID(c)
	if !ok {
		return
	}

	var req model.ReassignQueryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	query, err := r.qs.ReassignQuery(c.Request.Context(), queryID, req.Team, actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, query)
}

// HandleBulkResolve handles POST /api/v1/queries/resolve-batch
// Items are resolved independently; the response carries per-item outcomes.
func (r *QueryRouter) HandleBulkResolve(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req model.BulkResolveDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	results := r.qs.ResolveQueries(c.Request.Context(), req.Items, actor.UserID)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// HandleTeamInbox handles GET /api/v1/teams/:team/queries
func (r *QueryRouter) HandleTeamInbox(c *gin.Context) {
	team := model.QueryTeam(c.Param("team"))

	queries, err := r.qs.GetTeamInbox(c.Request.Context(), team)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, queries)
}
