package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OpenMSDQ/msdq/internal/auth"
	"github.com/OpenMSDQ/msdq/internal/workflow/model"
	"github.com/OpenMSDQ/msdq/internal/workflow/service"
	"github.com/OpenMSDQ/msdq/utils"
)

// WorkflowRouter exposes workflow initiation, listing and transition
// endpoints.
type WorkflowRouter struct {
	ws *service.WorkflowService
	ts *service.TransitionService
}

func NewWorkflowRouter(ws *service.WorkflowService, ts *service.TransitionService) *WorkflowRouter {
	return &WorkflowRouter{ws: ws, ts: ts}
}

func requireActor(c *gin.Context) (auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
	return actor, ok
}

func parseWorkflowID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("workflowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workflow ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// HandleInitiateWorkflow handles POST /api/v1/workflows
func (r *WorkflowRouter) HandleInitiateWorkflow(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req model.CreateWorkflowDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	workflow, err := r.ws.InitiateWorkflow(c.Request.Context(), &req, actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workflow)
}

// HandleListWorkflows handles GET /api/v1/workflows?offset={n}&limit={n}
func (r *WorkflowRouter) HandleListWorkflows(c *gin.Context) {
	var offset, limit *int
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			offset = &v
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = &v
		}
	}
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	workflows, err := r.ws.ListWorkflows(c.Request.Context(), finalOffset, finalLimit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflows)
}

// HandleGetWorkflow handles GET /api/v1/workflows/:workflowId
func (r *WorkflowRouter) HandleGetWorkflow(c *gin.Context) {
	workflowID, ok := parseWorkflowID(c)
	if !ok {
		return
	}

	workflow, err := r.ws.GetWorkflow(c.Request.Context(), workflowID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}

// HandleRequestTransition handles POST /api/v1/workflows/:workflowId/transitions
func (r *WorkflowRouter) HandleRequestTransition(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	workflowID, ok := parseWorkflowID(c)
	if !ok {
		return
	}

	var req model.TransitionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	workflow, err := r.ts.RequestTransition(c.Request.Context(), workflowID, req.TargetState, actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}

// HandleExtendToPlant handles POST /api/v1/workflows/:workflowId/extend
func (r *WorkflowRouter) HandleExtendToPlant(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	workflowID, ok := parseWorkflowID(c)
	if !ok {
		return
	}

	workflow, err := r.ts.ExtendToPlant(c.Request.Context(), workflowID, actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}

// HandleComplete handles POST /api/v1/workflows/:workflowId/complete
func (r *WorkflowRouter) HandleComplete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	workflowID, ok := parseWorkflowID(c)
	if !ok {
		return
	}

	workflow, err := r.ts.Complete(c.Request.Context(), workflowID, actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}
