package workflow

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/OpenMSDQ/msdq/internal/config"
	"github.com/OpenMSDQ/msdq/internal/events"
	"github.com/OpenMSDQ/msdq/internal/workflow/router"
	"github.com/OpenMSDQ/msdq/internal/workflow/service"
)

// Manager wires the workflow services, routers and the event dispatcher
// together and owns the dispatcher's lifecycle.
type Manager struct {
	store             *service.WorkflowStore
	workflowService   *service.WorkflowService
	transitionService *service.TransitionService
	queryService      *service.QueryService
	workflowRouter    *router.WorkflowRouter
	queryRouter       *router.QueryRouter
	dispatcher        *events.Dispatcher
}

// NewManager builds the workflow core on top of the database connection.
// Events flow asynchronously to the given sinks; the dispatcher starts
// immediately.
func NewManager(db *gorm.DB, cfg *config.WorkflowConfig, sinks ...events.Sink) *Manager {
	dispatcher := events.NewDispatcher(cfg.EventBufferSize, sinks...)

	store := service.NewWorkflowStore(db)
	clock := service.NewSlaClock(cfg.OverdueThresholdDays)
	transitionService := service.NewTransitionService(db, store, dispatcher)
	queryService := service.NewQueryService(db, store, transitionService, dispatcher)
	workflowService := service.NewWorkflowService(store, clock)

	m := &Manager{
		store:             store,
		workflowService:   workflowService,
		transitionService: transitionService,
		queryService:      queryService,
		workflowRouter:    router.NewWorkflowRouter(workflowService, transitionService),
		queryRouter:       router.NewQueryRouter(queryService),
		dispatcher:        dispatcher,
	}

	dispatcher.Start()
	return m
}

// RegisterRoutes mounts the workflow and query endpoints on the group.
func (m *Manager) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/workflows", m.workflowRouter.HandleInitiateWorkflow)
	rg.GET("/workflows", m.workflowRouter.HandleListWorkflows)
	rg.GET("/workflows/:workflowId", m.workflowRouter.HandleGetWorkflow)
	rg.POST("/workflows/:workflowId/transitions", m.workflowRouter.HandleRequestTransition)
	rg.POST("/workflows/:workflowId/extend", m.workflowRouter.HandleExtendToPlant)
	rg.POST("/workflows/:workflowId/complete", m.workflowRouter.HandleComplete)

	rg.POST("/workflows/:workflowId/queries", m.queryRouter.HandleRaiseQuery)
	rg.GET("/workflows/:workflowId/queries", m.queryRouter.HandleListWorkflowQueries)
	rg.POST("/queries/:queryId/resolve", m.queryRouter.HandleResolveQuery)
	rg.POST("/queries/:queryId/reassign", m.queryRouter.HandleReassignQuery)
	rg.POST("/queries/resolve-batch", m.queryRouter.HandleBulkResolve)
	rg.GET("/teams/:team/queries", m.queryRouter.HandleTeamInbox)
}

// Stop shuts the event dispatcher down.
func (m *Manager) Stop() {
	m.dispatcher.Stop()
}
