package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/health)
	GetHealth(c *gin.Context)
	// (POST /api/auth/verify)
	VerifyToken(c *gin.Context)
	// (POST /api/auth/set-admin)
	SetAdmin(c *gin.Context)

	// (GET /api/events)
	ListEvents(c *gin.Context)
	// (GET /api/events/{id})
	GetEvent(c *gin.Context, id string)
	// (POST /api/events)
	CreateEvent(c *gin.Context)
	// (PUT /api/events/{id})
	UpdateEvent(c *gin.Context, id string)
	// (DELETE /api/events/{id})
	DeleteEvent(c *gin.Context, id string)

	// (GET /api/faculty)
	ListFaculty(c *gin.Context)
	// (GET /api/faculty/{id})
	GetFaculty(c *gin.Context, id string)
	// (POST /api/faculty)
	CreateFaculty(c *gin.Context)
	// (PUT /api/faculty/{id})
	UpdateFaculty(c *gin.Context, id string)
	// (DELETE /api/faculty/{id})
	DeleteFaculty(c *gin.Context, id string)

	// (GET /api/teams)
	ListTeams(c *gin.Context)
	// (GET /api/teams/{id})
	GetTeam(c *gin.Context, id string)
	// (POST /api/teams)
	CreateTeam(c *gin.Context)
	// (PUT /api/teams/{id})
	UpdateTeam(c *gin.Context, id string)
	// (DELETE /api/teams/{id})
	DeleteTeam(c *gin.Context, id string)
}

// ServerInterfaceWrapper converts gin contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler      ServerInterface
	ErrorHandler func(*gin.Context, error, int)
}

type idHandler func(c *gin.Context, id string)

func (siw *ServerInterfaceWrapper) withID(h idHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		err := runtime.BindStyledParameterWithLocation("simple", false, "id", runtime.ParamLocationPath, c.Param("id"), &id)
		if err != nil {
			siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
			return
		}
		h(c, id)
	}
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL string
	// Admin guards every mutating operation.
	Admin gin.HandlerFunc
	// Validate checks JSON request bodies against the OpenAPI document.
	Validate     gin.HandlerFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:      si,
		ErrorHandler: errorHandler,
	}

	chain := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		result := make([]gin.HandlerFunc, 0, len(handlers))
		for _, h := range handlers {
			if h != nil {
				result = append(result, h)
			}
		}
		return result
	}
	admin := options.Admin
	base := options.BaseURL

	router.GET(base+"/api/health", si.GetHealth)
	router.POST(base+"/api/auth/verify", chain(options.Validate, si.VerifyToken)...)
	router.POST(base+"/api/auth/set-admin", chain(admin, options.Validate, si.SetAdmin)...)

	router.GET(base+"/api/events", si.ListEvents)
	router.GET(base+"/api/events/:id", wrapper.withID(si.GetEvent))
	router.POST(base+"/api/events", chain(admin, si.CreateEvent)...)
	router.PUT(base+"/api/events/:id", chain(admin, wrapper.withID(si.UpdateEvent))...)
	router.DELETE(base+"/api/events/:id", chain(admin, wrapper.withID(si.DeleteEvent))...)

	router.GET(base+"/api/faculty", si.ListFaculty)
	router.GET(base+"/api/faculty/:id", wrapper.withID(si.GetFaculty))
	router.POST(base+"/api/faculty", chain(admin, si.CreateFaculty)...)
	router.PUT(base+"/api/faculty/:id", chain(admin, wrapper.withID(si.UpdateFaculty))...)
	router.DELETE(base+"/api/faculty/:id", chain(admin, wrapper.withID(si.DeleteFaculty))...)

	router.GET(base+"/api/teams", si.ListTeams)
	router.GET(base+"/api/teams/:id", wrapper.withID(si.GetTeam))
	router.POST(base+"/api/teams", chain(admin, si.CreateTeam)...)
	router.PUT(base+"/api/teams/:id", chain(admin, wrapper.withID(si.UpdateTeam))...)
	router.DELETE(base+"/api/teams/:id", chain(admin, wrapper.withID(si.DeleteTeam))...)
}
