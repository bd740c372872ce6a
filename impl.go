package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tcetCapture/api"
	"tcetCapture/services/event"
	"tcetCapture/services/faculty"
	"tcetCapture/services/team"
	"tcetCapture/services/user"
	"tcetCapture/validator"
)

// ensure that we've conformed to the `ServerInterface` with a compile-time check
var _ api.ServerInterface = (*Server)(nil)

type Server struct {
	Gate           *validator.Gate
	UserService    user.Service
	EventService   event.Service
	FacultyService faculty.Service
	TeamService    team.Service
	// LenientArrays turns malformed tags and eventTypes into empty lists instead of a 400.
	LenientArrays bool
}

func (s *Server) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.Health{Status: "ok", Message: "TCET Capture API is running"})
}

func (s *Server) VerifyToken(c *gin.Context) {
	var req api.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, "Invalid request body", api.NewValidationError("Invalid request body", err.Error()))
		return
	}
	caller, err := s.Gate.Resolve(c.Request.Context(), req.Token)
	if err != nil {
		api.WriteError(c, "Invalid token", err)
		return
	}
	c.JSON(http.StatusOK, api.VerifyResponse{
		UID:   caller.UID,
		Email: caller.Email,
		Role:  string(caller.Role),
	})
}

func (s *Server) SetAdmin(c *gin.Context) {
	var req api.SetAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, "Invalid request body", api.NewValidationError("Invalid request body", err.Error()))
		return
	}
	if err := s.UserService.SetRole(c.Request.Context(), req.UID, req.Email, user.RoleAdmin); err != nil {
		api.WriteError(c, "Failed to set admin role", err)
		return
	}
	if caller, ok := validator.CallerFromContext(c); ok {
		log.Info().Str("by", caller.UID).Str("uid", req.UID).Msg("Admin role granted")
	}
	c.JSON(http.StatusOK, api.Message{Message: "Admin role set successfully"})
}

func (s *Server) ListEvents(c *gin.Context) {
	events, err := s.EventService.List(c.Request.Context())
	if err != nil {
		api.WriteError(c, "Failed to fetch events", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) GetEvent(c *gin.Context, id string) {
	e, err := s.EventService.Get(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, "Failed to fetch event", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) CreateEvent(c *gin.Context) {
	const failed = "Failed to create event"
	files, err := readFormFiles(c, imageFiles)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	tags, err := s.stringList(c, "tags")
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	eventTypes, err := s.stringList(c, "eventTypes")
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	date, _, err := eventDate(c)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}

	created, err := s.EventService.Create(c.Request.Context(), event.Draft{
		EventName:      c.PostForm("eventName"),
		OrganizingClub: c.PostForm("organizingClub"),
		ImageURL:       c.PostForm("imageUrl"),
		ViewPhotosLink: c.PostForm("viewPhotosLink"),
		WorksLink:      c.PostForm("worksLink"),
		Tags:           deref(tags),
		EventTypes:     deref(eventTypes),
		EventDate:      date,
		Image:          files.single("image"),
	})
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) UpdateEvent(c *gin.Context, id string) {
	const failed = "Failed to update event"
	files, err := readFormFiles(c, imageFiles)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	patch := event.Patch{
		EventName:      optional(c, "eventName"),
		OrganizingClub: optional(c, "organizingClub"),
		ViewPhotosLink: optional(c, "viewPhotosLink"),
		WorksLink:      optional(c, "worksLink"),
		Image:          files.single("image"),
	}
	if patch.Tags, err = s.stringList(c, "tags"); err != nil {
		api.WriteError(c, failed, err)
		return
	}
	if patch.EventTypes, err = s.stringList(c, "eventTypes"); err != nil {
		api.WriteError(c, failed, err)
		return
	}
	if patch.EventDate, patch.EventDateSet, err = eventDate(c); err != nil {
		api.WriteError(c, failed, err)
		return
	}

	updated, err := s.EventService.Update(c.Request.Context(), id, patch)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteEvent(c *gin.Context, id string) {
	if err := s.EventService.Delete(c.Request.Context(), id); err != nil {
		api.WriteError(c, "Failed to delete event", err)
		return
	}
	c.JSON(http.StatusOK, api.Message{Message: "Event deleted successfully"})
}

func (s *Server) ListFaculty(c *gin.Context) {
	members, err := s.FacultyService.List(c.Request.Context())
	if err != nil {
		api.WriteError(c, "Failed to fetch faculty", err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (s *Server) GetFaculty(c *gin.Context, id string) {
	m, err := s.FacultyService.Get(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, "Failed to fetch faculty member", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) CreateFaculty(c *gin.Context) {
	const failed = "Failed to create faculty member"
	files, err := readFormFiles(c, imageFiles)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	created, err := s.FacultyService.Create(c.Request.Context(), faculty.Draft{
		Name:        c.PostForm("name"),
		Role:        c.PostForm("role"),
		Description: c.PostForm("description"),
		ImageURL:    c.PostForm("imageUrl"),
		Image:       files.single("image"),
	})
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) UpdateFaculty(c *gin.Context, id string) {
	const failed = "Failed to update faculty member"
	files, err := readFormFiles(c, imageFiles)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	updated, err := s.FacultyService.Update(c.Request.Context(), id, faculty.Patch{
		Name:        optional(c, "name"),
		Role:        optional(c, "role"),
		Description: optional(c, "description"),
		Image:       files.single("image"),
	})
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteFaculty(c *gin.Context, id string) {
	if err := s.FacultyService.Delete(c.Request.Context(), id); err != nil {
		api.WriteError(c, "Failed to delete faculty member", err)
		return
	}
	c.JSON(http.StatusOK, api.Message{Message: "Faculty member deleted successfully"})
}

func (s *Server) ListTeams(c *gin.Context) {
	teams, err := s.TeamService.List(c.Request.Context())
	if err != nil {
		api.WriteError(c, "Failed to fetch teams", err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

func (s *Server) GetTeam(c *gin.Context, id string) {
	t, err := s.TeamService.Get(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, "Failed to fetch team", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) CreateTeam(c *gin.Context) {
	const failed = "Failed to create team"
	files, err := readFormFiles(c, teamFiles)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	leads, err := leadList(c)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	created, err := s.TeamService.Create(c.Request.Context(), team.Draft{
		Year:       c.PostForm("year"),
		Leads:      deref(leads),
		TeamPhoto:  files.single("teamPhoto"),
		LeadPhotos: files.leadPhotos(),
	})
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) UpdateTeam(c *gin.Context, id string) {
	const failed = "Failed to update team"
	files, err := readFormFiles(c, teamFiles)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	leads, err := leadList(c)
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	updated, err := s.TeamService.Update(c.Request.Context(), id, team.Patch{
		Year:       optional(c, "year"),
		Leads:      leads,
		TeamPhoto:  files.single("teamPhoto"),
		LeadPhotos: files.leadPhotos(),
	})
	if err != nil {
		api.WriteError(c, failed, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteTeam(c *gin.Context, id string) {
	if err := s.TeamService.Delete(c.Request.Context(), id); err != nil {
		api.WriteError(c, "Failed to delete team", err)
		return
	}
	c.JSON(http.StatusOK, api.Message{Message: "Team deleted successfully"})
}
