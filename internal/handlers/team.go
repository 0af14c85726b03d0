package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"team-task-manager/backend/internal/dto"
	apierrors "team-task-manager/backend/internal/errors"
	"team-task-manager/backend/internal/middleware"
	"team-task-manager/backend/internal/models"
	"team-task-manager/backend/internal/services"
)

// TeamHandler coordinates team and membership HTTP handlers.
type TeamHandler struct {
	teamService *services.TeamService
	membership  *services.MembershipService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService, membership *services.MembershipService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		membership:  membership,
	}
}

// CreateTeam creates a team; the caller becomes its first admin.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTeamRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.Create(services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams returns the teams the caller belongs to, each annotated with
// the caller's role and the creator's username.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.teamService.ListForUser(userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	teams := make([]dto.TeamWithRoleDTO, len(memberships))
	for i, m := range memberships {
		teams[i] = dto.ToTeamWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": teams,
	})
}

// GetTeam returns one team. Members only; non-members get a 403.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, role, err := h.teamService.Get(teamID, userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"team":    dto.ToTeamDTO(*team),
		"my_role": role,
	})
}

// UpdateTeam renames a team or changes its description. Team admins and
// the original creator qualify.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTeamRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.Update(teamID, userID, services.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// DeleteTeam deletes a team, cascading to its memberships and tasks.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.Delete(teamID, userID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team deleted successfully",
	})
}

// ListMembers returns a team's member list. Members only.
func (h *TeamHandler) ListMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.membership.ListMembers(userID, teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToTeamMemberDTOs(members),
	})
}

// AddMember adds a user, looked up by email, to the team. Admins only.
func (h *TeamHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		MemberEmail string          `json:"member_email" binding:"required,email"`
		Role        models.TeamRole `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.membership.AddMember(userID, teamID, req.MemberEmail, req.Role)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamMemberDTO(*member))
}

// RemoveMember removes a member from the team, subject to the creator and
// last-admin self-removal guards. Admins only.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.membership.RemoveMember(userID, teamID, targetID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team member removed successfully",
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNameTaken),
		errors.Is(err, services.ErrAlreadyTeamMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotTeamMember),
		errors.Is(err, services.ErrAdminRequired),
		errors.Is(err, services.ErrTeamManageForbidden),
		errors.Is(err, services.ErrCreatorSelfRemoval),
		errors.Is(err, services.ErrLastAdminSelfRemoval):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		log.Printf("team handler: %v", err)
		apierrors.InternalError(c, "")
	}
}
