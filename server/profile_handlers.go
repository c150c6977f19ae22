package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/bandmate/bandmate/db"
	errs "github.com/bandmate/bandmate/errors"
	"github.com/bandmate/bandmate/server/response"
)

// handleListProfiles serves the discover view: every profile except the
// caller's own.
func (s *Server) handleListProfiles() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := currentProfileID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("profileID not found in context", http.StatusInternalServerError))
			return
		}

		profiles, err := s.ProfileRepository.GetAllProfiles(profileID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Profiles retrieved successfully", http.StatusOK, profiles, nil)
	}
}

func (s *Server) handleGetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, err := uuid.Parse(c.Param("profileID"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid profile id"))
			return
		}

		profile, err := s.ProfileRepository.FindProfileByID(profileID)
		if err != nil {
			if pkgerrors.Is(err, db.ErrProfileNotFound) {
				respondWithError(c, errs.NotFoundError("profile not found"))
				return
			}
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Profile retrieved successfully", http.StatusOK, profile, nil)
	}
}
