package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	errs "github.com/bandmate/bandmate/errors"
	"github.com/bandmate/bandmate/models"
	"github.com/bandmate/bandmate/server/response"
)

// respondWithError maps a service failure onto the response envelope.
// Domain errors carry their own status; anything else is a 500.
func respondWithError(c *gin.Context, err error) {
	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		response.JSON(c, "", domainErr.Status, nil, domainErr)
		return
	}
	response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
}

func (s *Server) handleSendConnectionRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := currentProfileID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("profileID not found in context", http.StatusInternalServerError))
			return
		}

		var req models.CreateConnectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		receiverID, err := uuid.Parse(req.ReceiverID)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid receiver id"))
			return
		}

		conn, err := s.ConnectionService.SendConnectionRequest(profileID, receiverID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Connection request sent successfully", http.StatusCreated, conn, nil)
	}
}

func (s *Server) handleUpdateConnectionStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := currentProfileID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("profileID not found in context", http.StatusInternalServerError))
			return
		}

		connectionID, err := uuid.Parse(c.Param("connectionID"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid connection id"))
			return
		}

		var req models.UpdateConnectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		conn, err := s.ConnectionService.UpdateConnectionStatus(connectionID, models.ConnectionStatus(req.Status), profileID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Connection updated successfully", http.StatusOK, conn, nil)
	}
}

func (s *Server) handleListConnections() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := currentProfileID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("profileID not found in context", http.StatusInternalServerError))
			return
		}

		conns, err := s.ConnectionService.ListConnectionsForProfile(profileID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Connections retrieved successfully", http.StatusOK, conns, nil)
	}
}
