package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leebenson/conform"

	errs "github.com/bandmate/bandmate/errors"
	"github.com/bandmate/bandmate/models"
	"github.com/bandmate/bandmate/server/response"
)

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := currentProfileID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("profileID not found in context", http.StatusInternalServerError))
			return
		}

		var req models.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if err := conform.Strings(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		receiverID, err := uuid.Parse(req.ReceiverID)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid receiver id"))
			return
		}

		msg, err := s.MessageService.SendMessage(profileID, receiverID, req.Content)
		if err != nil {
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Message sent successfully", http.StatusCreated, msg, nil)
	}
}

func (s *Server) handleGetThread() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := currentProfileID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("profileID not found in context", http.StatusInternalServerError))
			return
		}

		counterpartID, err := uuid.Parse(c.Param("profileID"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid profile id"))
			return
		}

		msgs, err := s.MessageService.ListThread(profileID, counterpartID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Messages retrieved successfully", http.StatusOK, msgs, nil)
	}
}

func (s *Server) handleMarkMessagesRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := currentProfileID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("profileID not found in context", http.StatusInternalServerError))
			return
		}

		var req models.MarkReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		messageIDs := make([]uuid.UUID, 0, len(req.MessageIDs))
		for _, raw := range req.MessageIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid message id"))
				return
			}
			messageIDs = append(messageIDs, id)
		}

		updated, err := s.MessageService.MarkAsRead(profileID, messageIDs)
		if err != nil {
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Messages marked as read", http.StatusOK, updated, nil)
	}
}

func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, ok := currentProfileID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("profileID not found in context", http.StatusInternalServerError))
			return
		}

		summaries, err := s.MessageService.ListConversations(profileID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		response.JSON(c, "Conversations retrieved successfully", http.StatusOK, summaries, nil)
	}
}
