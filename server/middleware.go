package server

import (
	"net/http"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/bandmate/bandmate/db"
	errs "github.com/bandmate/bandmate/errors"
	"github.com/bandmate/bandmate/server/response"
	"github.com/bandmate/bandmate/services/jwt"
)

// Authorize resolves the acting profile from the bearer token on every
// request. Handlers never trust a caller-supplied profile id; the actor
// is always re-derived here.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		secret := s.Config.JWTSecret
		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, secret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		profileIDValue, ok := accessClaims["profile_id"].(string)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("invalid profile id claim", http.StatusUnauthorized))
			return
		}
		profileID, err := uuid.Parse(profileIDValue)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("invalid profile id claim", http.StatusUnauthorized))
			return
		}

		profile, err := s.ProfileRepository.FindProfileByID(profileID)
		if err != nil {
			if pkgerrors.Is(err, db.ErrProfileNotFound) {
				respondAndAbort(c, "profile not found", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
				return
			}
			respondAndAbort(c, "unable to find profile", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		c.Set("profile", profile)
		c.Set("profileID", profileID)
		c.Next()
	}
}

func limitRateForConnectionRequests(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
}

// keyFunc buckets rate limiting by the acting profile.
func keyFunc(c *gin.Context) string {
	profileID, ok := c.Get("profileID")
	if !ok {
		return c.ClientIP()
	}
	return profileID.(uuid.UUID).String()
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 8 {
		return authHeader[7:]
	}
	return ""
}

// currentProfileID pulls the resolved actor out of the request context.
func currentProfileID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get("profileID")
	if !ok {
		return uuid.Nil, false
	}
	profileID, ok := value.(uuid.UUID)
	return profileID, ok
}
