package auth

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	oautherrors "github.com/go-oauth2/oauth2/v4/errors"
	"github.com/sirupsen/logrus"
)

// HandleToken handles the token endpoint for the client credentials grant
// @Summary Token Endpoint
// @Description Obtain an access token for an integration client using the client credentials grant
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Grant type: client_credentials"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param scope formData string false "Requested scope"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /api/v1/oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	grantType := c.PostForm("grant_type")
	if oauth2.GrantType(grantType) != oauth2.ClientCredentials {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType,
			"only the client_credentials grant is supported"))
		return
	}

	clientID := c.PostForm("client_id")
	clientSecret := c.PostForm("client_secret")
	if clientID == "" {
		// RFC 6749 2.3.1 also allows HTTP Basic authentication
		clientID, clientSecret, _ = c.Request.BasicAuth()
	}
	if clientID == "" || clientSecret == "" {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest,
			"client_id and client_secret are required"))
		return
	}

	ti, err := o.server.Manager.GenerateAccessToken(c.Request.Context(), oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        c.PostForm("scope"),
		Request:      c.Request,
	})
	if err != nil {
		switch {
		case errors.Is(err, oautherrors.ErrInvalidClient), errors.Is(err, ErrClientOwnerUnavailable):
			log.WithFields(logrus.Fields{"client_id": clientID, "error": err.Error()}).Warn("Client authentication failed")
			c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidClient, "client authentication failed"))
		default:
			log.WithError(err).Error("Token generation failed")
			c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("server_error", "token generation failed"))
		}
		return
	}

	log.WithFields(logrus.Fields{"client_id": clientID, "scope": ti.GetScope()}).Info("Client token issued")
	c.JSON(http.StatusOK, gin.H{
		"access_token": ti.GetAccess(),
		"token_type":   "Bearer",
		"expires_in":   int64(ti.GetAccessExpiresIn().Seconds()),
		"scope":        ti.GetScope(),
	})
}
