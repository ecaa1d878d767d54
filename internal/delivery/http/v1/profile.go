package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jacquesvida12/RemindersApp/internal/services"
)

type getProfileResponse struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
}

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get user")
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, getProfileResponse{
		ID:                user.ID,
		Username:          user.Username,
		ProfilePictureURL: user.ProfilePictureURL,
		CreatedAt:         user.CreatedAt,
	})
}

func (h *handlerImpl) HandleUploadAvatar(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("no file in request")
		abort(c, newBadRequestError("no file in request"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to open uploaded file")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	defer func() { _ = file.Close() }()

	avatarURL, err := h.users.UpdateAvatar(c, services.UpdateAvatarParams{
		UserID:   userID,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update avatar")
		switch {
		case errors.Is(err, services.ErrInvalidFileType):
			abort(c, newBadRequestError(services.ErrInvalidFileType.Error()))
		case errors.Is(err, services.ErrFileTooLarge):
			abort(c, newAPIError(http.StatusRequestEntityTooLarge, services.ErrFileTooLarge.Error()))
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_picture_url": avatarURL})
}
