package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// mapError attaches a domain sentinel to REST failures the application layer
// branches on: 403 means the bot lacks access, 404 means the entity is gone.
// Other errors pass through unchanged.
func mapError(err error) error {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Response == nil {
		return err
	}

	switch rest.Response.StatusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrForbidden, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	default:
		return err
	}
}
