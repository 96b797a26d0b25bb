package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ytmusicbot/internal/logger"
	"ytmusicbot/internal/pipeline"
)

// chatDelivery sends pipeline output to the chat a download button was
// pressed in.
type chatDelivery struct {
	api        API
	chatID     int64
	callbackID string
	logger     *logger.Logger
}

var _ pipeline.Delivery = (*chatDelivery)(nil)

func (d *chatDelivery) Notify(text string) {
	if _, err := d.api.Request(tgbotapi.NewCallback(d.callbackID, text)); err != nil {
		d.logger.Debug("Failed to answer callback: %v", err)
	}
}

func (d *chatDelivery) SendText(text string) error {
	_, err := d.api.Send(tgbotapi.NewMessage(d.chatID, text))
	return err
}

func (d *chatDelivery) SendAudio(a pipeline.Audio) (string, error) {
	cfg := tgbotapi.NewAudio(d.chatID, tgbotapi.FilePath(a.Path))
	cfg.Title = a.Title
	cfg.Performer = a.Performer
	cfg.Duration = int(a.Duration.Seconds())
	if a.ThumbPath != "" {
		cfg.Thumb = tgbotapi.FilePath(a.ThumbPath)
	}

	msg, err := d.api.Send(cfg)
	if err != nil {
		return "", err
	}
	// Sent, but not as audio; nothing to cache.
	if msg.Audio == nil {
		d.logger.Debug("No audio in reply for %s", a.Path)
		return "", nil
	}
	return msg.Audio.FileID, nil
}

func (d *chatDelivery) SendCached(handle string) error {
	_, err := d.api.Send(tgbotapi.NewAudio(d.chatID, tgbotapi.FileID(handle)))
	return err
}
