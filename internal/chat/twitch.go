package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gempir/go-twitch-irc/v4"
)

// disconnectRetry paces Disconnect attempts while the client is still dialing;
// the client refuses to disconnect a connection it has not opened yet.
const disconnectRetry = 50 * time.Millisecond

// ircClient is the subset of *twitch.Client the source drives.
type ircClient interface {
	OnPrivateMessage(callback func(message twitch.PrivateMessage))
	Join(channels ...string)
	Connect() error
	Disconnect() error
}

// Source reads the chat of one Twitch channel anonymously.
type Source struct {
	channel string
	client  ircClient
}

// NewTwitchSource creates a read-only source for channel.
func NewTwitchSource(channel string) *Source {
	return &Source{
		channel: strings.ToLower(strings.TrimPrefix(channel, "#")),
		client:  twitch.NewAnonymousClient(),
	}
}

// Run connects and hands the text of every chat message to publish until ctx
// is done. A disconnect caused by ctx is not an error.
func (s *Source) Run(ctx context.Context, publish func(text string)) error {
	if s.channel == "" {
		return fmt.Errorf("chat channel is empty")
	}

	s.client.OnPrivateMessage(func(message twitch.PrivateMessage) {
		publish(message.Message)
	})
	s.client.Join(s.channel)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
			return
		}

		ticker := time.NewTicker(disconnectRetry)
		defer ticker.Stop()
		for s.client.Disconnect() != nil {
			select {
			case <-ticker.C:
			case <-stop:
				return
			}
		}
	}()

	log.Printf("Joining chat of %s", s.channel)
	err := s.client.Connect()
	if errors.Is(err, twitch.ErrClientDisconnected) || ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("chat connection: %w", err)
	}
	return nil
}
