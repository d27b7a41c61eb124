package notify

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/bartolomema-prog/listasbebe/internal/metrics"
	"github.com/bartolomema-prog/listasbebe/internal/model"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

// ErrExpired is returned when a push subscription is no longer valid (410 Gone).
var ErrExpired = errors.New("push subscription expired")

// Payload is the JSON sent to the push service.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Service sends web push notifications to a list owner's devices.
type Service struct {
	publicKey  string
	privateKey string
	subscriber string
	pushStore  *store.PushStore
	logger     *slog.Logger
}

// NewService creates a push service with VAPID keys. A nil service is safe
// to call and sends nothing.
func NewService(publicKey, privateKey, subscriber string, ps *store.PushStore, logger *slog.Logger) *Service {
	return &Service{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		pushStore:  ps,
		logger:     logger,
	}
}

// VAPIDPublicKey returns the VAPID public key for client-side subscription.
func (s *Service) VAPIDPublicKey() string {
	if s == nil {
		return ""
	}
	return s.publicKey
}

// NotifyClaim tells the owner's devices that a guest claimed an item.
// Expired subscriptions are pruned as they are discovered.
func (s *Service) NotifyClaim(ownerID int64, item *model.ListItem, action string) {
	if s == nil {
		return
	}

	subs, err := s.pushStore.ListByUser(ownerID)
	if err != nil {
		s.logger.Error("list push subscriptions", "error", err)
		return
	}

	payload := Payload{
		Title: "Listas Bebé",
		Body:  fmt.Sprintf("%s: %s", action, item.Name),
		Tag:   fmt.Sprintf("item-%d", item.ID),
	}

	for _, sub := range subs {
		err := s.Send(&sub, payload)
		switch {
		case errors.Is(err, ErrExpired):
			metrics.PushSendsTotal.WithLabelValues("expired").Inc()
			if err := s.pushStore.Delete(sub.ID); err != nil {
				s.logger.Error("prune expired subscription", "id", sub.ID, "error", err)
			}
		case err != nil:
			metrics.PushSendsTotal.WithLabelValues("error").Inc()
			s.logger.Warn("send push", "endpoint", sub.Endpoint, "error", err)
		default:
			metrics.PushSendsTotal.WithLabelValues("ok").Inc()
		}
	}
}

// Send sends a push notification to a single subscription.
func (s *Service) Send(sub *model.PushSubscription, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotification(data, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		Subscriber:      s.subscriber,
		TTL:             86400,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		return ErrExpired
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}

	return nil
}

// GenerateVAPIDKeys generates a new ECDSA P-256 key pair for VAPID.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate ECDSA key: %w", err)
	}

	pubBytes := elliptic.Marshal(elliptic.P256(), key.PublicKey.X, key.PublicKey.Y)
	publicKey = base64.RawURLEncoding.EncodeToString(pubBytes)
	privateKey = base64.RawURLEncoding.EncodeToString(key.D.Bytes())

	return publicKey, privateKey, nil
}
