package webhook

import (
	"context"
	"log/slog"
	"time"

	"statebot/app/config"
	"statebot/app/service/conversation"
	"statebot/app/service/processing"
	"statebot/app/service/users"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Processor reacts to state machine signals.
type Processor interface {
	HandleSignal(ctx context.Context, user *users.User, signal conversation.Signal) error
}

// Service hosts the webhook endpoint: the GET verification handshake and
// the POST receive path that fans a delivery out into per-user events.
type Service struct {
	cfg       *config.Config
	store     users.Store
	machine   *conversation.Service
	processor Processor

	app *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*users.Service](di),
		do.MustInvoke[*conversation.Service](di),
		do.MustInvoke[*processing.Service](di),
	), nil
}

func NewService(cfg *config.Config, store users.Store, machine *conversation.Service, processor Processor) *Service {
	s := &Service{
		cfg:       cfg,
		store:     store,
		machine:   machine,
		processor: processor,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app.Get("/webhook", s.handleVerify)
	s.app.Post("/webhook", s.handleReceive)

	return s
}

func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Webhook server listening", "addr", s.cfg.Server.Addr)
		return s.app.Listen(s.cfg.Server.Addr)
	})

	g.Go(func() error {
		<-ctx.Done()
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	})

	return g.Wait()
}

// handleVerify implements the platform's webhook registration handshake:
// echo the challenge when the shared secret matches, 403 otherwise.
func (s *Service) handleVerify(c *fiber.Ctx) error {
	slog.Info("Received verification request")

	if c.Query("hub.mode") == "subscribe" && c.Query("hub.challenge") != "" {
		if c.Query("hub.verify_token") != s.cfg.Messenger.VerifyToken {
			return c.Status(fiber.StatusForbidden).SendString("Verification token mismatch")
		}

		return c.SendString(c.Query("hub.challenge"))
	}

	return c.SendString("Hello world")
}

// handleReceive unpacks a delivery and dispatches each event in payload
// order. A failure in one event is logged and skipped so the rest of the
// payload still processes; the platform always gets a 200 for recognized
// payloads to avoid a redelivery storm.
func (s *Service) handleReceive(c *fiber.Ctx) error {
	results, err := ParsePayload(c.Body())
	if err != nil {
		slog.Warn("Received an invalid payload on the webhook endpoint", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Server Error")
	}

	for _, result := range results {
		if result.Err != nil {
			slog.Warn("Skipping malformed event", "error", result.Err)
			continue
		}

		if err := s.dispatch(c.UserContext(), result.Event); err != nil {
			slog.Error("Failed to process event",
				"sender_id", result.Event.SenderID,
				"error", err)
		}
	}

	return c.SendString("OK")
}

func (s *Service) dispatch(ctx context.Context, event conversation.InboundEvent) error {
	user, release := s.store.GetOrCreate(users.PlatformFacebook, event.SenderID)
	defer release()

	signal := s.machine.Transition(user, event)
	if signal == conversation.SignalNone {
		return nil
	}

	return s.processor.HandleSignal(ctx, user, signal)
}
