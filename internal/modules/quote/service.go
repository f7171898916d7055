// README: Quote service prices a request and keeps the issued cards on the session board.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freightquote/internal/modules/pricing"
)

var ErrMissingSession = errors.New("missing session")

// Pricer computes the quote for one request.
type Pricer interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (pricing.Quote, error)
}

type Options struct {
	MaxCards int
	TTL      time.Duration
}

type Service struct {
	pricer Pricer
	board  Board
	opts   Options
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

func NewService(pricer Pricer, board Board, opts Options, logger *zap.Logger) *Service {
	if opts.MaxCards <= 0 {
		opts.MaxCards = DefaultMaxCards
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if board == nil {
		board = NewMemoryBoard()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		pricer: pricer,
		board:  board,
		opts:   opts,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
}

type CalculateCommand struct {
	Request     pricing.QuoteRequest
	Origin      string
	Destination string
}

// Calculate prices the request and appends the card to the session board.
// Nothing is stored when pricing fails.
func (s *Service) Calculate(ctx context.Context, session string, cmd CalculateCommand) (Card, error) {
	if session == "" {
		return Card{}, ErrMissingSession
	}
	q, err := s.pricer.Quote(ctx, cmd.Request)
	if err != nil {
		return Card{}, err
	}
	card := Card{
		ID:          s.newID(),
		IssuedAt:    s.now().UTC(),
		Origin:      cmd.Origin,
		Destination: cmd.Destination,
		Quote:       q,
	}
	if err := s.board.Append(ctx, session, card, s.opts.MaxCards, s.opts.TTL); err != nil {
		return Card{}, fmt.Errorf("append card: %w", err)
	}
	s.logger.Info("quote issued",
		zap.String("session", session),
		zap.String("card_id", card.ID),
		zap.String("table_version", q.TableVersion))
	return card, nil
}

// List returns the session board, oldest card first.
func (s *Service) List(ctx context.Context, session string) ([]Card, error) {
	if session == "" {
		return nil, ErrMissingSession
	}
	return s.board.List(ctx, session)
}

// Clear empties the session board.
func (s *Service) Clear(ctx context.Context, session string) error {
	if session == "" {
		return ErrMissingSession
	}
	if err := s.board.Clear(ctx, session); err != nil {
		return fmt.Errorf("clear board: %w", err)
	}
	s.logger.Info("board cleared", zap.String("session", session))
	return nil
}
