package app

import (
	"context"
	"errors"
	"sync"

	"heart-dimensions/internal/domain/entity"
)

// ErrXrayNotFound — маска пришла раньше снимка.
var ErrXrayNotFound = errors.New("x-ray image is not found")

// SessionService ведёт диалог измерения: снимок, затем маска.
type SessionService struct {
	users   *UserService
	measure *MeasurementService
	xrays   map[int64][]byte
	mu      sync.RWMutex
}

// NewSessionService создаёт сервис диалога измерения.
func NewSessionService(users *UserService, measure *MeasurementService) *SessionService {
	return &SessionService{
		users:   users,
		measure: measure,
		xrays:   make(map[int64][]byte),
	}
}

// Begin начинает новое измерение и забывает незаконченное.
func (s *SessionService) Begin(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.forget(userID)
	return s.users.BeginMeasure(ctx, userID, chatID)
}

// AcceptXray запоминает снимок и ждёт маску.
func (s *SessionService) AcceptXray(ctx context.Context, userID, chatID int64, xray []byte) (*entity.User, error) {
	// Храним снимок в памяти до прихода маски.
	s.mu.Lock()
	s.xrays[userID] = xray
	s.mu.Unlock()
	return s.users.SetState(ctx, userID, chatID, entity.StateAwaitingMask)
}

// AcceptMask измеряет сердце по сохранённому снимку и присланной маске.
// После вызова пользователь возвращается в главное меню, снимок забывается.
func (s *SessionService) AcceptMask(ctx context.Context, userID, chatID int64, mask []byte) (*MeasurementOutput, error) {
	if s.measure == nil {
		return nil, errors.New("measurement service is not configured")
	}

	s.mu.RLock()
	xray, ok := s.xrays[userID]
	s.mu.RUnlock()
	if !ok || len(xray) == 0 {
		return nil, ErrXrayNotFound
	}

	user, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing)
	if err != nil {
		return nil, err
	}

	out, err := s.measure.AnalyzeBytes(ctx, xray, mask, user.Resolution(s.measure.Options().ResolutionPPI))

	s.forget(userID)
	if _, serr := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); serr != nil && err == nil {
		err = serr
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Cancel отменяет измерение.
func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.forget(userID)
	return s.users.Cancel(ctx, userID, chatID)
}

func (s *SessionService) forget(userID int64) {
	s.mu.Lock()
	delete(s.xrays, userID)
	s.mu.Unlock()
}
